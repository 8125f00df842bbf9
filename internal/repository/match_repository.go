package repository

import (
	"context"
	"fmt"

	"skillmatch/internal/database"
	"skillmatch/internal/domain/match"
	"skillmatch/internal/domain/profile"

	"github.com/google/uuid"
)

type UpsertMatchField struct {
	JobID      uuid.UUID
	WorkerID   uuid.UUID
	EmployerID uuid.UUID
	Role       profile.Role
	Status     match.Status
}

type MatchRepository interface {
	// ListForParty returns every match touching id on the given side.
	ListForParty(ctx context.Context, role profile.Role, id uuid.UUID) ([]match.Match, error)
	ListConfirmedForParty(ctx context.Context, role profile.Role, id uuid.UUID) ([]match.Match, error)
	Get(ctx context.Context, jobID, workerID uuid.UUID) (match.Match, error)
	// UpsertField writes only in.Role's status column of the (job, worker)
	// row in one statement and returns the row as stored afterwards.
	UpsertField(ctx context.Context, in UpsertMatchField) (match.Match, error)
	// ExistsConfirmedBetween reports a confirmed pair between a and b in
	// either role.
	ExistsConfirmedBetween(ctx context.Context, a, b uuid.UUID) (bool, error)
}

type PostgresMatchRepository struct {
	db database.DB
}

func NewPostgresMatchRepository(db database.DB) *PostgresMatchRepository {
	return &PostgresMatchRepository{db: db}
}

const matchColumns = `id, job_id, worker_id, employer_id, employer_status, worker_status, created_at, updated_at`

// The conflict branch assigns only the caller's column; the WHERE clause
// refuses to touch a row that belongs to another employer.
const (
	upsertEmployerStatusSQL = `INSERT INTO matches (id, job_id, worker_id, employer_id, employer_status, worker_status)
		VALUES ($1, $2, $3, $4, $5, 'pending')
		ON CONFLICT (job_id, worker_id) DO UPDATE SET
			employer_status = EXCLUDED.employer_status,
			updated_at = now()
		WHERE matches.employer_id = EXCLUDED.employer_id
		RETURNING ` + matchColumns

	upsertWorkerStatusSQL = `INSERT INTO matches (id, job_id, worker_id, employer_id, employer_status, worker_status)
		VALUES ($1, $2, $3, $4, 'pending', $5)
		ON CONFLICT (job_id, worker_id) DO UPDATE SET
			worker_status = EXCLUDED.worker_status,
			updated_at = now()
		WHERE matches.employer_id = EXCLUDED.employer_id
		RETURNING ` + matchColumns
)

func partyColumn(role profile.Role) (string, error) {
	switch role {
	case profile.RoleEmployer:
		return "employer_id", nil
	case profile.RoleWorker:
		return "worker_id", nil
	default:
		return "", fmt.Errorf("unknown role %q", role)
	}
}

func (r *PostgresMatchRepository) ListForParty(ctx context.Context, role profile.Role, id uuid.UUID) ([]match.Match, error) {
	col, err := partyColumn(role)
	if err != nil {
		return nil, err
	}
	return r.list(ctx,
		`SELECT `+matchColumns+` FROM matches WHERE `+col+` = $1 ORDER BY created_at ASC, id ASC`, id)
}

func (r *PostgresMatchRepository) ListConfirmedForParty(ctx context.Context, role profile.Role, id uuid.UUID) ([]match.Match, error) {
	col, err := partyColumn(role)
	if err != nil {
		return nil, err
	}
	return r.list(ctx,
		`SELECT `+matchColumns+` FROM matches
		 WHERE `+col+` = $1 AND employer_status = 'accepted' AND worker_status = 'accepted'
		 ORDER BY updated_at DESC, id ASC`, id)
}

func (r *PostgresMatchRepository) list(ctx context.Context, query string, args ...any) ([]match.Match, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list matches: %w", err)
	}
	defer rows.Close()

	out := make([]match.Match, 0)
	for rows.Next() {
		m, err := scanMatch(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresMatchRepository) Get(ctx context.Context, jobID, workerID uuid.UUID) (match.Match, error) {
	m, err := scanMatch(r.db.QueryRow(ctx,
		`SELECT `+matchColumns+` FROM matches WHERE job_id = $1 AND worker_id = $2`, jobID, workerID))
	if err != nil {
		if isNoRows(err) {
			return match.Match{}, fmt.Errorf("%w: match job=%s worker=%s", ErrNotFound, jobID, workerID)
		}
		return match.Match{}, err
	}
	return m, nil
}

func (r *PostgresMatchRepository) UpsertField(ctx context.Context, in UpsertMatchField) (match.Match, error) {
	if in.Status != match.StatusAccepted && in.Status != match.StatusRejected {
		return match.Match{}, match.ErrInvalidDecision
	}

	var query string
	switch in.Role {
	case profile.RoleEmployer:
		query = upsertEmployerStatusSQL
	case profile.RoleWorker:
		query = upsertWorkerStatusSQL
	default:
		return match.Match{}, fmt.Errorf("unknown role %q", in.Role)
	}

	m, err := scanMatch(r.db.QueryRow(ctx, query,
		uuid.New(), in.JobID, in.WorkerID, in.EmployerID, string(in.Status)))
	if err != nil {
		if isNoRows(err) {
			return match.Match{}, fmt.Errorf("%w: match job=%s worker=%s employer=%s",
				ErrOwnership, in.JobID, in.WorkerID, in.EmployerID)
		}
		if isForeignKeyViolation(err) {
			return match.Match{}, fmt.Errorf("%w: job=%s worker=%s", ErrNotFound, in.JobID, in.WorkerID)
		}
		return match.Match{}, err
	}
	return m, nil
}

func (r *PostgresMatchRepository) ExistsConfirmedBetween(ctx context.Context, a, b uuid.UUID) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(
			SELECT 1 FROM matches
			WHERE employer_status = 'accepted' AND worker_status = 'accepted'
			  AND ((worker_id = $1 AND employer_id = $2) OR (worker_id = $2 AND employer_id = $1))
		)`, a, b).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}

func scanMatch(row database.Row) (match.Match, error) {
	var (
		m                            match.Match
		employerStatus, workerStatus string
	)
	if err := row.Scan(&m.ID, &m.JobID, &m.WorkerID, &m.EmployerID, &employerStatus, &workerStatus, &m.CreatedAt, &m.UpdatedAt); err != nil {
		return match.Match{}, err
	}
	m.EmployerStatus = match.Status(employerStatus)
	m.WorkerStatus = match.Status(workerStatus)
	return m, nil
}
