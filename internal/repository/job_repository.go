package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"skillmatch/internal/database"
	"skillmatch/internal/domain/job"

	"github.com/google/uuid"
)

type JobRepository interface {
	ListPublished(ctx context.Context) ([]job.Job, error)
	ListByEmployer(ctx context.Context, employerID uuid.UUID) ([]job.Job, error)
	GetByID(ctx context.Context, id uuid.UUID) (job.Job, error)
	Create(ctx context.Context, j job.Job) (job.Job, error)
	// Update, UpdateStatus and Delete only touch rows owned by j.EmployerID.
	Update(ctx context.Context, j job.Job) (job.Job, error)
	UpdateStatus(ctx context.Context, id, employerID uuid.UUID, status job.Status) (job.Job, error)
	Delete(ctx context.Context, id, employerID uuid.UUID) error
	Ping(ctx context.Context) error
}

type PostgresJobRepository struct {
	db database.DB
}

func NewPostgresJobRepository(db database.DB) *PostgresJobRepository {
	return &PostgresJobRepository{db: db}
}

const jobColumns = `id, employer_id, title, description, requirements, salary_range,
	location, work_type, status, created_at, updated_at`

func (r *PostgresJobRepository) ListPublished(ctx context.Context) ([]job.Job, error) {
	return r.list(ctx,
		`SELECT `+jobColumns+` FROM jobs WHERE status = 'published' ORDER BY created_at ASC, id ASC`)
}

func (r *PostgresJobRepository) ListByEmployer(ctx context.Context, employerID uuid.UUID) ([]job.Job, error) {
	return r.list(ctx,
		`SELECT `+jobColumns+` FROM jobs WHERE employer_id = $1 ORDER BY created_at DESC, id DESC`,
		employerID)
}

func (r *PostgresJobRepository) list(ctx context.Context, query string, args ...any) ([]job.Job, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	defer rows.Close()

	out := make([]job.Job, 0)
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, j)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresJobRepository) GetByID(ctx context.Context, id uuid.UUID) (job.Job, error) {
	j, err := scanJob(r.db.QueryRow(ctx, `SELECT `+jobColumns+` FROM jobs WHERE id = $1`, id))
	if err != nil {
		if isNoRows(err) {
			return job.Job{}, fmt.Errorf("%w: job %s", ErrNotFound, id)
		}
		return job.Job{}, err
	}
	return j, nil
}

func (r *PostgresJobRepository) Create(ctx context.Context, j job.Job) (job.Job, error) {
	reqs, salary, err := encodeJobDocs(j)
	if err != nil {
		return job.Job{}, err
	}
	if j.ID == uuid.Nil {
		j.ID = uuid.New()
	}

	row := r.db.QueryRow(ctx,
		`INSERT INTO jobs (id, employer_id, title, description, requirements, salary_range, location, work_type, status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING `+jobColumns,
		j.ID, j.EmployerID, j.Title, j.Description, reqs, salary, j.Location, string(j.WorkType), string(j.Status),
	)
	created, err := scanJob(row)
	if err != nil {
		if isForeignKeyViolation(err) {
			return job.Job{}, fmt.Errorf("%w: employer %s", ErrNotFound, j.EmployerID)
		}
		return job.Job{}, err
	}
	return created, nil
}

func (r *PostgresJobRepository) Update(ctx context.Context, j job.Job) (job.Job, error) {
	reqs, salary, err := encodeJobDocs(j)
	if err != nil {
		return job.Job{}, err
	}

	row := r.db.QueryRow(ctx,
		`UPDATE jobs SET
			title = $3, description = $4, requirements = $5, salary_range = $6,
			location = $7, work_type = $8, status = $9, updated_at = now()
		 WHERE id = $1 AND employer_id = $2
		 RETURNING `+jobColumns,
		j.ID, j.EmployerID, j.Title, j.Description, reqs, salary, j.Location, string(j.WorkType), string(j.Status),
	)
	updated, err := scanJob(row)
	if err != nil {
		if isNoRows(err) {
			return job.Job{}, fmt.Errorf("%w: job %s for employer %s", ErrNotFound, j.ID, j.EmployerID)
		}
		return job.Job{}, err
	}
	return updated, nil
}

func (r *PostgresJobRepository) UpdateStatus(ctx context.Context, id, employerID uuid.UUID, status job.Status) (job.Job, error) {
	row := r.db.QueryRow(ctx,
		`UPDATE jobs SET status = $3, updated_at = now()
		 WHERE id = $1 AND employer_id = $2
		 RETURNING `+jobColumns,
		id, employerID, string(status),
	)
	updated, err := scanJob(row)
	if err != nil {
		if isNoRows(err) {
			return job.Job{}, fmt.Errorf("%w: job %s for employer %s", ErrNotFound, id, employerID)
		}
		return job.Job{}, err
	}
	return updated, nil
}

func (r *PostgresJobRepository) Delete(ctx context.Context, id, employerID uuid.UUID) error {
	n, err := r.db.Exec(ctx, `DELETE FROM jobs WHERE id = $1 AND employer_id = $2`, id, employerID)
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: job %s for employer %s", ErrNotFound, id, employerID)
	}
	return nil
}

func (r *PostgresJobRepository) Ping(ctx context.Context) error {
	var one int
	err := r.db.QueryRow(ctx, `SELECT 1 FROM jobs LIMIT 1`).Scan(&one)
	if err != nil && !isNoRows(err) {
		return err
	}
	return nil
}

func encodeJobDocs(j job.Job) ([]byte, []byte, error) {
	reqs, err := j.Requirements.Encode()
	if err != nil {
		return nil, nil, fmt.Errorf("encode requirements: %w", err)
	}
	salary, err := json.Marshal(j.SalaryRange)
	if err != nil {
		return nil, nil, fmt.Errorf("encode salary range: %w", err)
	}
	return reqs, salary, nil
}

// scanJob decodes the JSONB documents leniently: a broken requirements
// document marks the job malformed instead of failing the whole scan.
func scanJob(row database.Row) (job.Job, error) {
	var (
		j                 job.Job
		reqRaw, salaryRaw []byte
		workType, status  string
	)
	if err := row.Scan(
		&j.ID, &j.EmployerID, &j.Title, &j.Description, &reqRaw, &salaryRaw,
		&j.Location, &workType, &status, &j.CreatedAt, &j.UpdatedAt,
	); err != nil {
		return job.Job{}, err
	}

	j.Requirements = job.DecodeRequirements(reqRaw)
	if len(salaryRaw) > 0 {
		_ = json.Unmarshal(salaryRaw, &j.SalaryRange)
	}
	j.WorkType = job.WorkType(workType)
	j.Status = job.Status(status)
	return j, nil
}
