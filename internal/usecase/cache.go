package usecase

import (
	"context"
	"time"

	"skillmatch/internal/domain/profile"

	"github.com/google/uuid"
)

// Cache is the read-through store shared by the session and candidate
// lookups. Implementations bypass silently when the backend is down.
type Cache interface {
	GetJSON(ctx context.Context, key string, out any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	DeleteByPattern(ctx context.Context, pattern string) error
}

type noopCache struct{}

func (noopCache) GetJSON(context.Context, string, any) (bool, error)        { return false, nil }
func (noopCache) SetJSON(context.Context, string, any, time.Duration) error { return nil }
func (noopCache) Delete(context.Context, string) error                      { return nil }
func (noopCache) DeleteByPattern(context.Context, string) error             { return nil }

func cacheOrNoop(c Cache) Cache {
	if c == nil {
		return noopCache{}
	}
	return c
}

func SessionCacheKey(userID uuid.UUID) string {
	return "session:" + userID.String()
}

// CandidatesCacheKey scopes a candidate list to the caller and, for
// employers, the job being staffed.
func CandidatesCacheKey(role profile.Role, userID, jobID uuid.UUID) string {
	return "candidates:" + string(role) + ":" + userID.String() + ":" + jobID.String()
}

func candidatesUserPattern(role profile.Role, userID uuid.UUID) string {
	return "candidates:" + string(role) + ":" + userID.String() + ":*"
}

func candidatesRolePattern(role profile.Role) string {
	return "candidates:" + string(role) + ":*"
}
