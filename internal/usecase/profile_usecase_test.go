package usecase

import (
	"context"
	"testing"

	"skillmatch/internal/domain/profile"
	"skillmatch/internal/infrastructure/storage"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// fresh registers a profile that has not been through onboarding.
func fresh(w *world) uuid.UUID {
	p := w.profiles.add("", "")
	p.HasCompletedOnboarding = false
	p.FullName = ""
	w.profiles.items[p.ID] = p
	return p.ID
}

func TestProfiles_OnboardingFixesRole(t *testing.T) {
	w := newWorld(t)
	ctx := context.Background()
	id := fresh(w)

	_, err := w.candidates.GetCandidates(ctx, id, uuid.Nil)
	require.ErrorIs(t, err, ErrForbidden)

	p, err := w.profileUC.CompleteOnboarding(ctx, id, OnboardingInput{
		Role:     "Worker",
		FullName: "  Dana Dev ",
		Skills:   []string{"react", "REACT", "node.js"},
	})
	require.NoError(t, err)
	require.Equal(t, profile.RoleWorker, p.Role)
	require.Equal(t, "Dana Dev", p.FullName)
	require.Equal(t, []string{"React", "Node.js"}, p.Skills)

	_, err = w.candidates.GetCandidates(ctx, id, uuid.Nil)
	require.NoError(t, err)

	_, err = w.profileUC.CompleteOnboarding(ctx, id, OnboardingInput{Role: "employer", FullName: "Dana"})
	require.ErrorIs(t, err, ErrConflict)
}

func TestProfiles_OnboardingValidation(t *testing.T) {
	w := newWorld(t)
	id := fresh(w)

	_, err := w.profileUC.CompleteOnboarding(context.Background(), id, OnboardingInput{
		Role:        "admin",
		Skills:      []string{"Telepathy"},
		LinkedInURL: "ftp://example.org",
	})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	require.Contains(t, verr.Fields, "role")
	require.Contains(t, verr.Fields, "full_name")
	require.Contains(t, verr.Fields, "skills")
	require.Contains(t, verr.Fields, "linkedin_url")
}

func TestProfiles_PartialUpdate(t *testing.T) {
	w := newWorld(t)
	worker := w.profiles.add(profile.RoleWorker, "Dev", "Go")
	bio := "Gopher"

	p, err := w.profileUC.Update(context.Background(), worker.ID, ProfileUpdate{Bio: &bio, Languages: []string{"English", "english", " "}})
	require.NoError(t, err)
	require.Equal(t, "Gopher", p.Bio)
	require.Equal(t, "Dev", p.FullName)
	require.Equal(t, []string{"Go"}, p.Skills)
	require.Equal(t, []string{"English"}, p.Languages)
}

func TestProfiles_WorkerSkillChangeRefreshesEmployerLists(t *testing.T) {
	w := newWorld(t)
	emp := w.profiles.add(profile.RoleEmployer, "Acme")
	worker := w.profiles.add(profile.RoleWorker, "Dev", "Go")
	j := w.jobs.add(emp.ID, "Frontend", "React")

	require.Empty(t, w.workerIDs(t, emp.ID, j.ID))

	_, err := w.profileUC.Update(context.Background(), worker.ID, ProfileUpdate{Skills: []string{"Go", "React"}})
	require.NoError(t, err)
	require.Equal(t, []uuid.UUID{worker.ID}, w.workerIDs(t, emp.ID, j.ID))
}

func TestProfiles_UploadsWithoutStorage(t *testing.T) {
	w := newWorld(t)
	emp := w.profiles.add(profile.RoleEmployer, "Acme")
	worker := w.profiles.add(profile.RoleWorker, "Dev")

	_, err := w.profileUC.RequestUpload(context.Background(), emp.ID, storage.KindCV, "application/pdf", 10)
	require.ErrorIs(t, err, ErrForbidden)

	_, err = w.profileUC.RequestUpload(context.Background(), worker.ID, storage.KindCV, "application/pdf", 10)
	require.ErrorIs(t, err, ErrDataAccess)
}

type fakeUploads struct {
	confirmErr error
}

func (f fakeUploads) UploadURL(_ context.Context, kind storage.Kind, userID uuid.UUID, contentType string, _ int64) (storage.UploadInfo, error) {
	if contentType != "application/pdf" && contentType != "image/png" {
		return storage.UploadInfo{}, storage.ErrInvalidArgument
	}
	return storage.UploadInfo{UploadURL: "http://s3/put", ObjectKey: string(kind) + "/" + userID.String() + "/x"}, nil
}

func (f fakeUploads) ConfirmUpload(_ context.Context, _ storage.Kind, _ uuid.UUID, key string) (string, error) {
	if f.confirmErr != nil {
		return "", f.confirmErr
	}
	return "http://cdn/" + key, nil
}

func TestProfiles_UploadFlow(t *testing.T) {
	w := newWorld(t)
	ctx := context.Background()
	worker := w.profiles.add(profile.RoleWorker, "Dev")
	uc := NewProfileUsecase(w.sessions, w.profiles, fakeUploads{}, w.cache, nil)

	_, err := uc.RequestUpload(ctx, worker.ID, storage.KindAvatar, "image/gif", 10)
	require.ErrorIs(t, err, ErrValidation)

	info, err := uc.RequestUpload(ctx, worker.ID, storage.KindCV, "application/pdf", 10)
	require.NoError(t, err)

	p, err := uc.ConfirmUpload(ctx, worker.ID, storage.KindCV, info.ObjectKey)
	require.NoError(t, err)
	require.Equal(t, "http://cdn/"+info.ObjectKey, p.CVURL)

	p, err = uc.ConfirmUpload(ctx, worker.ID, storage.KindAvatar, "avatars/x")
	require.NoError(t, err)
	require.Equal(t, "http://cdn/avatars/x", p.AvatarURL)

	missing := NewProfileUsecase(w.sessions, w.profiles, fakeUploads{confirmErr: storage.ErrNotFound}, w.cache, nil)
	_, err = missing.ConfirmUpload(ctx, worker.ID, storage.KindAvatar, "avatars/y")
	require.ErrorIs(t, err, ErrNotFound)
}
