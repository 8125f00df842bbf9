package usecase

import (
	"errors"
	"fmt"
	"testing"

	"skillmatch/internal/repository"

	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	t.Parallel()

	backend := errors.New("dial tcp: connection refused")
	cases := []struct {
		name string
		in   error
		want error
	}{
		{"not found", fmt.Errorf("%w: job", repository.ErrNotFound), ErrNotFound},
		{"ownership", repository.ErrOwnership, ErrForbidden},
		{"conflict", repository.ErrConflict, ErrConflict},
		{"already classified", invalid("x", "bad"), ErrValidation},
		{"backend", backend, ErrDataAccess},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			require.ErrorIs(t, classify("op", tc.in), tc.want)
		})
	}

	require.NoError(t, classify("op", nil))
	require.ErrorIs(t, classify("op", backend), backend)
}
