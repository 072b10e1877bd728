package storage

import (
	"errors"
	"net/http"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"workconnect/pkg/apierror"
)

func TestPathValidatorResolvePath(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	validator, err := NewPathValidator(root)
	require.NoError(t, err)

	t.Run("relative path resolves inside root", func(t *testing.T) {
		resolved, resolveErr := validator.ResolvePath("profiles/profile_7_ab12.png")
		require.NoError(t, resolveErr)
		require.Equal(t, filepath.Join(validator.RootAbs(), "profiles", "profile_7_ab12.png"), resolved)
	})

	t.Run("leading slash and backslashes are normalized", func(t *testing.T) {
		resolved, resolveErr := validator.ResolvePath(`/companies\logo_3_ff.webp`)
		require.NoError(t, resolveErr)
		require.Equal(t, filepath.Join(validator.RootAbs(), "companies", "logo_3_ff.webp"), resolved)
	})

	t.Run("root itself is rejected", func(t *testing.T) {
		_, resolveErr := validator.ResolvePath("/")
		require.Error(t, resolveErr)
	})

	t.Run("path traversal is forbidden", func(t *testing.T) {
		_, resolveErr := validator.ResolvePath("profiles/../../etc/passwd")
		var apiErr *apierror.APIError
		require.True(t, errors.As(resolveErr, &apiErr))
		require.Equal(t, http.StatusForbidden, apiErr.HTTPStatus)
	})

	t.Run("control characters are rejected", func(t *testing.T) {
		_, resolveErr := validator.ResolvePath("profiles/a\nb.png")
		require.Error(t, resolveErr)
		_, resolveErr = validator.ResolvePath("profiles/a\x00.png")
		require.Error(t, resolveErr)
	})

	t.Run("sibling prefix is outside root", func(t *testing.T) {
		require.False(t, isWithinRoot("/srv/uploads", "/srv/uploads-old/x.png"))
		require.True(t, isWithinRoot("/srv/uploads", "/srv/uploads/x.png"))
	})
}
