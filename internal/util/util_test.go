package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0x0d, 'I', 'H', 'D', 'R'}

func TestDetectMIME(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "image/png", DetectMIME(pngHeader))
	assert.Equal(t, "image/gif", DetectMIME([]byte("GIF89a....")))
	assert.Equal(t, "text/plain", DetectMIME([]byte("hello world")))
}

func TestExtensionMatchesMIME(t *testing.T) {
	t.Parallel()

	require.True(t, ExtensionMatchesMIME(".jpg", "image/jpeg"))
	require.True(t, ExtensionMatchesMIME(" .JPEG ", "image/jpeg"))
	require.True(t, ExtensionMatchesMIME(".webp", "image/webp"))
	require.False(t, ExtensionMatchesMIME(".png", "image/jpeg"))
	require.False(t, ExtensionMatchesMIME(".svg", "image/svg+xml"))

	require.True(t, IsAllowedImageMIME("image/gif"))
	require.False(t, IsAllowedImageMIME("application/pdf"))
	assert.Equal(t, ".jpg", CanonicalExtension("image/jpeg"))
	assert.Empty(t, CanonicalExtension("text/plain"))
}

func TestFileExtension(t *testing.T) {
	t.Parallel()

	t.Run("lowercases extension", func(t *testing.T) {
		ext, err := FileExtension(" Photo.PNG ")
		require.NoError(t, err)
		assert.Equal(t, ".png", ext)
	})

	t.Run("strips directories and invisible characters", func(t *testing.T) {
		ext, err := FileExtension("C:\\Users\\juan\\avatar\u200b.jpg")
		require.NoError(t, err)
		assert.Equal(t, ".jpg", ext)
	})

	t.Run("rejects names without extension", func(t *testing.T) {
		_, err := FileExtension("avatar")
		require.Error(t, err)
		_, err = FileExtension(".png")
		require.Error(t, err)
		_, err = FileExtension("   ")
		require.Error(t, err)
	})
}

func TestRandomHex(t *testing.T) {
	t.Parallel()

	a, err := RandomHex(32)
	require.NoError(t, err)
	b, err := RandomHex(32)
	require.NoError(t, err)

	assert.Len(t, a, 64)
	assert.NotEqual(t, a, b)
}
