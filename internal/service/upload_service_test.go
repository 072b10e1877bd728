package service

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"
	"net/http"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"workconnect/internal/model"
	"workconnect/internal/storage"
)

func pngBytes(t *testing.T, width int, height int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		img.Set(x, height/2, color.RGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestUploadProfilePictureResizesAndReplaces(t *testing.T) {
	t.Parallel()

	files := &storage.MockStorage{}
	pictures := &mockPictureStore{}
	s := NewUploadService(files, pictures, pictures, 2<<20)

	var stored []byte
	pathPattern := regexp.MustCompile(`^profiles/profile_7_[0-9a-f]{16}\.png$`)
	files.On("Save", mock.MatchedBy(pathPattern.MatchString), mock.Anything).
		Run(func(args mock.Arguments) {
			stored, _ = io.ReadAll(args.Get(1).(io.Reader))
		}).
		Return(int64(1234), nil)
	pictures.On("SetProfilePicture", mock.Anything, int64(7), mock.MatchedBy(pathPattern.MatchString)).
		Return("profiles/profile_7_old.png", nil)
	files.On("Remove", "profiles/profile_7_old.png").Return(nil)

	upload, err := s.UploadProfilePicture(context.Background(), 7, "me.PNG", bytes.NewReader(pngBytes(t, 1024, 600)))

	require.NoError(t, err)
	assert.Equal(t, "/uploads/"+upload.Path, upload.URL)
	cfg, format, err := image.DecodeConfig(bytes.NewReader(stored))
	require.NoError(t, err)
	assert.Equal(t, "png", format)
	assert.Equal(t, 512, cfg.Width)
	assert.Equal(t, 300, cfg.Height)
	files.AssertExpectations(t)
	pictures.AssertExpectations(t)
}

func TestUploadRejectsBadFiles(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		filename string
		body     []byte
		maxSize  int64
	}{
		{"empty", "a.png", nil, 1 << 20},
		{"too large", "a.png", bytes.Repeat([]byte{0x89}, 2048), 1024},
		{"not an image", "a.png", []byte("#!/bin/sh\necho hi\n"), 1 << 20},
		{"extension mismatch", "a.gif", nil, 1 << 20},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			body := tc.body
			if tc.name == "extension mismatch" {
				body = pngBytes(t, 10, 10)
			}

			files := &storage.MockStorage{}
			pictures := &mockPictureStore{}
			s := NewUploadService(files, pictures, pictures, tc.maxSize)

			_, err := s.UploadProfilePicture(context.Background(), 7, tc.filename, bytes.NewReader(body))

			apiErr := requireAPIError(t, err, http.StatusUnprocessableEntity)
			assert.Contains(t, apiErr.Fields, "file")
			files.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
		})
	}
}

func TestUploadRejectsOversizedDimensions(t *testing.T) {
	t.Parallel()

	files := &storage.MockStorage{}
	pictures := &mockPictureStore{}
	s := NewUploadService(files, pictures, pictures, 8<<20)

	_, err := s.UploadProfilePicture(context.Background(), 7, "wide.png", bytes.NewReader(pngBytes(t, 4001, 1)))

	apiErr := requireAPIError(t, err, http.StatusUnprocessableEntity)
	assert.Contains(t, apiErr.Fields["file"], "4000x4000")
}

func TestUploadCompanyLogoCleansUpOnDatabaseFailure(t *testing.T) {
	t.Parallel()

	files := &storage.MockStorage{}
	logos := &mockPictureStore{}
	s := NewUploadService(files, logos, logos, 2<<20)

	pathPattern := regexp.MustCompile(`^companies/logo_4_[0-9a-f]{16}\.png$`)
	logos.On("Employer", mock.Anything, int64(20)).Return(model.EmployerProfile{EmployerID: 4}, nil)
	files.On("Save", mock.MatchedBy(pathPattern.MatchString), mock.Anything).Return(int64(99), nil)
	logos.On("SetCompanyLogo", mock.Anything, int64(20), mock.Anything).Return("", errors.New("db down"))
	files.On("Remove", mock.MatchedBy(pathPattern.MatchString)).Return(nil)

	_, err := s.UploadCompanyLogo(context.Background(), 20, "logo.png", bytes.NewReader(pngBytes(t, 64, 64)))

	require.Error(t, err)
	files.AssertExpectations(t)
}
