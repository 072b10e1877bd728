package service

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"math"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"

	"workconnect/internal/model"
	"workconnect/internal/util"
	"workconnect/pkg/apierror"
)

const (
	maxImageDimension  = 4000
	profilePictureSide = 512
)

type FileStore interface {
	Save(relPath string, r io.Reader) (int64, error)
	Remove(relPath string) error
}

type ProfilePictureStore interface {
	SetProfilePicture(ctx context.Context, userID int64, path string) (string, error)
}

type CompanyLogoStore interface {
	Employer(ctx context.Context, userID int64) (model.EmployerProfile, error)
	SetCompanyLogo(ctx context.Context, userID int64, path string) (string, error)
}

// Upload is what a stored image is reachable as.
type Upload struct {
	Path string `json:"path"`
	URL  string `json:"url"`
	Size int64  `json:"size"`
}

type UploadService struct {
	files    FileStore
	pictures ProfilePictureStore
	logos    CompanyLogoStore
	maxSize  int64
}

func NewUploadService(files FileStore, pictures ProfilePictureStore, logos CompanyLogoStore, maxSize int64) *UploadService {
	if maxSize <= 0 {
		maxSize = 2 << 20
	}
	return &UploadService{files: files, pictures: pictures, logos: logos, maxSize: maxSize}
}

type checkedImage struct {
	data     []byte
	mimeType string
	ext      string
	config   image.Config
}

func uploadError(message string) error {
	return apierror.FieldError("file", message)
}

// inspect enforces size, sniffed type, extension and dimension limits.
func (s *UploadService) inspect(filename string, r io.Reader) (checkedImage, error) {
	data, err := io.ReadAll(io.LimitReader(r, s.maxSize+1))
	if err != nil {
		return checkedImage{}, fmt.Errorf("read upload: %w", err)
	}
	if len(data) == 0 {
		return checkedImage{}, uploadError("No file uploaded.")
	}
	if int64(len(data)) > s.maxSize {
		return checkedImage{}, uploadError("File size exceeds the " + sizeLabel(s.maxSize) + " limit.")
	}

	mimeType := util.DetectMIME(data)
	if !util.IsAllowedImageMIME(mimeType) {
		return checkedImage{}, uploadError("Only JPEG, PNG, GIF and WebP images are allowed.")
	}

	ext, err := util.FileExtension(filename)
	if err != nil || !util.ExtensionMatchesMIME(ext, mimeType) {
		return checkedImage{}, uploadError("File extension does not match its content.")
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return checkedImage{}, uploadError("File is not a valid image.")
	}
	if cfg.Width <= 0 || cfg.Height <= 0 || cfg.Width > maxImageDimension || cfg.Height > maxImageDimension {
		return checkedImage{}, uploadError(fmt.Sprintf("Image dimensions must not exceed %dx%d pixels.", maxImageDimension, maxImageDimension))
	}

	return checkedImage{data: data, mimeType: mimeType, ext: util.CanonicalExtension(mimeType), config: cfg}, nil
}

func sizeLabel(n int64) string {
	if n >= 1<<20 && n%(1<<20) == 0 {
		return fmt.Sprintf("%dMB", n>>20)
	}
	return fmt.Sprintf("%dKB", max(1, n>>10))
}

// fitWithin downsizes img so its longest side is at most side pixels.
// JPEG stays JPEG; every other format is re-encoded as PNG.
func fitWithin(img checkedImage, side int) (checkedImage, error) {
	longest := max(img.config.Width, img.config.Height)
	if longest <= side {
		return img, nil
	}

	src, _, err := image.Decode(bytes.NewReader(img.data))
	if err != nil {
		return checkedImage{}, uploadError("File is not a valid image.")
	}

	scale := float64(side) / float64(longest)
	width := max(1, int(math.Round(float64(img.config.Width)*scale)))
	height := max(1, int(math.Round(float64(img.config.Height)*scale)))

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)

	var buf bytes.Buffer
	out := checkedImage{config: image.Config{Width: width, Height: height}}
	if img.mimeType == "image/jpeg" {
		err = jpeg.Encode(&buf, dst, &jpeg.Options{Quality: 90})
		out.mimeType, out.ext = "image/jpeg", ".jpg"
	} else {
		err = png.Encode(&buf, dst)
		out.mimeType, out.ext = "image/png", ".png"
	}
	if err != nil {
		return checkedImage{}, fmt.Errorf("encode resized image: %w", err)
	}
	out.data = buf.Bytes()
	return out, nil
}

func (s *UploadService) store(relPath string, img checkedImage) (Upload, error) {
	n, err := s.files.Save(relPath, bytes.NewReader(img.data))
	if err != nil {
		return Upload{}, err
	}
	return Upload{Path: relPath, URL: "/uploads/" + relPath, Size: n}, nil
}

// replace points the owner's column at the new file and removes the old one.
func (s *UploadService) replace(upload Upload, swap func() (string, error)) (Upload, error) {
	previous, err := swap()
	if err != nil {
		logBestEffort("remove orphaned upload failed", s.files.Remove(upload.Path), "path", upload.Path)
		return Upload{}, err
	}
	if previous != "" && previous != upload.Path {
		logBestEffort("remove replaced upload failed", s.files.Remove(previous), "path", previous)
	}
	return upload, nil
}

func (s *UploadService) UploadProfilePicture(ctx context.Context, userID int64, filename string, r io.Reader) (Upload, error) {
	img, err := s.inspect(filename, r)
	if err != nil {
		return Upload{}, err
	}
	if img, err = fitWithin(img, profilePictureSide); err != nil {
		return Upload{}, err
	}

	suffix, err := util.RandomHex(8)
	if err != nil {
		return Upload{}, err
	}
	upload, err := s.store(fmt.Sprintf("profiles/profile_%d_%s%s", userID, suffix, img.ext), img)
	if err != nil {
		return Upload{}, err
	}

	return s.replace(upload, func() (string, error) {
		return s.pictures.SetProfilePicture(ctx, userID, upload.Path)
	})
}

func (s *UploadService) UploadCompanyLogo(ctx context.Context, userID int64, filename string, r io.Reader) (Upload, error) {
	employer, err := s.logos.Employer(ctx, userID)
	if err != nil {
		return Upload{}, err
	}

	img, err := s.inspect(filename, r)
	if err != nil {
		return Upload{}, err
	}

	suffix, err := util.RandomHex(8)
	if err != nil {
		return Upload{}, err
	}
	upload, err := s.store(fmt.Sprintf("companies/logo_%d_%s%s", employer.EmployerID, suffix, img.ext), img)
	if err != nil {
		return Upload{}, err
	}

	return s.replace(upload, func() (string, error) {
		return s.logos.SetCompanyLogo(ctx, userID, upload.Path)
	})
}
