package handler

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"workconnect/internal/service"
	"workconnect/pkg/apierror"
)

var errNoFile = apierror.FieldError("file", "No file uploaded.")

type UploadHandler struct {
	responder
	service *service.UploadService
}

func NewUploadHandler(svc *service.UploadService) *UploadHandler {
	return &UploadHandler{service: svc}
}

func (h *UploadHandler) name() string { return "upload" }

func (h *UploadHandler) actions() actionSet {
	return actionSet{
		actionKey(http.MethodPost, "upload_profile_picture"): h.ProfilePicture,
		actionKey(http.MethodPost, "upload_company_logo"):    h.CompanyLogo,
	}
}

type uploadFunc func(r *http.Request, filename string, body io.Reader) (service.Upload, error)

func (h *UploadHandler) ProfilePicture(w http.ResponseWriter, r *http.Request) {
	h.handle(w, r, "Profile picture uploaded successfully.", func(r *http.Request, filename string, body io.Reader) (service.Upload, error) {
		return h.service.UploadProfilePicture(r.Context(), caller(r).UserID, filename, body)
	})
}

func (h *UploadHandler) CompanyLogo(w http.ResponseWriter, r *http.Request) {
	h.handle(w, r, "Company logo uploaded successfully.", func(r *http.Request, filename string, body io.Reader) (service.Upload, error) {
		return h.service.UploadCompanyLogo(r.Context(), caller(r).UserID, filename, body)
	})
}

func (h *UploadHandler) handle(w http.ResponseWriter, r *http.Request, message string, upload uploadFunc) {
	file, header, err := r.FormFile("file")
	if err != nil {
		if isPayloadTooLarge(err) || errors.Is(err, multipart.ErrMessageTooLarge) {
			h.writeError(w, r, apierror.New("PAYLOAD_TOO_LARGE", "Request body is too large.", "", http.StatusRequestEntityTooLarge))
			return
		}
		h.writeError(w, r, errNoFile)
		return
	}
	defer file.Close()

	if strings.TrimSpace(header.Filename) == "" || header.Size == 0 {
		h.writeError(w, r, errNoFile)
		return
	}

	result, err := upload(r, header.Filename, file)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, message, result)
}

func isPayloadTooLarge(err error) bool {
	var maxBytesErr *http.MaxBytesError
	if errors.As(err, &maxBytesErr) {
		return true
	}

	return strings.Contains(strings.ToLower(err.Error()), "request body too large")
}
