package handler

import (
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"workconnect/internal/model"
	"workconnect/internal/session"
	"workconnect/pkg/apierror"
)

const maxJSONBody = 1 << 20

var errBadBody = apierror.BadRequest("Invalid request body.")

// decode fills dst from a JSON body or, for form posts, from the form
// fields. Form keys ending in [] and repeated keys become arrays.
func decode(r *http.Request, dst any) error {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))

	var raw []byte
	switch mediaType {
	case "application/x-www-form-urlencoded", "multipart/form-data":
		if err := r.ParseMultipartForm(8 << 20); err != nil && !errors.Is(err, http.ErrNotMultipart) {
			return errBadBody
		}
		fields := make(map[string]any, len(r.PostForm))
		for key, values := range r.PostForm {
			name, isList := strings.CutSuffix(key, "[]")
			if isList || len(values) > 1 {
				fields[name] = values
				continue
			}
			fields[name] = values[0]
		}
		encoded, err := json.Marshal(fields)
		if err != nil {
			return errBadBody
		}
		raw = encoded
	default:
		body, err := io.ReadAll(io.LimitReader(r.Body, maxJSONBody))
		if err != nil {
			return errBadBody
		}
		raw = body
	}

	if len(strings.TrimSpace(string(raw))) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return errBadBody
	}
	return nil
}

func queryInt(r *http.Request, name string) int {
	v, err := strconv.Atoi(strings.TrimSpace(r.URL.Query().Get(name)))
	if err != nil {
		return 0
	}
	return v
}

func queryInt64(r *http.Request, name string) int64 {
	v, err := strconv.ParseInt(strings.TrimSpace(r.URL.Query().Get(name)), 10, 64)
	if err != nil {
		return 0
	}
	return v
}

func queryFloat(r *http.Request, name string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(r.URL.Query().Get(name)), 64)
	if err != nil || v < 0 {
		return 0
	}
	return v
}

// caller returns the request's session. The guard has already enforced
// whatever the route requires of it.
func caller(r *http.Request) *session.Session {
	s, ok := session.FromContext(r.Context())
	if !ok {
		return &session.Session{}
	}
	return s
}

func callerRole(r *http.Request) model.Role {
	return caller(r).CurrentRole()
}
