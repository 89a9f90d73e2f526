package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"tutorhub/internal/app"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

type errorBody struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorBody{Error: msg})
}

// statusFor maps service errors to HTTP statuses.
func statusFor(err error) int {
	switch {
	case app.IsValidation(err):
		return http.StatusBadRequest
	case app.IsForbidden(err):
		return http.StatusForbidden
	case app.IsNotFound(err):
		return http.StatusNotFound
	case app.IsConflict(err):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// fail writes err as a JSON error. Internal errors are logged and hidden from the caller.
func fail(w http.ResponseWriter, r *http.Request, log *logrus.Entry, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		log.WithError(err).WithFields(logrus.Fields{"method": r.Method, "path": r.URL.Path}).Error("Request failed")
		writeError(w, status, "Internal server error")
		return
	}
	writeError(w, status, err.Error())
}

var errBadRequest = errors.New("invalid request body")

// decode reads a JSON body into dst and validates it.
func decode(r *http.Request, dst any) error {
	return decodeBody(r, dst, false)
}

// decodeOptional is decode for endpoints whose body may be empty.
func decodeOptional(r *http.Request, dst any) error {
	return decodeBody(r, dst, true)
}

func decodeBody(r *http.Request, dst any, optional bool) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if optional && errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("%w: %w", app.ErrInvalidInput, errBadRequest)
	}
	if err := validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				fields = append(fields, fmt.Sprintf("%s (%s)", strings.ToLower(fe.Field()), fe.Tag()))
			}
			return fmt.Errorf("%w: %s", app.ErrInvalidInput, strings.Join(fields, ", "))
		}
		return fmt.Errorf("%w: %w", app.ErrInvalidInput, err)
	}
	return nil
}

// idParam returns the named route parameter, which must be a UUID.
func idParam(r *http.Request, name string) (string, error) {
	raw := chi.URLParam(r, name)
	if _, err := uuid.Parse(raw); err != nil {
		return "", fmt.Errorf("%w: %s must be a UUID", app.ErrInvalidInput, name)
	}
	return raw, nil
}

// idQuery is idParam for optional query parameters; absent means "".
func idQuery(r *http.Request, name string) (string, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return "", nil
	}
	if _, err := uuid.Parse(raw); err != nil {
		return "", fmt.Errorf("%w: %s must be a UUID", app.ErrInvalidInput, name)
	}
	return raw, nil
}
