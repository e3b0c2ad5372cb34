package api

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"evalgo.org/servium/internal/storage"
)

func TestAPIErrorError(t *testing.T) {
	err := &APIError{Code: 400, Message: "Bad request", Details: "name is required"}
	if got := err.Error(); got != "Bad request: name is required" {
		t.Errorf("Error() = %q", got)
	}

	err = &APIError{Code: 404, Message: "Resource not found"}
	if got := err.Error(); got != "Resource not found" {
		t.Errorf("Error() = %q", got)
	}
}

func TestStorageErrorMapping(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
	}{
		{"not found", fmt.Errorf("%w: abc", storage.ErrNotFound), http.StatusNotFound},
		{"duplicate version", fmt.Errorf("%w: 1.0.0", storage.ErrDuplicateVersion), http.StatusBadRequest},
		{"unknown field", fmt.Errorf("%w: sort_field", storage.ErrUnknownField), http.StatusBadRequest},
		{"anything else", errors.New("connection reset"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			apiErr := storageError(tt.err, "test")
			if apiErr.Code != tt.wantCode {
				t.Errorf("storageError() code = %d, want %d", apiErr.Code, tt.wantCode)
			}
		})
	}
}

func TestHTTPErrorHandler(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
	}{
		{"echo http error", echo.NewHTTPError(http.StatusForbidden, "role not granted"), http.StatusForbidden},
		{"api error", BadRequestError("Invalid size", "size out of range"), http.StatusBadRequest},
		{"generic error", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest("GET", "/", nil)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			HTTPErrorHandler(tt.err, c)

			if rec.Code != tt.wantCode {
				t.Errorf("HTTPErrorHandler() status = %d, want %d", rec.Code, tt.wantCode)
			}
			if ct := rec.Header().Get("Content-Type"); ct != "application/json; charset=UTF-8" {
				t.Errorf("HTTPErrorHandler() content type = %q", ct)
			}
		})
	}
}

func TestHTTPErrorHandlerHidesInternalDetails(t *testing.T) {
	e := echo.New()
	e.Debug = false
	req := httptest.NewRequest("GET", "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	HTTPErrorHandler(errors.New("dsn user:password@tcp"), c)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", rec.Code)
	}
	body := rec.Body.String()
	if strings.Contains(body, "dsn") || strings.Contains(body, "password") {
		t.Errorf("internal details leaked: %s", body)
	}
}
