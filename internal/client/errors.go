package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"
)

var (
	ErrBadRequest   = errors.New("bad request")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
	ErrServer       = errors.New("server error")
)

// APIError is a non-2xx response from the lottery API. It unwraps to one of
// the Err* kinds above when the status has one.
type APIError struct {
	StatusCode int
	Message    string
	kind       error
}

func (e *APIError) Error() string {
	if e.kind == nil {
		return fmt.Sprintf("http %d: %s", e.StatusCode, e.Message)
	}
	return e.kind.Error() + ": " + e.Message
}

func (e *APIError) Unwrap() error {
	return e.kind
}

func mapHTTPError(resp *resty.Response) error {
	if resp.IsSuccess() {
		return nil
	}

	msg := strings.TrimSpace(string(resp.Body()))
	var body struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(resp.Body(), &body); err == nil && body.Error != "" {
		msg = body.Error
	}
	if msg == "" {
		msg = http.StatusText(resp.StatusCode())
	}

	apiErr := &APIError{StatusCode: resp.StatusCode(), Message: msg}
	switch code := resp.StatusCode(); {
	case code == http.StatusBadRequest:
		apiErr.kind = ErrBadRequest
	case code == http.StatusUnauthorized:
		apiErr.kind = ErrUnauthorized
	case code == http.StatusForbidden:
		apiErr.kind = ErrForbidden
	case code == http.StatusNotFound:
		apiErr.kind = ErrNotFound
	case code >= http.StatusInternalServerError:
		apiErr.kind = ErrServer
	}
	return apiErr
}
