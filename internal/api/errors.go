package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/acornlabs/storyroom/internal/provider"
	"github.com/acornlabs/storyroom/internal/rooms"
)

type ApiError struct {
	StatusCode int    `json:"status_code"`
	Code       string `json:"code"`
	Message    string `json:"message"`
	Err        error  `json:"-"`
}

func (e *ApiError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s", e.Message, e.Err.Error())
	}

	return e.Message
}

func (e *ApiError) Unwrap() error {
	return e.Err
}

func lower(s string) string {
	return strings.ToLower(s)
}

func NewBadRequestError() *ApiError {
	return &ApiError{
		StatusCode: http.StatusBadRequest,
		Code:       "bad_request",
		Message:    lower(http.StatusText(http.StatusBadRequest)),
	}
}

func NewNotFoundError() *ApiError {
	return &ApiError{
		StatusCode: http.StatusNotFound,
		Code:       "not_found",
		Message:    lower(http.StatusText(http.StatusNotFound)),
	}
}

func NewInternalServerError(err error) *ApiError {
	return &ApiError{
		StatusCode: http.StatusInternalServerError,
		Code:       "internal_error",
		Message:    lower(http.StatusText(http.StatusInternalServerError)),
		Err:        err,
	}
}

func NewUnauthorizedError() *ApiError {
	return &ApiError{
		StatusCode: http.StatusUnauthorized,
		Code:       "unauthorized",
		Message:    lower(http.StatusText(http.StatusUnauthorized)),
	}
}

func NewMethodNotAllowedError() *ApiError {
	return &ApiError{
		StatusCode: http.StatusMethodNotAllowed,
		Code:       "method_not_allowed",
		Message:    lower(http.StatusText(http.StatusMethodNotAllowed)),
	}
}

// newRoomError maps a coordinator failure to its stable error code. Internal
// error detail never reaches the response body.
func newRoomError(err error) *ApiError {
	switch {
	case errors.Is(err, rooms.ErrRoomNotFound):
		return &ApiError{StatusCode: http.StatusNotFound, Code: "R-001", Message: "Room Not Found", Err: err}
	case errors.Is(err, rooms.ErrRoomNotAvailable):
		return &ApiError{StatusCode: http.StatusConflict, Code: "R-002", Message: "Room Not Available", Err: err}
	case errors.Is(err, rooms.ErrRoomMemberNotFound):
		return &ApiError{StatusCode: http.StatusNotFound, Code: "R-003", Message: "Room Member Not Found", Err: err}
	case errors.Is(err, rooms.ErrMemberAlreadyJoined):
		return &ApiError{StatusCode: http.StatusConflict, Code: "R-004", Message: "Room Member Already Joined", Err: err}
	case errors.Is(err, rooms.ErrMemberNotFound):
		return &ApiError{StatusCode: http.StatusNotFound, Code: "M-001", Message: "Member Not Found", Err: err}
	case errors.Is(err, rooms.ErrBookNotFound):
		return &ApiError{StatusCode: http.StatusNotFound, Code: "B-001", Message: "Book Not Found", Err: err}
	case errors.Is(err, rooms.ErrConnectionNotCreated):
		return &ApiError{StatusCode: http.StatusBadGateway, Code: "O-001", Message: "Connection Not Created", Err: err}
	case errors.Is(err, rooms.ErrSessionNotCreated):
		return &ApiError{StatusCode: http.StatusBadGateway, Code: "O-002", Message: "Session Not Created", Err: err}
	case errors.Is(err, provider.ErrUnavailable):
		return &ApiError{StatusCode: http.StatusServiceUnavailable, Code: "O-003", Message: "Provider Not Available", Err: err}
	default:
		return NewInternalServerError(err)
	}
}
