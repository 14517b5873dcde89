package errcodes

import (
	"fmt"
	"net/http"
)

type Error struct {
	HTTPCode int
	Message  string
	Code     string
}

func (err *Error) Error() string {
	return err.Message
}

func (err *Error) As(target interface{}) bool {
	te, ok := target.(*Error)
	if !ok {
		return false
	}
	te.HTTPCode = err.HTTPCode
	te.Message = err.Message
	te.Code = err.Code
	return true
}

func (err *Error) Is(target error) bool {
	te, ok := target.(*Error)
	if !ok {
		return false
	}
	return te.HTTPCode == err.HTTPCode &&
		te.Message == err.Message &&
		te.Code == err.Code
}

// DuplicateKey returns a 409 error for a unique-constraint violation on
// create, e.g. an ISBN or barcode that already exists.
func DuplicateKey(resource, key string) error {
	return &Error{
		http.StatusConflict,
		fmt.Sprintf("%s with key %q already exists.", resource, key),
		"duplicate_key",
	}
}

// NotFound returns a 404 error with a message indicating the given resource.
func NotFound(resource string) error {
	return &Error{
		http.StatusNotFound,
		resource + " not found.",
		"not_found",
	}
}

// ItemUnavailable returns a 409 error for an issue attempted against a copy
// that is not currently available.
func ItemUnavailable(barcode string) error {
	return &Error{
		http.StatusConflict,
		fmt.Sprintf("Item %q is not available for loan.", barcode),
		"item_unavailable",
	}
}

// NotLoaned returns a 409 error for a return attempted against a copy with no
// open loan.
func NotLoaned(barcode string) error {
	return &Error{
		http.StatusConflict,
		fmt.Sprintf("Item %q has no active loan.", barcode),
		"not_loaned",
	}
}

// Forbidden returns a 403 error with a message indicating the action is
// forbidden.
func Forbidden(action string) error {
	return &Error{
		http.StatusForbidden,
		action + " is not allowed.",
		"forbidden",
	}
}

// Unauthorized returns a 401 error.
func Unauthorized(msg string) error {
	return &Error{
		http.StatusUnauthorized,
		msg,
		"unauthorized",
	}
}

// InvalidOperation returns a 400 error for a request that is well-formed but
// nonsensical, e.g. deleting your own account.
func InvalidOperation(msg string) error {
	return &Error{
		http.StatusBadRequest,
		msg,
		"invalid_operation",
	}
}

func UnsupportedMediaType() error {
	return &Error{
		http.StatusUnsupportedMediaType,
		"Unsupported Media Type",
		"unsupported_media_type",
	}
}

func UnknownParameter(param string) error {
	return &Error{
		http.StatusUnprocessableEntity,
		fmt.Sprintf("Unknown Parameter %q", param),
		"unknown_parameter",
	}
}

func ValidationTypeError(msg string) error {
	return &Error{
		http.StatusUnprocessableEntity,
		msg,
		"validation_type_error",
	}
}

func ValidationError(msg string) error {
	return &Error{
		http.StatusUnprocessableEntity,
		msg,
		"validation_error",
	}
}

func MalformedPayload() error {
	return &Error{
		http.StatusBadRequest,
		"Malformed Payload",
		"malformed_payload",
	}
}

func EmptyRequestBody() error {
	return &Error{
		http.StatusBadRequest,
		"Request body can't be empty.",
		"empty_request_body",
	}
}
