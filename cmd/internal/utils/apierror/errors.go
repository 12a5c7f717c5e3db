package apierror

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// ErrorResponse abstracts all API error responses to the user.
//
// This interface does not implement `error`, since its only purpose
// is to be used for API responses and not for logging circumstances.
//
// In general, the whole ErrorResponse can be sent for serialization.
type ErrorResponse interface {
	// Code is the HTTP status code to be returned.
	Code() int
}

type APIError struct {
	Message string `json:"message"`
	Status  int    `json:"-"`
}

func (a *APIError) Code() int {
	return a.Status
}

// MarshalJSON stamps the response at serialization time, so shared
// sentinel errors still carry the moment they were sent.
func (a *APIError) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Message   string `json:"message"`
		Timestamp string `json:"timestamp"`
	}{
		Message:   a.Message,
		Timestamp: now(),
	})
}

type StructuredError struct {
	Errors map[string][]string `json:"errors"`
	Status int                 `json:"-"`
}

func (s *StructuredError) Code() int {
	return s.Status
}

func (s *StructuredError) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Errors    map[string][]string `json:"errors"`
		Timestamp string              `json:"timestamp"`
	}{
		Errors:    s.Errors,
		Timestamp: now(),
	})
}

func (s *StructuredError) Add(field, problem string) {
	s.Errors[field] = append(s.Errors[field], problem)
}

var (
	MalformedJSONError  = NewSimple(400, "Malformed JSON body")
	InternalServerError = NewSimple(500, "Internal server error")

	NotFoundError  = NewSimple(404, "Resource not found")
	InvalidIDError = NewSimple(400, "The provided ID is invalid")

	UnauthorizedError     = NewSimple(401, "Authentication required")
	InvalidAuthTokenError = NewSimple(401, "Invalid or expired auth token")

	/*
	 * Used for authentications
	 */
	EmailTakenError           = NewSimple(400, "Email already exists")
	UserNotFoundError         = NewSimple(404, "User not found")
	CredentialsMismatchError  = NewSimple(400, "Credentials mismatch")
	InvalidGoogleTokenError   = NewSimple(401, "Invalid Google ID token")
	WrongCurrentPasswordError = NewSimple(400, "Incorrect current password")

	/*
	 * Content validation
	 */
	ContentNotFoundError      = NewSimple(404, "Content not found")
	EmptyFileError            = NewSimple(400, "File is empty")
	MissingFileError          = NewSimple(400, "Missing file in form data")
	ExternalLinkDownloadError = NewSimple(400, "Cannot download external link")
	ExternalLinkSummaryError  = NewSimple(400, "Cannot summarize links")
)

func FromValidationError(err error) *StructuredError {
	var ve validator.ValidationErrors
	ok := errors.As(err, &ve)
	if !ok {
		return nil
	}

	problems := map[string][]string{}
	for _, fe := range ve {
		field := strings.ToLower(fe.Field())

		switch fe.Tag() {
		case "required":
			problems[field] = append(problems[field], "This field is required")
		case "min":
			problems[field] = append(problems[field], "Value is too short, min: "+fe.Param())
		case "max":
			problems[field] = append(problems[field], "Value is too long, max: "+fe.Param())
		case "hasupper":
			problems[field] = append(problems[field], "Value must have at least one uppercase character")
		case "haslower":
			problems[field] = append(problems[field], "Value must have at least one lowercase character")
		case "hasdigit":
			problems[field] = append(problems[field], "Value must have at least one number")
		case "hasspecial":
			problems[field] = append(problems[field], "Value must have at least one special character")
		case "email":
			problems[field] = append(problems[field], "Value must be a valid email address")
		case "url":
			problems[field] = append(problems[field], "Value must be a valid URL")

		default:
			problems[field] = append(problems[field], "Invalid value provided")
		}
	}

	return &StructuredError{
		Errors: problems,
		Status: http.StatusBadRequest,
	}
}

func NewSimple(status int, msg string, args ...any) *APIError {
	if len(args) > 0 {
		msg = fmt.Sprintf(msg, args...)
	}
	return &APIError{Status: status, Message: msg}
}

func NewForbiddenError(msg string) *APIError {
	return NewSimple(http.StatusForbidden, msg)
}

func NewInvalidFileTypeError(fileType string) *APIError {
	return NewSimple(http.StatusBadRequest, "Invalid file type: %s", fileType)
}

func NewFileTooLargeError(maxBytes int64) *APIError {
	return NewSimple(http.StatusBadRequest, "File is too large, max: %d bytes", maxBytes)
}

func NewInvalidParamTypeError(name, dataType string) *APIError {
	return NewSimple(http.StatusBadRequest, "Parameter '%s' has invalid type, expected: %s", name, dataType)
}

func now() string {
	return time.Now().UTC().Format(time.RFC3339)
}
