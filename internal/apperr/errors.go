package apperr

import (
	"net/http"

	"github.com/samber/oops"
)

type Kind string

const (
	KindValidation      Kind = "validation"
	KindUnauthenticated Kind = "unauthenticated"
	KindForbidden       Kind = "forbidden"
	KindNotFound        Kind = "not_found"
	KindBadRequest      Kind = "bad_request"
	KindInternal        Kind = "internal"
)

const kindKey = "kind"

// Error codes shared across packages.
const (
	CodeUsernameRequired  = "USER_USERNAME_REQUIRED"
	CodeUsernameTooShort  = "USER_USERNAME_TOO_SHORT"
	CodeUsernameTaken     = "USER_USERNAME_TAKEN"
	CodePasswordTooLong   = "USER_PASSWORD_TOO_LONG"
	CodeInvalidLogin      = "AUTH_INVALID_CREDENTIALS"
	CodeNotAuthenticated  = "AUTH_NOT_AUTHENTICATED"
	CodeNotOwner          = "ACCESS_NOT_OWNER"
	CodeDogNameRequired   = "DOG_NAME_REQUIRED"
	CodeDogAgeNegative    = "DOG_AGE_NEGATIVE"
	CodeDogStatusInvalid  = "DOG_STATUS_INVALID"
	CodeDogFieldInvalid   = "DOG_FIELD_INVALID"
	CodeDogNotFound       = "DOG_NOT_FOUND"
	CodeBreedNotFound     = "BREED_NOT_FOUND"
	CodeBreedUnknown      = "BREED_UNKNOWN_REFERENCE"
	CodeBreedNameRequired = "BREED_NAME_REQUIRED"
	CodeUserNotFound      = "USER_NOT_FOUND"
	CodeMalformedRequest  = "REQUEST_MALFORMED"
)

func build(kind Kind, code string) oops.OopsErrorBuilder {
	return oops.Code(code).With(kindKey, string(kind))
}

func Validation(code, format string, args ...any) error {
	return build(KindValidation, code).Errorf(format, args...)
}

func Unauthenticated(code, format string, args ...any) error {
	return build(KindUnauthenticated, code).Errorf(format, args...)
}

func Forbidden(code, format string, args ...any) error {
	return build(KindForbidden, code).Errorf(format, args...)
}

func NotFound(code, format string, args ...any) error {
	return build(KindNotFound, code).Errorf(format, args...)
}

func BadRequest(code, format string, args ...any) error {
	return build(KindBadRequest, code).Errorf(format, args...)
}

// KindOf reports the taxonomy kind of err. Errors that were not built by this
// package are internal.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	oopsErr, ok := oops.AsOops(err)
	if !ok {
		return KindInternal
	}
	if kind, ok := oopsErr.Context()[kindKey].(string); ok {
		return Kind(kind)
	}
	return KindInternal
}

// CodeOf returns the oops code attached to err, or "" when there is none.
func CodeOf(err error) string {
	oopsErr, ok := oops.AsOops(err)
	if !ok {
		return ""
	}
	code, _ := oopsErr.Code().(string)
	return code
}

func Is(err error, kind Kind) bool {
	return KindOf(err) == kind
}

func StatusOf(err error) int {
	switch KindOf(err) {
	case KindValidation:
		return http.StatusUnprocessableEntity
	case KindUnauthenticated:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindBadRequest:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// Message is the caller-facing text for err. Internal errors never leak
// their cause.
func Message(err error) string {
	if KindOf(err) == KindInternal {
		return "Internal server error"
	}
	return err.Error()
}
