// Package apperr defines the closed set of failure kinds raised by the bot's
// internals and the single place where they are rendered into user-facing
// text. Inner components return *Error values; only the outer message
// boundary calls UserMessage.
package apperr

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Kind is the failure category carried by an Error.
type Kind int

const (
	KindUnknown Kind = iota
	KindValidation
	KindAuthorization
	KindRateLimit
	KindDatabase
	KindExternalAPI
)

// String returns a stable machine-readable code for logging.
func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindAuthorization:
		return "authorization"
	case KindRateLimit:
		return "rate_limit"
	case KindDatabase:
		return "database"
	case KindExternalAPI:
		return "external_api"
	default:
		return "unknown"
	}
}

// Error is a typed application failure. RetryAfter is set only for
// KindRateLimit, Service only for KindExternalAPI and Details only for
// KindValidation.
type Error struct {
	Kind       Kind
	Message    string
	RetryAfter time.Duration
	Service    string
	Details    []string
	Err        error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Validation creates an error carrying the collected validation messages.
func Validation(details []string) *Error {
	return &Error{Kind: KindValidation, Message: "invalid employee data", Details: details}
}

// Authorization creates an access-denied error.
func Authorization() *Error {
	return &Error{Kind: KindAuthorization, Message: "access denied"}
}

// RateLimited creates a rate-limit error with machine-readable retry timing.
func RateLimited(retryAfter time.Duration) *Error {
	return &Error{Kind: KindRateLimit, Message: "request limit exceeded", RetryAfter: retryAfter}
}

// Database wraps a storage failure.
func Database(err error) *Error {
	return &Error{Kind: KindDatabase, Message: "database operation failed", Err: err}
}

// ExternalAPI wraps a failure of a named external service.
func ExternalAPI(service string, err error) *Error {
	return &Error{Kind: KindExternalAPI, Message: "external service failed", Service: service, Err: err}
}

// UserMessage maps any error to exactly one user-facing string. Unknown and
// untyped failures map to a generic apology.
func UserMessage(err error) string {
	var appErr *Error
	if !errors.As(err, &appErr) {
		return "❌ Произошла ошибка. Попробуйте позже."
	}

	switch appErr.Kind {
	case KindValidation:
		return "Ошибка валидации: " + strings.Join(appErr.Details, "; ")
	case KindAuthorization:
		return "❌ У вас нет прав для выполнения этой операции."
	case KindRateLimit:
		seconds := int(appErr.RetryAfter.Seconds())
		if seconds < 1 {
			seconds = 1
		}
		return fmt.Sprintf("⚠️ Слишком много запросов. Попробуйте через %d секунд.", seconds)
	case KindDatabase:
		return "❌ Ошибка базы данных. Попробуйте позже."
	case KindExternalAPI:
		return fmt.Sprintf("❌ Ошибка сервиса %s. Попробуйте позже.", appErr.Service)
	default:
		return "❌ Произошла ошибка. Попробуйте позже."
	}
}
