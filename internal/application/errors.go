package application

import "errors"

// Kind classifies a service failure; handlers map it to an HTTP status.
type Kind int

const (
	KindValidation Kind = iota + 1
	KindConflict
	KindAuthentication
	KindAuthorization
	KindNotFound
	KindDependency
)

// Error is a classified service error. Err, when set, is the underlying cause.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches sentinel errors by kind and message so wrapped copies still compare equal.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && t.Message == e.Message
}

func newError(kind Kind, msg string) *Error { return &Error{Kind: kind, Message: msg} }

// Validation builds an ad-hoc validation error.
func Validation(msg string) error { return newError(KindValidation, msg) }

// dependency wraps an infrastructure failure.
func dependency(msg string, err error) error {
	return &Error{Kind: KindDependency, Message: msg, Err: err}
}

var (
	ErrInvalidEmailDomain   = newError(KindValidation, "registration is restricted to institutional emails")
	ErrMissingFields        = newError(KindValidation, "please include all fields")
	ErrMissingCredentials   = newError(KindValidation, "please provide an email and password")
	ErrInvalidToken         = newError(KindValidation, "invalid or expired verification token")
	ErrEmailTaken           = newError(KindConflict, "user with this email already exists")
	ErrInvalidCredentials   = newError(KindAuthentication, "invalid credentials")
	ErrUnauthenticated      = newError(KindAuthentication, "not authorized")
	ErrEmailNotVerified     = newError(KindAuthorization, "please verify your email before logging in")
	ErrNotOwner             = newError(KindAuthorization, "user not authorized to modify this item")
	ErrUserNotFound         = newError(KindNotFound, "user not found")
	ErrItemNotFound         = newError(KindNotFound, "item not found")
	ErrImageRequired        = newError(KindValidation, "an image is required")
	ErrInvalidStatus        = newError(KindValidation, "listing_status must be one of active, inactive, sold")
	ErrRegisteredUnnotified = newError(KindDependency, "user registered, but email could not be sent")
)

// KindOf returns the kind of err, or KindDependency for unclassified errors.
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return KindDependency
}
