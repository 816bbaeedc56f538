package usecase

import "errors"

// DomainError is a business outcome the operator should read verbatim.
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

func IsDomainError(err error) bool {
	var de *DomainError
	return errors.As(err, &de)
}

// TechnicalError hides a transport or decoding failure behind a generic
// message. Code is an i18n code.
type TechnicalError struct {
	Code    string
	Message string
	Err     error
}

func (e *TechnicalError) Error() string {
	return e.Message
}

func (e *TechnicalError) Unwrap() error {
	return e.Err
}

func IsTechnicalError(err error) bool {
	var te *TechnicalError
	return errors.As(err, &te)
}

// ErrorCode returns the code carried by a DomainError or TechnicalError.
func ErrorCode(err error) string {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	var te *TechnicalError
	if errors.As(err, &te) {
		return te.Code
	}
	return ""
}

var (
	ErrNotAuthenticated = &DomainError{Code: "not_authenticated", Message: "not authenticated"}
	ErrSessionExpired   = &DomainError{Code: "session_expired", Message: "session expired"}
	ErrSaveInFlight     = &DomainError{Code: "save_in_progress", Message: "save in progress"}
	ErrStaleCard        = &DomainError{Code: "stale_card", Message: "this prospect is no longer on screen"}
	ErrUnknownAction    = &DomainError{Code: "unknown_action", Message: "unknown review action"}
	ErrContactNotLoaded = &DomainError{Code: "contact_not_loaded", Message: "contact is not on the current page"}
)
