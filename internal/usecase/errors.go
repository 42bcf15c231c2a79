package usecase

// DomainError is a caller-correctable failure (bad input, missing consent).
// The presentation layer maps it to "fix your input".
type DomainError struct {
	Code    string
	Message string
	Details []ValidationError
}

func (e *DomainError) Error() string {
	return e.Message
}

func IsDomainError(err error) bool {
	_, ok := err.(*DomainError)
	return ok
}

// TechnicalError is an infrastructure failure (storage unreachable, write
// failed). The presentation layer maps it to "try again later".
type TechnicalError struct {
	Code    string
	Message string
}

func (e *TechnicalError) Error() string {
	return e.Message
}

func IsTechnicalError(err error) bool {
	_, ok := err.(*TechnicalError)
	return ok
}
