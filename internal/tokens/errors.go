package tokens

import "errors"

var (
	ErrMalformed        = errors.New("token malformed")
	ErrSignatureInvalid = errors.New("token signature invalid")
	ErrExpired          = errors.New("token expired")
)

// VerificationError reports why Verify rejected a token. Reason is always one
// of ErrMalformed, ErrSignatureInvalid or ErrExpired.
type VerificationError struct {
	Reason error
	Err    error
}

func (e *VerificationError) Error() string {
	if e.Err != nil {
		return e.Reason.Error() + ": " + e.Err.Error()
	}
	return e.Reason.Error()
}

func (e *VerificationError) Is(target error) bool {
	return target == e.Reason
}

func (e *VerificationError) Unwrap() error { return e.Err }

func IsExpired(err error) bool {
	return errors.Is(err, ErrExpired)
}
