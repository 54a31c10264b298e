package token

import "fmt"

// StoreReadError marks a failure while reading claims or roles from the
// credential store. Issuance is aborted; nothing was signed.
type StoreReadError struct {
	Err error
}

func (e *StoreReadError) Error() string {
	return fmt.Sprintf("token: reading claims from store: %v", e.Err)
}

func (e *StoreReadError) Unwrap() error { return e.Err }

// SigningError marks a failure while signing or encoding the token.
type SigningError struct {
	Err error
}

func (e *SigningError) Error() string {
	return fmt.Sprintf("token: signing: %v", e.Err)
}

func (e *SigningError) Unwrap() error { return e.Err }
