package models

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by the repository and service layers. Handlers
// translate these into HTTP statuses; nothing below the handlers knows
// about status codes.
var (
	ErrProductNotFound    = errors.New("product not found")
	ErrGroupNotFound      = errors.New("group not found")
	ErrBarcodeConflict    = errors.New("barcode already in use")
	ErrStorageUnavailable = errors.New("storage unavailable")
)

// InvariantError reports stored state that contradicts the membership
// bookkeeping rules, e.g. a group count that would go negative. These are
// defects, not client errors.
type InvariantError struct {
	Detail string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("invariant violation: %s", e.Detail)
}
