package ledger

import "errors"

var (
	// ErrNotFound means no ledger file exists for the assignment yet.
	ErrNotFound = errors.New("ledger not found")

	// ErrUnknownDateColumn means the requested date label is not one of
	// the ledger's date columns. The batch is rejected before any write.
	ErrUnknownDateColumn = errors.New("date column not found in sheet")
)
