package executor

import "errors"

var (
	// ErrInsufficientBalance is terminal for the attempt; it is never retried.
	ErrInsufficientBalance = errors.New("insufficient balance")
	// ErrApprovalFailed means the approval transaction was rejected or reverted.
	ErrApprovalFailed = errors.New("approval failed")
	// ErrNilDescriptor rejects Execute calls without a descriptor.
	ErrNilDescriptor  = errors.New("descriptor is required")
)
