package apperrors

import "errors"

// ErrNotFound indicates that a requested customer, account or transaction could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrNotUndoable indicates an undo was requested for a transaction whose effect cannot be safely inverted.
var ErrNotUndoable = errors.New("transaction is not undoable")

// ErrNothingToUndo indicates no transaction is tracked as the most recent one.
var ErrNothingToUndo = errors.New("no recent transaction to undo")

// ErrConflict indicates the request conflicts with the current ledger state (e.g. already reversed).
var ErrConflict = errors.New("conflict with current state")

// ErrInsufficientFunds indicates a transaction would take an account past its floor or credit limit.
var ErrInsufficientFunds = errors.New("insufficient funds")

// ErrStorage indicates a record file could not be read or written.
var ErrStorage = errors.New("storage error")

// ErrUnauthorized indicates that manager credentials or a token were rejected.
var ErrUnauthorized = errors.New("unauthorized")
