// Package errs provides standardized error types for the application.
// It implements a consistent pattern for error creation, formatting, and
// unwrapping that is used throughout the codebase.
//
// Each error type follows the same shape:
//   - A sentinel error variable (e.g. ErrValueIsRequired) for errors.Is checks
//   - A struct type carrying error details
//   - Constructor functions with and without an underlying cause
//   - Error() for formatting and Unwrap() for classification
//
// VersionConflictError is the optimistic-concurrency member of the taxonomy:
// repository writes return it when the persisted aggregate version no longer
// matches the version the caller read. It always means "re-fetch and retry",
// never "resubmit the stale write".
package errs
