package models

import "fmt"

// ValidationError means the user's input was rejected before any network call.
// Recoverable: the user corrects the input and retries.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

// AuthError means the authentication collaborator rejected credentials or a
// sign-up request. The collaborator's message is passed through.
type AuthError struct {
	Message string
}

func (e *AuthError) Error() string { return e.Message }

// ProfileLoadError means sign-in or session restore succeeded but the profile
// record could not be resolved. Distinct from "logged out" on purpose.
type ProfileLoadError struct {
	UserID string
	Err    error
}

func (e *ProfileLoadError) Error() string {
	return fmt.Sprintf("profile for user %s could not be loaded: %v", e.UserID, e.Err)
}

func (e *ProfileLoadError) Unwrap() error { return e.Err }

// PersistenceError means a profile mutation was rejected by the backing store.
type PersistenceError struct {
	Err error
}

func (e *PersistenceError) Error() string { return fmt.Sprintf("profile update failed: %v", e.Err) }

func (e *PersistenceError) Unwrap() error { return e.Err }

// UploadError means the avatar path failed at the upload, URL-resolution or
// persistence step. The in-memory identity is left unmodified.
type UploadError struct {
	Err error
}

func (e *UploadError) Error() string { return fmt.Sprintf("avatar upload failed: %v", e.Err) }

func (e *UploadError) Unwrap() error { return e.Err }

// NotAuthenticatedError means an operation requiring an identity was invoked
// without one. Step gating should make this unreachable; it fails loudly
// rather than silently no-op.
type NotAuthenticatedError struct {
	Operation string
}

func (e *NotAuthenticatedError) Error() string {
	return fmt.Sprintf("%s requires an authenticated user", e.Operation)
}
