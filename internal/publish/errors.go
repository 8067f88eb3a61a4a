// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package publish

import "fmt"

// UploadError reports a missing local artifact or a rejected upload. It halts
// the publication sequence.
type UploadError struct {
	Path string
	Err  error
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("uploading %s: %v", e.Path, e.Err)
}

func (e *UploadError) Unwrap() error { return e.Err }

// CleanupError reports a failure to list or remove a stale copy. ID is empty
// when the listing itself failed.
type CleanupError struct {
	ID  string
	Err error
}

func (e *CleanupError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("searching for stale copies: %v", e.Err)
	}
	return fmt.Sprintf("removing %s: %v", e.ID, e.Err)
}

func (e *CleanupError) Unwrap() error { return e.Err }

// PermissionError reports a failure to make the artifact publicly readable.
type PermissionError struct {
	ID  string
	Err error
}

func (e *PermissionError) Error() string {
	return fmt.Sprintf("sharing %s: %v", e.ID, e.Err)
}

func (e *PermissionError) Unwrap() error { return e.Err }

// SheetUpdateError reports a failure to write the tracking cell.
type SheetUpdateError struct {
	Range string
	Err   error
}

func (e *SheetUpdateError) Error() string {
	return fmt.Sprintf("updating %s: %v", e.Range, e.Err)
}

func (e *SheetUpdateError) Unwrap() error { return e.Err }
