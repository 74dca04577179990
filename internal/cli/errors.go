// Package cli implements the command-line interface.
package cli

// Error codes for structured error responses.
// These codes are stable and can be relied upon by scripts.
const (
	// Root and config errors
	ErrRootNotFound  = "ROOT_NOT_FOUND"
	ErrConfigInvalid = "CONFIG_INVALID"

	// Input errors
	ErrNoQueryText  = "NO_QUERY_TEXT"
	ErrInvalidInput = "INVALID_INPUT"

	// Search errors
	ErrNoDocuments = "NO_DOCUMENTS"
	ErrNoMatches   = "NO_MATCHES"

	// Store errors
	ErrStoreEmpty         = "STORE_EMPTY"
	ErrStoreLocked        = "STORE_LOCKED"
	ErrDocumentNotInStore = "DOCUMENT_NOT_IN_STORE"
	ErrDatabaseError      = "DATABASE_ERROR"

	// File errors
	ErrFileNotFound    = "FILE_NOT_FOUND"
	ErrFileReadError   = "FILE_READ_ERROR"
	ErrFileWriteError  = "FILE_WRITE_ERROR"
	ErrFileOutsideRoot = "FILE_OUTSIDE_ROOT"

	// Write-back errors
	ErrBackupFailed   = "BACKUP_FAILED"
	ErrVerifyMismatch = "VERIFY_MISMATCH"
	ErrInvalidOffsets = "INVALID_OFFSETS"

	// General errors
	ErrCanceled = "CANCELED"
	ErrInternal = "INTERNAL_ERROR"
)

// Warning codes for non-fatal issues.
const (
	WarnStaleOffsets   = "STALE_OFFSETS"
	WarnTextDiffers    = "REPLACED_TEXT_DIFFERS"
	WarnFilesUnread    = "FILES_UNREADABLE"
	WarnLowConfidence  = "LOW_CONFIDENCE"
	WarnBackupDisabled = "BACKUP_DISABLED"
)
