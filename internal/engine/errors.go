package engine

import (
	"errors"
	"fmt"

	"github.com/Future-Scholars/paperlib-sync/internal/model"
)

// DomainError represents a typed failure of an engine operation.
//
// Domain errors include:
//   - Multiple records: more than one live row matched an id/scope lookup
//   - No such entity / no such version: a field change arrived before its
//     create synced
//   - Create/merge failed: post-write verification did not find the row
//
// Stale-change drops are NOT errors; they are expected outcomes of the LWW
// policy and surface as unchanged records.
type DomainError struct {
	// Code identifies the error category.
	Code ErrorCode

	// Message is a human-readable description.
	Message string

	// Kind identifies the affected entity kind.
	Kind model.EntityKind

	// EntityID identifies the affected record.
	EntityID string

	// Field identifies the affected field (for version errors).
	Field string
}

// ErrorCode categorizes domain errors.
type ErrorCode string

const (
	// ErrCodeMultipleRecords indicates a storage invariant violation: more
	// than one live row matched a single-id lookup. Never recovered from by
	// silently picking one.
	ErrCodeMultipleRecords ErrorCode = "MULTIPLE_RECORDS"

	// ErrCodeNoSuchEntity indicates a field change targeting an entity that
	// was never created. The caller decides whether to buffer and retry.
	ErrCodeNoSuchEntity ErrorCode = "NO_SUCH_ENTITY"

	// ErrCodeNoSuchVersion indicates a field change targeting a field with
	// no seeded version row.
	ErrCodeNoSuchVersion ErrorCode = "NO_SUCH_VERSION"

	// ErrCodeCreateFailed indicates the post-insert re-read found nothing.
	ErrCodeCreateFailed ErrorCode = "CREATE_FAILED"

	// ErrCodeMergeFailed indicates the post-merge re-read found nothing.
	ErrCodeMergeFailed ErrorCode = "MERGE_FAILED"
)

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s (kind=%s, id=%s, field=%s)", e.Code, e.Message, e.Kind, e.EntityID, e.Field)
	}
	if e.EntityID != "" {
		return fmt.Sprintf("%s: %s (kind=%s, id=%s)", e.Code, e.Message, e.Kind, e.EntityID)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsMultipleRecords reports whether err is a multiple-live-rows violation.
// Uses errors.As to handle wrapped errors.
func IsMultipleRecords(err error) bool { return hasCode(err, ErrCodeMultipleRecords) }

// IsNoSuchEntity reports whether err is a missing-entity error.
func IsNoSuchEntity(err error) bool { return hasCode(err, ErrCodeNoSuchEntity) }

// IsNoSuchVersion reports whether err is a missing-version-row error.
func IsNoSuchVersion(err error) bool { return hasCode(err, ErrCodeNoSuchVersion) }

// IsCreateFailed reports whether err is a failed create verification.
func IsCreateFailed(err error) bool { return hasCode(err, ErrCodeCreateFailed) }

// IsMergeFailed reports whether err is a failed merge verification.
func IsMergeFailed(err error) bool { return hasCode(err, ErrCodeMergeFailed) }

func hasCode(err error, code ErrorCode) bool {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code == code
	}
	return false
}

// NewMultipleRecordsError creates a DomainError for a live-row uniqueness
// violation.
func NewMultipleRecordsError(kind model.EntityKind, id string, count int) *DomainError {
	return &DomainError{
		Code:     ErrCodeMultipleRecords,
		Message:  fmt.Sprintf("%d live rows matched, expected at most one", count),
		Kind:     kind,
		EntityID: id,
	}
}

// NewNoSuchEntityError creates a DomainError for a merge against an entity
// that was never created.
func NewNoSuchEntityError(kind model.EntityKind, id string) *DomainError {
	return &DomainError{
		Code:     ErrCodeNoSuchEntity,
		Message:  "entity does not exist; merges never create",
		Kind:     kind,
		EntityID: id,
	}
}

// NewNoSuchVersionError creates a DomainError for a merge against a field
// with no version row.
func NewNoSuchVersionError(kind model.EntityKind, id, field string) *DomainError {
	return &DomainError{
		Code:     ErrCodeNoSuchVersion,
		Message:  "no version row for field",
		Kind:     kind,
		EntityID: id,
		Field:    field,
	}
}

// NewCreateFailedError creates a DomainError for a create whose re-read
// found no row.
func NewCreateFailedError(kind model.EntityKind, id string) *DomainError {
	return &DomainError{
		Code:     ErrCodeCreateFailed,
		Message:  "inserted row not found on re-read",
		Kind:     kind,
		EntityID: id,
	}
}

// NewMergeFailedError creates a DomainError for a merge whose re-read found
// no row.
func NewMergeFailedError(kind model.EntityKind, id, field string) *DomainError {
	return &DomainError{
		Code:     ErrCodeMergeFailed,
		Message:  "merged row not found on re-read",
		Kind:     kind,
		EntityID: id,
		Field:    field,
	}
}
