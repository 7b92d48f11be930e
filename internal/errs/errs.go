// Package errs defines the typed errors returned by the RBAC registries and the
// stable kind taxonomy the administration service reports to its callers.
package errs

import (
	"errors"
	"fmt"
	"strings"
)

// Kind is the stable, externally visible classification of a failure.
type Kind string

const (
	// KindNotFound is used when a referenced entity id does not exist.
	KindNotFound Kind = "not_found"
	// KindDuplicateName is used when a derived name collides with another permission or role.
	KindDuplicateName Kind = "duplicate_name"
	// KindDuplicateEmail is used when a user email is already taken.
	KindDuplicateEmail Kind = "duplicate_email"
	// KindUnknownPermission is used when a role sync names permissions that do not exist.
	KindUnknownPermission Kind = "unknown_permission"
	// KindUnknownRole is used when a user sync names roles that do not exist.
	KindUnknownRole Kind = "unknown_role"
	// KindValidation is used for malformed input.
	KindValidation Kind = "validation"
	// KindForbidden is used when the acting principal lacks the required capability.
	KindForbidden Kind = "forbidden"
	// KindInternal is used for every error not covered by the kinds above.
	KindInternal Kind = "internal"
)

// NotFoundError reports an unknown entity id.
type NotFoundError struct {
	Entity string
	ID     uint64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Entity, e.ID)
}

// DuplicateNameError reports a slug collision on a permission or role.
type DuplicateNameError struct {
	Entity string
	Name   string
}

func (e *DuplicateNameError) Error() string {
	return fmt.Sprintf("%s with name %q already exists", e.Entity, e.Name)
}

// DuplicateEmailError reports a user email collision.
type DuplicateEmailError struct {
	Email string
}

func (e *DuplicateEmailError) Error() string {
	return fmt.Sprintf("user with email %q already exists", e.Email)
}

// UnknownPermissionError lists the permission names that could not be resolved.
type UnknownPermissionError struct {
	Names []string
}

func (e *UnknownPermissionError) Error() string {
	return "unknown permissions: " + strings.Join(e.Names, ", ")
}

// UnknownRoleError lists the role names that could not be resolved.
type UnknownRoleError struct {
	Names []string
}

func (e *UnknownRoleError) Error() string {
	return "unknown roles: " + strings.Join(e.Names, ", ")
}

// FieldError describes one invalid input field.
type FieldError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// ValidationError reports malformed input.
type ValidationError struct {
	Fields []FieldError
}

// NewValidationError is a shortcut for a single invalid field.
func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Fields: []FieldError{{Field: field, Reason: reason}}}
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Reason)
	}

	return "invalid input: " + strings.Join(parts, "; ")
}

// ForbiddenError reports an actor without the capability an operation requires.
type ForbiddenError struct {
	ActorID    uint64
	Capability string
}

func (e *ForbiddenError) Error() string {
	return fmt.Sprintf("user %d lacks capability %q", e.ActorID, e.Capability)
}

// KindOf classifies err, looking through any wrapping.
func KindOf(err error) Kind {
	var (
		notFound   *NotFoundError
		dupName    *DuplicateNameError
		dupEmail   *DuplicateEmailError
		unkPerm    *UnknownPermissionError
		unkRole    *UnknownRoleError
		validation *ValidationError
		forbidden  *ForbiddenError
	)

	switch {
	case err == nil:
		return ""
	case errors.As(err, &notFound):
		return KindNotFound
	case errors.As(err, &dupName):
		return KindDuplicateName
	case errors.As(err, &dupEmail):
		return KindDuplicateEmail
	case errors.As(err, &unkPerm):
		return KindUnknownPermission
	case errors.As(err, &unkRole):
		return KindUnknownRole
	case errors.As(err, &validation):
		return KindValidation
	case errors.As(err, &forbidden):
		return KindForbidden
	default:
		return KindInternal
	}
}

// NamesOf returns the unresolved names carried by an UnknownPermissionError or
// UnknownRoleError anywhere in err's chain.
func NamesOf(err error) []string {
	var (
		unkPerm *UnknownPermissionError
		unkRole *UnknownRoleError
	)

	switch {
	case errors.As(err, &unkPerm):
		return unkPerm.Names
	case errors.As(err, &unkRole):
		return unkRole.Names
	default:
		return nil
	}
}
