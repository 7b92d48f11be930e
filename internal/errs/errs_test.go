package errs

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	testCases := []struct {
		name string
		err  error
		want Kind
	}{
		{name: "nil", err: nil, want: ""},
		{name: "not found", err: &NotFoundError{Entity: "role", ID: 3}, want: KindNotFound},
		{name: "wrapped duplicate name", err: fmt.Errorf("create: %w", &DuplicateNameError{Entity: "role"}), want: KindDuplicateName},
		{name: "duplicate email", err: &DuplicateEmailError{Email: "a@x.com"}, want: KindDuplicateEmail},
		{name: "unknown permission", err: &UnknownPermissionError{Names: []string{"x"}}, want: KindUnknownPermission},
		{name: "unknown role", err: &UnknownRoleError{Names: []string{"x"}}, want: KindUnknownRole},
		{name: "validation", err: NewValidationError("label", "required"), want: KindValidation},
		{name: "forbidden", err: &ForbiddenError{ActorID: 1, Capability: "edit-role"}, want: KindForbidden},
		{name: "anything else", err: errors.New("boom"), want: KindInternal},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, KindOf(tc.err))
		})
	}
}

func TestNamesOf(t *testing.T) {
	err := fmt.Errorf("sync: %w", &UnknownRoleError{Names: []string{"auditor", "ghost"}})
	assert.Equal(t, []string{"auditor", "ghost"}, NamesOf(err))
	assert.Nil(t, NamesOf(errors.New("plain")))
}

func TestErrorMessages(t *testing.T) {
	assert.Equal(t, "permission 7 not found", (&NotFoundError{Entity: "permission", ID: 7}).Error())
	assert.Equal(t, `role with name "editor" already exists`, (&DuplicateNameError{Entity: "role", Name: "editor"}).Error())
	assert.Equal(t, "unknown permissions: a, b", (&UnknownPermissionError{Names: []string{"a", "b"}}).Error())
	assert.Equal(t, "invalid input: label: required", NewValidationError("label", "required").Error())
}
