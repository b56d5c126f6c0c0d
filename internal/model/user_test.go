package model

import (
	"strings"
	"testing"
)

func TestRoleAtLeast(t *testing.T) {
	// Each role clears its own bar and every bar below it.
	allowed := map[string][]string{
		RoleAdmin:   {RoleAdmin, RoleManager, RoleUser},
		RoleManager: {RoleManager, RoleUser},
		RoleUser:    {RoleUser},
	}
	ladder := []string{RoleAdmin, RoleManager, RoleUser}

	for role, mins := range allowed {
		ok := map[string]bool{}
		for _, m := range mins {
			ok[m] = true
		}
		for _, minimum := range ladder {
			if got := RoleAtLeast(role, minimum); got != ok[minimum] {
				t.Errorf("RoleAtLeast(%q, %q) = %v, want %v", role, minimum, got, ok[minimum])
			}
		}
	}
}

func TestRoleAtLeastUnknownRolesFailClosed(t *testing.T) {
	for _, pair := range [][2]string{
		{"superuser", RoleUser},
		{RoleAdmin, "root"},
		{"", RoleUser},
		{"", ""},
	} {
		if RoleAtLeast(pair[0], pair[1]) {
			t.Errorf("RoleAtLeast(%q, %q) = true for unknown role", pair[0], pair[1])
		}
	}
}

func TestValidatePassword(t *testing.T) {
	if err := ValidatePassword(strings.Repeat("x", MinPasswordLength)); err != nil {
		t.Errorf("password at minimum length rejected: %v", err)
	}
	if err := ValidatePassword("correct horse battery"); err != nil {
		t.Errorf("long password rejected: %v", err)
	}

	for _, short := range []string{"", "abc", strings.Repeat("x", MinPasswordLength-1)} {
		if ValidatePassword(short) == nil {
			t.Errorf("ValidatePassword(%q) accepted a short password", short)
		}
	}
}
