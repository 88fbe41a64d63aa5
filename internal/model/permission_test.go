package model

import (
	"strings"
	"testing"
)

func TestPermissionIsValid(t *testing.T) {
	for _, p := range AllPermissions {
		if !p.IsValid() {
			t.Errorf("IsValid(%s) = false, want true", p)
		}
	}
	if Permission("ROOT").IsValid() {
		t.Error("IsValid(ROOT) = true, want false")
	}
	if Permission("admin").IsValid() {
		t.Error("IsValid(admin) = true, want false (labels are uppercase)")
	}
}

func TestPermissionUnmarshalGQL(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		var p Permission
		if err := p.UnmarshalGQL("ADMIN"); err != nil {
			t.Fatalf("UnmarshalGQL() error = %v", err)
		}
		if p != PermissionAdmin {
			t.Errorf("UnmarshalGQL() = %q, want ADMIN", p)
		}
	})

	t.Run("unknown label", func(t *testing.T) {
		var p Permission
		if err := p.UnmarshalGQL("SUPERUSER"); err == nil {
			t.Error("UnmarshalGQL() expected error for unknown label")
		}
	})

	t.Run("non-string", func(t *testing.T) {
		var p Permission
		if err := p.UnmarshalGQL(42); err == nil {
			t.Error("UnmarshalGQL() expected error for non-string")
		}
	})
}

func TestPermissionMarshalGQL(t *testing.T) {
	var b strings.Builder
	PermissionItemCreate.MarshalGQL(&b)
	if b.String() != `"ITEMCREATE"` {
		t.Errorf("MarshalGQL() = %s, want %q", b.String(), `"ITEMCREATE"`)
	}
}

func TestPermissionList(t *testing.T) {
	l := PermissionList{PermissionUser, PermissionItemUpdate}

	if !l.Has(PermissionItemUpdate) {
		t.Error("Has(ITEMUPDATE) = false, want true")
	}
	if l.Has(PermissionAdmin) {
		t.Error("Has(ADMIN) = true, want false")
	}

	if err := l.Validate(); err != nil {
		t.Errorf("Validate() error = %v, want nil", err)
	}

	bad := PermissionList{PermissionUser, Permission("BOGUS")}
	if err := bad.Validate(); err == nil {
		t.Error("Validate() expected error for unknown label")
	}

	if def := DefaultPermissions(); len(def) != 1 || def[0] != PermissionUser {
		t.Errorf("DefaultPermissions() = %v, want [USER]", def)
	}
}
