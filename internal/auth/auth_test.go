package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/hmans/threads/internal/model"
)

func TestTokenRoundTrip(t *testing.T) {
	t.Run("sign and verify", func(t *testing.T) {
		token, err := SignToken("user-1", "secret")
		if err != nil {
			t.Fatalf("SignToken() error = %v", err)
		}
		userID, err := VerifyToken(token, "secret")
		if err != nil {
			t.Fatalf("VerifyToken() error = %v", err)
		}
		if userID != "user-1" {
			t.Errorf("VerifyToken() = %q, want %q", userID, "user-1")
		}
	})

	t.Run("wrong secret rejected", func(t *testing.T) {
		token, err := SignToken("user-1", "secret")
		if err != nil {
			t.Fatalf("SignToken() error = %v", err)
		}
		if _, err := VerifyToken(token, "other-secret"); err == nil {
			t.Error("VerifyToken() expected error for wrong secret")
		}
	})

	t.Run("garbage rejected", func(t *testing.T) {
		if _, err := VerifyToken("not.a.token", "secret"); err == nil {
			t.Error("VerifyToken() expected error for garbage input")
		}
	})
}

func TestHasPermission(t *testing.T) {
	user := &model.User{
		Permissions: model.PermissionList{model.PermissionUser, model.PermissionItemCreate},
	}

	t.Run("match", func(t *testing.T) {
		if err := HasPermission(user, model.PermissionItemCreate); err != nil {
			t.Errorf("HasPermission() error = %v, want nil", err)
		}
	})

	t.Run("any of several", func(t *testing.T) {
		if err := HasPermission(user, model.PermissionAdmin, model.PermissionUser); err != nil {
			t.Errorf("HasPermission() error = %v, want nil", err)
		}
	})

	t.Run("no match", func(t *testing.T) {
		err := HasPermission(user, model.PermissionAdmin, model.PermissionPermissionUpdate)
		if !errors.Is(err, ErrForbidden) {
			t.Errorf("HasPermission() error = %v, want ErrForbidden", err)
		}
	})

	t.Run("nil user", func(t *testing.T) {
		if err := HasPermission(nil, model.PermissionUser); !errors.Is(err, ErrUnauthenticated) {
			t.Errorf("HasPermission() error = %v, want ErrUnauthenticated", err)
		}
	})
}

func TestUserIDContext(t *testing.T) {
	ctx := context.Background()

	if got := UserID(ctx); got != "" {
		t.Errorf("UserID() = %q, want empty on a bare context", got)
	}

	ctx = WithUserID(ctx, "user-9")
	if got := UserID(ctx); got != "user-9" {
		t.Errorf("UserID() = %q, want %q", got, "user-9")
	}
}
