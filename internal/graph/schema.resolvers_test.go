package graph

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/hmans/threads/internal/auth"
	"github.com/hmans/threads/internal/model"
	"github.com/hmans/threads/internal/search"
	"github.com/hmans/threads/internal/store"
)

// fakeMailer records password reset mails instead of sending them.
type fakeMailer struct {
	mu    sync.Mutex
	sent  []string // recipient emails
	token string   // last reset token
}

func (m *fakeMailer) SendPasswordReset(_ context.Context, to, resetToken string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, to)
	m.token = resetToken
	return nil
}

// fakeGateway records charges and returns a canned charge id.
type fakeGateway struct {
	amount   int
	currency string
	token    string
	fail     error
}

func (g *fakeGateway) Charge(_ context.Context, amount int, currency, token string) (string, error) {
	if g.fail != nil {
		return "", g.fail
	}
	g.amount = amount
	g.currency = currency
	g.token = token
	return "ch_test_1", nil
}

func setupTestResolver(t *testing.T) (*Resolver, *fakeMailer, *fakeGateway) {
	t.Helper()

	db, err := store.OpenSQLite(":memory:")
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := db.Migrate(); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	idx, err := search.NewIndex()
	if err != nil {
		t.Fatalf("failed to create search index: %v", err)
	}
	t.Cleanup(func() { idx.Close() })

	mailer := &fakeMailer{}
	gateway := &fakeGateway{}

	r := &Resolver{
		Store:    db,
		Search:   idx,
		Mailer:   mailer,
		Gateway:  gateway,
		Secret:   "test-secret",
		Currency: "usd",
	}
	return r, mailer, gateway
}

func createTestUser(t *testing.T, r *Resolver, email, password string, perms ...model.Permission) *model.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	if len(perms) == 0 {
		perms = model.DefaultPermissions()
	}
	user := &model.User{
		Name:        "Test User",
		Email:       email,
		Password:    string(hash),
		Permissions: perms,
	}
	if err := r.Store.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

func createTestItem(t *testing.T, r *Resolver, userID, title string, price int) *model.Item {
	t.Helper()

	item := &model.Item{
		Title:       title,
		Description: "A " + title,
		Price:       price,
		UserID:      userID,
	}
	if err := r.Store.CreateItem(context.Background(), item); err != nil {
		t.Fatalf("failed to create test item: %v", err)
	}
	if err := r.Search.IndexItem(item); err != nil {
		t.Fatalf("failed to index test item: %v", err)
	}
	return item
}

// actorCtx returns a context authenticated as the given user.
func actorCtx(user *model.User) context.Context {
	return auth.WithUserID(context.Background(), user.ID)
}

// cookieCtx attaches a response recorder so cookie writes can be
// inspected.
func cookieCtx(ctx context.Context) (context.Context, *httptest.ResponseRecorder) {
	rec := httptest.NewRecorder()
	return auth.WithCookieWriter(ctx, rec), rec
}

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == auth.CookieName {
			return c
		}
	}
	t.Fatal("no session cookie written")
	return nil
}

func TestMutationSignup(t *testing.T) {
	resolver, _, _ := setupTestResolver(t)
	mr := resolver.Mutation()

	t.Run("creates user with lowercased email", func(t *testing.T) {
		ctx, rec := cookieCtx(context.Background())
		got, err := mr.Signup(ctx, "Alice@Example.COM", "hunter22", "Alice")
		if err != nil {
			t.Fatalf("Signup() error = %v", err)
		}
		if got.Email != "alice@example.com" {
			t.Errorf("Signup().Email = %q, want %q", got.Email, "alice@example.com")
		}
		if got.ID == "" {
			t.Error("Signup().ID is empty")
		}

		// Password must be stored hashed, not plain
		if got.Password == "hunter22" {
			t.Error("Signup() stored the plain password")
		}
		if err := bcrypt.CompareHashAndPassword([]byte(got.Password), []byte("hunter22")); err != nil {
			t.Errorf("stored hash does not verify: %v", err)
		}

		// Default permission set
		if !got.Permissions.Has(model.PermissionUser) {
			t.Errorf("Signup().Permissions = %v, want USER", got.Permissions)
		}

		// Session cookie written
		c := sessionCookie(t, rec)
		if c.Value == "" {
			t.Error("session cookie has empty value")
		}
		userID, err := auth.VerifyToken(c.Value, resolver.Secret)
		if err != nil {
			t.Fatalf("VerifyToken() error = %v", err)
		}
		if userID != got.ID {
			t.Errorf("cookie names user %q, want %q", userID, got.ID)
		}
	})

	t.Run("duplicate email rejected", func(t *testing.T) {
		ctx := context.Background()
		if _, err := mr.Signup(ctx, "dupe@example.com", "pw", "One"); err != nil {
			t.Fatalf("Signup() error = %v", err)
		}
		if _, err := mr.Signup(ctx, "dupe@example.com", "pw", "Two"); err == nil {
			t.Error("Signup() expected error for duplicate email")
		}
	})
}

func TestMutationSignin(t *testing.T) {
	resolver, _, _ := setupTestResolver(t)
	mr := resolver.Mutation()
	createTestUser(t, resolver, "bob@example.com", "secret")

	t.Run("valid credentials", func(t *testing.T) {
		ctx, rec := cookieCtx(context.Background())
		got, err := mr.Signin(ctx, "BOB@example.com", "secret")
		if err != nil {
			t.Fatalf("Signin() error = %v", err)
		}
		if got.Email != "bob@example.com" {
			t.Errorf("Signin().Email = %q, want %q", got.Email, "bob@example.com")
		}
		c := sessionCookie(t, rec)
		if !c.HttpOnly {
			t.Error("session cookie is not httpOnly")
		}
		if c.MaxAge <= 0 {
			t.Errorf("session cookie MaxAge = %d, want positive", c.MaxAge)
		}
	})

	t.Run("unknown email", func(t *testing.T) {
		_, err := mr.Signin(context.Background(), "nobody@example.com", "secret")
		if err == nil {
			t.Fatal("Signin() expected error for unknown email")
		}
		want := "no such user found for email nobody@example.com"
		if err.Error() != want {
			t.Errorf("Signin() error = %q, want %q", err, want)
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := mr.Signin(context.Background(), "bob@example.com", "wrong")
		if err == nil {
			t.Fatal("Signin() expected error for wrong password")
		}
		if err.Error() != "invalid password" {
			t.Errorf("Signin() error = %q, want %q", err, "invalid password")
		}
	})
}

func TestMutationSignout(t *testing.T) {
	resolver, _, _ := setupTestResolver(t)
	mr := resolver.Mutation()

	ctx, rec := cookieCtx(context.Background())
	got, err := mr.Signout(ctx)
	if err != nil {
		t.Fatalf("Signout() error = %v", err)
	}
	if got.Message != "Goodbye!" {
		t.Errorf("Signout().Message = %q, want %q", got.Message, "Goodbye!")
	}
	c := sessionCookie(t, rec)
	if c.MaxAge >= 0 {
		t.Errorf("session cookie MaxAge = %d, want negative (expired)", c.MaxAge)
	}
}

func TestMutationCreateItem(t *testing.T) {
	resolver, _, _ := setupTestResolver(t)
	mr := resolver.Mutation()
	user := createTestUser(t, resolver, "seller@example.com", "pw")

	t.Run("unauthenticated", func(t *testing.T) {
		_, err := mr.CreateItem(context.Background(), "Shoes", "Nice shoes", 4200, nil, nil)
		if !errors.Is(err, auth.ErrUnauthenticated) {
			t.Errorf("CreateItem() error = %v, want ErrUnauthenticated", err)
		}
	})

	t.Run("creates and indexes", func(t *testing.T) {
		image := "shoes.jpg"
		got, err := mr.CreateItem(actorCtx(user), "Shoes", "Nice shoes", 4200, &image, nil)
		if err != nil {
			t.Fatalf("CreateItem() error = %v", err)
		}
		if got.ID == "" {
			t.Error("CreateItem().ID is empty")
		}
		if got.UserID != user.ID {
			t.Errorf("CreateItem().UserID = %q, want %q", got.UserID, user.ID)
		}

		ids, err := resolver.Search.Search("shoes", 0)
		if err != nil {
			t.Fatalf("Search() error = %v", err)
		}
		if len(ids) != 1 || ids[0] != got.ID {
			t.Errorf("Search() = %v, want [%s]", ids, got.ID)
		}
	})
}

func TestMutationUpdateItem(t *testing.T) {
	resolver, _, _ := setupTestResolver(t)
	mr := resolver.Mutation()
	user := createTestUser(t, resolver, "seller@example.com", "pw")
	item := createTestItem(t, resolver, user.ID, "Hat", 1500)

	t.Run("unauthenticated", func(t *testing.T) {
		title := "Nope"
		_, err := mr.UpdateItem(context.Background(), item.ID, &title, nil, nil, nil, nil)
		if !errors.Is(err, auth.ErrUnauthenticated) {
			t.Errorf("UpdateItem() error = %v, want ErrUnauthenticated", err)
		}
	})

	t.Run("updates provided fields only", func(t *testing.T) {
		title := "Fancy Hat"
		price := 1800
		got, err := mr.UpdateItem(actorCtx(user), item.ID, &title, nil, &price, nil, nil)
		if err != nil {
			t.Fatalf("UpdateItem() error = %v", err)
		}
		if got.Title != "Fancy Hat" {
			t.Errorf("UpdateItem().Title = %q, want %q", got.Title, "Fancy Hat")
		}
		if got.Price != 1800 {
			t.Errorf("UpdateItem().Price = %d, want 1800", got.Price)
		}
		if got.Description != item.Description {
			t.Errorf("UpdateItem().Description = %q, want unchanged %q", got.Description, item.Description)
		}
	})

	t.Run("nonexistent item", func(t *testing.T) {
		title := "Whatever"
		_, err := mr.UpdateItem(actorCtx(user), "missing", &title, nil, nil, nil, nil)
		if !errors.Is(err, store.ErrNotFound) {
			t.Errorf("UpdateItem() error = %v, want ErrNotFound", err)
		}
	})
}

func TestMutationDeleteItem(t *testing.T) {
	resolver, _, _ := setupTestResolver(t)
	mr := resolver.Mutation()
	owner := createTestUser(t, resolver, "owner@example.com", "pw")
	stranger := createTestUser(t, resolver, "stranger@example.com", "pw")
	moderator := createTestUser(t, resolver, "mod@example.com", "pw",
		model.PermissionUser, model.PermissionItemDelete)

	t.Run("owner can delete", func(t *testing.T) {
		item := createTestItem(t, resolver, owner.ID, "Scarf", 900)
		got, err := mr.DeleteItem(actorCtx(owner), item.ID)
		if err != nil {
			t.Fatalf("DeleteItem() error = %v", err)
		}
		if got.ID != item.ID {
			t.Errorf("DeleteItem().ID = %q, want %q", got.ID, item.ID)
		}
		if _, err := resolver.Store.ItemByID(context.Background(), item.ID); !errors.Is(err, store.ErrNotFound) {
			t.Errorf("item still exists after delete, err = %v", err)
		}
	})

	t.Run("non-owner without permission is forbidden", func(t *testing.T) {
		item := createTestItem(t, resolver, owner.ID, "Gloves", 1200)
		_, err := mr.DeleteItem(actorCtx(stranger), item.ID)
		if !errors.Is(err, auth.ErrForbidden) {
			t.Errorf("DeleteItem() error = %v, want ErrForbidden", err)
		}
		if _, err := resolver.Store.ItemByID(context.Background(), item.ID); err != nil {
			t.Errorf("item should survive a forbidden delete, err = %v", err)
		}
	})

	t.Run("ITEMDELETE permission allows delete", func(t *testing.T) {
		item := createTestItem(t, resolver, owner.ID, "Belt", 2000)
		if _, err := mr.DeleteItem(actorCtx(moderator), item.ID); err != nil {
			t.Fatalf("DeleteItem() error = %v", err)
		}
	})
}

func TestMutationRequestReset(t *testing.T) {
	resolver, mailer, _ := setupTestResolver(t)
	mr := resolver.Mutation()
	user := createTestUser(t, resolver, "carol@example.com", "pw")

	t.Run("unknown email gets the same ack and no mail", func(t *testing.T) {
		got, err := mr.RequestReset(context.Background(), "ghost@example.com")
		if err != nil {
			t.Fatalf("RequestReset() error = %v", err)
		}
		if got.Message != "Thanks!" {
			t.Errorf("RequestReset().Message = %q, want %q", got.Message, "Thanks!")
		}
		if len(mailer.sent) != 0 {
			t.Errorf("mail sent for unknown email: %v", mailer.sent)
		}
	})

	t.Run("known email stores token and mails it", func(t *testing.T) {
		got, err := mr.RequestReset(context.Background(), "Carol@Example.com")
		if err != nil {
			t.Fatalf("RequestReset() error = %v", err)
		}
		if got.Message != "Thanks!" {
			t.Errorf("RequestReset().Message = %q, want %q", got.Message, "Thanks!")
		}
		if len(mailer.sent) != 1 || mailer.sent[0] != "carol@example.com" {
			t.Fatalf("mailer.sent = %v, want [carol@example.com]", mailer.sent)
		}

		stored, err := resolver.Store.UserByID(context.Background(), user.ID)
		if err != nil {
			t.Fatalf("UserByID() error = %v", err)
		}
		if stored.ResetToken == nil || *stored.ResetToken != mailer.token {
			t.Error("stored reset token does not match the mailed one")
		}
		if stored.ResetTokenExpiry == nil || !stored.ResetTokenExpiry.After(time.Now()) {
			t.Error("reset token expiry is missing or already past")
		}
	})
}

func TestMutationResetPassword(t *testing.T) {
	resolver, mailer, _ := setupTestResolver(t)
	mr := resolver.Mutation()
	user := createTestUser(t, resolver, "dave@example.com", "oldpw")

	t.Run("mismatched confirmation fails before lookup", func(t *testing.T) {
		_, err := mr.ResetPassword(context.Background(), "whatever", "a", "b")
		if err == nil {
			t.Fatal("ResetPassword() expected error for mismatched passwords")
		}
		if err.Error() != "your passwords don't match" {
			t.Errorf("ResetPassword() error = %q, want %q", err, "your passwords don't match")
		}
	})

	t.Run("invalid token", func(t *testing.T) {
		_, err := mr.ResetPassword(context.Background(), "bogus", "newpw", "newpw")
		if err == nil {
			t.Fatal("ResetPassword() expected error for invalid token")
		}
		if err.Error() != "this token is either invalid or expired" {
			t.Errorf("ResetPassword() error = %q", err)
		}
	})

	t.Run("expired token", func(t *testing.T) {
		expiry := time.Now().Add(-time.Minute)
		if err := resolver.Store.SetResetToken(context.Background(), user.ID, "expired-token", expiry); err != nil {
			t.Fatalf("SetResetToken() error = %v", err)
		}
		_, err := mr.ResetPassword(context.Background(), "expired-token", "newpw", "newpw")
		if err == nil {
			t.Fatal("ResetPassword() expected error for expired token")
		}
		if err.Error() != "this token is either invalid or expired" {
			t.Errorf("ResetPassword() error = %q", err)
		}
	})

	t.Run("valid token resets password and signs in", func(t *testing.T) {
		if _, err := mr.RequestReset(context.Background(), "dave@example.com"); err != nil {
			t.Fatalf("RequestReset() error = %v", err)
		}

		ctx, rec := cookieCtx(context.Background())
		got, err := mr.ResetPassword(ctx, mailer.token, "newpw", "newpw")
		if err != nil {
			t.Fatalf("ResetPassword() error = %v", err)
		}
		if err := bcrypt.CompareHashAndPassword([]byte(got.Password), []byte("newpw")); err != nil {
			t.Errorf("new password does not verify: %v", err)
		}
		if got.ResetToken != nil {
			t.Error("reset token not cleared after use")
		}
		sessionCookie(t, rec)

		// The token is single use
		if _, err := mr.ResetPassword(context.Background(), mailer.token, "again", "again"); err == nil {
			t.Error("ResetPassword() expected error for reused token")
		}
	})
}

func TestMutationUpdatePermissions(t *testing.T) {
	resolver, _, _ := setupTestResolver(t)
	mr := resolver.Mutation()
	admin := createTestUser(t, resolver, "admin@example.com", "pw",
		model.PermissionUser, model.PermissionAdmin)
	plain := createTestUser(t, resolver, "plain@example.com", "pw")

	t.Run("requires ADMIN or PERMISSIONUPDATE", func(t *testing.T) {
		_, err := mr.UpdatePermissions(actorCtx(plain),
			[]model.Permission{model.PermissionUser}, admin.ID)
		if !errors.Is(err, auth.ErrForbidden) {
			t.Errorf("UpdatePermissions() error = %v, want ErrForbidden", err)
		}
	})

	t.Run("admin replaces permission set", func(t *testing.T) {
		got, err := mr.UpdatePermissions(actorCtx(admin),
			[]model.Permission{model.PermissionUser, model.PermissionItemCreate}, plain.ID)
		if err != nil {
			t.Fatalf("UpdatePermissions() error = %v", err)
		}
		if !got.Permissions.Has(model.PermissionItemCreate) {
			t.Errorf("UpdatePermissions().Permissions = %v, want ITEMCREATE", got.Permissions)
		}
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := mr.UpdatePermissions(actorCtx(admin),
			[]model.Permission{model.PermissionUser}, "missing")
		if err == nil {
			t.Error("UpdatePermissions() expected error for unknown user")
		}
	})
}

func TestMutationAddToCart(t *testing.T) {
	resolver, _, _ := setupTestResolver(t)
	mr := resolver.Mutation()
	user := createTestUser(t, resolver, "erin@example.com", "pw")
	item := createTestItem(t, resolver, user.ID, "Socks", 500)

	t.Run("unauthenticated", func(t *testing.T) {
		_, err := mr.AddToCart(context.Background(), item.ID)
		if !errors.Is(err, auth.ErrUnauthenticated) {
			t.Errorf("AddToCart() error = %v, want ErrUnauthenticated", err)
		}
	})

	t.Run("adding twice increments one line", func(t *testing.T) {
		ctx := actorCtx(user)
		first, err := mr.AddToCart(ctx, item.ID)
		if err != nil {
			t.Fatalf("AddToCart() error = %v", err)
		}
		if first.Quantity != 1 {
			t.Errorf("AddToCart().Quantity = %d, want 1", first.Quantity)
		}

		second, err := mr.AddToCart(ctx, item.ID)
		if err != nil {
			t.Fatalf("AddToCart() error = %v", err)
		}
		if second.ID != first.ID {
			t.Errorf("second add created a new line %q, want %q", second.ID, first.ID)
		}
		if second.Quantity != 2 {
			t.Errorf("AddToCart().Quantity = %d, want 2", second.Quantity)
		}

		cart, err := resolver.Store.CartForUser(context.Background(), user.ID)
		if err != nil {
			t.Fatalf("CartForUser() error = %v", err)
		}
		if len(cart) != 1 {
			t.Errorf("cart has %d lines, want 1", len(cart))
		}
	})

	t.Run("nonexistent item", func(t *testing.T) {
		_, err := mr.AddToCart(actorCtx(user), "missing")
		if err == nil {
			t.Error("AddToCart() expected error for unknown item")
		}
	})
}

func TestMutationRemoveFromCart(t *testing.T) {
	resolver, _, _ := setupTestResolver(t)
	mr := resolver.Mutation()
	owner := createTestUser(t, resolver, "frank@example.com", "pw")
	other := createTestUser(t, resolver, "grace@example.com", "pw")
	item := createTestItem(t, resolver, owner.ID, "Mug", 800)

	line, err := mr.AddToCart(actorCtx(owner), item.ID)
	if err != nil {
		t.Fatalf("AddToCart() error = %v", err)
	}

	t.Run("non-owner is forbidden and the line survives", func(t *testing.T) {
		_, err := mr.RemoveFromCart(actorCtx(other), line.ID)
		if !errors.Is(err, auth.ErrForbidden) {
			t.Errorf("RemoveFromCart() error = %v, want ErrForbidden", err)
		}
		if _, err := resolver.Store.CartItemByID(context.Background(), line.ID); err != nil {
			t.Errorf("cart line should survive a forbidden remove, err = %v", err)
		}
	})

	t.Run("owner removes the line", func(t *testing.T) {
		got, err := mr.RemoveFromCart(actorCtx(owner), line.ID)
		if err != nil {
			t.Fatalf("RemoveFromCart() error = %v", err)
		}
		if got.ID != line.ID {
			t.Errorf("RemoveFromCart().ID = %q, want %q", got.ID, line.ID)
		}
		if _, err := resolver.Store.CartItemByID(context.Background(), line.ID); !errors.Is(err, store.ErrNotFound) {
			t.Errorf("cart line still exists, err = %v", err)
		}
	})

	t.Run("missing line", func(t *testing.T) {
		_, err := mr.RemoveFromCart(actorCtx(owner), "missing")
		if err == nil {
			t.Fatal("RemoveFromCart() expected error for missing line")
		}
		if err.Error() != "no cart item found" {
			t.Errorf("RemoveFromCart() error = %q, want %q", err, "no cart item found")
		}
	})
}

func TestMutationCreateOrder(t *testing.T) {
	resolver, _, gateway := setupTestResolver(t)
	mr := resolver.Mutation()
	user := createTestUser(t, resolver, "henry@example.com", "pw")

	t.Run("empty cart", func(t *testing.T) {
		_, err := mr.CreateOrder(actorCtx(user), "tok_visa")
		if err == nil {
			t.Fatal("CreateOrder() expected error for empty cart")
		}
		if err.Error() != "your cart is empty" {
			t.Errorf("CreateOrder() error = %q, want %q", err, "your cart is empty")
		}
	})

	t.Run("charges the total and freezes the cart", func(t *testing.T) {
		cheap := createTestItem(t, resolver, user.ID, "Pin", 1000)
		dear := createTestItem(t, resolver, user.ID, "Bag", 2500)

		ctx := actorCtx(user)
		if _, err := mr.AddToCart(ctx, cheap.ID); err != nil {
			t.Fatalf("AddToCart() error = %v", err)
		}
		if _, err := mr.AddToCart(ctx, dear.ID); err != nil {
			t.Fatalf("AddToCart() error = %v", err)
		}
		if _, err := mr.AddToCart(ctx, dear.ID); err != nil {
			t.Fatalf("AddToCart() error = %v", err)
		}

		got, err := mr.CreateOrder(ctx, "tok_visa")
		if err != nil {
			t.Fatalf("CreateOrder() error = %v", err)
		}

		// 1000*1 + 2500*2
		if got.Total != 6000 {
			t.Errorf("CreateOrder().Total = %d, want 6000", got.Total)
		}
		if gateway.amount != 6000 {
			t.Errorf("charged amount = %d, want 6000", gateway.amount)
		}
		if gateway.token != "tok_visa" {
			t.Errorf("charge token = %q, want %q", gateway.token, "tok_visa")
		}
		if got.Charge != "ch_test_1" {
			t.Errorf("CreateOrder().Charge = %q, want %q", got.Charge, "ch_test_1")
		}
		if len(got.Items) != 2 {
			t.Fatalf("CreateOrder() has %d order items, want 2", len(got.Items))
		}

		// Order items are frozen copies with quantities
		quantities := map[string]int{}
		for _, oi := range got.Items {
			quantities[oi.Title] = oi.Quantity
		}
		if quantities["Pin"] != 1 || quantities["Bag"] != 2 {
			t.Errorf("order item quantities = %v, want Pin:1 Bag:2", quantities)
		}

		// Cart is emptied
		cart, err := resolver.Store.CartForUser(context.Background(), user.ID)
		if err != nil {
			t.Fatalf("CartForUser() error = %v", err)
		}
		if len(cart) != 0 {
			t.Errorf("cart has %d lines after checkout, want 0", len(cart))
		}
	})

	t.Run("declined charge leaves the cart alone", func(t *testing.T) {
		item := createTestItem(t, resolver, user.ID, "Cap", 700)
		ctx := actorCtx(user)
		if _, err := mr.AddToCart(ctx, item.ID); err != nil {
			t.Fatalf("AddToCart() error = %v", err)
		}

		gateway.fail = fmt.Errorf("card declined")
		defer func() { gateway.fail = nil }()

		if _, err := mr.CreateOrder(ctx, "tok_bad"); err == nil {
			t.Fatal("CreateOrder() expected error for declined charge")
		}

		cart, err := resolver.Store.CartForUser(context.Background(), user.ID)
		if err != nil {
			t.Fatalf("CartForUser() error = %v", err)
		}
		if len(cart) != 1 {
			t.Errorf("cart has %d lines after declined charge, want 1", len(cart))
		}
	})
}

func TestQueryItems(t *testing.T) {
	resolver, _, _ := setupTestResolver(t)
	qr := resolver.Query()
	user := createTestUser(t, resolver, "ivy@example.com", "pw")

	createTestItem(t, resolver, user.ID, "Red Chair", 10000)
	createTestItem(t, resolver, user.ID, "Blue Chair", 12000)
	createTestItem(t, resolver, user.ID, "Green Table", 30000)

	t.Run("all items", func(t *testing.T) {
		got, err := qr.Items(context.Background(), nil, nil, nil)
		if err != nil {
			t.Fatalf("Items() error = %v", err)
		}
		if len(got) != 3 {
			t.Errorf("Items() count = %d, want 3", len(got))
		}
	})

	t.Run("pagination", func(t *testing.T) {
		skip := 1
		first := 1
		got, err := qr.Items(context.Background(), nil, &skip, &first)
		if err != nil {
			t.Fatalf("Items() error = %v", err)
		}
		if len(got) != 1 {
			t.Errorf("Items(skip=1, first=1) count = %d, want 1", len(got))
		}
	})

	t.Run("first zero yields an empty page", func(t *testing.T) {
		first := 0
		got, err := qr.Items(context.Background(), nil, nil, &first)
		if err != nil {
			t.Fatalf("Items() error = %v", err)
		}
		if len(got) != 0 {
			t.Errorf("Items(first=0) count = %d, want 0", len(got))
		}

		q := "chair"
		got, err = qr.Items(context.Background(), &q, nil, &first)
		if err != nil {
			t.Fatalf("Items() error = %v", err)
		}
		if len(got) != 0 {
			t.Errorf("Items(search=chair, first=0) count = %d, want 0", len(got))
		}
	})

	t.Run("search", func(t *testing.T) {
		q := "chair"
		got, err := qr.Items(context.Background(), &q, nil, nil)
		if err != nil {
			t.Fatalf("Items() error = %v", err)
		}
		if len(got) != 2 {
			t.Errorf("Items(search=chair) count = %d, want 2", len(got))
		}
		for _, item := range got {
			if item.Title != "Red Chair" && item.Title != "Blue Chair" {
				t.Errorf("Items(search=chair) returned %q", item.Title)
			}
		}
	})

	t.Run("blank search falls back to listing", func(t *testing.T) {
		q := "   "
		got, err := qr.Items(context.Background(), &q, nil, nil)
		if err != nil {
			t.Fatalf("Items() error = %v", err)
		}
		if len(got) != 3 {
			t.Errorf("Items(search=blank) count = %d, want 3", len(got))
		}
	})
}

func TestQueryItem(t *testing.T) {
	resolver, _, _ := setupTestResolver(t)
	qr := resolver.Query()
	user := createTestUser(t, resolver, "jay@example.com", "pw")
	item := createTestItem(t, resolver, user.ID, "Lamp", 4500)

	t.Run("found", func(t *testing.T) {
		got, err := qr.Item(context.Background(), item.ID)
		if err != nil {
			t.Fatalf("Item() error = %v", err)
		}
		if got == nil || got.ID != item.ID {
			t.Errorf("Item() = %v, want id %q", got, item.ID)
		}
	})

	t.Run("miss returns nil without error", func(t *testing.T) {
		got, err := qr.Item(context.Background(), "missing")
		if err != nil {
			t.Fatalf("Item() error = %v", err)
		}
		if got != nil {
			t.Errorf("Item() = %v, want nil", got)
		}
	})
}

func TestQueryItemsConnection(t *testing.T) {
	resolver, _, _ := setupTestResolver(t)
	qr := resolver.Query()
	user := createTestUser(t, resolver, "kim@example.com", "pw")

	createTestItem(t, resolver, user.ID, "Plant", 2000)
	createTestItem(t, resolver, user.ID, "Pot", 900)

	t.Run("total count", func(t *testing.T) {
		got, err := qr.ItemsConnection(context.Background(), nil)
		if err != nil {
			t.Fatalf("ItemsConnection() error = %v", err)
		}
		if got.Aggregate.Count != 2 {
			t.Errorf("ItemsConnection().Aggregate.Count = %d, want 2", got.Aggregate.Count)
		}
	})

	t.Run("search count", func(t *testing.T) {
		q := "plant"
		got, err := qr.ItemsConnection(context.Background(), &q)
		if err != nil {
			t.Fatalf("ItemsConnection() error = %v", err)
		}
		if got.Aggregate.Count != 1 {
			t.Errorf("ItemsConnection(search).Aggregate.Count = %d, want 1", got.Aggregate.Count)
		}
	})
}

func TestQueryMe(t *testing.T) {
	resolver, _, _ := setupTestResolver(t)
	qr := resolver.Query()
	user := createTestUser(t, resolver, "lena@example.com", "pw")

	t.Run("anonymous returns nil", func(t *testing.T) {
		got, err := qr.Me(context.Background())
		if err != nil {
			t.Fatalf("Me() error = %v", err)
		}
		if got != nil {
			t.Errorf("Me() = %v, want nil for anonymous", got)
		}
	})

	t.Run("signed in", func(t *testing.T) {
		got, err := qr.Me(actorCtx(user))
		if err != nil {
			t.Fatalf("Me() error = %v", err)
		}
		if got == nil || got.ID != user.ID {
			t.Errorf("Me() = %v, want user %q", got, user.ID)
		}
	})

	t.Run("stale session returns nil", func(t *testing.T) {
		ctx := auth.WithUserID(context.Background(), "gone")
		got, err := qr.Me(ctx)
		if err != nil {
			t.Fatalf("Me() error = %v", err)
		}
		if got != nil {
			t.Errorf("Me() = %v, want nil for stale session", got)
		}
	})
}

func TestQueryUsers(t *testing.T) {
	resolver, _, _ := setupTestResolver(t)
	qr := resolver.Query()
	admin := createTestUser(t, resolver, "root@example.com", "pw",
		model.PermissionUser, model.PermissionAdmin)
	plain := createTestUser(t, resolver, "pleb@example.com", "pw")

	t.Run("requires permission", func(t *testing.T) {
		_, err := qr.Users(actorCtx(plain))
		if !errors.Is(err, auth.ErrForbidden) {
			t.Errorf("Users() error = %v, want ErrForbidden", err)
		}
	})

	t.Run("unauthenticated", func(t *testing.T) {
		_, err := qr.Users(context.Background())
		if !errors.Is(err, auth.ErrUnauthenticated) {
			t.Errorf("Users() error = %v, want ErrUnauthenticated", err)
		}
	})

	t.Run("admin lists everyone", func(t *testing.T) {
		got, err := qr.Users(actorCtx(admin))
		if err != nil {
			t.Fatalf("Users() error = %v", err)
		}
		if len(got) != 2 {
			t.Errorf("Users() count = %d, want 2", len(got))
		}
	})
}

func TestQueryOrders(t *testing.T) {
	resolver, _, _ := setupTestResolver(t)
	mr := resolver.Mutation()
	qr := resolver.Query()
	buyer := createTestUser(t, resolver, "mia@example.com", "pw")
	other := createTestUser(t, resolver, "noah@example.com", "pw")
	admin := createTestUser(t, resolver, "boss@example.com", "pw",
		model.PermissionUser, model.PermissionAdmin)

	item := createTestItem(t, resolver, buyer.ID, "Vase", 3000)
	ctx := actorCtx(buyer)
	if _, err := mr.AddToCart(ctx, item.ID); err != nil {
		t.Fatalf("AddToCart() error = %v", err)
	}
	order, err := mr.CreateOrder(ctx, "tok_visa")
	if err != nil {
		t.Fatalf("CreateOrder() error = %v", err)
	}

	t.Run("owner sees their order", func(t *testing.T) {
		got, err := qr.Order(actorCtx(buyer), order.ID)
		if err != nil {
			t.Fatalf("Order() error = %v", err)
		}
		if got.ID != order.ID {
			t.Errorf("Order().ID = %q, want %q", got.ID, order.ID)
		}
		if len(got.Items) != 1 {
			t.Errorf("Order() has %d items, want 1", len(got.Items))
		}
	})

	t.Run("stranger is forbidden", func(t *testing.T) {
		_, err := qr.Order(actorCtx(other), order.ID)
		if !errors.Is(err, auth.ErrForbidden) {
			t.Errorf("Order() error = %v, want ErrForbidden", err)
		}
	})

	t.Run("admin may view any order", func(t *testing.T) {
		got, err := qr.Order(actorCtx(admin), order.ID)
		if err != nil {
			t.Fatalf("Order() error = %v", err)
		}
		if got.ID != order.ID {
			t.Errorf("Order().ID = %q, want %q", got.ID, order.ID)
		}
	})

	t.Run("orders lists only the actor's", func(t *testing.T) {
		got, err := qr.Orders(actorCtx(buyer))
		if err != nil {
			t.Fatalf("Orders() error = %v", err)
		}
		if len(got) != 1 {
			t.Errorf("Orders() count = %d, want 1", len(got))
		}

		empty, err := qr.Orders(actorCtx(other))
		if err != nil {
			t.Fatalf("Orders() error = %v", err)
		}
		if len(empty) != 0 {
			t.Errorf("Orders() count = %d, want 0", len(empty))
		}
	})
}

func TestFieldResolvers(t *testing.T) {
	resolver, _, _ := setupTestResolver(t)
	mr := resolver.Mutation()
	user := createTestUser(t, resolver, "olga@example.com", "pw")
	item := createTestItem(t, resolver, user.ID, "Desk", 20000)

	if _, err := mr.AddToCart(actorCtx(user), item.ID); err != nil {
		t.Fatalf("AddToCart() error = %v", err)
	}

	t.Run("User.cart", func(t *testing.T) {
		ur := resolver.User()
		cart, err := ur.Cart(context.Background(), user)
		if err != nil {
			t.Fatalf("Cart() error = %v", err)
		}
		if len(cart) != 1 {
			t.Fatalf("Cart() count = %d, want 1", len(cart))
		}
		if cart[0].Item == nil || cart[0].Item.ID != item.ID {
			t.Errorf("Cart()[0].Item = %v, want item %q", cart[0].Item, item.ID)
		}
	})

	t.Run("Item.user", func(t *testing.T) {
		ir := resolver.Item()
		got, err := ir.User(context.Background(), item)
		if err != nil {
			t.Fatalf("User() error = %v", err)
		}
		if got == nil || got.ID != user.ID {
			t.Errorf("User() = %v, want user %q", got, user.ID)
		}
	})
}
