package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hmans/threads/internal/model"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := OpenSQLite(":memory:")
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := s.Migrate(); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return s
}

func createUser(t *testing.T, s *Store, email string) *model.User {
	t.Helper()
	user := &model.User{
		Name:        "Someone",
		Email:       email,
		Password:    "not-a-real-hash",
		Permissions: model.DefaultPermissions(),
	}
	if err := s.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}
	return user
}

func createItem(t *testing.T, s *Store, userID, title string, price int) *model.Item {
	t.Helper()
	item := &model.Item{
		Title:       title,
		Description: "about " + title,
		Price:       price,
		UserID:      userID,
	}
	if err := s.CreateItem(context.Background(), item); err != nil {
		t.Fatalf("CreateItem() error = %v", err)
	}
	return item
}

func TestUsers(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	t.Run("create assigns an id", func(t *testing.T) {
		user := createUser(t, s, "a@example.com")
		if user.ID == "" {
			t.Error("CreateUser() left ID empty")
		}
	})

	t.Run("duplicate email rejected", func(t *testing.T) {
		createUser(t, s, "b@example.com")
		dupe := &model.User{Name: "Dupe", Email: "b@example.com", Password: "x"}
		if err := s.CreateUser(ctx, dupe); err == nil {
			t.Error("CreateUser() expected error for duplicate email")
		}
	})

	t.Run("lookup by email", func(t *testing.T) {
		user := createUser(t, s, "c@example.com")
		got, err := s.UserByEmail(ctx, "c@example.com")
		if err != nil {
			t.Fatalf("UserByEmail() error = %v", err)
		}
		if got.ID != user.ID {
			t.Errorf("UserByEmail().ID = %q, want %q", got.ID, user.ID)
		}
	})

	t.Run("miss returns ErrNotFound", func(t *testing.T) {
		if _, err := s.UserByEmail(ctx, "nobody@example.com"); !errors.Is(err, ErrNotFound) {
			t.Errorf("UserByEmail() error = %v, want ErrNotFound", err)
		}
		if _, err := s.UserByID(ctx, "missing"); !errors.Is(err, ErrNotFound) {
			t.Errorf("UserByID() error = %v, want ErrNotFound", err)
		}
	})

	t.Run("permissions round-trip through the JSON column", func(t *testing.T) {
		user := createUser(t, s, "d@example.com")
		perms := model.PermissionList{model.PermissionUser, model.PermissionAdmin}
		if _, err := s.UpdatePermissions(ctx, user.ID, perms); err != nil {
			t.Fatalf("UpdatePermissions() error = %v", err)
		}
		got, err := s.UserByID(ctx, user.ID)
		if err != nil {
			t.Fatalf("UserByID() error = %v", err)
		}
		if !got.Permissions.Has(model.PermissionAdmin) {
			t.Errorf("Permissions = %v, want ADMIN present", got.Permissions)
		}
		if len(got.Permissions) != 2 {
			t.Errorf("Permissions = %v, want both entries persisted", got.Permissions)
		}
	})

	t.Run("an empty permission list still persists", func(t *testing.T) {
		user := createUser(t, s, "e@example.com")
		if _, err := s.UpdatePermissions(ctx, user.ID, model.PermissionList{}); err != nil {
			t.Fatalf("UpdatePermissions() error = %v", err)
		}
		got, err := s.UserByID(ctx, user.ID)
		if err != nil {
			t.Fatalf("UserByID() error = %v", err)
		}
		if len(got.Permissions) != 0 {
			t.Errorf("Permissions = %v, want empty", got.Permissions)
		}
	})
}

func TestResetTokens(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	user := createUser(t, s, "reset@example.com")

	t.Run("valid token resolves to the user", func(t *testing.T) {
		expiry := time.Now().Add(time.Hour)
		if err := s.SetResetToken(ctx, user.ID, "tok-1", expiry); err != nil {
			t.Fatalf("SetResetToken() error = %v", err)
		}
		got, err := s.UserByResetToken(ctx, "tok-1", time.Now())
		if err != nil {
			t.Fatalf("UserByResetToken() error = %v", err)
		}
		if got.ID != user.ID {
			t.Errorf("UserByResetToken().ID = %q, want %q", got.ID, user.ID)
		}
	})

	t.Run("expired token misses", func(t *testing.T) {
		expiry := time.Now().Add(-time.Minute)
		if err := s.SetResetToken(ctx, user.ID, "tok-2", expiry); err != nil {
			t.Fatalf("SetResetToken() error = %v", err)
		}
		if _, err := s.UserByResetToken(ctx, "tok-2", time.Now()); !errors.Is(err, ErrNotFound) {
			t.Errorf("UserByResetToken() error = %v, want ErrNotFound", err)
		}
	})

	t.Run("reset clears the token", func(t *testing.T) {
		expiry := time.Now().Add(time.Hour)
		if err := s.SetResetToken(ctx, user.ID, "tok-3", expiry); err != nil {
			t.Fatalf("SetResetToken() error = %v", err)
		}
		got, err := s.ResetPassword(ctx, user.ID, "new-hash")
		if err != nil {
			t.Fatalf("ResetPassword() error = %v", err)
		}
		if got.Password != "new-hash" {
			t.Errorf("ResetPassword().Password = %q, want %q", got.Password, "new-hash")
		}
		if got.ResetToken != nil {
			t.Errorf("ResetPassword().ResetToken = %v, want nil", *got.ResetToken)
		}
		if _, err := s.UserByResetToken(ctx, "tok-3", time.Now()); !errors.Is(err, ErrNotFound) {
			t.Errorf("token should be unusable after reset, err = %v", err)
		}
	})
}

func TestItems(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	user := createUser(t, s, "seller@example.com")

	t.Run("update touches only the given fields", func(t *testing.T) {
		item := createItem(t, s, user.ID, "Chair", 5000)
		price := 5500
		got, err := s.UpdateItem(ctx, item.ID, ItemUpdates{Price: &price})
		if err != nil {
			t.Fatalf("UpdateItem() error = %v", err)
		}
		if got.Price != 5500 {
			t.Errorf("UpdateItem().Price = %d, want 5500", got.Price)
		}
		if got.Title != "Chair" {
			t.Errorf("UpdateItem().Title = %q, want unchanged", got.Title)
		}
	})

	t.Run("update of missing item", func(t *testing.T) {
		title := "Nope"
		if _, err := s.UpdateItem(ctx, "missing", ItemUpdates{Title: &title}); !errors.Is(err, ErrNotFound) {
			t.Errorf("UpdateItem() error = %v, want ErrNotFound", err)
		}
	})

	t.Run("delete honors the authorize callback", func(t *testing.T) {
		item := createItem(t, s, user.ID, "Table", 9000)

		denied := errors.New("denied")
		if _, err := s.DeleteItem(ctx, item.ID, func(*model.Item) error { return denied }); !errors.Is(err, denied) {
			t.Errorf("DeleteItem() error = %v, want the authorize error", err)
		}
		if _, err := s.ItemByID(ctx, item.ID); err != nil {
			t.Errorf("item should survive a denied delete, err = %v", err)
		}

		got, err := s.DeleteItem(ctx, item.ID, func(*model.Item) error { return nil })
		if err != nil {
			t.Fatalf("DeleteItem() error = %v", err)
		}
		if got.ID != item.ID {
			t.Errorf("DeleteItem().ID = %q, want %q", got.ID, item.ID)
		}
		if _, err := s.ItemByID(ctx, item.ID); !errors.Is(err, ErrNotFound) {
			t.Errorf("item still present after delete, err = %v", err)
		}
	})

	t.Run("ItemsByID preserves the id order", func(t *testing.T) {
		a := createItem(t, s, user.ID, "Alpha", 100)
		b := createItem(t, s, user.ID, "Beta", 200)
		c := createItem(t, s, user.ID, "Gamma", 300)

		got, err := s.ItemsByID(ctx, []string{c.ID, "missing", a.ID, b.ID})
		if err != nil {
			t.Fatalf("ItemsByID() error = %v", err)
		}
		if len(got) != 3 {
			t.Fatalf("ItemsByID() count = %d, want 3", len(got))
		}
		want := []string{c.ID, a.ID, b.ID}
		for i, item := range got {
			if item.ID != want[i] {
				t.Errorf("ItemsByID()[%d].ID = %q, want %q", i, item.ID, want[i])
			}
		}
	})

	t.Run("upsert is idempotent and keeps CreatedAt", func(t *testing.T) {
		seed := &model.Item{ID: "seed-mug", Title: "Mug", Description: "d", Price: 700}
		if err := s.UpsertItem(ctx, seed); err != nil {
			t.Fatalf("UpsertItem() error = %v", err)
		}
		first, err := s.ItemByID(ctx, "seed-mug")
		if err != nil {
			t.Fatalf("ItemByID() error = %v", err)
		}

		again := &model.Item{ID: "seed-mug", Title: "Mug v2", Description: "d", Price: 750}
		if err := s.UpsertItem(ctx, again); err != nil {
			t.Fatalf("UpsertItem() error = %v", err)
		}
		got, err := s.ItemByID(ctx, "seed-mug")
		if err != nil {
			t.Fatalf("ItemByID() error = %v", err)
		}
		if got.Title != "Mug v2" || got.Price != 750 {
			t.Errorf("UpsertItem() did not update: %+v", got)
		}
		if !got.CreatedAt.Equal(first.CreatedAt) {
			t.Errorf("UpsertItem() changed CreatedAt from %v to %v", first.CreatedAt, got.CreatedAt)
		}
	})

	t.Run("a zero page size lists nothing", func(t *testing.T) {
		one := 1
		got, err := s.Items(ctx, nil, &one)
		if err != nil {
			t.Fatalf("Items() error = %v", err)
		}
		if len(got) != 1 {
			t.Fatalf("Items(first=1) count = %d, want 1", len(got))
		}

		zero := 0
		got, err = s.Items(ctx, nil, &zero)
		if err != nil {
			t.Fatalf("Items() error = %v", err)
		}
		if len(got) != 0 {
			t.Errorf("Items(first=0) count = %d, want 0", len(got))
		}
	})
}

func TestCart(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	user := createUser(t, s, "cart@example.com")
	item := createItem(t, s, user.ID, "Bowl", 1100)

	t.Run("add to cart for a missing item", func(t *testing.T) {
		if _, err := s.AddToCart(ctx, user.ID, "missing"); !errors.Is(err, ErrNotFound) {
			t.Errorf("AddToCart() error = %v, want ErrNotFound", err)
		}
	})

	t.Run("repeated adds keep one line", func(t *testing.T) {
		first, err := s.AddToCart(ctx, user.ID, item.ID)
		if err != nil {
			t.Fatalf("AddToCart() error = %v", err)
		}
		second, err := s.AddToCart(ctx, user.ID, item.ID)
		if err != nil {
			t.Fatalf("AddToCart() error = %v", err)
		}
		if first.ID != second.ID {
			t.Errorf("second add created line %q, want %q", second.ID, first.ID)
		}
		if second.Quantity != 2 {
			t.Errorf("Quantity = %d, want 2", second.Quantity)
		}
		if second.Item == nil || second.Item.ID != item.ID {
			t.Errorf("cart line lacks its item: %+v", second.Item)
		}
	})
}

func TestOrders(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	user := createUser(t, s, "orders@example.com")
	item := createItem(t, s, user.ID, "Clock", 2400)

	line, err := s.AddToCart(ctx, user.ID, item.ID)
	if err != nil {
		t.Fatalf("AddToCart() error = %v", err)
	}

	order := &model.Order{
		UserID: user.ID,
		Total:  2400,
		Charge: "ch_1",
		Items: []*model.OrderItem{{
			Title:       item.Title,
			Description: item.Description,
			Price:       item.Price,
			Quantity:    1,
		}},
	}
	if err := s.CreateOrder(ctx, order, []string{line.ID}); err != nil {
		t.Fatalf("CreateOrder() error = %v", err)
	}

	t.Run("order and items persisted", func(t *testing.T) {
		got, err := s.OrderByID(ctx, order.ID)
		if err != nil {
			t.Fatalf("OrderByID() error = %v", err)
		}
		if got.Total != 2400 || got.Charge != "ch_1" {
			t.Errorf("OrderByID() = total %d charge %q", got.Total, got.Charge)
		}
		if len(got.Items) != 1 || got.Items[0].Title != "Clock" {
			t.Errorf("OrderByID().Items = %+v", got.Items)
		}
	})

	t.Run("consumed cart lines are gone", func(t *testing.T) {
		if _, err := s.CartItemByID(ctx, line.ID); !errors.Is(err, ErrNotFound) {
			t.Errorf("cart line still present, err = %v", err)
		}
	})

	t.Run("orders for user", func(t *testing.T) {
		got, err := s.OrdersForUser(ctx, user.ID)
		if err != nil {
			t.Fatalf("OrdersForUser() error = %v", err)
		}
		if len(got) != 1 {
			t.Errorf("OrdersForUser() count = %d, want 1", len(got))
		}
	})
}
