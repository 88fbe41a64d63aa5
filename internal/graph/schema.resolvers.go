package graph

// This file will not be regenerated automatically.
//
// It implements the resolver interfaces generated from schema.graphqls.

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"golang.org/x/crypto/bcrypt"

	"github.com/hmans/threads/internal/auth"
	gmodel "github.com/hmans/threads/internal/graph/model"
	"github.com/hmans/threads/internal/model"
	"github.com/hmans/threads/internal/store"
)

const (
	bcryptCost    = 10
	resetTokenTTL = time.Hour
)

// requireUserID returns the acting user's id or an unauthenticated
// error, before any store call is made.
func requireUserID(ctx context.Context) (string, error) {
	userID := auth.UserID(ctx)
	if userID == "" {
		return "", auth.ErrUnauthenticated
	}
	return userID, nil
}

// currentUser loads the acting user's record for permission checks.
func (r *Resolver) currentUser(ctx context.Context) (*model.User, error) {
	userID, err := requireUserID(ctx)
	if err != nil {
		return nil, err
	}
	user, err := r.Store.UserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, auth.ErrUnauthenticated
		}
		return nil, err
	}
	return user, nil
}

// issueSession signs a session token for the user and writes it as the
// token cookie.
func (r *Resolver) issueSession(ctx context.Context, user *model.User) error {
	token, err := auth.SignToken(user.ID, r.Secret)
	if err != nil {
		return fmt.Errorf("signing session token: %w", err)
	}
	auth.SetSessionCookie(ctx, token)
	return nil
}

// CreateItem is the resolver for the createItem field.
func (r *mutationResolver) CreateItem(ctx context.Context, title string, description string, price int, image *string, largeImage *string) (*model.Item, error) {
	userID, err := requireUserID(ctx)
	if err != nil {
		return nil, err
	}

	item := &model.Item{
		Title:       title,
		Description: description,
		Price:       price,
		Image:       image,
		LargeImage:  largeImage,
		UserID:      userID,
	}
	if err := r.Store.CreateItem(ctx, item); err != nil {
		return nil, err
	}

	if r.Search != nil {
		if err := r.Search.IndexItem(item); err != nil {
			r.Log.Warn().Err(err).Str("item", item.ID).Msg("indexing item")
		}
	}
	return item, nil
}

// UpdateItem is the resolver for the updateItem field. The id is never
// part of the update payload.
func (r *mutationResolver) UpdateItem(ctx context.Context, id string, title *string, description *string, price *int, image *string, largeImage *string) (*model.Item, error) {
	if _, err := requireUserID(ctx); err != nil {
		return nil, err
	}

	item, err := r.Store.UpdateItem(ctx, id, store.ItemUpdates{
		Title:       title,
		Description: description,
		Price:       price,
		Image:       image,
		LargeImage:  largeImage,
	})
	if err != nil {
		return nil, err
	}

	if r.Search != nil {
		if err := r.Search.IndexItem(item); err != nil {
			r.Log.Warn().Err(err).Str("item", item.ID).Msg("reindexing item")
		}
	}
	return item, nil
}

// DeleteItem is the resolver for the deleteItem field. The actor must
// own the item or hold ADMIN or ITEMDELETE. The ownership check and the
// delete run in one transaction.
func (r *mutationResolver) DeleteItem(ctx context.Context, id string) (*model.Item, error) {
	user, err := r.currentUser(ctx)
	if err != nil {
		return nil, err
	}

	item, err := r.Store.DeleteItem(ctx, id, func(item *model.Item) error {
		if item.UserID == user.ID {
			return nil
		}
		return auth.HasPermission(user, model.PermissionAdmin, model.PermissionItemDelete)
	})
	if err != nil {
		return nil, err
	}

	if r.Search != nil {
		if err := r.Search.DeleteItem(id); err != nil {
			r.Log.Warn().Err(err).Str("item", id).Msg("removing item from index")
		}
	}
	return item, nil
}

// Signup is the resolver for the signup field.
func (r *mutationResolver) Signup(ctx context.Context, email string, password string, name string) (*model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	user := &model.User{
		Name:        name,
		Email:       email,
		Password:    string(hash),
		Permissions: model.DefaultPermissions(),
	}
	if err := r.Store.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	if err := r.issueSession(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Signin is the resolver for the signin field.
func (r *mutationResolver) Signin(ctx context.Context, email string, password string) (*model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := r.Store.UserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("no such user found for email %s", email)
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, errors.New("invalid password")
	}

	if err := r.issueSession(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Signout clears the session cookie. Tokens are stateless, so the token
// itself stays valid until it expires.
func (r *mutationResolver) Signout(ctx context.Context) (*gmodel.SuccessMessage, error) {
	auth.ClearSessionCookie(ctx)
	return &gmodel.SuccessMessage{Message: "Goodbye!"}, nil
}

// RequestReset stores a reset token with a one hour expiry and mails it.
// The acknowledgement is the same whether or not the email exists, so
// the mutation cannot be used to probe for accounts.
func (r *mutationResolver) RequestReset(ctx context.Context, email string) (*gmodel.SuccessMessage, error) {
	ack := &gmodel.SuccessMessage{Message: "Thanks!"}

	email = strings.ToLower(strings.TrimSpace(email))
	user, err := r.Store.UserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			r.Log.Debug().Str("email", email).Msg("reset requested for unknown email")
			return ack, nil
		}
		return nil, err
	}

	token, err := gonanoid.New(40)
	if err != nil {
		return nil, fmt.Errorf("generating reset token: %w", err)
	}
	expiry := time.Now().Add(resetTokenTTL)
	if err := r.Store.SetResetToken(ctx, user.ID, token, expiry); err != nil {
		return nil, err
	}

	if err := r.Mailer.SendPasswordReset(ctx, user.Email, token); err != nil {
		return nil, err
	}
	return ack, nil
}

// ResetPassword is the resolver for the resetPassword field. The
// confirmation check runs before any lookup.
func (r *mutationResolver) ResetPassword(ctx context.Context, resetToken string, password string, confirmPassword string) (*model.User, error) {
	if password != confirmPassword {
		return nil, errors.New("your passwords don't match")
	}

	user, err := r.Store.UserByResetToken(ctx, resetToken, time.Now())
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, errors.New("this token is either invalid or expired")
		}
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	user, err = r.Store.ResetPassword(ctx, user.ID, string(hash))
	if err != nil {
		return nil, err
	}

	if err := r.issueSession(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// UpdatePermissions replaces a user's permission set. Requires ADMIN or
// PERMISSIONUPDATE.
func (r *mutationResolver) UpdatePermissions(ctx context.Context, permissions []model.Permission, userID string) (*model.User, error) {
	actor, err := r.currentUser(ctx)
	if err != nil {
		return nil, err
	}
	if err := auth.HasPermission(actor, model.PermissionAdmin, model.PermissionPermissionUpdate); err != nil {
		return nil, err
	}

	perms := model.PermissionList(permissions)
	if err := perms.Validate(); err != nil {
		return nil, err
	}

	user, err := r.Store.UpdatePermissions(ctx, userID, perms)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("no such user %s", userID)
		}
		return nil, err
	}
	return user, nil
}

// AddToCart increments the line for (user, item) or creates it.
func (r *mutationResolver) AddToCart(ctx context.Context, id string) (*model.CartItem, error) {
	userID, err := requireUserID(ctx)
	if err != nil {
		return nil, err
	}

	line, err := r.Store.AddToCart(ctx, userID, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("no such item %s", id)
		}
		return nil, err
	}
	return line, nil
}

// RemoveFromCart deletes a cart line after verifying the actor owns it.
func (r *mutationResolver) RemoveFromCart(ctx context.Context, id string) (*model.CartItem, error) {
	userID, err := requireUserID(ctx)
	if err != nil {
		return nil, err
	}

	line, err := r.Store.CartItemByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, errors.New("no cart item found")
		}
		return nil, err
	}
	if line.UserID != userID {
		return nil, auth.ErrForbidden
	}

	if err := r.Store.DeleteCartItem(ctx, id); err != nil {
		return nil, err
	}
	return line, nil
}

// CreateOrder charges the cart total and freezes the cart into an
// order. The charge has no compensation path; order creation and cart
// cleanup share one transaction.
func (r *mutationResolver) CreateOrder(ctx context.Context, token string) (*model.Order, error) {
	userID, err := requireUserID(ctx)
	if err != nil {
		return nil, err
	}

	lines, err := r.Store.CartForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	var (
		total      int
		orderItems []*model.OrderItem
		lineIDs    []string
	)
	for _, line := range lines {
		if line.Item == nil {
			continue
		}
		total += line.Item.Price * line.Quantity
		orderItems = append(orderItems, &model.OrderItem{
			Title:       line.Item.Title,
			Description: line.Item.Description,
			Image:       line.Item.Image,
			LargeImage:  line.Item.LargeImage,
			Price:       line.Item.Price,
			Quantity:    line.Quantity,
		})
		lineIDs = append(lineIDs, line.ID)
	}
	if len(orderItems) == 0 {
		return nil, errors.New("your cart is empty")
	}

	chargeID, err := r.Gateway.Charge(ctx, total, r.Currency, token)
	if err != nil {
		return nil, err
	}
	r.Log.Info().Str("charge", chargeID).Int("amount", total).Msg("charge captured")

	order := &model.Order{
		UserID: userID,
		Total:  total,
		Charge: chargeID,
		Items:  orderItems,
	}
	if err := r.Store.CreateOrder(ctx, order, lineIDs); err != nil {
		return nil, err
	}
	return order, nil
}

// Items is the resolver for the items field.
func (r *queryResolver) Items(ctx context.Context, search *string, skip *int, first *int) ([]*model.Item, error) {
	if search != nil && strings.TrimSpace(*search) != "" && r.Search != nil {
		ids, err := r.Search.Search(*search, 0)
		if err != nil {
			return nil, err
		}
		ids = window(ids, skip, first)
		return r.Store.ItemsByID(ctx, ids)
	}
	return r.Store.Items(ctx, skip, first)
}

// window applies skip/first to an id slice.
func window(ids []string, skip, first *int) []string {
	if skip != nil && *skip > 0 {
		if *skip >= len(ids) {
			return nil
		}
		ids = ids[*skip:]
	}
	if first != nil && *first >= 0 && *first < len(ids) {
		ids = ids[:*first]
	}
	return ids
}

// Item is the resolver for the item field. A miss returns null rather
// than an error.
func (r *queryResolver) Item(ctx context.Context, id string) (*model.Item, error) {
	item, err := r.Store.ItemByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return item, nil
}

// ItemsConnection is the resolver for the itemsConnection field.
func (r *queryResolver) ItemsConnection(ctx context.Context, search *string) (*gmodel.ItemConnection, error) {
	if search != nil && strings.TrimSpace(*search) != "" && r.Search != nil {
		ids, err := r.Search.Search(*search, 0)
		if err != nil {
			return nil, err
		}
		return &gmodel.ItemConnection{Aggregate: &gmodel.Aggregate{Count: len(ids)}}, nil
	}

	count, err := r.Store.CountItems(ctx)
	if err != nil {
		return nil, err
	}
	return &gmodel.ItemConnection{Aggregate: &gmodel.Aggregate{Count: count}}, nil
}

// Me returns the signed-in user, or null so the storefront still
// renders for anonymous visitors.
func (r *queryResolver) Me(ctx context.Context) (*model.User, error) {
	userID := auth.UserID(ctx)
	if userID == "" {
		return nil, nil
	}
	user, err := r.Store.UserByID(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

// Users lists every account. Requires ADMIN or PERMISSIONUPDATE.
func (r *queryResolver) Users(ctx context.Context) ([]*model.User, error) {
	actor, err := r.currentUser(ctx)
	if err != nil {
		return nil, err
	}
	if err := auth.HasPermission(actor, model.PermissionAdmin, model.PermissionPermissionUpdate); err != nil {
		return nil, err
	}
	return r.Store.Users(ctx)
}

// Order returns a single order. Only the owner or an ADMIN may see it.
func (r *queryResolver) Order(ctx context.Context, id string) (*model.Order, error) {
	user, err := r.currentUser(ctx)
	if err != nil {
		return nil, err
	}

	order, err := r.Store.OrderByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("no such order %s", id)
		}
		return nil, err
	}

	if order.UserID != user.ID {
		if err := auth.HasPermission(user, model.PermissionAdmin); err != nil {
			return nil, err
		}
	}
	return order, nil
}

// Orders lists the signed-in user's own orders.
func (r *queryResolver) Orders(ctx context.Context) ([]*model.Order, error) {
	userID, err := requireUserID(ctx)
	if err != nil {
		return nil, err
	}
	return r.Store.OrdersForUser(ctx, userID)
}

// Permissions is the resolver for the User.permissions field. It is a
// plain passthrough: gqlgen cannot bind the model's named PermissionList
// slice type to [Permission!]! directly.
func (r *userResolver) Permissions(ctx context.Context, obj *model.User) ([]model.Permission, error) {
	return obj.Permissions, nil
}

// Cart is the resolver for the User.cart field.
func (r *userResolver) Cart(ctx context.Context, obj *model.User) ([]*model.CartItem, error) {
	if obj.Cart != nil {
		return obj.Cart, nil
	}
	return r.Store.CartForUser(ctx, obj.ID)
}

// User is the resolver for the Item.user field.
func (r *itemResolver) User(ctx context.Context, obj *model.Item) (*model.User, error) {
	if obj.User != nil {
		return obj.User, nil
	}
	if obj.UserID == "" {
		return nil, nil
	}
	user, err := r.Store.UserByID(ctx, obj.UserID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

// User is the resolver for the CartItem.user field.
func (r *cartItemResolver) User(ctx context.Context, obj *model.CartItem) (*model.User, error) {
	if obj.User != nil {
		return obj.User, nil
	}
	return r.Store.UserByID(ctx, obj.UserID)
}

// User is the resolver for the Order.user field.
func (r *orderResolver) User(ctx context.Context, obj *model.Order) (*model.User, error) {
	if obj.User != nil {
		return obj.User, nil
	}
	return r.Store.UserByID(ctx, obj.UserID)
}

// CartItem returns CartItemResolver implementation.
func (r *Resolver) CartItem() CartItemResolver { return &cartItemResolver{r} }

// Item returns ItemResolver implementation.
func (r *Resolver) Item() ItemResolver { return &itemResolver{r} }

// Mutation returns MutationResolver implementation.
func (r *Resolver) Mutation() MutationResolver { return &mutationResolver{r} }

// Order returns OrderResolver implementation.
func (r *Resolver) Order() OrderResolver { return &orderResolver{r} }

// Query returns QueryResolver implementation.
func (r *Resolver) Query() QueryResolver { return &queryResolver{r} }

// User returns UserResolver implementation.
func (r *Resolver) User() UserResolver { return &userResolver{r} }

type cartItemResolver struct{ *Resolver }
type itemResolver struct{ *Resolver }
type mutationResolver struct{ *Resolver }
type orderResolver struct{ *Resolver }
type queryResolver struct{ *Resolver }
type userResolver struct{ *Resolver }


