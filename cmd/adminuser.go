package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"

	"github.com/hmans/threads/internal/model"
	"github.com/hmans/threads/internal/store"
	"github.com/hmans/threads/internal/ui"
)

var adminuserCmd = &cobra.Command{
	Use:   "adminuser <email>",
	Short: "Create an admin account or grant ADMIN to an existing one",
	Long: `Looks up the user by email. An existing user is granted the ADMIN
permission after confirmation; otherwise a new account is created
interactively.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		email := strings.ToLower(strings.TrimSpace(args[0]))

		user, err := db.UserByEmail(ctx, email)
		switch {
		case err == nil:
			return promote(ctx, user)
		case errors.Is(err, store.ErrNotFound):
			return createAdmin(ctx, email)
		default:
			return err
		}
	},
}

// promote adds ADMIN to an existing user's permission set.
func promote(ctx context.Context, user *model.User) error {
	if user.Permissions.Has(model.PermissionAdmin) {
		fmt.Println(ui.Muted.Render(user.Email + " already has ADMIN"))
		return nil
	}

	var confirm bool
	err := huh.NewConfirm().
		Title(fmt.Sprintf("Grant ADMIN to %s (%s)?", user.Name, user.Email)).
		Affirmative("Yes").
		Negative("No").
		Value(&confirm).
		Run()
	if err != nil {
		return err
	}
	if !confirm {
		fmt.Println("Cancelled")
		return nil
	}

	perms := append(user.Permissions, model.PermissionAdmin)
	if _, err := db.UpdatePermissions(ctx, user.ID, perms); err != nil {
		return err
	}
	fmt.Println(ui.Success.Render("Granted ADMIN to ") + ui.ID.Render(user.Email))
	return nil
}

// createAdmin interactively creates a fresh admin account.
func createAdmin(ctx context.Context, email string) error {
	var name, password string

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Name").
				Value(&name),
			huh.NewInput().
				Title("Password").
				EchoMode(huh.EchoModePassword).
				Value(&password),
		),
	)
	if err := form.Run(); err != nil {
		return err
	}
	if password == "" {
		return fmt.Errorf("password must not be empty")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), 10)
	if err != nil {
		return err
	}

	user := &model.User{
		Name:     name,
		Email:    email,
		Password: string(hash),
		Permissions: model.PermissionList{
			model.PermissionUser,
			model.PermissionAdmin,
		},
	}
	if err := db.CreateUser(ctx, user); err != nil {
		return err
	}

	fmt.Println(ui.Success.Render("Created admin ") + ui.ID.Render(user.Email))
	return nil
}

func init() {
	rootCmd.AddCommand(adminuserCmd)
}
