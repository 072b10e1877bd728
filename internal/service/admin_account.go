package service

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"workconnect/internal/model"
	"workconnect/internal/validate"
)

type AdminAccountStore interface {
	EnsureAdmin(ctx context.Context, nu model.NewUser) (model.User, bool, error)
}

type AdminAccountRequest struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// EnsureAdminAccount creates the admin or promotes an existing user and
// resets their password. created reports whether a new row was inserted.
func EnsureAdminAccount(ctx context.Context, store AdminAccountStore, req AdminAccountRequest) (user model.User, created bool, err error) {
	in := validate.Input{
		"email":      strings.TrimSpace(req.Email),
		"password":   req.Password,
		"first_name": strings.TrimSpace(req.FirstName),
		"last_name":  strings.TrimSpace(req.LastName),
	}
	errs := validate.Check(in,
		validate.Field("email", validate.Required(), validate.Email()),
		validate.Field("password", validate.Required(), validate.MinLength(minPasswordChars)),
		validate.Field("first_name", validate.Required(), validate.MaxLength(100)),
		validate.Field("last_name", validate.Required(), validate.MaxLength(100)),
	)
	if errs.Fails() {
		return model.User{}, false, errs.Err()
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		return model.User{}, false, fmt.Errorf("hash admin password: %w", err)
	}

	return store.EnsureAdmin(ctx, model.NewUser{
		Email:        strings.ToLower(in["email"]),
		PasswordHash: string(hash),
		FirstName:    in["first_name"],
		LastName:     in["last_name"],
		Role:         model.RoleAdmin,
	})
}
