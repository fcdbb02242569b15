package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"

	"github.com/lockboxlabs/gatekey/internal/auth/domain"
	"github.com/lockboxlabs/gatekey/internal/auth/store"
	"github.com/lockboxlabs/gatekey/pkg/cryptox"
	"github.com/lockboxlabs/gatekey/pkg/idx"
	"github.com/lockboxlabs/gatekey/pkg/slogx"
)

var (
	ErrMissingCredentials = errors.New("missing_credentials")
	ErrInvalidCredentials = errors.New("invalid_credentials")
	ErrAccountDisabled    = errors.New("account_disabled")
	ErrUsernameTaken      = errors.New("username_taken")
)

// ValidationError carries per-field validation messages keyed by the JSON
// field name.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %d field(s)", len(e.Fields))
}

type UserService struct {
	Store store.Store
}

// RegisterInput is the data needed to create an account.
type RegisterInput struct {
	Username  string
	Email     string
	Password  string
	Password2 string
	FirstName string
	LastName  string
}

// Validate checks field formats. Username uniqueness is checked separately
// against the store so its message lands in the same Fields map.
func (in RegisterInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Username,
			validation.Required,
			validation.Length(3, 32),
		),
		// Email is optional; is.Email skips blank values.
		validation.Field(&in.Email, is.Email),
		validation.Field(&in.Password,
			validation.Required,
			validation.Length(8, 128),
		),
		validation.Field(&in.Password2,
			validation.Required,
			validation.By(matchesString(in.Password, "passwords do not match")),
		),
		validation.Field(&in.FirstName, validation.Length(0, 64)),
		validation.Field(&in.LastName, validation.Length(0, 64)),
	)
}

// Register validates the input, hashes the password, and creates the account.
// On bad input it returns a *ValidationError listing every failed field at
// once, including a taken username.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (domain.User, error) {
	l := slogx.FromContext(ctx)

	fields := map[string]string{}
	if err := in.Validate(); err != nil {
		var verrs validation.Errors
		if !errors.As(err, &verrs) {
			return domain.User{}, err
		}
		for name, ferr := range verrs {
			fields[jsonFieldName(name)] = ferr.Error()
		}
	}

	if _, taken := fields["username"]; !taken && in.Username != "" {
		exists, err := s.Store.Users().UsernameExists(ctx, in.Username)
		if err != nil {
			return domain.User{}, err
		}
		if exists {
			fields["username"] = "a user with that username already exists"
		}
	}

	if len(fields) > 0 {
		return domain.User{}, &ValidationError{Fields: fields}
	}

	hash, err := cryptox.HashPassword(in.Password)
	if err != nil {
		return domain.User{}, err
	}

	now := time.Now().UTC()
	user := domain.User{
		ID:           idx.New().String(),
		Username:     in.Username,
		Email:        in.Email,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		PasswordHash: hash,
		IsActive:     true,
		JoinedAt:     now,
		UpdatedAt:    now,
	}

	if err := s.Store.Users().CreateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			// Lost a race with a concurrent registration for the same name.
			return domain.User{}, &ValidationError{Fields: map[string]string{
				"username": "a user with that username already exists",
			}}
		}
		return domain.User{}, err
	}

	l.Info("user registered", slog.String("user_id", user.ID), slog.String("username", user.Username))
	return user, nil
}

// Authenticate checks a username/password pair. Missing fields are reported
// before any lookup; a wrong username and a wrong password are
// indistinguishable to the caller. Disabled accounts are only reported as
// such when the password was correct.
func (s *UserService) Authenticate(ctx context.Context, username, password string) (domain.User, error) {
	l := slogx.FromContext(ctx)

	if username == "" || password == "" {
		return domain.User{}, ErrMissingCredentials
	}

	user, err := s.Store.Users().GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// Burn a verification anyway so unknown usernames take as long
			// as wrong passwords.
			_ = cryptox.VerifyPassword(password, dummyHash)
			return domain.User{}, ErrInvalidCredentials
		}
		return domain.User{}, err
	}

	if err := cryptox.VerifyPassword(password, user.PasswordHash); err != nil {
		l.Info("authentication failed", slog.String("username", username))
		return domain.User{}, ErrInvalidCredentials
	}

	if !user.IsActive {
		l.Info("disabled account login attempt", slog.String("user_id", user.ID))
		return domain.User{}, ErrAccountDisabled
	}

	return user, nil
}

// GetProfile fetches a user by id.
func (s *UserService) GetProfile(ctx context.Context, userID string) (domain.User, error) {
	return s.Store.Users().GetUserByID(ctx, userID)
}

// UpdateProfileInput holds the mutable profile fields. Nil pointers mean
// "leave unchanged"; read-only attributes have no representation here at all.
type UpdateProfileInput struct {
	Email     *string
	FirstName *string
	LastName  *string
}

// UpdateProfile applies a partial update and returns the updated user.
func (s *UserService) UpdateProfile(ctx context.Context, userID string, in UpdateProfileInput) (domain.User, error) {
	if in.Email != nil && *in.Email != "" {
		if err := validation.Validate(*in.Email, is.Email); err != nil {
			return domain.User{}, &ValidationError{Fields: map[string]string{
				"email": err.Error(),
			}}
		}
	}

	user, err := s.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		return domain.User{}, err
	}

	if in.Email != nil {
		user.Email = *in.Email
	}
	if in.FirstName != nil {
		user.FirstName = *in.FirstName
	}
	if in.LastName != nil {
		user.LastName = *in.LastName
	}

	if err := s.Store.Users().UpdateUser(ctx, user); err != nil {
		return domain.User{}, err
	}

	return s.Store.Users().GetUserByID(ctx, userID)
}

func matchesString(expected, msg string) validation.RuleFunc {
	return func(value interface{}) error {
		s, _ := value.(string)
		if s != expected {
			return errors.New(msg)
		}
		return nil
	}
}

// jsonFieldName maps ozzo's Go field names onto the API's snake_case names.
func jsonFieldName(name string) string {
	switch name {
	case "Username":
		return "username"
	case "Email":
		return "email"
	case "Password":
		return "password"
	case "Password2":
		return "password2"
	case "FirstName":
		return "first_name"
	case "LastName":
		return "last_name"
	default:
		return name
	}
}

// dummyHash is a valid argon2id digest of a random string, used to equalize
// timing between unknown-username and wrong-password failures.
var dummyHash = func() string {
	h, err := cryptox.HashPassword("gatekey-timing-pad")
	if err != nil {
		panic(err)
	}
	return h
}()
