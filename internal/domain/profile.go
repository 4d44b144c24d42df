package domain

import (
	"context"
	"regexp"

	"github.com/go-playground/validator/v10"
)

var (
	// NamePattern matches a claimable profile name.
	NamePattern = regexp.MustCompile(`^[a-z][a-z0-9_-]{2,64}$`)

	// TokenPattern matches an owner token: printable ASCII without spaces.
	TokenPattern = regexp.MustCompile(`^[!-~]{8,128}$`)
)

// RegisterValidations adds the `profilename` and `ownertoken` tags to v.
func RegisterValidations(v *validator.Validate) error {
	if err := v.RegisterValidation("profilename", func(fl validator.FieldLevel) bool {
		return NamePattern.MatchString(fl.Field().String())
	}); err != nil {
		return err
	}
	return v.RegisterValidation("ownertoken", func(fl validator.FieldLevel) bool {
		return TokenPattern.MatchString(fl.Field().String())
	})
}

// ProfileRecord is one registry row. The raw token is never stored.
type ProfileRecord struct {
	Name        string `json:"name" db:"name"`
	HashedToken string `json:"hashedToken" db:"hashed_token"`
	Config      string `json:"config" db:"config"`
}

// ProfileRepository stores records keyed by name. It has no notion of ownership;
// Put creates or overwrites and Delete of an absent name is not an error.
type ProfileRepository interface {
	// Get returns ErrNotFound when no record exists.
	Get(ctx context.Context, name string) (*ProfileRecord, error)
	Put(ctx context.Context, rec *ProfileRecord) error
	Delete(ctx context.Context, name string) error
	Close() error
}
