package handlers

import (
	"encoding/json"
	"errors"

	"github.com/go-playground/validator/v10"

	"github.com/nfrund/denote/internal/domain"
)

// CustomValidator wraps the go-playground/validator library to implement Echo's Validator interface.
type CustomValidator struct {
	validator *validator.Validate
}

// NewValidator creates a new CustomValidator with the `profilename` and
// `ownertoken` tags registered.
func NewValidator() *CustomValidator {
	v := validator.New()
	if err := domain.RegisterValidations(v); err != nil {
		panic(err)
	}
	return &CustomValidator{validator: v}
}

// Validate implements the echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

// ClaimRequest is the body of POST /. Config is either a JSON object or a
// string holding one, which is what the CLI sends.
type ClaimRequest struct {
	Name   string          `json:"name" validate:"required,profilename"`
	Token  string          `json:"token" validate:"required,ownertoken"`
	Config json.RawMessage `json:"config" validate:"required"`
}

// RemoveRequest is the body of DELETE /.
type RemoveRequest struct {
	Name  string `json:"name" validate:"required,profilename"`
	Token string `json:"token" validate:"required,ownertoken"`
}

var errNullConfig = errors.New("config is null")

// ConfigJSON unwraps the config field into raw JSON text.
func (r *ClaimRequest) ConfigJSON() ([]byte, error) {
	if len(r.Config) == 0 || string(r.Config) == "null" {
		return nil, errNullConfig
	}
	if r.Config[0] == '"' {
		var s string
		if err := json.Unmarshal(r.Config, &s); err != nil {
			return nil, err
		}
		return []byte(s), nil
	}
	return r.Config, nil
}
