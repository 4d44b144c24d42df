package registry

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"

	"github.com/nfrund/denote/internal/domain"
)

// Messages returned for rejected input. They are shown to API callers verbatim.
var (
	MsgInvalidName   = fmt.Sprintf("invalid name. this must match with /%s/", domain.NamePattern)
	MsgInvalidToken  = fmt.Sprintf("invalid token. this must match with /%s/", domain.TokenPattern)
	MsgInvalidConfig = "invalid config. this must be a valid JSON which contains 'list' key."
)

// ValidationError is a field-scoped rejection of a registry request.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// ValidateName reports whether name may be claimed.
func ValidateName(name string) bool {
	return domain.NamePattern.MatchString(name)
}

// ValidateToken reports whether token is acceptable as an owner token.
func ValidateToken(token string) bool {
	return domain.TokenPattern.MatchString(token)
}

func checkCredentials(name, token string) error {
	if !ValidateName(name) {
		return &ValidationError{Field: "name", Message: MsgInvalidName}
	}
	if !ValidateToken(token) {
		return &ValidationError{Field: "token", Message: MsgInvalidToken}
	}
	return nil
}

// HashToken derives the stored ownership hash of a name/token pair.
func HashToken(name, token string) string {
	sum := sha256.Sum256([]byte(name + token))
	return hex.EncodeToString(sum[:])
}

func hashesEqual(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
