package domain

import (
	"chatd/errors"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// The space check is explicit: excludesall takes its value as literal runes
// (only 0x2C and 0x7C have hex aliases), so no tag can express "no spaces".
const (
	usernameRules = "required,min=1,max=32,printascii"
	roomNameRules = "required,min=1,max=64,printascii"
)

// ValidateUsername rejects empty names, names over 32 characters, and names
// containing spaces or non-printable characters.
func ValidateUsername(name string) error {
	if strings.ContainsRune(name, ' ') {
		return errors.ErrInvalidUsername
	}
	if err := validate.Var(name, usernameRules); err != nil {
		return errors.ErrInvalidUsername
	}
	return nil
}

// ValidateRoomName applies the same character rules as usernames with a
// 64 character limit.
func ValidateRoomName(name string) error {
	if strings.ContainsRune(name, ' ') {
		return errors.ErrInvalidRoomName
	}
	if err := validate.Var(name, roomNameRules); err != nil {
		return errors.ErrInvalidRoomName
	}
	return nil
}
