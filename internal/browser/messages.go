package browser

import (
	"errors"

	"github.com/R4Lcoding/RaduBrowserServer/internal/models"
)

// describe turns a directory error into the line shown to the user. ok is
// false for errors that are not a refusal, such as storage failures.
func describe(err error, wrongPassword string) (msg string, ok bool) {
	switch {
	case errors.Is(err, models.ErrBanned):
		return "This account is banned", true
	case errors.Is(err, models.ErrNotFound):
		return "User not found", true
	case errors.Is(err, models.ErrWrongPassword):
		return wrongPassword, true
	case errors.Is(err, models.ErrAlreadyExists):
		return "User already exists", true
	case errors.Is(err, models.ErrMismatch):
		return "Passwords do not match", true
	case errors.Is(err, models.ErrNotAuthorized):
		return "Admin only", true
	case errors.Is(err, models.ErrSelfBan):
		return "Cannot ban yourself", true
	case errors.Is(err, models.ErrInvalidInput):
		return "Fill all fields", true
	}
	return "", false
}
