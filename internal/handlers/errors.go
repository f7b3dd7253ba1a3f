package handlers

import (
	"errors"
	"net/http"

	"github.com/R4Lcoding/RaduBrowserServer/internal/models"
)

const (
	msgUserNotFound   = "User not found"
	msgBanned         = "User is banned"
	msgWrongPassword  = "Wrong password"
	msgUsernameExists = "Username exists"
	msgFillAll        = "Fill all fields"
	msgOldPassword    = "Old password incorrect"
	msgMismatch       = "Passwords do not match"
	msgAdminOnly      = "Admin only"
	msgNotFound       = "Not found"
	msgSelfBan        = "Cannot ban yourself"
	msgInternal       = "internal error"
)

// defaultMessages is checked in order, so causes come before ErrInvalidInput
// which may wrap them.
var defaultMessages = []struct {
	err error
	msg string
}{
	{models.ErrBanned, msgBanned},
	{models.ErrNotFound, msgUserNotFound},
	{models.ErrWrongPassword, msgWrongPassword},
	{models.ErrAlreadyExists, msgUsernameExists},
	{models.ErrMismatch, msgMismatch},
	{models.ErrSelfBan, msgSelfBan},
	{models.ErrInvalidInput, msgFillAll},
}

// classify maps err to a status and message. overrides replace the default
// message for specific sentinels.
func classify(err error, overrides map[error]string) (int, string) {
	if errors.Is(err, models.ErrNotAuthorized) {
		return http.StatusForbidden, msgAdminOnly
	}
	for _, m := range defaultMessages {
		if !errors.Is(err, m.err) {
			continue
		}
		if msg, ok := overrides[m.err]; ok {
			return http.StatusOK, msg
		}
		return http.StatusOK, m.msg
	}
	return http.StatusInternalServerError, msgInternal
}
