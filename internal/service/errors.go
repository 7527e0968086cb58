package service

import (
	"errors"
	"fmt"

	"github.com/phrazzld/users-api/internal/domain"
	"github.com/phrazzld/users-api/internal/store"
)

// Caller-facing messages. Clients may match on these strings.
const (
	MsgRequiredFields  = "Both name and email are required"
	MsgInvalidUserID   = "Invalid user id"
	MsgInvalidUserData = "Invalid user data"
	MsgEmailExists     = "Email already exists"
	MsgUserNotFound    = "User not found"
)

// mapStoreError converts a gateway error into a *domain.Error.
// Every error maps to some kind; unrecognized errors become KindInternal.
func mapStoreError(err error) *domain.Error {
	var de *domain.Error
	if errors.As(err, &de) {
		return de
	}

	switch {
	case errors.Is(err, store.ErrInvalidID):
		return domain.NewBadRequest(MsgInvalidUserID, err)
	case errors.Is(err, store.ErrInvalidEntity):
		return domain.NewBadRequest(invalidDataMessage(err), err)
	case errors.Is(err, store.ErrDuplicate):
		return domain.NewConflict(MsgEmailExists, err)
	case errors.Is(err, store.ErrNotFound):
		return domain.NewNotFound(MsgUserNotFound, err)
	default:
		return domain.NewInternal(err)
	}
}

// invalidDataMessage names the failing field when the gateway reported one.
func invalidDataMessage(err error) string {
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		return fmt.Sprintf("%s: %s", MsgInvalidUserData, ve.Error())
	}
	return MsgInvalidUserData
}
