package controller

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/Xushengqwer/go-common/commonerrors"
	"github.com/stretchr/testify/assert"

	"github.com/Xushengqwer/identity_hub/constants"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		collapse bool
		status   int
		message  string
	}{
		{"stale", constants.ErrPayloadStale, false, http.StatusUnauthorized, msgTelegramAuthFailed},
		{"signature", constants.ErrSignatureInvalid, false, http.StatusUnauthorized, msgTelegramAuthFailed},
		{"phone conflict", constants.ErrPhoneConflict, false, http.StatusBadRequest, constants.ErrPhoneConflict.Error()},
		{"wrapped phone conflict", fmt.Errorf("tx: %w", constants.ErrPhoneConflict), false, http.StatusBadRequest, constants.ErrPhoneConflict.Error()},
		{"inactive shown", constants.ErrAccountInactive, false, http.StatusUnauthorized, constants.ErrAccountInactive.Error()},
		{"inactive collapsed", constants.ErrAccountInactive, true, http.StatusUnauthorized, constants.ErrInvalidCredentials.Error()},
		{"deleted collapsed", constants.ErrAccountDeleted, true, http.StatusUnauthorized, constants.ErrInvalidCredentials.Error()},
		{"throttled", constants.ErrTooManyAttempts, false, http.StatusTooManyRequests, constants.ErrTooManyAttempts.Error()},
		{"not found", commonerrors.ErrRepoNotFound, false, http.StatusNotFound, msgNotFound},
		{"store", constants.ErrIdentityStore, false, http.StatusInternalServerError, msgInternal},
		{"unknown", errors.New("boom"), false, http.StatusInternalServerError, msgInternal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, msg := statusFor(tt.err, tt.collapse)
			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.message, msg)
		})
	}
}

func TestOutcomeFor(t *testing.T) {
	assert.Equal(t, "success", outcomeFor(nil))
	assert.Equal(t, "stale", outcomeFor(constants.ErrPayloadStale))
	assert.Equal(t, "account_unavailable", outcomeFor(constants.ErrAccountDeleted))
	assert.Equal(t, "error", outcomeFor(constants.ErrIdentityStore))
}
