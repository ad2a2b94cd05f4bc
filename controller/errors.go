package controller

import (
	"errors"
	"net/http"

	"github.com/Xushengqwer/go-common/commonerrors"
	"github.com/gin-gonic/gin"

	"github.com/Xushengqwer/identity_hub/constants"
	"github.com/Xushengqwer/identity_hub/models/vo"
)

const (
	msgTelegramAuthFailed = "invalid telegram authentication"
	msgInternal           = "internal server error"
	msgNotFound           = "identity not found"
	msgUnauthenticated    = "authentication required"
)

// respondError writes the {error, details?} body.
func respondError(c *gin.Context, status int, message, details string) {
	c.AbortWithStatusJSON(status, vo.ErrorResponse{Error: message, Details: details})
}

// respondBindError answers a request whose body failed binding or validation.
func respondBindError(c *gin.Context, err error) {
	respondError(c, http.StatusBadRequest, constants.ErrMalformedPayload.Error(), err.Error())
}

// statusFor maps a service error to its HTTP status and public message.
// collapseAccount reports inactive and deleted accounts as bad credentials.
func statusFor(err error, collapseAccount bool) (int, string) {
	switch {
	case errors.Is(err, constants.ErrMalformedPayload):
		return http.StatusBadRequest, constants.ErrMalformedPayload.Error()
	case errors.Is(err, constants.ErrPhoneConflict),
		errors.Is(err, constants.ErrEmailTaken),
		errors.Is(err, constants.ErrOldPasswordIncorrect),
		errors.Is(err, constants.ErrAvatarStorageOff):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, constants.ErrSignatureInvalid), errors.Is(err, constants.ErrPayloadStale):
		return http.StatusUnauthorized, msgTelegramAuthFailed
	case errors.Is(err, constants.ErrInvalidCredentials):
		return http.StatusUnauthorized, constants.ErrInvalidCredentials.Error()
	case errors.Is(err, constants.ErrAccountInactive), errors.Is(err, constants.ErrAccountDeleted):
		if collapseAccount {
			return http.StatusUnauthorized, constants.ErrInvalidCredentials.Error()
		}
		return http.StatusUnauthorized, err.Error()
	case errors.Is(err, constants.ErrInvalidToken):
		return http.StatusUnauthorized, constants.ErrInvalidToken.Error()
	case errors.Is(err, constants.ErrTooManyAttempts):
		return http.StatusTooManyRequests, constants.ErrTooManyAttempts.Error()
	case errors.Is(err, commonerrors.ErrRepoNotFound):
		return http.StatusNotFound, msgNotFound
	default:
		return http.StatusInternalServerError, msgInternal
	}
}

func respondServiceError(c *gin.Context, err error, collapseAccount bool) {
	status, msg := statusFor(err, collapseAccount)
	respondError(c, status, msg, "")
}

// outcomeFor labels a login result for metrics.
func outcomeFor(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, constants.ErrSignatureInvalid):
		return "bad_signature"
	case errors.Is(err, constants.ErrPayloadStale):
		return "stale"
	case errors.Is(err, constants.ErrPhoneConflict):
		return "phone_conflict"
	case errors.Is(err, constants.ErrInvalidCredentials):
		return "bad_credentials"
	case errors.Is(err, constants.ErrAccountInactive), errors.Is(err, constants.ErrAccountDeleted):
		return "account_unavailable"
	case errors.Is(err, constants.ErrTooManyAttempts):
		return "throttled"
	case errors.Is(err, constants.ErrInvalidToken):
		return "bad_token"
	default:
		return "error"
	}
}

// identityIDFrom returns the identity placed in the context by the auth middleware.
func identityIDFrom(c *gin.Context) (string, bool) {
	id := c.GetString(string(constants.IdentityIDKey))
	return id, id != ""
}
