package controller

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Xushengqwer/identity_hub/config"
	"github.com/Xushengqwer/identity_hub/models/dto"
	"github.com/Xushengqwer/identity_hub/models/vo"
	"github.com/Xushengqwer/identity_hub/service/profile"
	"github.com/Xushengqwer/identity_hub/utils"
)

const maxAvatarSize = 5 * 1024 * 1024

// ProfileController serves the authenticated identity's own profile. Its
// routes expect RequireAccessToken in front of them.
type ProfileController struct {
	profileService profile.ProfileService
	cookieConfig   config.CookieConfig
	logger         *zap.Logger
}

func NewProfileController(
	profileService profile.ProfileService,
	cookieCfg config.CookieConfig,
	logger *zap.Logger,
) *ProfileController {
	return &ProfileController{
		profileService: profileService,
		cookieConfig:   cookieCfg,
		logger:         logger,
	}
}

// GetProfileHandler returns the caller's profile.
// @Summary Get my profile
// @Tags profile
// @Produce json
// @Security BearerAuth
// @Success 200 {object} vo.IdentityProfile
// @Failure 401 {object} vo.ErrorResponse
// @Router /api/v1/identity-hub/profile [get]
func (ctrl *ProfileController) GetProfileHandler(c *gin.Context) {
	identityID, ok := identityIDFrom(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, msgUnauthenticated, "")
		return
	}
	identity, err := ctrl.profileService.GetProfile(c.Request.Context(), identityID)
	if err != nil {
		respondServiceError(c, err, false)
		return
	}
	c.JSON(http.StatusOK, vo.NewIdentityProfile(identity))
}

// UpdateProfileHandler edits the caller's profile. It accepts JSON, or a
// multipart form that may also carry an "avatar" file.
// @Summary Update my profile
// @Tags profile
// @Accept json,mpfd
// @Produce json
// @Security BearerAuth
// @Param body body dto.UpdateProfileDTO false "Fields to change"
// @Param avatar formData file false "New profile photo"
// @Success 200 {object} vo.IdentityProfile
// @Failure 400 {object} vo.ErrorResponse "Malformed payload, email taken or phone bound to another account"
// @Failure 401 {object} vo.ErrorResponse
// @Router /api/v1/identity-hub/profile [patch]
func (ctrl *ProfileController) UpdateProfileHandler(c *gin.Context) {
	const operation = "ProfileController.UpdateProfileHandler"
	identityID, ok := identityIDFrom(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, msgUnauthenticated, "")
		return
	}

	var data dto.UpdateProfileDTO
	if err := c.ShouldBind(&data); err != nil {
		ctrl.logger.Warn("profile update binding failed", zap.String("operation", operation), zap.Error(err))
		respondBindError(c, err)
		return
	}

	var avatar *dto.AvatarUpload
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		if header, err := c.FormFile("avatar"); err == nil {
			if header.Size > maxAvatarSize {
				respondError(c, http.StatusBadRequest, "avatar too large", fmt.Sprintf("limit is %d bytes", maxAvatarSize))
				return
			}
			file, err := header.Open()
			if err != nil {
				respondBindError(c, err)
				return
			}
			defer file.Close()
			avatar = &dto.AvatarUpload{FileName: header.Filename, Size: header.Size, Reader: file}
		}
	}

	identity, err := ctrl.profileService.UpdateProfile(c.Request.Context(), identityID, data, avatar)
	if err != nil {
		respondServiceError(c, err, false)
		return
	}
	c.JSON(http.StatusOK, vo.NewIdentityProfile(identity))
}

// ChangePasswordHandler replaces the caller's password.
// @Summary Change my password
// @Tags profile
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.ChangePasswordDTO true "Old and new password"
// @Success 200 {object} vo.MessageResponse
// @Failure 400 {object} vo.ErrorResponse "Malformed payload or old password incorrect"
// @Failure 401 {object} vo.ErrorResponse
// @Router /api/v1/identity-hub/profile/change-password [post]
func (ctrl *ProfileController) ChangePasswordHandler(c *gin.Context) {
	identityID, ok := identityIDFrom(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, msgUnauthenticated, "")
		return
	}
	var data dto.ChangePasswordDTO
	if err := c.ShouldBindJSON(&data); err != nil {
		respondBindError(c, err)
		return
	}
	if err := ctrl.profileService.ChangePassword(c.Request.Context(), identityID, data); err != nil {
		respondServiceError(c, err, false)
		return
	}
	c.JSON(http.StatusOK, vo.MessageResponse{Success: true, Message: "password changed"})
}

// DeleteAccountHandler soft-deletes the caller. Logging in again through the
// chat-bot restores the account.
// @Summary Delete my account
// @Tags profile
// @Produce json
// @Security BearerAuth
// @Success 200 {object} vo.MessageResponse
// @Failure 401 {object} vo.ErrorResponse
// @Router /api/v1/identity-hub/profile [delete]
func (ctrl *ProfileController) DeleteAccountHandler(c *gin.Context) {
	identityID, ok := identityIDFrom(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, msgUnauthenticated, "")
		return
	}
	if err := ctrl.profileService.DeleteAccount(c.Request.Context(), identityID); err != nil {
		respondServiceError(c, err, false)
		return
	}
	utils.SetRefreshCookie(c, ctrl.cookieConfig, "", 0)
	c.JSON(http.StatusOK, vo.MessageResponse{Success: true, Message: "account deleted"})
}

// LoginHistoryHandler lists the caller's most recent login attempts.
// @Summary My login history
// @Tags profile
// @Produce json
// @Security BearerAuth
// @Success 200 {object} vo.LoginHistoryList
// @Failure 401 {object} vo.ErrorResponse
// @Router /api/v1/identity-hub/profile/login-history [get]
func (ctrl *ProfileController) LoginHistoryHandler(c *gin.Context) {
	identityID, ok := identityIDFrom(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, msgUnauthenticated, "")
		return
	}
	entries, err := ctrl.profileService.LoginHistory(c.Request.Context(), identityID)
	if err != nil {
		respondServiceError(c, err, false)
		return
	}
	c.JSON(http.StatusOK, vo.NewLoginHistoryList(entries))
}

// RegisterRoutes mounts the profile routes on group, which must already
// require an access token.
func (ctrl *ProfileController) RegisterRoutes(group *gin.RouterGroup) {
	profileRoutes := group.Group("/profile")
	{
		profileRoutes.GET("", ctrl.GetProfileHandler)
		profileRoutes.PATCH("", ctrl.UpdateProfileHandler)
		profileRoutes.DELETE("", ctrl.DeleteAccountHandler)
		profileRoutes.POST("/change-password", ctrl.ChangePasswordHandler)
		profileRoutes.GET("/login-history", ctrl.LoginHistoryHandler)
	}
}
