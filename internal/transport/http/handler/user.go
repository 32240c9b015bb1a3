package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"vidtube/internal/app"
	"vidtube/internal/model"
	"vidtube/internal/transport/http/middleware"
	"vidtube/internal/transport/http/response"
)

type CookieOptions struct {
	Secure     bool
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

type UserHandler struct {
	authService    *app.AuthService
	accountService *app.AccountService
	uploads        UploadOptions
	cookies        CookieOptions
}

type LoginRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type ChangePasswordRequest struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}

type UpdateAccountRequest struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
}

func NewUserHandler(authService *app.AuthService, accountService *app.AccountService, uploads UploadOptions, cookies CookieOptions) *UserHandler {
	return &UserHandler{
		authService:    authService,
		accountService: accountService,
		uploads:        uploads,
		cookies:        cookies,
	}
}

func (h *UserHandler) Register(c *gin.Context) {
	h.uploads.limitBody(c)

	avatarPath, err := h.uploads.save(c, "avatar")
	if err != nil {
		response.Fail(c, err)
		return
	}
	coverPath, err := h.uploads.save(c, "coverImage")
	if err != nil {
		removeTemp(avatarPath)
		response.Fail(c, err)
		return
	}
	defer removeTemp(avatarPath, coverPath)

	user, err := h.authService.Register(c.Request.Context(), app.RegisterInput{
		FullName:       c.PostForm("fullName"),
		Email:          c.PostForm("email"),
		Username:       c.PostForm("username"),
		Password:       c.PostForm("password"),
		AvatarPath:     avatarPath,
		CoverImagePath: coverPath,
	})
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusCreated, user, "user registered successfully")
}

func (h *UserHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, app.ErrInvalidPayload)
		return
	}

	result, err := h.authService.Login(c.Request.Context(), app.LoginInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		response.Fail(c, err)
		return
	}

	h.setTokenCookies(c, result.Tokens)
	response.OK(c, gin.H{
		"user":         result.User,
		"accessToken":  result.Tokens.AccessToken,
		"refreshToken": result.Tokens.RefreshToken,
	}, "user logged in successfully")
}

func (h *UserHandler) Logout(c *gin.Context) {
	user, ok := app.IdentityFromContext(c.Request.Context())
	if !ok {
		response.Fail(c, app.ErrUnauthorizedRequest)
		return
	}
	if err := h.authService.Logout(c.Request.Context(), user.ID); err != nil {
		response.Fail(c, err)
		return
	}

	h.clearTokenCookies(c)
	response.OK(c, nil, "user logged out")
}

func (h *UserHandler) RefreshToken(c *gin.Context) {
	presented, _ := c.Cookie(middleware.RefreshTokenCookie)
	if presented == "" {
		var req RefreshRequest
		_ = c.ShouldBindJSON(&req)
		presented = req.RefreshToken
	}

	tokens, err := h.authService.RefreshTokens(c.Request.Context(), presented)
	if err != nil {
		response.Fail(c, err)
		return
	}

	h.setTokenCookies(c, tokens)
	response.OK(c, tokens, "access token refreshed")
}

func (h *UserHandler) ChangePassword(c *gin.Context) {
	user, ok := app.IdentityFromContext(c.Request.Context())
	if !ok {
		response.Fail(c, app.ErrUnauthorizedRequest)
		return
	}

	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, app.ErrInvalidPayload)
		return
	}
	if err := h.accountService.ChangePassword(c.Request.Context(), user.ID, app.ChangePasswordInput{
		OldPassword: req.OldPassword,
		NewPassword: req.NewPassword,
	}); err != nil {
		response.Fail(c, err)
		return
	}
	response.OK(c, nil, "password changed successfully")
}

func (h *UserHandler) CurrentUser(c *gin.Context) {
	user, ok := app.IdentityFromContext(c.Request.Context())
	if !ok {
		response.Fail(c, app.ErrUnauthorizedRequest)
		return
	}
	response.OK(c, user, "current user fetched successfully")
}

func (h *UserHandler) UpdateAccount(c *gin.Context) {
	user, ok := app.IdentityFromContext(c.Request.Context())
	if !ok {
		response.Fail(c, app.ErrUnauthorizedRequest)
		return
	}

	var req UpdateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, app.ErrInvalidPayload)
		return
	}
	updated, err := h.accountService.UpdateAccount(c.Request.Context(), user.ID, app.UpdateAccountInput{
		FullName: req.FullName,
		Email:    req.Email,
	})
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.OK(c, updated, "account details updated successfully")
}

func (h *UserHandler) UpdateAvatar(c *gin.Context) {
	h.replaceImage(c, "avatar", h.accountService.UpdateAvatar, "avatar image updated successfully")
}

func (h *UserHandler) UpdateCoverImage(c *gin.Context) {
	h.replaceImage(c, "coverImage", h.accountService.UpdateCoverImage, "cover image updated successfully")
}

type imageUpdater func(ctx context.Context, userID uint, localPath string) (*model.User, error)

func (h *UserHandler) replaceImage(c *gin.Context, field string, update imageUpdater, message string) {
	user, ok := app.IdentityFromContext(c.Request.Context())
	if !ok {
		response.Fail(c, app.ErrUnauthorizedRequest)
		return
	}

	h.uploads.limitBody(c)
	localPath, err := h.uploads.save(c, field)
	if err != nil {
		response.Fail(c, err)
		return
	}
	defer removeTemp(localPath)

	updated, err := update(c.Request.Context(), user.ID, localPath)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.OK(c, updated, message)
}

func (h *UserHandler) setTokenCookies(c *gin.Context, tokens *app.TokenPair) {
	c.SetCookie(middleware.AccessTokenCookie, tokens.AccessToken, int(h.cookies.AccessTTL.Seconds()), "/", "", h.cookies.Secure, true)
	c.SetCookie(middleware.RefreshTokenCookie, tokens.RefreshToken, int(h.cookies.RefreshTTL.Seconds()), "/", "", h.cookies.Secure, true)
}

func (h *UserHandler) clearTokenCookies(c *gin.Context) {
	c.SetCookie(middleware.AccessTokenCookie, "", -1, "/", "", h.cookies.Secure, true)
	c.SetCookie(middleware.RefreshTokenCookie, "", -1, "/", "", h.cookies.Secure, true)
}
