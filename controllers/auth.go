package controllers

import (
	"DuoPlay/middleware"
	"DuoPlay/services/auth"
	"DuoPlay/utils"
	"log"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

// refreshTokenKey is the session entry holding the refresh token of browser clients
const refreshTokenKey = "refreshToken"

type loginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type refreshInput struct {
	RefreshToken string `json:"refreshToken"`
}

type changePasswordInput struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required,min=8,max=100"`
}

func clientMeta(c *gin.Context) auth.ClientMeta {
	return auth.ClientMeta{UserAgent: c.Request.UserAgent(), IP: c.ClientIP()}
}

// saveRefreshToken mirrors the refresh token in the session cookie. A cookie
// failure is not fatal since the token is also in the response body.
func saveRefreshToken(c *gin.Context, token string) {
	session := sessions.Default(c)
	if token == "" {
		session.Delete(refreshTokenKey)
	} else {
		session.Set(refreshTokenKey, token)
	}
	if err := session.Save(); err != nil {
		log.Printf("[SESSION-ERROR] Could not save session cookie: %v", err)
	}
}

// refreshTokenFrom prefers the request body and falls back to the session cookie
func refreshTokenFrom(c *gin.Context) string {
	var in refreshInput
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&in); err == nil && in.RefreshToken != "" {
			return in.RefreshToken
		}
	}
	if token, ok := sessions.Default(c).Get(refreshTokenKey).(string); ok {
		return token
	}
	return ""
}

// @Summary Register a new user
// @Description Creates the account and returns an access/refresh token pair
// @Tags auth
// @Accept json
// @Produce json
// @Param user body auth.RegisterInput true "New account"
// @Success 201 {object} auth.AuthResult
// @Failure 400 {object} utils.AppError
// @Failure 409 {object} utils.AppError
// @Router /api/auth/register [post]
func Register(authService *auth.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in auth.RegisterInput
		if err := c.ShouldBindJSON(&in); err != nil {
			c.Error(utils.BindingError(err))
			return
		}

		result, err := authService.Register(c.Request.Context(), in, clientMeta(c))
		if err != nil {
			c.Error(err)
			return
		}
		saveRefreshToken(c, result.RefreshToken)
		c.JSON(http.StatusCreated, result)
	}
}

// @Summary Log in
// @Tags auth
// @Accept json
// @Produce json
// @Param credentials body object{email=string,password=string} true "Credentials"
// @Success 200 {object} auth.AuthResult
// @Failure 401 {object} utils.AppError
// @Router /api/auth/login [post]
func Login(authService *auth.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in loginInput
		if err := c.ShouldBindJSON(&in); err != nil {
			c.Error(utils.BindingError(err))
			return
		}

		result, err := authService.Login(c.Request.Context(), in.Email, in.Password, clientMeta(c))
		if err != nil {
			c.Error(err)
			return
		}
		saveRefreshToken(c, result.RefreshToken)
		c.JSON(http.StatusOK, result)
	}
}

// @Summary Rotate the refresh token
// @Description Uses the refreshToken of the body, or the one kept in the session cookie
// @Tags auth
// @Accept json
// @Produce json
// @Param token body object{refreshToken=string} false "Refresh token"
// @Success 200 {object} auth.AuthResult
// @Failure 401 {object} utils.AppError
// @Router /api/auth/refresh [post]
func Refresh(authService *auth.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		result, err := authService.Refresh(c.Request.Context(), refreshTokenFrom(c), clientMeta(c))
		if err != nil {
			c.Error(err)
			return
		}
		saveRefreshToken(c, result.RefreshToken)
		c.JSON(http.StatusOK, result)
	}
}

// @Summary Log out
// @Tags auth
// @Accept json
// @Produce json
// @Param token body object{refreshToken=string} false "Refresh token"
// @Success 200 {object} object{message=string}
// @Router /api/auth/logout [post]
func Logout(authService *auth.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := authService.Logout(c.Request.Context(), refreshTokenFrom(c)); err != nil {
			c.Error(err)
			return
		}
		saveRefreshToken(c, "")
		c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
	}
}

// @Summary Current user
// @Tags auth
// @Produce json
// @Param Authorization header string true "Bearer JWT token"
// @Success 200 {object} object{user=postgres.User}
// @Failure 401 {object} utils.AppError
// @Router /api/auth/me [get]
// @Security ApiKeyAuth
func Me(authService *auth.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := authService.GetUser(c.Request.Context(), middleware.CurrentUserID(c))
		if err != nil {
			c.Error(err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"user": user})
	}
}

// @Summary Change password
// @Description Every session of the user is closed afterwards
// @Tags auth
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer JWT token"
// @Param passwords body object{currentPassword=string,newPassword=string} true "Passwords"
// @Success 200 {object} object{message=string}
// @Failure 400 {object} utils.AppError
// @Router /api/auth/change-password [post]
// @Security ApiKeyAuth
func ChangePassword(authService *auth.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in changePasswordInput
		if err := c.ShouldBindJSON(&in); err != nil {
			c.Error(utils.BindingError(err))
			return
		}

		err := authService.ChangePassword(c.Request.Context(), middleware.CurrentUserID(c), in.CurrentPassword, in.NewPassword)
		if err != nil {
			c.Error(err)
			return
		}
		saveRefreshToken(c, "")
		c.JSON(http.StatusOK, gin.H{"message": "Password changed successfully"})
	}
}

// @Summary Verify an email address
// @Tags auth
// @Produce json
// @Param token path string true "Verification token"
// @Success 200 {object} object{message=string}
// @Failure 400 {object} utils.AppError
// @Router /api/auth/verify-email/{token} [get]
func VerifyEmail(authService *auth.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := authService.VerifyEmail(c.Request.Context(), c.Param("token")); err != nil {
			c.Error(err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Email verified successfully"})
	}
}
