package middleware

import (
	"DuoPlay/services/auth"
	"DuoPlay/services/partnerships"
	"DuoPlay/utils"

	"github.com/gin-gonic/gin"
)

// Keys stored in the gin context by the middlewares of this package
const (
	userIDKey        = "userId"
	usernameKey      = "username"
	partnershipIDKey = "partnershipId"
	partnerIDKey     = "partnerId"
)

// AuthRequired accepts requests carrying a valid "Authorization: Bearer" access
// token and stores the user in the context.
func AuthRequired(tokens *auth.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := tokens.Verify(auth.BearerToken(c.GetHeader("Authorization")))
		if err != nil {
			c.Error(err)
			c.Abort()
			return
		}
		c.Set(userIDKey, claims.UserID)
		c.Set(usernameKey, claims.Username)
		c.Next()
	}
}

// RequirePartnership must run after AuthRequired. Users without an active
// partnership get NO_PARTNERSHIP.
func RequirePartnership(store *partnerships.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !requireAuth(c) {
			return
		}
		partnership, partner, err := store.FindPartner(c.Request.Context(), CurrentUserID(c))
		if err != nil {
			c.Error(err)
			c.Abort()
			return
		}
		if partnership == nil {
			c.Error(partnerships.ErrNoPartnership)
			c.Abort()
			return
		}
		c.Set(partnershipIDKey, partnership.ID)
		if partner != nil {
			c.Set(partnerIDKey, partner.ID)
		}
		c.Next()
	}
}

func CurrentUserID(c *gin.Context) string {
	return c.GetString(userIDKey)
}

func CurrentUsername(c *gin.Context) string {
	return c.GetString(usernameKey)
}

func CurrentPartnershipID(c *gin.Context) string {
	return c.GetString(partnershipIDKey)
}

func CurrentPartnerID(c *gin.Context) string {
	return c.GetString(partnerIDKey)
}

// requireAuth guards middlewares that depend on AuthRequired having run
func requireAuth(c *gin.Context) bool {
	if CurrentUserID(c) == "" {
		c.Error(utils.ErrAuthRequired)
		c.Abort()
		return false
	}
	return true
}
