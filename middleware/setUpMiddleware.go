package middleware

import (
	"DuoPlay/config"
	"net/http"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
)

// SessionName is the cookie that keeps the refresh token for browser clients
const SessionName = "duoplay_session"

func SetUpMiddleware(r *gin.Engine, cfg *config.AppConfig) {
	store := cookie.NewStore([]byte(cfg.Auth.SessionKey))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   int(cfg.Auth.RefreshTokenTTL.Seconds()),
		HttpOnly: true,
		Secure:   cfg.UseHTTPS,
		SameSite: http.SameSiteLaxMode,
	})
	r.Use(sessions.Sessions(SessionName, store))

	r.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins(cfg.ClientURL),
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))
}

// allowedOrigins splits a comma separated CLIENT_URL
func allowedOrigins(clientURL string) []string {
	var origins []string
	for _, origin := range strings.Split(clientURL, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, strings.TrimSuffix(origin, "/"))
		}
	}
	if len(origins) == 0 {
		origins = []string{"http://localhost:5173"}
	}
	return origins
}
