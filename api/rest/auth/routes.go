package auth

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
	mgin "github.com/ulule/limiter/v3/drivers/middleware/gin"
	"github.com/ulule/limiter/v3/drivers/store/memory"

	"codeberg.org/relaychat/server/internal/auth"
	"codeberg.org/relaychat/server/relaychat/users"
)

// registers all authentication routes. Credential endpoints are rate limited
// per IP to slow down brute-force attempts.
func RegisterRoutes(router *gin.RouterGroup, userStore users.Store) {
	rate := limiter.Rate{
		Period: 1 * time.Minute,
		Limit:  10,
	}

	rateLimiter := mgin.NewMiddleware(limiter.New(memory.NewStore(), rate))

	authGroup := router.Group("/auth")
	{
		authGroup.POST("/register", rateLimiter, RegisterHandler(userStore))
		authGroup.POST("/login", rateLimiter, LoginHandler(userStore))
		authGroup.POST("/logout", LogoutHandler())
		authGroup.GET("/me", auth.AuthMiddleware(), GetCurrentUserHandler(userStore))
	}
}
