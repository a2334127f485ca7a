package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/monocle-dev/taskboard/internal/auth"
	"github.com/monocle-dev/taskboard/internal/logging"
	"github.com/monocle-dev/taskboard/internal/models"
	"github.com/monocle-dev/taskboard/internal/types"
)

type AuthenticatedUser struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
}

// UserLookup resolves the user named by a token.
type UserLookup interface {
	GetUser(ctx context.Context, id uint) (models.User, error)
}

// AuthMiddleware accepts "Authorization: Bearer <token>" or, for browser
// websocket upgrades which cannot set headers, a token query parameter.
func AuthMiddleware(issuer *auth.Issuer, users UserLookup) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		tokenString, ok := bearerToken(ctx)

		if !ok {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "No token, authorization denied"})
			return
		}

		claims, err := issuer.Verify(tokenString)

		if err != nil {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Token is not valid"})
			return
		}

		user, err := users.GetUser(ctx.Request.Context(), claims.UserID)

		if err != nil {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Token is not valid"})
			return
		}

		ctx.Set(types.ContextUserKey, AuthenticatedUser{
			ID:       user.ID,
			Username: user.Username,
		})
		ctx.Request = ctx.Request.WithContext(logging.WithUserID(ctx.Request.Context(), user.ID))
		ctx.Next()
	}
}

func bearerToken(ctx *gin.Context) (string, bool) {
	if header := ctx.GetHeader("Authorization"); header != "" {
		parts := strings.SplitN(header, " ", 2)

		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
			return "", false
		}

		return parts[1], true
	}

	if token := ctx.Query("token"); token != "" {
		return token, true
	}

	return "", false
}
