package handler

import (
	"context"
	"errors"
	"strings"

	"github.com/Mani19492/darkctf-arena/src/domain"
	"github.com/Mani19492/darkctf-arena/src/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

const identityKey = "identity"

func SetMiddlewares(ctx context.Context, ginRouter *gin.Engine) {
	ginRouter.Use(LoggerMiddleware(ctx))
}

func LoggerMiddleware(ctx context.Context) gin.HandlerFunc {
	return func(c *gin.Context) {

		zlog := zerolog.Ctx(ctx).With().
			Str("path", c.FullPath()).
			Str("method", c.Request.Method).
			Logger()
		ctx = zlog.WithContext(ctx)
		c.Request = c.Request.WithContext(zlog.WithContext(ctx))
		c.Next()
	}
}

// AuthMiddleware resolves the Authorization bearer token to an identity
// and aborts with 401 when it is missing or invalid.
func AuthMiddleware(authService *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			respondWithError(c, domain.NewError(
				domain.ErrorCodeAuthNotAuthenticated,
				errors.New("missing authorization header"),
				domain.WithMsg("Missing authorization header"),
			))
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			respondWithError(c, domain.NewError(
				domain.ErrorCodeAuthNotAuthenticated,
				errors.New("malformed authorization header"),
				domain.WithMsg("Invalid authentication"),
			))
			return
		}

		identity, err := authService.VerifyToken(parts[1])
		if err != nil {
			respondWithError(c, domain.NewError(
				domain.ErrorCodeAuthNotAuthenticated,
				err,
				domain.WithMsg("Invalid authentication"),
			))
			return
		}

		c.Set(identityKey, identity)
		c.Next()
	}
}

// AdminMiddleware requires an authenticated identity with the admin
// claim. It must run after AuthMiddleware.
func AdminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := identityFromContext(c)
		if !ok {
			respondWithError(c, domain.NewError(
				domain.ErrorCodeAuthNotAuthenticated,
				errors.New("no identity in request context"),
				domain.WithMsg("Invalid authentication"),
			))
			return
		}

		if !identity.IsAdmin {
			respondWithError(c, domain.NewError(
				domain.ErrorCodeAuthPermissionDenied,
				errors.New("admin privileges required"),
				domain.WithMsg("Admin privileges required"),
			))
			return
		}
		c.Next()
	}
}

func identityFromContext(c *gin.Context) (*service.Identity, bool) {
	value, exists := c.Get(identityKey)
	if !exists {
		return nil, false
	}
	identity, ok := value.(*service.Identity)
	return identity, ok
}
