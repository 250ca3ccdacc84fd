package middleware

import (
	"net/http"
	"strings"

	"github.com/aihub/chatbot-go/internal/auth"
	"github.com/aihub/chatbot-go/internal/logger"
	"github.com/beego/beego/v2/server/web"
	beecontext "github.com/beego/beego/v2/server/web/context"
	"go.uber.org/zap"
)

// SecurityMiddleware 管理接口的JWT认证中间件
type SecurityMiddleware struct {
	jwtService *auth.JWTService
}

// NewSecurityMiddleware 创建安全中间件，jwtService为nil时管理接口全部拒绝
func NewSecurityMiddleware(jwtService *auth.JWTService) *SecurityMiddleware {
	return &SecurityMiddleware{jwtService: jwtService}
}

// AdminRequired 管理接口认证过滤器
func (sm *SecurityMiddleware) AdminRequired() web.FilterFunc {
	return func(ctx *beecontext.Context) {
		claims, err := sm.authenticate(ctx)
		if err != nil {
			logger.Warn("管理接口认证失败",
				zap.String("path", ctx.Request.RequestURI),
				zap.Error(err))
			ctx.Output.SetStatus(http.StatusUnauthorized)
			ctx.Output.JSON(map[string]interface{}{
				"success": false,
				"error":   "unauthorized",
			}, false, false)
			return
		}
		ctx.Input.SetData("admin_subject", claims.Subject)
	}
}

func (sm *SecurityMiddleware) authenticate(ctx *beecontext.Context) (*auth.AdminClaims, error) {
	if sm.jwtService == nil {
		return nil, errNoJWT
	}

	authHeader := ctx.Input.Header("Authorization")
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return nil, errBadHeader
	}

	claims, err := sm.jwtService.ValidateToken(parts[1])
	if err != nil {
		return nil, err
	}
	if err := claims.RequireRole("admin"); err != nil {
		return nil, err
	}
	return claims, nil
}

var (
	errNoJWT     = &authError{"admin auth is not configured"}
	errBadHeader = &authError{"missing or malformed Authorization header"}
)

type authError struct{ msg string }

func (e *authError) Error() string { return e.msg }
