package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pressroom/internal/auth"
)

// 解码后的令牌身份保存在请求级上下文中，不使用任何进程级会话状态。
const claimsContextKey = "__auth_claims"

// AuthRequired 校验 bearer 令牌：先提取、再验签，任一失败返回 401。
func (a *API) AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, err := auth.BearerToken(c.GetHeader("Authorization"))
		if err != nil {
			respondError(c, http.StatusUnauthorized, "Token mancante")
			c.Abort()
			return
		}

		claims, err := a.tokens.Verify(raw)
		if err != nil {
			respondError(c, http.StatusUnauthorized, "Token non valido")
			c.Abort()
			return
		}

		c.Set(claimsContextKey, claims)
		c.Next()
	}
}

// RequireAction 在 AuthRequired 之后执行，按授权策略表拒绝角色不足的调用。
func (a *API) RequireAction(action auth.Action) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := claimsFrom(c)
		if claims == nil {
			respondError(c, http.StatusUnauthorized, "Autenticazione richiesta")
			c.Abort()
			return
		}

		if !auth.CanPerform(claims, action) {
			respondError(c, http.StatusForbidden, "Permessi insufficienti")
			c.Abort()
			return
		}

		c.Next()
	}
}

func claimsFrom(c *gin.Context) *auth.Claims {
	value, exists := c.Get(claimsContextKey)
	if !exists {
		return nil
	}
	claims, ok := value.(*auth.Claims)
	if !ok {
		return nil
	}
	return claims
}
