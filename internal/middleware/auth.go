package middleware

import (
	"net/http"
	"strings"

	"go-cinema-booking/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const (
	ContextUserID = "user_id"
	ContextRole   = "role"
)

// Auth 驗證 Bearer access token 並把 sub 與 role 放進請求 context。
// 憑證簽發在外部服務，這裡只驗簽與取 claims。
func Auth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		auth := c.GetHeader("Authorization")
		if !strings.HasPrefix(auth, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}
		raw := strings.TrimPrefix(auth, "Bearer ")

		tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(secret), nil
		})
		if err != nil || !tok.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		claims, ok := tok.Claims.(jwt.MapClaims)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid claims"})
			return
		}

		sub, ok := claims["sub"].(float64)
		if !ok || sub <= 0 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid subject"})
			return
		}

		role, _ := claims["role"].(string)
		if role == "" {
			role = model.RoleUser
		}

		c.Set(ContextUserID, int(sub))
		c.Set(ContextRole, role)
		c.Next()
	}
}

// RequireStaff 限制僅限櫃檯／後台人員的端點，需接在 Auth 之後
func RequireStaff() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(ContextRole) != model.RoleStaff {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "staff only"})
			return
		}
		c.Next()
	}
}

// UserID 取出 Auth 放入的使用者編號
func UserID(c *gin.Context) int {
	return c.GetInt(ContextUserID)
}

// IsStaff 回報目前請求是否為工作人員
func IsStaff(c *gin.Context) bool {
	return c.GetString(ContextRole) == model.RoleStaff
}
