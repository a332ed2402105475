package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
)

// PrincipalKey is the gin context key holding the authenticated *Principal.
const PrincipalKey = "principal"

// Permission codes.
const (
	PermissionManageChannels = "MANAGE_CHANNELS"
	PermissionManageShipping = "MANAGE_SHIPPING"
)

// RoleAdmin is granted every permission.
const RoleAdmin = "admin"

// Principal is the caller of a request: a user (staff or customer) or an app.
type Principal struct {
	UserID      string
	Role        string
	Permissions []string
	IsApp       bool
}

// HasPermission reports whether the principal was granted perm. Nil principals have none.
func (p *Principal) HasPermission(perm string) bool {
	if p == nil {
		return false
	}
	if p.Role == RoleAdmin {
		return true
	}
	for _, granted := range p.Permissions {
		if granted == perm {
			return true
		}
	}
	return false
}

type principalCtxKey struct{}

// WithPrincipal stores p on ctx.
func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalCtxKey{}, p)
}

// PrincipalFromContext returns the caller stored on ctx, or nil for anonymous requests.
func PrincipalFromContext(ctx context.Context) *Principal {
	p, _ := ctx.Value(principalCtxKey{}).(*Principal)
	return p
}

// Claims are the JWT claims issued by the auth service.
type Claims struct {
	UserID      string   `json:"user_id"`
	Role        string   `json:"role"`
	Permissions []string `json:"permissions"`
	Type        string   `json:"typ"`
	jwt.RegisteredClaims
}

// ParseToken validates an HMAC-signed access or app token and returns its claims.
func ParseToken(tokenStr string, secret []byte) (*Claims, error) {
	if len(secret) == 0 {
		return nil, errors.New("JWT secret not configured")
	}
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secret, nil
	})
	if err != nil || token == nil || !token.Valid {
		return nil, errors.New("invalid or expired token")
	}
	if claims.Type != "" && claims.Type != "access" && claims.Type != "app" {
		return nil, errors.New("invalid token type")
	}
	if claims.UserID == "" {
		claims.UserID = claims.Subject
	}
	return claims, nil
}

// AuthMiddleware resolves the caller from a Bearer JWT. When trustGatewayHeaders
// is set the X-User-ID, X-User-Role and X-User-Permissions headers written by
// the API gateway are accepted as well; otherwise they are ignored. Requests
// without credentials continue anonymously; an invalid token is rejected.
func AuthMiddleware(jwtSecret []byte, trustGatewayHeaders bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		var principal *Principal

		if header := c.GetHeader("Authorization"); header != "" {
			if !strings.HasPrefix(header, "Bearer ") {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token format"})
				return
			}
			claims, err := ParseToken(strings.TrimPrefix(header, "Bearer "), jwtSecret)
			if err != nil {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
				return
			}
			principal = &Principal{
				UserID:      claims.UserID,
				Role:        claims.Role,
				Permissions: claims.Permissions,
				IsApp:       claims.Type == "app",
			}
		} else if userID := c.GetHeader("X-User-ID"); trustGatewayHeaders && userID != "" {
			principal = &Principal{
				UserID:      userID,
				Role:        c.GetHeader("X-User-Role"),
				Permissions: splitPermissions(c.GetHeader("X-User-Permissions")),
			}
		}

		if principal != nil {
			c.Set(PrincipalKey, principal)
			c.Request = c.Request.WithContext(WithPrincipal(c.Request.Context(), principal))
		}
		c.Next()
	}
}

// RequireUser rejects anonymous requests.
func RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := c.Get(PrincipalKey); !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		c.Next()
	}
}

// GetPrincipal returns the caller of a gin request, or nil.
func GetPrincipal(c *gin.Context) *Principal {
	if v, ok := c.Get(PrincipalKey); ok {
		if p, ok := v.(*Principal); ok {
			return p
		}
	}
	return nil
}

func splitPermissions(header string) []string {
	var perms []string
	for _, p := range strings.Split(header, ",") {
		if p = strings.TrimSpace(p); p != "" {
			perms = append(perms, strings.ToUpper(p))
		}
	}
	return perms
}
