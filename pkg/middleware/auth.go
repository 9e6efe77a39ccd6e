package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/vfg2006/ads-refresh-engine/internal/domain"
)

type contextKey string

const (
	ContextKeyUser contextKey = "user"
)

// Rotas liberadas sem autenticação
var publicPaths = map[string]struct{}{
	"/healthcheck": {},
}

type tokenClaims struct {
	UserID     string `json:"user_id"`
	UserRoleID int    `json:"user_role_id"`
	jwt.RegisteredClaims
}

// AuthMiddleware valida o bearer token JWT emitido pelo serviço de sessão
// (colaborador externo) e injeta os claims no contexto da requisição
func AuthMiddleware(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := publicPaths[r.URL.Path]; ok {
				next.ServeHTTP(w, r)
				return
			}

			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				http.Error(w, "Authorization header is required", http.StatusUnauthorized)
				return
			}

			tokenString := strings.TrimPrefix(authHeader, "Bearer ")
			if tokenString == authHeader {
				http.Error(w, "Bearer token is required", http.StatusUnauthorized)
				return
			}

			claims := &tokenClaims{}
			token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, jwt.ErrSignatureInvalid
				}
				return []byte(secret), nil
			})
			if err != nil || !token.Valid {
				http.Error(w, "Invalid token", http.StatusUnauthorized)
				return
			}

			userClaims := &domain.Claims{
				UserID:     claims.UserID,
				UserRoleID: claims.UserRoleID,
			}

			ctx := context.WithValue(r.Context(), ContextKeyUser, userClaims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
