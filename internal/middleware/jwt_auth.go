package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

type ctxKey string

const ctxPrincipal ctxKey = "principal"

const (
	RoleService = "service"

	HeaderServiceKey = "X-Service-Key"
	HeaderProjectID  = "X-Project-ID"
)

// Principal is the resolved caller identity. ProjectID scopes every
// campaign and dashboard operation of the request.
type Principal struct {
	UserID    string
	Role      string
	ProjectID string
	Service   bool
}

func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, ctxPrincipal, p)
}

func PrincipalFrom(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(ctxPrincipal).(Principal)
	return p, ok
}

func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]any{"error": "unauthorized", "message": message})
}

// Authenticate resolves the caller from either a bearer JWT carrying sub,
// role and project_id claims, or a service key with an explicit project
// header. serviceKeyHash is a bcrypt hash; when empty, service keys are
// refused.
func Authenticate(secret string, serviceKeyHash string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if key := r.Header.Get(HeaderServiceKey); key != "" {
				p, msg := serviceKeyPrincipal(key, r.Header.Get(HeaderProjectID), serviceKeyHash)
				if msg != "" {
					unauthorized(w, msg)
					return
				}
				next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), p)))
				return
			}

			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				unauthorized(w, "Missing Authorization header")
				return
			}
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				unauthorized(w, "Invalid Authorization header")
				return
			}

			p, msg := tokenPrincipal(parts[1], secret)
			if msg != "" {
				unauthorized(w, msg)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), p)))
		})
	}
}

func tokenPrincipal(tokenString, secret string) (Principal, string) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithLeeway(30*time.Second))
	if err != nil || token == nil || !token.Valid {
		return Principal{}, "Invalid token"
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return Principal{}, "Invalid token claims"
	}

	sub, _ := claims["sub"].(string)
	role, _ := claims["role"].(string)
	projectID, _ := claims["project_id"].(string)
	if sub == "" {
		return Principal{}, "Invalid token subject"
	}
	if strings.TrimSpace(projectID) == "" {
		return Principal{}, "Token carries no project"
	}
	return Principal{UserID: sub, Role: role, ProjectID: projectID}, ""
}

func serviceKeyPrincipal(key, projectID, hash string) (Principal, string) {
	if hash == "" {
		return Principal{}, "Service keys are not accepted"
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(key)); err != nil {
		return Principal{}, "Invalid service key"
	}
	if strings.TrimSpace(projectID) == "" {
		return Principal{}, "Missing " + HeaderProjectID + " header"
	}
	return Principal{Role: RoleService, ProjectID: projectID, Service: true}, ""
}
