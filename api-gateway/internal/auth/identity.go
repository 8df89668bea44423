package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	log "github.com/sirupsen/logrus"
)

const (
	HeaderUserEmail = "X-User-Email"
	HeaderUserName  = "X-User-Name"
)

var ErrInvalidToken = errors.New("invalid or expired token")

// Identity is the signed-in shopper or operator.
type Identity struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

type Claims struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	jwt.RegisteredClaims
}

// Verifier checks HS256 tokens issued by the identity provider.
type Verifier struct {
	secret []byte
}

func NewVerifier(secret string) *Verifier {
	return &Verifier{secret: []byte(secret)}
}

func (v *Verifier) Verify(tokenStr string) (Identity, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		return v.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return Identity{}, ErrInvalidToken
	}
	email := strings.TrimSpace(claims.Email)
	if email == "" {
		return Identity{}, ErrInvalidToken
	}
	return Identity{Email: email, Name: strings.TrimSpace(claims.Name)}, nil
}

// Issue signs a token for id. The gateway only verifies; this is used by tests and local tooling.
func (v *Verifier) Issue(id Identity, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Email: id.Email,
		Name:  id.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(v.secret)
}

type contextKey struct{}

func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, contextKey{}, id)
}

func FromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(contextKey{}).(Identity)
	return id, ok
}

// Middleware resolves the caller's identity. Client-supplied identity headers are always dropped;
// a valid bearer token restores them from the verified claims. Requests without a token pass
// through anonymous, requests with a bad one are rejected.
func (v *Verifier) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.Header.Del(HeaderUserEmail)
		r.Header.Del(HeaderUserName)

		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			next.ServeHTTP(w, r)
			return
		}
		if !strings.HasPrefix(authHeader, "Bearer ") {
			unauthorized(w, "Authorization header must be Bearer <token>")
			return
		}

		id, err := v.Verify(strings.TrimPrefix(authHeader, "Bearer "))
		if err != nil {
			log.WithField("path", r.URL.Path).Info("Rejected identity token")
			unauthorized(w, "Invalid or expired token")
			return
		}

		r.Header.Set(HeaderUserEmail, id.Email)
		if id.Name != "" {
			r.Header.Set(HeaderUserName, id.Name)
		}
		next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
	})
}

func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
