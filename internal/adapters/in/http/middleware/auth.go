// internal/adapters/in/http/middleware/auth.go
package middleware

import (
	"context"
	"net/http"
	"strings"

	fbauth "firebase.google.com/go/v4/auth"

	usecase "brewhaven/internal/application/usecase"
	custdom "brewhaven/internal/domain/customer"
)

// FirebaseAuthClient is an alias so DI code can carry the client as
// *middleware.FirebaseAuthClient.
type FirebaseAuthClient = fbauth.Client

// context keys use a private type to avoid collisions (SA1029).
type ctxKey struct{ name string }

var ctxKeyIdentity = ctxKey{name: "currentIdentity"}

// guestIDHeader lets an unauthenticated client pin its session to a
// previously minted guest id so its cart survives across requests.
const guestIDHeader = "X-Guest-Id"

// AuthMiddleware resolves the caller into a usecase.Identity:
//
//   - Authorization: Bearer <ID_TOKEN> is verified against Firebase; the
//     "admin" custom claim marks console operators.
//   - Without a token the caller becomes a guest. A valid X-Guest-Id header
//     is reused, otherwise a fresh placeholder id is minted.
//
// Invalid tokens are rejected outright rather than downgraded to guest.
type AuthMiddleware struct {
	FirebaseAuth *FirebaseAuthClient
}

func (m *AuthMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")

		if !strings.HasPrefix(authHeader, "Bearer ") {
			ident := guestIdentity(r.Header.Get(guestIDHeader))
			w.Header().Set(guestIDHeader, ident.ID)
			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), ident)))
			return
		}

		if m.FirebaseAuth == nil {
			http.Error(w, "auth middleware not initialized", http.StatusServiceUnavailable)
			return
		}

		idToken := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
		if idToken == "" {
			http.Error(w, "unauthorized: empty bearer token", http.StatusUnauthorized)
			return
		}

		token, err := m.FirebaseAuth.VerifyIDToken(r.Context(), idToken)
		if err != nil {
			http.Error(w, "invalid token", http.StatusUnauthorized)
			return
		}

		uid := strings.TrimSpace(token.UID)
		if uid == "" {
			http.Error(w, "invalid uid in token", http.StatusUnauthorized)
			return
		}

		ident := &usecase.Identity{
			ID:    uid,
			Name:  claimString(token.Claims, "name"),
			Email: claimString(token.Claims, "email"),
			Phone: claimString(token.Claims, "phone_number"),
			Admin: claimBool(token.Claims, "admin"),
		}

		next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), ident)))
	})
}

// RequireAdmin gates console routes on the admin custom claim.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ident, ok := CurrentIdentity(r)
		if !ok || ident.Guest() {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		if !ident.Admin {
			http.Error(w, "forbidden: admin only", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// WithIdentity stores the resolved identity on the context (also used by
// handler tests).
func WithIdentity(ctx context.Context, ident *usecase.Identity) context.Context {
	return context.WithValue(ctx, ctxKeyIdentity, ident)
}

// CurrentIdentity returns the identity resolved by AuthMiddleware.
func CurrentIdentity(r *http.Request) (*usecase.Identity, bool) {
	ident, ok := r.Context().Value(ctxKeyIdentity).(*usecase.Identity)
	if !ok || ident == nil {
		return nil, false
	}
	return ident, true
}

func guestIdentity(requested string) *usecase.Identity {
	id := strings.TrimSpace(requested)
	if !custdom.IsGuestID(id) {
		id = custdom.NewGuestID()
	}
	return &usecase.Identity{ID: id}
}

func claimString(claims map[string]any, key string) string {
	if v, ok := claims[key]; ok {
		if s, ok2 := v.(string); ok2 {
			return strings.TrimSpace(s)
		}
	}
	return ""
}

func claimBool(claims map[string]any, key string) bool {
	if v, ok := claims[key]; ok {
		if b, ok2 := v.(bool); ok2 {
			return b
		}
	}
	return false
}
