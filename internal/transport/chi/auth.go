package chi

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/oipwg/recordindex/internal/domain/access"
)

type viewerCtxKey struct{}

// authClaims carries the viewer identity. Subject is the viewer's public key.
type authClaims struct {
	Admin bool `json:"admin,omitempty"`
	jwt.RegisteredClaims
}

// ViewerFromContext returns the authenticated viewer, or the anonymous
// zero value when the request carried no valid token.
func ViewerFromContext(ctx context.Context) access.Viewer {
	if v, ok := ctx.Value(viewerCtxKey{}).(access.Viewer); ok {
		return v
	}
	return access.Viewer{}
}

// JWTAuthMiddleware returns a middleware that resolves the viewer identity
// from an optional Bearer JWT (HS256). Requests without a token, or with an
// invalid one, proceed as anonymous; visibility filtering downstream decides
// what an anonymous viewer may see. If secret is empty, authentication is
// disabled and every request is anonymous.
func JWTAuthMiddleware(secret []byte, adminPubKeys []string) func(http.Handler) http.Handler {
	admins := make(map[string]struct{}, len(adminPubKeys))
	for _, k := range adminPubKeys {
		if k != "" {
			admins[k] = struct{}{}
		}
	}

	return func(next http.Handler) http.Handler {
		if len(secret) == 0 {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			viewer, err := verifyToken(token, secret, admins)
			if err != nil {
				// Invalid credentials degrade to anonymous rather than 401:
				// public records stay reachable with an expired token.
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), viewerCtxKey{}, viewer)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) string {
	auth := strings.TrimSpace(r.Header.Get("Authorization"))
	const bearerPrefix = "Bearer "
	if len(auth) < len(bearerPrefix) || !strings.EqualFold(auth[:len(bearerPrefix)], bearerPrefix) {
		return ""
	}
	return strings.TrimSpace(auth[len(bearerPrefix):])
}

func verifyToken(token string, secret []byte, admins map[string]struct{}) (access.Viewer, error) {
	var claims authClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return secret, nil
	})
	if err != nil || !parsed.Valid {
		return access.Viewer{}, errors.New("invalid token")
	}

	v := jwt.NewValidator(jwt.WithLeeway(30 * time.Second))
	if err := v.Validate(&claims.RegisteredClaims); err != nil {
		return access.Viewer{}, errors.New("token expired or not valid yet")
	}

	if claims.Subject == "" {
		return access.Viewer{}, errors.New("missing subject")
	}

	_, allowlisted := admins[claims.Subject]
	return access.Viewer{
		PubKey: claims.Subject,
		Admin:  claims.Admin || allowlisted,
	}, nil
}
