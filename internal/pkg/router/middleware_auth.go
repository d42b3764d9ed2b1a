package router

import (
	"net/http"
	"strings"

	"github.com/shandysiswandi/storefront/internal/pkg/jwt"
)

// middlewareAuthentication verifies the session token from the cookie, or
// from an Authorization bearer header. Public endpoints never fail here but
// still get the claims when a valid token is present.
func middlewareAuthentication(verifier jwt.JWT, cookieName string, publicEndpoints map[string]map[string]struct{}) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, public := publicEndpoints[r.Method][matchedRoutePath(r)]

			token := sessionToken(r, cookieName)
			if token == "" || verifier == nil {
				if public {
					next.ServeHTTP(w, r)
					return
				}
				writeJSON(w, errorResponse{Message: msgUnauthorized}, http.StatusUnauthorized)
				return
			}

			claims, err := verifier.Verify(token)
			if err != nil {
				if public {
					next.ServeHTTP(w, r)
					return
				}
				writeJSON(w, errorResponse{Message: msgUnauthorized}, http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r.WithContext(jwt.SetAuth(r.Context(), claims)))
		})
	}
}

func sessionToken(r *http.Request, cookieName string) string {
	if c, err := r.Cookie(cookieName); err == nil && c.Value != "" {
		return c.Value
	}

	p := strings.Fields(r.Header.Get("Authorization"))
	if len(p) == 2 && strings.EqualFold(p[0], "Bearer") {
		return p[1]
	}
	return ""
}
