package mockapi

import (
	"context"
	"net/http"
	"strings"

	"vehicle-rental-admin/internal/config"
	"vehicle-rental-admin/internal/security"

	"github.com/gorilla/mux"
)

type claimsKey struct{}

// claimsFrom returns the caller's token claims, nil on public routes.
func claimsFrom(ctx context.Context) *security.UserClaims {
	c, _ := ctx.Value(claimsKey{}).(*security.UserClaims)
	return c
}

// authenticate enforces the route's security level from config.
func (s *Server) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		level := config.SecurityBearer
		if route := mux.CurrentRoute(r); route != nil {
			if tmpl, err := route.GetPathTemplate(); err == nil {
				level = config.GetSecurityLevel(r.Method, tmpl)
			}
		}

		// Public endpoint - skip auth
		if level == config.SecurityPublic {
			next.ServeHTTP(w, r)
			return
		}

		token, ok := extractToken(r)
		if !ok {
			writeError(w, &Error{Status: http.StatusUnauthorized, Message: "authorization token is not provided"})
			return
		}

		claims, err := s.tokens.ValidateToken(token)
		if err != nil {
			writeError(w, &Error{Status: http.StatusUnauthorized, Message: "invalid token: " + err.Error()})
			return
		}

		if level == config.SecurityAdmin && claims.Role != "ADMIN" {
			writeError(w, &Error{Status: http.StatusForbidden, Message: "Access denied"})
			return
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), claimsKey{}, claims)))
	})
}

func extractToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if len(header) > 7 && strings.ToUpper(header[0:7]) == "BEARER " {
		return header[7:], true
	}
	return "", false
}
