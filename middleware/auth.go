package middleware

import (
	"crypto/subtle"
	"net/http"

	"golang.org/x/crypto/bcrypt"
)

// AdminCredentials are the basic-auth credentials of the management surface.
// PassHash, when set, is a bcrypt hash and takes precedence over Pass.
type AdminCredentials struct {
	User     string
	Pass     string
	PassHash string
}

func (c AdminCredentials) enabled() bool {
	return c.User != "" && (c.Pass != "" || c.PassHash != "")
}

func (c AdminCredentials) verify(user, pass string) bool {
	userOK := subtle.ConstantTimeCompare([]byte(user), []byte(c.User)) == 1
	if c.PassHash != "" {
		passOK := bcrypt.CompareHashAndPassword([]byte(c.PassHash), []byte(pass)) == nil
		return userOK && passOK
	}
	passOK := subtle.ConstantTimeCompare([]byte(pass), []byte(c.Pass)) == 1
	return userOK && passOK
}

// AdminAuth guards handlers with HTTP basic auth. Without configured
// credentials the admin surface is unavailable.
func AdminAuth(creds AdminCredentials) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !creds.enabled() {
				writeError(w, http.StatusServiceUnavailable, "admin_disabled")
				return
			}

			user, pass, ok := r.BasicAuth()
			if !ok {
				w.Header().Set("WWW-Authenticate", `Basic realm="Admin"`)
				writeError(w, http.StatusUnauthorized, "auth_required")
				return
			}
			if !creds.verify(user, pass) {
				Logger(r).Warn().Str("user", user).Msg("admin login rejected")
				w.Header().Set("WWW-Authenticate", `Basic realm="Admin"`)
				writeError(w, http.StatusUnauthorized, "invalid_credentials")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
