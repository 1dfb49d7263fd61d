package server

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

const realm = `Basic realm="cvanon", charset="UTF-8"`

// withBasicAuth challenges every request except health checks.
func (s *Server) withBasicAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" {
			next.ServeHTTP(w, r)
			return
		}

		username, password, ok := r.BasicAuth()
		if !ok || !s.authorized(username, password) {
			w.Header().Set("WWW-Authenticate", realm)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) authorized(username, password string) (ok bool) {
	want := s.cfg.BasicAuth
	if want.Username == "" || want.Password == "" {
		return ok
	}

	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(want.Username)) == 1
	passOK := checkPassword(want.Password, password)
	ok = userOK && passOK
	return ok
}

// checkPassword compares given against a configured password, which may be a
// bcrypt hash.
func checkPassword(configured, given string) (ok bool) {
	if isBcryptHash(configured) {
		ok = bcrypt.CompareHashAndPassword([]byte(configured), []byte(given)) == nil
		return ok
	}
	ok = subtle.ConstantTimeCompare([]byte(given), []byte(configured)) == 1
	return ok
}

func isBcryptHash(s string) (ok bool) {
	for _, prefix := range []string{"$2a$", "$2b$", "$2y$"} {
		if strings.HasPrefix(s, prefix) {
			ok = true
			return ok
		}
	}
	return ok
}
