package httpapi

import (
	"net/http"
	"strings"

	"github.com/Tanaychoubey/user-registration-api/internal/common"
	"github.com/Tanaychoubey/user-registration-api/internal/server/models"
)

// authedHandler is a handler that runs only for an authenticated user.
type authedHandler func(w http.ResponseWriter, r *http.Request, user *models.User)

// guard authenticates the request and passes the resolved user to next.
// A missing token is answered with 401, any other failure with 403.
func (s *HTTPServer) guard(next authedHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, err := s.authenticate(r)
		if err != nil {
			s.writeError(w, r, opAuth, err)
			return
		}
		next(w, r, user)
	}
}

func (s *HTTPServer) authenticate(r *http.Request) (*models.User, error) {
	token := bearerToken(r.Header.Get("Authorization"))
	if token == "" {
		return nil, common.ErrMissingToken
	}
	return s.users.Authenticate(r.Context(), token)
}

// bearerToken returns the second space-separated field of an Authorization
// header value, or "" when there is none. The scheme word is not checked.
func bearerToken(header string) string {
	fields := strings.Split(header, " ")
	if len(fields) < 2 {
		return ""
	}
	return fields[1]
}
