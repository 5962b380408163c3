package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"

	"github.com/Tanaychoubey/user-registration-api/internal/common"
	"github.com/Tanaychoubey/user-registration-api/internal/server/models"
	"github.com/Tanaychoubey/user-registration-api/internal/server/services"
	"github.com/go-chi/chi/v5"
)

const maxBodyBytes = 1 << 20

type registerRequest struct {
	UserName string  `json:"username"`
	Email    string  `json:"email"`
	Password string  `json:"password"`
	FullName string  `json:"full_name"`
	Age      *int    `json:"age"`
	Gender   *string `json:"gender"`
}

type tokenRequest struct {
	UserName string `json:"username"`
	Password string `json:"password"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}

type storeRequest struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

type updateRequest struct {
	Value string `json:"value"`
}

// decode reads a JSON body into v. An empty body leaves v zero.
func decode(w http.ResponseWriter, r *http.Request, v any) error {
	if r.Body == nil || r.Body == http.NoBody {
		return nil
	}
	err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(v)
	if err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// keyParam returns the {key} path segment decoded exactly once. chi routes on
// r.URL.RawPath when it is set, so only then is the segment still escaped.
func keyParam(r *http.Request) string {
	key := chi.URLParam(r, "key")
	if r.URL.RawPath == "" {
		return key
	}
	if unescaped, err := url.PathUnescape(key); err == nil {
		return unescaped
	}
	return key
}

func (s *HTTPServer) handlePing(w http.ResponseWriter, r *http.Request) {
	writeSuccess(w, http.StatusOK, "pong", nil)
}

func (s *HTTPServer) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decode(w, r, &req); err != nil {
		s.writeError(w, r, opRegister, common.ErrInvalidRequest)
		return
	}

	user, err := s.users.Register(r.Context(), services.RegisterInput{
		UserName: req.UserName,
		Email:    req.Email,
		Password: req.Password,
		FullName: req.FullName,
		Age:      req.Age,
		Gender:   req.Gender,
	})
	if err != nil {
		s.writeError(w, r, opRegister, err)
		return
	}

	s.logger.Info(r.Context(), "Registered", "username", user.UserName, "id", user.ID)
	writeSuccess(w, http.StatusCreated, "User successfully registered!", user)
}

func (s *HTTPServer) handleToken(w http.ResponseWriter, r *http.Request) {
	var req tokenRequest
	if err := decode(w, r, &req); err != nil {
		s.writeError(w, r, opToken, common.ErrMissingFields)
		return
	}

	token, err := s.users.IssueToken(r.Context(), req.UserName, req.Password)
	if err != nil {
		s.writeError(w, r, opToken, err)
		return
	}

	writeSuccess(w, http.StatusOK, "Access token generated successfully.", tokenResponse{
		AccessToken: token.AccessToken,
		ExpiresIn:   token.ExpiresIn,
	})
}

func (s *HTTPServer) handleStore(w http.ResponseWriter, r *http.Request, _ *models.User) {
	var req storeRequest
	if err := decode(w, r, &req); err != nil {
		s.writeError(w, r, opStore, common.ErrInvalidRequest)
		return
	}

	if err := s.data.Store(r.Context(), req.Key, req.Value); err != nil {
		s.writeError(w, r, opStore, err)
		return
	}

	writeSuccess(w, http.StatusOK, "Data stored successfully.", nil)
}

func (s *HTTPServer) handleRetrieve(w http.ResponseWriter, r *http.Request, _ *models.User) {
	entry, err := s.data.Retrieve(r.Context(), keyParam(r))
	if err != nil {
		s.writeError(w, r, opRetrieve, err)
		return
	}

	writeSuccess(w, http.StatusOK, "", entry)
}

func (s *HTTPServer) handleUpdate(w http.ResponseWriter, r *http.Request, _ *models.User) {
	var req updateRequest
	if err := decode(w, r, &req); err != nil {
		s.writeError(w, r, opUpdate, common.ErrInvalidRequest)
		return
	}

	if err := s.data.Update(r.Context(), keyParam(r), req.Value); err != nil {
		s.writeError(w, r, opUpdate, err)
		return
	}

	writeSuccess(w, http.StatusOK, "Data updated successfully.", nil)
}

func (s *HTTPServer) handleDelete(w http.ResponseWriter, r *http.Request, _ *models.User) {
	if err := s.data.Delete(r.Context(), keyParam(r)); err != nil {
		s.writeError(w, r, opDelete, err)
		return
	}

	writeSuccess(w, http.StatusOK, "Data deleted successfully.", nil)
}
