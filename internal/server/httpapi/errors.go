package httpapi

import (
	"errors"
	"net/http"

	"github.com/Tanaychoubey/user-registration-api/internal/common"
)

// op identifies the operation an error came from; a few codes carry an
// operation-specific message.
type op int

const (
	opRequest op = iota
	opRegister
	opToken
	opAuth
	opStore
	opRetrieve
	opUpdate
	opDelete
)

const (
	codeInvalidRequest     = "INVALID_REQUEST"
	codeUsernameExists     = "USERNAME_EXISTS"
	codeEmailExists        = "EMAIL_EXISTS"
	codeMissingFields      = "MISSING_FIELDS"
	codeInvalidCredentials = "INVALID_CREDENTIALS"
	codeInvalidToken       = "INVALID_TOKEN"
	codeKeyExists          = "KEY_EXISTS"
	codeKeyNotFound        = "KEY_NOT_FOUND"
	codeInternal           = "INTERNAL_SERVER_ERROR"
	codeNotFound           = "NOT_FOUND"
	codeMethodNotAllowed   = "METHOD_NOT_ALLOWED"
)

const (
	msgInternal           = "An internal server error occurred. Please try again later."
	msgUsernameExists     = "The provided username is already taken. Please choose a different username."
	msgEmailExists        = "The provided email is already registered. Please use a different email address."
	msgPasswordTooLong    = "Invalid request. The password must be at most 72 bytes long."
	msgMissingFields      = "Missing fields. Please provide both username and password."
	msgInvalidCredentials = "Invalid credentials. The provided username or password is incorrect."
	msgInvalidToken       = "Invalid access token provided."
	msgKeyExists          = "The provided key already exists in the database. To update an existing key, use the update API."
	msgKeyNotFound        = "The provided key does not exist in the database."
)

var invalidRequestMessages = map[op]string{
	opRegister: "Invalid request. Please provide all required fields: username, email, password, full_name.",
	opStore:    "Invalid request. Please provide both key and value.",
	opUpdate:   "Invalid request. Please provide the value to update.",
}

// apiError is the HTTP rendering of an error. List selects the
// {"errors":[...]} form used for registration conflicts.
type apiError struct {
	Status  int
	Code    string
	Message string
	List    bool
}

// toAPIError maps a service error to its status, code and message. Errors it
// does not recognise become 500 INTERNAL_SERVER_ERROR.
func toAPIError(o op, err error) apiError {
	switch {
	case errors.Is(err, common.ErrInvalidRequest):
		return apiError{Status: http.StatusBadRequest, Code: codeInvalidRequest, Message: invalidRequestMessages[o]}
	case errors.Is(err, common.ErrPasswordTooLong):
		return apiError{Status: http.StatusBadRequest, Code: codeInvalidRequest, Message: msgPasswordTooLong}
	case errors.Is(err, common.ErrUsernameExists):
		return apiError{Status: http.StatusConflict, Code: codeUsernameExists, Message: msgUsernameExists, List: true}
	case errors.Is(err, common.ErrEmailExists):
		return apiError{Status: http.StatusConflict, Code: codeEmailExists, Message: msgEmailExists, List: true}
	case errors.Is(err, common.ErrMissingFields):
		return apiError{Status: http.StatusBadRequest, Code: codeMissingFields, Message: msgMissingFields}
	case errors.Is(err, common.ErrInvalidCredentials):
		return apiError{Status: http.StatusUnauthorized, Code: codeInvalidCredentials, Message: msgInvalidCredentials}
	case errors.Is(err, common.ErrMissingToken):
		return apiError{Status: http.StatusUnauthorized, Code: codeInvalidToken, Message: msgInvalidToken}
	case errors.Is(err, common.ErrInvalidToken), errors.Is(err, common.ErrTokenExpired):
		return apiError{Status: http.StatusForbidden, Code: codeInvalidToken, Message: msgInvalidToken}
	case errors.Is(err, common.ErrKeyExists):
		return apiError{Status: http.StatusConflict, Code: codeKeyExists, Message: msgKeyExists}
	case errors.Is(err, common.ErrKeyNotFound):
		return apiError{Status: http.StatusNotFound, Code: codeKeyNotFound, Message: msgKeyNotFound}
	default:
		return apiError{Status: http.StatusInternalServerError, Code: codeInternal, Message: msgInternal}
	}
}

func (s *HTTPServer) writeError(w http.ResponseWriter, r *http.Request, o op, err error) {
	e := toAPIError(o, err)

	if e.Status >= http.StatusInternalServerError {
		s.logger.Error(r.Context(), "request failed", "error", err.Error(), "request_id", requestID(r))
	}

	if e.List {
		writeJSON(w, e.Status, envelope{
			Status: statusError,
			Errors: []errorEntry{{Code: e.Code, Message: e.Message}},
		})
		return
	}
	writeJSON(w, e.Status, envelope{Status: statusError, Code: e.Code, Message: e.Message})
}

func (s *HTTPServer) handleNotFound(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusNotFound, envelope{
		Status: statusError, Code: codeNotFound, Message: "The requested resource was not found.",
	})
}

func (s *HTTPServer) handleMethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusMethodNotAllowed, envelope{
		Status: statusError, Code: codeMethodNotAllowed, Message: "The requested method is not allowed for this resource.",
	})
}
