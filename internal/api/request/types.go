package request

import (
	"encoding/json"
	"errors"
	"io"
	"strings"
)

// maxBodyBytes bounds login request bodies
const maxBodyBytes = 4 << 10

// LoginRequest is the request body for logging in.
// Username is trimmed; password is taken as sent.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// DecodeLogin reads and checks a login body
func DecodeLogin(body io.Reader) (LoginRequest, error) {
	var req LoginRequest
	dec := json.NewDecoder(io.LimitReader(body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		return LoginRequest{}, errors.New("invalid request body")
	}

	req.Username = strings.TrimSpace(req.Username)
	switch {
	case req.Username == "":
		return LoginRequest{}, errors.New("username is required")
	case req.Password == "":
		return LoginRequest{}, errors.New("password is required")
	}
	return req, nil
}
