package api

import (
	"encoding/json"
	"strings"
)

// Result is the uniform envelope every auth call returns, whatever happened
// on the wire. Failures never surface as Go errors or panics.
type Result struct {
	Success bool
	Message string
	Data    *AuthPayload
	Err     *Error
}

// Kind is KindNone for successful results.
func (r Result) Kind() ErrorKind {
	if r.Err == nil {
		return KindNone
	}
	return r.Err.Kind
}

// AuthPayload is the useful part of a successful auth response.
type AuthPayload struct {
	Token   string
	User    json.RawMessage
	Message string
}

func failure(kind ErrorKind, status int, message string, cause error) Result {
	return Result{
		Success: false,
		Message: message,
		Err:     &Error{Kind: kind, Status: status, Cause: cause},
	}
}

// envelope is the union of response shapes the backend uses. Tokens and
// users may sit at the top level or under "data".
type envelope struct {
	Success *bool           `json:"success"`
	Message string          `json:"message"`
	Error   json.RawMessage `json:"error"`
	Token   string          `json:"token"`
	User    json.RawMessage `json:"user"`
	Data    *struct {
		Token string          `json:"token"`
		User  json.RawMessage `json:"user"`
	} `json:"data"`
}

// explanation is the human-readable text the server attached, if any.
func (e envelope) explanation() string {
	if msg := strings.TrimSpace(e.Message); msg != "" {
		return msg
	}
	var s string
	if len(e.Error) > 0 && json.Unmarshal(e.Error, &s) == nil {
		return strings.TrimSpace(s)
	}
	return ""
}

func (e envelope) payload() *AuthPayload {
	p := &AuthPayload{Token: e.Token, User: e.User, Message: e.Message}
	if e.Data != nil {
		if p.Token == "" {
			p.Token = e.Data.Token
		}
		if len(p.User) == 0 || string(p.User) == "null" {
			p.User = e.Data.User
		}
	}
	if string(p.User) == "null" {
		p.User = nil
	}
	return p
}
