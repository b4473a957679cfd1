package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Profile is the cached snapshot of the signed-in user.
type Profile struct {
	// ID is the backend identifier. Numeric ids are kept in their decimal form.
	ID       ID     `json:"id,omitempty"`
	UserName string `json:"userName,omitempty"`
	Email    string `json:"email,omitempty"`
	Name     string `json:"name,omitempty"`
	Avatar   string `json:"avatar,omitempty"`
	Verified bool   `json:"isVerified,omitempty"`
}

// DisplayName picks the most human-friendly identifier available.
func (p Profile) DisplayName() string {
	for _, s := range []string{p.Name, p.UserName, p.Email, string(p.ID)} {
		if strings.TrimSpace(s) != "" {
			return s
		}
	}
	return "unknown user"
}

// ID is a backend identifier; it accepts both JSON strings and numbers.
type ID string

func (id *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("id: %w", err)
	}
	*id = ID(n.String())
	return nil
}

// Credentials are held only for the duration of a single submission.
type Credentials struct {
	UserName string `json:"userName"`
	Password string `json:"password"`
	Email    string `json:"email,omitempty"`
}
