package entities

import "encoding/json"

// Session is the persisted credential pair. User is only meaningful when Token is set.
type Session struct {
	Token string          `json:"token,omitempty"`
	User  json.RawMessage `json:"user,omitempty"`
}

// LoggedIn reports whether a session token is present
func (s Session) LoggedIn() bool {
	return s.Token != ""
}

// SessionState is the observable state published by the session service
type SessionState struct {
	User    *User `json:"user"`
	Loading bool  `json:"loading"`
}
