package client

import (
	"encoding/json"
	"os"
)

// session mirrors the browser frontend's localStorage entries: the logged-in
// user plus an "isAuthenticated" flag stored as the string "true".
type session struct {
	User            *User  `json:"user,omitempty"`
	IsAuthenticated string `json:"isAuthenticated,omitempty"`
}

func (c *Client) restoreSession() {
	if c.sessionPath == "" {
		return
	}
	raw, err := os.ReadFile(c.sessionPath)
	if err != nil {
		return
	}

	var restored session
	if err := json.Unmarshal(raw, &restored); err != nil {
		return
	}
	c.mu.Lock()
	c.session = restored
	c.mu.Unlock()
}

func (c *Client) storeSession(user User) {
	c.mu.Lock()
	c.session = session{User: &user, IsAuthenticated: "true"}
	current := c.session
	c.mu.Unlock()

	c.persistSession(current)
}

func (c *Client) clearSession() {
	c.mu.Lock()
	c.session = session{}
	c.mu.Unlock()

	if c.sessionPath != "" {
		os.Remove(c.sessionPath)
	}
}

func (c *Client) persistSession(current session) {
	if c.sessionPath == "" {
		return
	}
	raw, err := json.MarshalIndent(current, "", "  ")
	if err != nil {
		return
	}
	_ = os.WriteFile(c.sessionPath, append(raw, '\n'), 0o600)
}
