// Package flash carries one-shot notifications across a redirect in a cookie.
package flash

import (
	"encoding/json"
	"net/http"
	"net/url"
)

// Notification types, matching the editor's notification styles.
const (
	TypeInfo    = "info"
	TypeSuccess = "success"
	TypeWarning = "warning"
	TypeError   = "error"
)

// Flash is a single notification.
type Flash struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// Manager reads and writes the notification cookie.
type Manager struct {
	cookieName string
	maxAge     int
	path       string
}

// NewManager creates a Manager with sensible defaults
func NewManager() *Manager {
	return &Manager{
		cookieName: "lettercheck_notification",
		maxAge:     300, // 5 minutes
		path:       "/",
	}
}

// Set stores a notification in a cookie
func (fm *Manager) Set(w http.ResponseWriter, msgType, message string) {
	data, err := json.Marshal(Flash{Type: msgType, Message: message})
	if err != nil {
		data = []byte(message)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     fm.cookieName,
		Value:    url.QueryEscape(string(data)),
		Path:     fm.path,
		MaxAge:   fm.maxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func (fm *Manager) SetInfo(w http.ResponseWriter, message string) {
	fm.Set(w, TypeInfo, message)
}

func (fm *Manager) SetSuccess(w http.ResponseWriter, message string) {
	fm.Set(w, TypeSuccess, message)
}

func (fm *Manager) SetWarning(w http.ResponseWriter, message string) {
	fm.Set(w, TypeWarning, message)
}

func (fm *Manager) SetError(w http.ResponseWriter, message string) {
	fm.Set(w, TypeError, message)
}

// Get retrieves and clears the notification, if any.
func (fm *Manager) Get(w http.ResponseWriter, r *http.Request) *Flash {
	cookie, err := r.Cookie(fm.cookieName)
	if err != nil {
		return nil
	}

	// Clear the cookie immediately by setting it to expire
	http.SetCookie(w, &http.Cookie{
		Name:     fm.cookieName,
		Value:    "",
		Path:     fm.path,
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	return decode(cookie.Value)
}

// Peek returns the notification without clearing it.
func (fm *Manager) Peek(r *http.Request) *Flash {
	cookie, err := r.Cookie(fm.cookieName)
	if err != nil {
		return nil
	}
	return decode(cookie.Value)
}

func decode(value string) *Flash {
	decoded, err := url.QueryUnescape(value)
	if err != nil {
		return nil
	}

	var f Flash
	if err := json.Unmarshal([]byte(decoded), &f); err == nil {
		return &f
	}

	// Fallback: treat as plain message with info type
	return &Flash{Type: TypeInfo, Message: decoded}
}
