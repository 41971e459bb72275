package models

import (
	"github.com/golang-jwt/jwt/v5"
)

// UserInfo is the user blob the backend returns on login. Extra fields are
// preserved by the store as raw JSON; only these are interpreted client-side.
type UserInfo struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// Credential is the locally persisted login state. Presence of both the
// token and a parseable user blob is the sole "logged in" gate; no expiry
// is tracked client-side. Expiry shows up as a 401, which clears the
// credential.
type Credential struct {
	AccessToken string   `json:"access_token"`
	User        UserInfo `json:"user"`
}

// Valid reports whether the credential gates an authenticated session.
func (c *Credential) Valid() bool {
	return c != nil && c.AccessToken != "" && c.User.Username != ""
}

// TokenClaims extracts user_id and username from the access token without
// verifying the signature (the client has no key; the server re-validates
// every request anyway). Missing claims fall back to the stored user blob.
func (c *Credential) TokenClaims() (userID int64, username string) {
	userID, username = c.User.ID, c.User.Username

	parser := jwt.NewParser()
	token, _, err := parser.ParseUnverified(c.AccessToken, jwt.MapClaims{})
	if err != nil {
		return userID, username
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return userID, username
	}
	if v, ok := claims["user_id"].(float64); ok {
		userID = int64(v)
	}
	if v, ok := claims["username"].(string); ok && v != "" {
		username = v
	}
	return userID, username
}
