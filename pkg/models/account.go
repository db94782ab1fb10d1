package models

import (
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const AccountType = "owncloud"

type CredentialsKind string

const (
	CredentialsBasic  CredentialsKind = "basic"
	CredentialsBearer CredentialsKind = "bearer"
)

type Credentials struct {
	Kind     CredentialsKind `msgpack:"kind"`
	Username string          `msgpack:"username"`
	Secret   string          `msgpack:"secret"`
}

// Expired reports whether a bearer token is past its exp claim. Tokens that
// are not JWTs, or carry no exp, never expire client side.
func (c Credentials) Expired(now time.Time) bool {
	if c.Kind != CredentialsBearer || c.Secret == "" {
		return false
	}
	token, _, err := jwt.NewParser().ParseUnverified(c.Secret, jwt.MapClaims{})
	if err != nil {
		return false
	}
	exp, err := token.Claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return now.After(exp.Time)
}

type Account struct {
	Name        string      `msgpack:"name"`
	Type        string      `msgpack:"type"`
	ServerURL   string      `msgpack:"server_url"`
	Credentials Credentials `msgpack:"credentials"`
	CreatedAt   time.Time   `msgpack:"created_at"`
	UpdatedAt   time.Time   `msgpack:"updated_at"`
}

// AccountName builds the "user@host" name the client files accounts under.
func AccountName(username, serverURL string) string {
	host := serverURL
	if i := strings.Index(host, "://"); i >= 0 {
		host = host[i+3:]
	}
	return username + "@" + strings.TrimSuffix(host, "/")
}

// Username returns the part of the account name before the last '@'.
func (a *Account) Username() string {
	if a.Credentials.Username != "" {
		return a.Credentials.Username
	}
	if i := strings.LastIndex(a.Name, "@"); i >= 0 {
		return a.Name[:i]
	}
	return a.Name
}
