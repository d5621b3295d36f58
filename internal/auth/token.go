package auth

import (
	"fmt"
	"strconv"

	"github.com/golang-jwt/jwt/v5"
)

const tokenIssuer = "stockdesk"

// Claims carried by API bearer tokens. The token is only valid while
// the session it names is live in the registry.
type Claims struct {
	SessionID string `json:"sid"`
	Role      string `json:"role"`
	jwt.RegisteredClaims
}

type TokenIssuer struct {
	secret []byte
}

func NewTokenIssuer(secret []byte) *TokenIssuer {
	return &TokenIssuer{secret: secret}
}

func (t *TokenIssuer) Issue(sess *Session) (string, error) {
	claims := Claims{
		SessionID: sess.ID,
		Role:      string(sess.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			Subject:   strconv.FormatUint(uint64(sess.UserID), 10),
			IssuedAt:  jwt.NewNumericDate(sess.IssuedAt),
			ExpiresAt: jwt.NewNumericDate(sess.ExpiresAt),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(t.secret)
}

// Parse returns the session id named by a valid token.
func (t *TokenIssuer) Parse(raw string) (string, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (interface{}, error) {
		return t.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid || claims.SessionID == "" {
		return "", ErrInvalidToken
	}
	return claims.SessionID, nil
}

// TokenHolder adapts a bearer token to the Holder interface so the Store
// can resolve and end token sessions the same way it handles cookies.
type TokenHolder struct {
	sid string
}

func NewTokenHolder(sid string) *TokenHolder {
	return &TokenHolder{sid: sid}
}

func (h *TokenHolder) Get(key interface{}) interface{} {
	if key == SessionKey && h.sid != "" {
		return h.sid
	}
	return nil
}

func (h *TokenHolder) Set(key interface{}, val interface{}) {
	if key != SessionKey {
		return
	}
	if s, ok := val.(string); ok {
		h.sid = s
	}
}

func (h *TokenHolder) Clear() { h.sid = "" }

func (h *TokenHolder) Save() error { return nil }

// SessionID returns the id currently held.
func (h *TokenHolder) SessionID() string { return h.sid }
