package admin

import (
	"crypto/subtle"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const (
	sessionCookie = "admin_session"
	tokenIssuer   = "image-telegram-bot"
	tokenSubject  = "admin"
)

var errInvalidPassword = errors.New("invalid password")

type authenticator struct {
	password     string
	passwordHash []byte
	secret       []byte
	ttl          time.Duration
	now          func() time.Time
}

func newAuthenticator(cfg Config) (*authenticator, error) {
	secret := strings.TrimSpace(cfg.JWTSecret)
	if secret == "" {
		return nil, errors.New("jwt secret must not be empty")
	}
	if cfg.Password == "" && cfg.PasswordHash == "" {
		return nil, errors.New("admin password or password hash is required")
	}

	ttl := cfg.SessionTTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}

	return &authenticator{
		password:     cfg.Password,
		passwordHash: []byte(cfg.PasswordHash),
		secret:       []byte(secret),
		ttl:          ttl,
		now:          time.Now,
	}, nil
}

// checkPassword prefers the bcrypt hash when one is configured.
func (a *authenticator) checkPassword(password string) error {
	if len(a.passwordHash) > 0 {
		if err := bcrypt.CompareHashAndPassword(a.passwordHash, []byte(password)); err != nil {
			return errInvalidPassword
		}
		return nil
	}
	if subtle.ConstantTimeCompare([]byte(a.password), []byte(password)) != 1 {
		return errInvalidPassword
	}
	return nil
}

func (a *authenticator) issueToken() (string, time.Time, error) {
	now := a.now().UTC()
	expiry := now.Add(a.ttl)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   tokenSubject,
		Issuer:    tokenIssuer,
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiry),
	})
	signed, err := token.SignedString(a.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiry, nil
}

func (a *authenticator) verifyToken(tokenString string) error {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithSubject(tokenSubject),
		jwt.WithTimeFunc(a.now),
	)

	_, err := parser.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(*jwt.Token) (interface{}, error) {
		return a.secret, nil
	})
	return err
}
