// Package auth issues and verifies session tokens and hashes passwords.
package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/inkwell-studio/atelier/config"
)

// Roles.
const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

const (
	purposeSession = "session"
	purposeReset   = "password-reset"
	resetTTL       = time.Hour
	bcryptCost     = 12
)

var ErrWrongPurpose = errors.New("auth: token issued for another purpose")

// Claims is the signed token payload.
type Claims struct {
	UserID  uint   `json:"userId"`
	Email   string `json:"email"`
	Role    string `json:"role"`
	Purpose string `json:"purpose,omitempty"`
	Stamp   string `json:"stamp,omitempty"`
	jwt.RegisteredClaims
}

// IsAdmin reports whether the token belongs to an administrator.
func (c *Claims) IsAdmin() bool { return c != nil && c.Role == RoleAdmin }

func secret() []byte {
	return []byte(config.JWTSecret())
}

func sign(claims Claims, ttl time.Duration) (string, error) {
	now := time.Now()
	claims.RegisteredClaims = jwt.RegisteredClaims{
		Subject:   fmt.Sprint(claims.UserID),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret())
}

// GenerateToken returns a session token valid for config.TokenTTL (7 days by default).
func GenerateToken(userID uint, email, role string) (string, error) {
	return sign(Claims{UserID: userID, Email: email, Role: role, Purpose: purposeSession}, config.TokenTTL())
}

// GenerateResetToken returns a one-hour token accepted only by
// ValidateResetToken. It is stamped with the password hash it may replace,
// so it stops working once the password changes.
func GenerateResetToken(userID uint, email, passwordHash string) (string, error) {
	return sign(Claims{UserID: userID, Email: email, Purpose: purposeReset, Stamp: PasswordStamp(passwordHash)}, resetTTL)
}

// PasswordStamp fingerprints a stored password hash under the JWT secret.
func PasswordStamp(passwordHash string) string {
	mac := hmac.New(sha256.New, secret())
	mac.Write([]byte(passwordHash)) //nolint:errcheck
	return hex.EncodeToString(mac.Sum(nil)[:16])
}

// MatchesPassword reports whether a reset token was issued for passwordHash.
func (c *Claims) MatchesPassword(passwordHash string) bool {
	return c != nil && c.Stamp != "" && hmac.Equal([]byte(c.Stamp), []byte(PasswordStamp(passwordHash)))
}

func parse(t string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(t, &Claims{}, func(*jwt.Token) (any, error) {
		return secret(), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return claims, nil
}

// ValidateToken verifies a session token.
func ValidateToken(t string) (*Claims, error) {
	claims, err := parse(t)
	if err != nil {
		return nil, err
	}
	if claims.Purpose != "" && claims.Purpose != purposeSession {
		return nil, ErrWrongPurpose
	}
	return claims, nil
}

// ValidateResetToken verifies a password-reset token.
func ValidateResetToken(t string) (*Claims, error) {
	claims, err := parse(t)
	if err != nil {
		return nil, err
	}
	if claims.Purpose != purposeReset {
		return nil, ErrWrongPurpose
	}
	return claims, nil
}

// HashPassword returns a bcrypt hash at cost 12.
func HashPassword(plain string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), bcryptCost)
	return string(b), err
}

// CheckPassword compares a bcrypt hash against the plain-text candidate.
func CheckPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
