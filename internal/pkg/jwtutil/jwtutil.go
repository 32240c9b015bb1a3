package jwtutil

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)

// AccessClaims carry the user id plus display fields.
type AccessClaims struct {
	UserID   uint   `json:"userId"`
	Username string `json:"username"`
	Email    string `json:"email"`
	FullName string `json:"fullName"`
	jwt.RegisteredClaims
}

type RefreshClaims struct {
	UserID uint `json:"userId"`
	jwt.RegisteredClaims
}

type AccessSubject struct {
	UserID   uint
	Username string
	Email    string
	FullName string
}

func GenerateAccessToken(secret string, ttl time.Duration, now time.Time, subject AccessSubject) (string, error) {
	claims := AccessClaims{
		UserID:           subject.UserID,
		Username:         subject.Username,
		Email:            subject.Email,
		FullName:         subject.FullName,
		RegisteredClaims: registered(subject.UserID, ttl, now),
	}
	return sign(secret, claims)
}

func GenerateRefreshToken(secret string, ttl time.Duration, now time.Time, userID uint) (string, error) {
	claims := RefreshClaims{
		UserID:           userID,
		RegisteredClaims: registered(userID, ttl, now),
	}
	return sign(secret, claims)
}

func ParseAccessToken(secret, token string) (*AccessClaims, error) {
	claims := &AccessClaims{}
	if err := parse(secret, token, claims); err != nil {
		return nil, err
	}
	if claims.UserID == 0 {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func ParseRefreshToken(secret, token string) (*RefreshClaims, error) {
	claims := &RefreshClaims{}
	if err := parse(secret, token, claims); err != nil {
		return nil, err
	}
	if claims.UserID == 0 {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// registered adds a random jti so tokens issued in the same second differ.
func registered(userID uint, ttl time.Duration, now time.Time) jwt.RegisteredClaims {
	return jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		Subject:   strconv.FormatUint(uint64(userID), 10),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
}

func sign(secret string, claims jwt.Claims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

func parse(secret, tokenString string, claims jwt.Claims) error {
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, ErrInvalidToken
		}
		return []byte(secret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return ErrTokenExpired
		}
		return ErrInvalidToken
	}
	if !token.Valid {
		return ErrInvalidToken
	}
	return nil
}
