package utils

import (
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/rakhadavedra/user-management-service/pkg/errs"
)

const tokenLifetime = time.Hour

func CreateJWTToken(userID int64, email string, jwtSecretKey string) (string, error) {
	claims := jwt.MapClaims{}
	claims["userId"] = userID
	claims["email"] = email
	claims["exp"] = time.Now().Add(tokenLifetime).Unix()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	return token.SignedString([]byte(jwtSecretKey))
}

// VerifyJWTToken validates the signature and expiry of a bearer token and
// returns the embedded identity. Every failure mode collapses to
// errs.ErrInvalidToken so callers cannot distinguish a tampered token from
// an expired one.
func VerifyJWTToken(tokenString string, jwtSecretKey string) (int64, string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errs.ErrInvalidToken
		}
		return []byte(jwtSecretKey), nil
	})
	if err != nil || !token.Valid {
		return 0, "", errs.ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, "", errs.ErrInvalidToken
	}

	userID, ok := claims["userId"].(float64)
	if !ok {
		return 0, "", errs.ErrInvalidToken
	}

	email, ok := claims["email"].(string)
	if !ok {
		return 0, "", errs.ErrInvalidToken
	}

	return int64(userID), email, nil
}
