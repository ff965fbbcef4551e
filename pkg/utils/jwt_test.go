package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/rakhadavedra/user-management-service/pkg/errs"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func TestCreateAndVerifyJWTToken(t *testing.T) {
	token, err := CreateJWTToken(42, "alice@example.com", testSecret)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	userID, email, err := VerifyJWTToken(token, testSecret)
	require.NoError(t, err)
	require.Equal(t, int64(42), userID)
	require.Equal(t, "alice@example.com", email)
}

func TestVerifyJWTTokenWrongSecret(t *testing.T) {
	token, err := CreateJWTToken(42, "alice@example.com", testSecret)
	require.NoError(t, err)

	_, _, err = VerifyJWTToken(token, "another-secret")
	require.ErrorIs(t, err, errs.ErrInvalidToken)
}

func TestVerifyJWTTokenExpired(t *testing.T) {
	claims := jwt.MapClaims{
		"userId": int64(42),
		"email":  "alice@example.com",
		"exp":    time.Now().Add(-time.Minute).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, _, err = VerifyJWTToken(token, testSecret)
	require.ErrorIs(t, err, errs.ErrInvalidToken)
}

func TestVerifyJWTTokenMalformed(t *testing.T) {
	for _, tokenString := range []string{"", "not-a-token", "a.b.c"} {
		_, _, err := VerifyJWTToken(tokenString, testSecret)
		require.ErrorIs(t, err, errs.ErrInvalidToken)
	}
}

func TestVerifyJWTTokenUnexpectedSigningMethod(t *testing.T) {
	claims := jwt.MapClaims{
		"userId": int64(42),
		"email":  "alice@example.com",
		"exp":    time.Now().Add(time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodNone, claims)
	tokenString, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, _, err = VerifyJWTToken(tokenString, testSecret)
	require.ErrorIs(t, err, errs.ErrInvalidToken)
}
