package utils

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/golang-jwt/jwt/v5"
	"github.com/maheshrc27/socialnet-api/internal/transfer"
)

// TokenIssuer is the iss claim session tokens must carry. Tokens are minted
// by the identity service in front of this API.
const TokenIssuer = "socialnet"

var ErrInvalidToken = errors.New("invalid token")

// ParseSessionToken verifies an HS256 session token signed with secretKey
// and returns the numeric user id from its user_id claim.
func ParseSessionToken(secretKey, tokenString string) (int64, error) {
	claims := &transfer.CustomClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(secretKey), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(TokenIssuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		slog.Info(err.Error())
		return 0, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid {
		return 0, ErrInvalidToken
	}

	userID, err := strconv.ParseInt(claims.UserID, 10, 64)
	if err != nil || userID <= 0 {
		return 0, fmt.Errorf("%w: bad user_id claim %q", ErrInvalidToken, claims.UserID)
	}
	return userID, nil
}
