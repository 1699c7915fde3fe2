package utils

import (
	"github.com/golang-jwt/jwt/v5"
	"os"
	"time"
)

var jwtKey = []byte(os.Getenv("JWT_SECRET"))

// Roles carried in API tokens. "owner" is the operator of the whole
// fleet; "admin" is a guild administrator scoped to one guild id;
// "manager" may edit that guild's plan catalog but touches no money.
const (
	RoleOwner   = "owner"
	RoleAdmin   = "admin"
	RoleManager = "manager"
)

type Claims struct {
	UserID  string `json:"user_id"`
	GuildID string `json:"guild_id,omitempty"`
	Role    string `json:"role"`
	jwt.RegisteredClaims
}

func CreateToken(userID, guildID, role string, ttl time.Duration) (string, error) {
	claims := &Claims{
		UserID:  userID,
		GuildID: guildID,
		Role:    role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtKey)
}

func ValidateToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return jwtKey, nil
	})

	if err != nil || !token.Valid {
		return nil, err
	}

	return claims, nil
}
