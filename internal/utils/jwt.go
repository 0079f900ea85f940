package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type Claims struct {
	UserID           string   `json:"userId"`
	Email            string   `json:"email"`
	Role             string   `json:"role"` // "admin" or "user"
	AllowedCampaigns []string `json:"allowedCampaigns"`
	jwt.RegisteredClaims
}

func GenerateAccessToken(userID, email, role string, allowedCampaigns []string, secret string, expiration time.Duration) (string, error) {
	claims := &Claims{
		UserID:           userID,
		Email:            email,
		Role:             role,
		AllowedCampaigns: allowedCampaigns,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiration)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

func ValidateToken(tokenString, secret string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return []byte(secret), nil
	})

	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}

	return claims, nil
}
