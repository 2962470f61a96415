package auth

import "github.com/golang-jwt/jwt/v5"

// JWT claims for authenticated users
type Claims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// name of the HTTP-only cookie carrying the JWT
const TokenCookieName = "token"
