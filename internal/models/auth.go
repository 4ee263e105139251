package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// LoginRequest holds the single configured admin credential (spec.md §9
// design note on the original tool being interactive/single-operator;
// SPEC_FULL.md §2.7 trims the teacher's full user/session system down to
// one admin login).
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse returns the issued access token.
type LoginResponse struct {
	AccessToken string    `json:"access_token"`
	ExpiresIn   int64     `json:"expires_in"`
	IssuedAt    time.Time `json:"issued_at"`
}

// JWTClaims is the access token payload. There is exactly one subject (the
// configured admin), so claims carry no role.
type JWTClaims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}
