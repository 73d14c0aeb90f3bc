package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/united17/relief-portal/pkg/enums"
)

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	AdminID  uuid.UUID
	Username string
	Role     enums.AdminRole
	JTI      string
}

// AccessTokenClaims represents the typed JWT issued to admin collectors.
type AccessTokenClaims struct {
	AdminID  uuid.UUID       `json:"admin_id"`
	Username string          `json:"username"`
	Role     enums.AdminRole `json:"role"`
	jwt.RegisteredClaims
}
