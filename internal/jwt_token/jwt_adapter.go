package jwttoken

import (
	authmw "coursebatch/pkg/platform/middleware/auth"
)

func ToMiddlewareClaims(claims *Claims) *authmw.TokenClaims {
	return &authmw.TokenClaims{
		UserID:   claims.Subject,
		ParentID: claims.ParentID,
	}
}

// JWTServiceAdapter exposes JWTService through the identity middleware's
// validator interface.
type JWTServiceAdapter struct {
	service *JWTService
}

func NewJWTServiceAdapter(service *JWTService) *JWTServiceAdapter {
	return &JWTServiceAdapter{service: service}
}

func (a *JWTServiceAdapter) ValidateToken(tokenString string) (*authmw.TokenClaims, error) {
	claims, err := a.service.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}
	return ToMiddlewareClaims(claims), nil
}
