// Package auth adapts the external authentication layer's output into
// the operation scope. Token issuance, refresh and revocation live
// outside this service; all we consume here is a verified
// (user, tenant-or-absent, admin) triple.
package auth

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"finbook/internal/scope"
	"finbook/pkg/domain"
)

// HMACVerifier validates bearer tokens signed with a shared key and
// extracts the identity triple from their claims.
type HMACVerifier struct {
	key []byte
}

func NewHMACVerifier(signingKey string) *HMACVerifier {
	return &HMACVerifier{key: []byte(signingKey)}
}

type tokenClaims struct {
	TenantID string `json:"tenant_id,omitempty"`
	Admin    bool   `json:"admin,omitempty"`
	jwt.RegisteredClaims
}

// Verify parses and validates the token, returning the frozen scope for
// this operation.
func (v *HMACVerifier) Verify(tokenString string) (scope.Scope, error) {
	var claims tokenClaims
	_, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return v.key, nil
	})
	if err != nil {
		return scope.Scope{}, fmt.Errorf("verify token: %w", err)
	}

	userID, err := domain.ParseUserID(claims.Subject)
	if err != nil {
		return scope.Scope{}, fmt.Errorf("verify token subject: %w", err)
	}

	sc := scope.Scope{UserID: userID, Admin: claims.Admin}
	if claims.TenantID != "" {
		tenantID, err := domain.ParseTenantID(claims.TenantID)
		if err != nil {
			return scope.Scope{}, fmt.Errorf("verify token tenant: %w", err)
		}
		sc.TenantID = tenantID
	}
	return sc, nil
}
