// Package auth implements the credential primitives used by the HTTP auth
// gate: HS256 JWT issuance and verification, and the Identity value that
// middleware threads through to handlers. The rest of the application treats
// Verify as an opaque oracle: it either yields an Identity or fails.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/renalhub/go-portal-backend/internal/domain"
)

// ErrInvalidToken is returned for any credential that cannot be verified:
// bad signature, malformed, expired, or missing required claims.
var ErrInvalidToken = errors.New("invalid token")

// Identity is the decoded caller attached to each authenticated request.
// PatientID is non-empty only for patient-role callers.
type Identity struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Role      string `json:"role"`
	PatientID string `json:"patientId,omitempty"`
}

// IsPatient reports whether the caller signed in with the patient role.
func (i Identity) IsPatient() bool { return i.Role == domain.RolePatient }

// IsStaff reports whether the caller has a care-side role (doctor or staff).
// Staff-side callers may act on behalf of a named patient.
func (i Identity) IsStaff() bool {
	return i.Role == domain.RoleDoctor || i.Role == domain.RoleStaff
}

// Claims is the JWT payload carried by portal tokens.
type Claims struct {
	Name      string `json:"name,omitempty"`
	Role      string `json:"role"`
	PatientID string `json:"patientId,omitempty"`
	jwt.RegisteredClaims
}

// TokenIssuer signs and verifies portal access tokens with a shared HS256
// secret. The zero value is unusable; construct with NewTokenIssuer.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenIssuer returns a TokenIssuer using the given signing secret and
// token lifetime.
func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	return &TokenIssuer{secret: []byte(secret), ttl: ttl}
}

// Issue creates a signed token for the given user.
func (t *TokenIssuer) Issue(u *domain.User) (string, error) {
	now := time.Now().UTC()
	claims := Claims{
		Name:      u.Name,
		Role:      u.Role,
		PatientID: u.PatientID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
		},
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tok.SignedString(t.secret)
}

// Verify parses and validates a signed token and returns the embedded
// Identity. Any failure (signature, expiry, malformed claims, wrong signing
// method) is reported as ErrInvalidToken; the caller does not learn why.
func (t *TokenIssuer) Verify(tokenString string) (Identity, error) {
	var claims Claims
	tok, err := jwt.ParseWithClaims(tokenString, &claims, func(tok *jwt.Token) (interface{}, error) {
		if _, ok := tok.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return t.secret, nil
	})
	if err != nil || !tok.Valid {
		return Identity{}, ErrInvalidToken
	}
	if claims.Subject == "" || claims.Role == "" {
		return Identity{}, ErrInvalidToken
	}
	return Identity{
		ID:        claims.Subject,
		Name:      claims.Name,
		Role:      claims.Role,
		PatientID: claims.PatientID,
	}, nil
}
