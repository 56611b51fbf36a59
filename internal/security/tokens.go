package security

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/rand"
	"crypto/rsa"
	"encoding/hex"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken is returned when a token is malformed, mis-signed, expired,
// or of the wrong type. The cause is deliberately not distinguished.
var ErrInvalidToken = errors.New("invalid token")

// Token types carried in the "type" claim.
const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// Claims is the claim set encoded into signed tokens. UserID lives in the
// registered Subject claim. Role and OrgID are included only when set.
type Claims struct {
	jwt.RegisteredClaims
	TokenType string `json:"type"`
	SessionID string `json:"session_id"`
	Role      string `json:"role,omitempty"`
	OrgID     string `json:"organization_id,omitempty"`
}

// UserID returns the subject of the claims.
func (c *Claims) UserID() string { return c.Subject }

// TokenCodec signs and verifies access and refresh JWTs with a configured
// RS256 or ES256 key pair. It performs no revocation checks; callers compose
// a revocation registry on top.
type TokenCodec struct {
	privateKey crypto.Signer
	publicKey  crypto.PublicKey
	issuer     string
	audience   string
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewTokenCodec returns a TokenCodec signing with privateKey (RSA or ECDSA).
// issuer and audience are set on claims and checked on verification.
func NewTokenCodec(privateKey crypto.Signer, publicKey crypto.PublicKey, issuer, audience string, accessTTL, refreshTTL time.Duration) *TokenCodec {
	return &TokenCodec{
		privateKey: privateKey,
		publicKey:  publicKey,
		issuer:     issuer,
		audience:   audience,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

// AccessTTL returns the configured access token lifetime.
func (c *TokenCodec) AccessTTL() time.Duration { return c.accessTTL }

// IssueAccess issues an access token for the given user and session. role and
// orgID may be empty; they are then omitted from the claims entirely.
// Returns the signed token, its jti, and the expiry time.
func (c *TokenCodec) IssueAccess(userID, sessionID, role, orgID string) (token, jti string, expiresAt time.Time, err error) {
	return c.issue(TokenTypeAccess, c.accessTTL, userID, sessionID, role, orgID)
}

// IssueRefresh issues a refresh token for the given user and session.
func (c *TokenCodec) IssueRefresh(userID, sessionID, role, orgID string) (token, jti string, expiresAt time.Time, err error) {
	return c.issue(TokenTypeRefresh, c.refreshTTL, userID, sessionID, role, orgID)
}

func (c *TokenCodec) issue(typ string, ttl time.Duration, userID, sessionID, role, orgID string) (string, string, time.Time, error) {
	jti, err := generateJTI()
	if err != nil {
		return "", "", time.Time{}, err
	}
	now := time.Now().UTC()
	expiresAt := now.Add(ttl)
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			Subject:   userID,
			Issuer:    c.issuer,
			Audience:  jwt.ClaimStrings{c.audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		TokenType: typ,
		SessionID: sessionID,
		Role:      role,
		OrgID:     orgID,
	}
	var method jwt.SigningMethod
	switch c.privateKey.Public().(type) {
	case *rsa.PublicKey:
		method = jwt.SigningMethodRS256
	case *ecdsa.PublicKey:
		method = jwt.SigningMethodES256
	default:
		return "", "", time.Time{}, ErrInvalidToken
	}
	signed, err := jwt.NewWithClaims(method, claims).SignedString(c.privateKey)
	if err != nil {
		return "", "", time.Time{}, err
	}
	return signed, jti, expiresAt, nil
}

// Verify parses tokenString and checks signature, expiry, issuer, and
// audience. Every failure collapses to ErrInvalidToken.
func (c *TokenCodec) Verify(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		switch token.Method.(type) {
		case *jwt.SigningMethodRSA, *jwt.SigningMethodECDSA:
			return c.publicKey, nil
		}
		return nil, ErrInvalidToken
	})
	if err != nil {
		return nil, ErrInvalidToken
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Issuer != c.issuer {
		return nil, ErrInvalidToken
	}
	audOK := false
	for _, a := range claims.Audience {
		if a == c.audience {
			audOK = true
			break
		}
	}
	if !audOK {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// Refresh verifies refreshToken, requires it to be of refresh type, and issues
// a fresh access token for the same user and session. The refresh token itself
// is not rotated. An access token presented here is rejected with ErrInvalidToken.
func (c *TokenCodec) Refresh(refreshToken string) (string, error) {
	claims, err := c.Verify(refreshToken)
	if err != nil {
		return "", err
	}
	if claims.TokenType != TokenTypeRefresh {
		return "", ErrInvalidToken
	}
	access, _, _, err := c.IssueAccess(claims.Subject, claims.SessionID, claims.Role, claims.OrgID)
	return access, err
}

func generateJTI() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
