package apple

import (
	"crypto/ecdsa"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/unsentpro/unsent-api/internal/validation/domain"
)

const (
	assertionAudience = "appstoreconnect-v1"
	assertionTTL      = 2 * time.Hour

	// Apple allows a small amount of clock skew on issued-at.
	maxIssuedAtSkew = time.Minute
)

// Credentials holds the App Store Connect API key material.
type Credentials struct {
	KeyID      string
	IssuerID   string
	BundleID   string
	PrivateKey string
}

// AssertionSigner mints and self-verifies the short-lived ES256 tokens the
// App Store Server API expects.
type AssertionSigner struct {
	creds      Credentials
	privateKey *ecdsa.PrivateKey
}

func NewAssertionSigner(creds Credentials) (*AssertionSigner, error) {
	if creds.KeyID == "" || creds.IssuerID == "" || creds.BundleID == "" || strings.TrimSpace(creds.PrivateKey) == "" {
		return nil, domain.ErrInvalidConfig
	}

	key, err := jwt.ParseECPrivateKeyFromPEM([]byte(creds.PrivateKey))
	if err != nil {
		return nil, fmt.Errorf("%w: parse private key: %v", domain.ErrInvalidConfig, err)
	}

	return &AssertionSigner{creds: creds, privateKey: key}, nil
}

// Sign mints an assertion issued at the given time.
func (s *AssertionSigner) Sign(now time.Time) (string, error) {
	claims := jwt.MapClaims{
		"iss": s.creds.IssuerID,
		"iat": now.Unix(),
		"exp": now.Add(assertionTTL).Unix(),
		"aud": assertionAudience,
		"bid": s.creds.BundleID,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodES256, claims)
	token.Header["kid"] = s.creds.KeyID

	return token.SignedString(s.privateKey)
}

// Verify checks an assertion against our own key material before it is sent
// upstream, so credential mismatches surface locally instead of as opaque
// 401 responses.
func (s *AssertionSigner) Verify(assertion string, now time.Time) error {
	parsed, err := jwt.Parse(assertion,
		func(token *jwt.Token) (any, error) {
			return &s.privateKey.PublicKey, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodES256.Alg()}),
		jwt.WithAudience(assertionAudience),
		jwt.WithIssuer(s.creds.IssuerID),
		jwt.WithTimeFunc(func() time.Time { return now }),
	)
	if err != nil {
		return fmt.Errorf("assertion rejected: %w", err)
	}

	kid, _ := parsed.Header["kid"].(string)
	if kid != s.creds.KeyID {
		return errors.New("assertion key id mismatch")
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return errors.New("assertion claims malformed")
	}
	if bid, _ := claims["bid"].(string); bid != s.creds.BundleID {
		return errors.New("assertion bundle id mismatch")
	}

	issuedAt, err := claims.GetIssuedAt()
	if err != nil || issuedAt == nil {
		return errors.New("assertion missing issued-at")
	}
	if issuedAt.After(now.Add(maxIssuedAtSkew)) {
		return errors.New("assertion issued in the future")
	}

	return nil
}
