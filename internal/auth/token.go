package auth

import (
	"crypto/rsa"
	"errors"
	"fmt"
	"strconv"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/spec-kit/store-service/internal/domain"
)

// DefaultTokenTTL is the session lifetime when none is configured.
const DefaultTokenTTL = 2 * time.Hour

// DefaultAlgorithms lists the signing algorithms accepted on verification.
var DefaultAlgorithms = []string{jwt.SigningMethodRS256.Alg()}

var (
	// ErrTokenMalformed means the token could not be decoded at all.
	ErrTokenMalformed = errors.New("token malformed")
	// ErrSignatureInvalid covers rejected algorithms and signature mismatches.
	ErrSignatureInvalid = errors.New("token signature invalid")
	// ErrInvalidClaims means a claim set violates exp > iat.
	ErrInvalidClaims = errors.New("invalid token claims")
)

// Claims describes JWT payload. Field names on the wire are sub, role, iss,
// iat and exp.
type Claims struct {
	Subject   int64  `json:"sub"`
	Role      int    `json:"role"`
	Issuer    string `json:"iss"`
	IssuedAt  int64  `json:"iat"`
	ExpiresAt int64  `json:"exp"`
}

// NewClaims builds a claim set valid from issuedAt for ttl.
func NewClaims(subjectID int64, role domain.Role, issuer string, issuedAt time.Time, ttl time.Duration) (Claims, error) {
	c := Claims{
		Subject:   subjectID,
		Role:      int(role),
		Issuer:    issuer,
		IssuedAt:  issuedAt.Unix(),
		ExpiresAt: issuedAt.Add(ttl).Unix(),
	}
	if err := c.validate(); err != nil {
		return Claims{}, err
	}
	return c, nil
}

func (c Claims) validate() error {
	if c.ExpiresAt <= c.IssuedAt {
		return fmt.Errorf("%w: exp %d is not after iat %d", ErrInvalidClaims, c.ExpiresAt, c.IssuedAt)
	}
	return nil
}

func (c Claims) GetExpirationTime() (*jwt.NumericDate, error) {
	return jwt.NewNumericDate(time.Unix(c.ExpiresAt, 0)), nil
}

func (c Claims) GetIssuedAt() (*jwt.NumericDate, error) {
	return jwt.NewNumericDate(time.Unix(c.IssuedAt, 0)), nil
}

func (c Claims) GetNotBefore() (*jwt.NumericDate, error) { return nil, nil }

func (c Claims) GetIssuer() (string, error) { return c.Issuer, nil }

func (c Claims) GetSubject() (string, error) { return strconv.FormatInt(c.Subject, 10), nil }

func (c Claims) GetAudience() (jwt.ClaimStrings, error) { return nil, nil }

// VerifiedClaims can only be obtained from Verify, so holding one means the
// signature was checked. Expiry is checked separately by the caller.
type VerifiedClaims struct {
	claims Claims
}

func (v VerifiedClaims) SubjectID() int64 { return v.claims.Subject }

// Role returns the token role as-is. Unknown values satisfy no requirement.
func (v VerifiedClaims) Role() domain.Role { return domain.Role(v.claims.Role) }

func (v VerifiedClaims) Issuer() string { return v.claims.Issuer }

func (v VerifiedClaims) IssuedAt() time.Time { return time.Unix(v.claims.IssuedAt, 0) }

func (v VerifiedClaims) ExpiresAt() time.Time { return time.Unix(v.claims.ExpiresAt, 0) }

// Expired reports whether the token is no longer valid at now. A token is
// already expired at its exp second.
func (v VerifiedClaims) Expired(now time.Time) bool {
	return now.Unix() >= v.claims.ExpiresAt
}

// Claims returns a copy of the verified claim set.
func (v VerifiedClaims) Claims() Claims { return v.claims }

// Sign encodes claims as an RS256 JWT.
func Sign(claims Claims, key *rsa.PrivateKey) (string, error) {
	if key == nil {
		return "", errors.New("sign token: missing private key")
	}
	if err := claims.validate(); err != nil {
		return "", err
	}
	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	signed, err := token.SignedString(key)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify checks the token signature with key, accepting only the listed
// algorithms. Claims are not validated here; only the signature.
func Verify(tokenStr string, key *rsa.PublicKey, allowed []string) (VerifiedClaims, error) {
	if key == nil || len(allowed) == 0 {
		return VerifiedClaims{}, ErrSignatureInvalid
	}

	var claims Claims
	parser := jwt.NewParser(jwt.WithValidMethods(allowed), jwt.WithoutClaimsValidation())
	parsed, err := parser.ParseWithClaims(tokenStr, &claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return key, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenMalformed) {
			return VerifiedClaims{}, fmt.Errorf("%w: %v", ErrTokenMalformed, err)
		}
		return VerifiedClaims{}, fmt.Errorf("%w: %v", ErrSignatureInvalid, err)
	}
	if !parsed.Valid {
		return VerifiedClaims{}, ErrSignatureInvalid
	}
	return VerifiedClaims{claims: claims}, nil
}

// ParseClaims decodes the claims segment without checking the signature.
// The result must not be used for access decisions.
func ParseClaims(tokenStr string) (Claims, error) {
	var claims Claims
	if _, _, err := jwt.NewParser().ParseUnverified(tokenStr, &claims); err != nil {
		return Claims{}, fmt.Errorf("%w: %v", ErrTokenMalformed, err)
	}
	return claims, nil
}

// TokenManager issues session tokens and verifies presented ones.
type TokenManager struct {
	private    *rsa.PrivateKey
	public     *rsa.PublicKey
	algorithms []string
	issuer     string
	ttl        time.Duration
	now        func() time.Time
}

// TokenOption customizes a TokenManager.
type TokenOption func(*TokenManager)

// WithClock replaces the wall clock used for iat, exp and expiry checks.
func WithClock(now func() time.Time) TokenOption {
	return func(tm *TokenManager) {
		if now != nil {
			tm.now = now
		}
	}
}

// WithAlgorithms overrides the accepted signing algorithms.
func WithAlgorithms(algs ...string) TokenOption {
	return func(tm *TokenManager) {
		tm.algorithms = append([]string(nil), algs...)
	}
}

// NewTokenManager builds a new manager. A nil public key is derived from the
// private key.
func NewTokenManager(private *rsa.PrivateKey, public *rsa.PublicKey, issuer string, ttlMinutes int, opts ...TokenOption) *TokenManager {
	ttl := time.Duration(ttlMinutes) * time.Minute
	if ttl < time.Second {
		ttl = DefaultTokenTTL
	}
	if public == nil && private != nil {
		public = &private.PublicKey
	}
	tm := &TokenManager{
		private:    private,
		public:     public,
		algorithms: DefaultAlgorithms,
		issuer:     issuer,
		ttl:        ttl,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(tm)
	}
	return tm
}

// GenerateToken builds and signs a JWT for the subject.
func (tm *TokenManager) GenerateToken(subjectID int64, role domain.Role) (string, Claims, error) {
	claims, err := NewClaims(subjectID, role, tm.issuer, tm.now(), tm.ttl)
	if err != nil {
		return "", Claims{}, err
	}
	token, err := Sign(claims, tm.private)
	if err != nil {
		return "", Claims{}, err
	}
	return token, claims, nil
}

// ParseToken verifies the token signature and returns its claims. Expiry is
// left to the caller.
func (tm *TokenManager) ParseToken(tokenStr string) (VerifiedClaims, error) {
	return Verify(tokenStr, tm.public, tm.algorithms)
}

// Now returns the manager's current time.
func (tm *TokenManager) Now() time.Time {
	return tm.now()
}

// TTL returns the session lifetime.
func (tm *TokenManager) TTL() time.Duration {
	return tm.ttl
}
