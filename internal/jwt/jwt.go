package jwt

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	gojose "github.com/go-jose/go-jose/v4"
	gojwt "github.com/go-jose/go-jose/v4/jwt"

	"github.com/Daffa964/api-edutrash/internal/domain"
)

// MinSecretBytes is the smallest HS256 key go-jose accepts.
const MinSecretBytes = 32

var (
	// ErrMalformed means the token could not be parsed as a compact JWS.
	ErrMalformed = errors.New("token malformed")
	// ErrInvalidSignature means the signature does not match the secret.
	ErrInvalidSignature = errors.New("token signature invalid")
	// ErrExpired means the token is past its expiry.
	ErrExpired = errors.New("token expired")
)

// Claims are the identity claims carried by an access token.
type Claims struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	IssuedAt  time.Time `json:"-"`
	ExpiresAt time.Time `json:"-"`
}

// Issuer signs and verifies HS256 bearer tokens with a shared secret.
type Issuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewIssuer constructs an Issuer.
func NewIssuer(secret string, ttl time.Duration) (*Issuer, error) {
	if len(secret) < MinSecretBytes {
		return nil, fmt.Errorf("jwt secret must be at least %d bytes", MinSecretBytes)
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("jwt ttl must be positive")
	}
	return &Issuer{secret: []byte(secret), ttl: ttl, now: time.Now}, nil
}

// WithClock returns a copy of the issuer that reads time from now.
func (i *Issuer) WithClock(now func() time.Time) *Issuer {
	clone := *i
	clone.now = now
	return &clone
}

// TTL reports how long issued tokens stay valid.
func (i *Issuer) TTL() time.Duration {
	return i.ttl
}

// Issue produces a signed token for the user.
func (i *Issuer) Issue(user domain.User) (string, error) {
	signer, err := gojose.NewSigner(gojose.SigningKey{Algorithm: gojose.HS256, Key: i.secret}, (&gojose.SignerOptions{}).WithType("JWT"))
	if err != nil {
		return "", fmt.Errorf("new signer: %w", err)
	}

	now := i.now().UTC()
	std := gojwt.Claims{
		Subject:   strconv.FormatInt(user.ID, 10),
		IssuedAt:  gojwt.NewNumericDate(now),
		NotBefore: gojwt.NewNumericDate(now),
		Expiry:    gojwt.NewNumericDate(now.Add(i.ttl)),
	}
	custom := Claims{ID: user.ID, Username: user.Username}

	token, err := gojwt.Signed(signer).Claims(std).Claims(custom).Serialize()
	if err != nil {
		return "", fmt.Errorf("serialize jwt: %w", err)
	}
	return token, nil
}

// Verify checks signature and expiry and returns the identity claims.
func (i *Issuer) Verify(token string) (*Claims, error) {
	parsed, err := gojwt.ParseSigned(token, []gojose.SignatureAlgorithm{gojose.HS256})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	var std gojwt.Claims
	var custom Claims
	if err := parsed.Claims(i.secret, &std, &custom); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}

	if err := std.ValidateWithLeeway(gojwt.Expected{Time: i.now()}, 0); err != nil {
		if errors.Is(err, gojwt.ErrExpired) {
			return nil, ErrExpired
		}
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if std.Expiry == nil || custom.ID == 0 {
		return nil, ErrMalformed
	}

	custom.ExpiresAt = std.Expiry.Time()
	if std.IssuedAt != nil {
		custom.IssuedAt = std.IssuedAt.Time()
	}
	return &custom, nil
}
