package tokens

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	DefaultAccessTTL  = 15 * time.Minute
	DefaultRefreshTTL = 30 * 24 * time.Hour
)

// Codec signs and verifies one class of token. Access and refresh tokens get
// separate codecs built on separate secrets.
type Codec struct {
	typ    Type
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

type Option func(*Codec)

func WithClock(now func() time.Time) Option {
	return func(c *Codec) { c.now = now }
}

func NewCodec(typ Type, secret []byte, ttl time.Duration, opts ...Option) (*Codec, error) {
	if len(secret) == 0 {
		return nil, fmt.Errorf("%s token secret is empty", typ)
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("%s token ttl must be positive", typ)
	}
	c := &Codec{typ: typ, secret: secret, ttl: ttl, now: time.Now}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func NewAccessCodec(secret []byte, ttl time.Duration, opts ...Option) (*Codec, error) {
	return NewCodec(TypeAccess, secret, ttl, opts...)
}

func NewRefreshCodec(secret []byte, ttl time.Duration, opts ...Option) (*Codec, error) {
	return NewCodec(TypeRefresh, secret, ttl, opts...)
}

func (c *Codec) Type() Type { return c.typ }

func (c *Codec) TTL() time.Duration { return c.ttl }

func (c *Codec) Issue(sub Subject) (string, *Claims, error) {
	now := c.now()
	claims := &Claims{
		UserID: sub.UserID,
		Email:  sub.Email,
		Role:   sub.Role,
		Type:   c.typ,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return "", nil, fmt.Errorf("sign %s token: %w", c.typ, err)
	}
	return token, claims, nil
}

func (c *Codec) Verify(raw string) (*Claims, error) {
	if raw == "" {
		return nil, &VerificationError{Reason: ErrMalformed}
	}

	var claims Claims
	_, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (any, error) {
		return c.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(c.now),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
	)
	if err != nil {
		return nil, classify(err)
	}

	if claims.Type != c.typ {
		return nil, &VerificationError{
			Reason: ErrMalformed,
			Err:    fmt.Errorf("unexpected token type %q", claims.Type),
		}
	}
	return &claims, nil
}

func classify(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return &VerificationError{Reason: ErrExpired, Err: err}
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
		return &VerificationError{Reason: ErrSignatureInvalid, Err: err}
	default:
		return &VerificationError{Reason: ErrMalformed, Err: err}
	}
}
