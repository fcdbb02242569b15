package jwtx

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrMalformed  = errors.New("jwtx: malformed token")
	ErrInvalidSig = errors.New("jwtx: invalid signature")
	ErrExpired    = errors.New("jwtx: token expired")
	ErrIssuer     = errors.New("jwtx: issuer mismatch")
	ErrWrongType  = errors.New("jwtx: wrong token type")
	ErrWeakSecret = errors.New("jwtx: signing secret too short")
)

// MinSecretLength is the smallest accepted HMAC secret. HS256 security is
// bounded by the secret's entropy, so short secrets are refused outright.
const MinSecretLength = 32

// Signer signs and verifies HS256 tokens with a single shared secret.
// It implements both halves because HMAC verification needs the same key.
type Signer struct {
	secret []byte
	issuer string
}

// Verifier validates a JWT string and returns its claims if it is legit.
type Verifier interface {
	Verify(token, tokenType string) (Claims, error)
}

// NewSigner creates an HS256 signer/verifier bound to an issuer.
func NewSigner(secret, issuer string) (*Signer, error) {
	if len(secret) < MinSecretLength {
		return nil, ErrWeakSecret
	}
	return &Signer{secret: []byte(secret), issuer: issuer}, nil
}

// Issuer returns the iss value this signer stamps on tokens.
func (s *Signer) Issuer() string { return s.issuer }

// Sign turns claims into a signed compact JWT string.
func (s *Signer) Sign(claims Claims) (string, error) {
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// Verify parses and validates the token string, enforcing the HS256 method,
// signature, expiry/nbf, issuer, and the expected token_type claim.
func (s *Signer) Verify(tokenStr, tokenType string) (Claims, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.issuer),
		jwt.WithExpirationRequired(),
	)

	token, err := parser.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	})
	if err != nil {
		return Claims{}, mapParseError(err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return Claims{}, ErrMalformed
	}
	if claims.TokenType != tokenType {
		return Claims{}, ErrWrongType
	}

	return *claims, nil
}

func mapParseError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return ErrExpired
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return ErrInvalidSig
	case errors.Is(err, jwt.ErrTokenInvalidIssuer):
		return ErrIssuer
	default:
		return ErrMalformed
	}
}
