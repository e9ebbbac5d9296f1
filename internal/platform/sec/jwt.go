// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package sec holds the token primitives guarding catalog management.

The server only ever verifies tokens, so it loads the public key alone
through [NewVerifierFromFile]. Tokens are minted offline by the assetctl CLI
with the matching private key through [NewSignerFromFile]. Both use RS256.
*/
package sec

import (
	"crypto/rsa"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken is returned for any token that fails verification.
var ErrInvalidToken = errors.New("sec: invalid token")

// AuthClaims is the payload of an access token.
type AuthClaims struct {
	jwt.RegisteredClaims

	// Abbreviated to keep the token small.
	UserID string `json:"uid"`
	Role   string `json:"rol"`
}

// # Signing

// Signer mints access tokens.
type Signer struct {
	privateKey *rsa.PrivateKey
	issuer     string
}

// NewSigner creates a [Signer] from a parsed RSA key.
func NewSigner(privateKey *rsa.PrivateKey, issuer string) *Signer {
	return &Signer{privateKey: privateKey, issuer: issuer}
}

// NewSignerFromFile reads a PEM encoded RSA private key and returns a [Signer].
func NewSignerFromFile(path, issuer string) (*Signer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("sec: failed to read private key from %s: %w", path, err)
	}

	privateKey, err := jwt.ParseRSAPrivateKeyFromPEM(data)
	if err != nil {
		return nil, fmt.Errorf("sec: failed to parse private key: %w", err)
	}

	return NewSigner(privateKey, issuer), nil
}

/*
Sign creates an access token for subject with role.

Parameters:
  - subject: string (who the token is for, e.g. "ci-uploader")
  - role: UserRole
  - timeToLive: time.Duration

Returns:
  - string: Signed JWT
  - error: Unknown role or signing failure
*/
func (signer *Signer) Sign(subject string, role UserRole, timeToLive time.Duration) (string, error) {
	if !role.Valid() {
		return "", fmt.Errorf("sec: unknown role %q", role)
	}

	now := time.Now()
	claims := AuthClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    signer.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(timeToLive)),
		},
		UserID: subject,
		Role:   string(role),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(signer.privateKey)
	if err != nil {
		return "", fmt.Errorf("sec: failed to sign token: %w", err)
	}

	return signed, nil
}

// # Verification

// Verifier checks access tokens.
type Verifier struct {
	publicKey *rsa.PublicKey
	issuer    string
}

// NewVerifier creates a [Verifier] from a parsed RSA public key.
func NewVerifier(publicKey *rsa.PublicKey, issuer string) *Verifier {
	return &Verifier{publicKey: publicKey, issuer: issuer}
}

// NewVerifierFromFile reads a PEM encoded RSA public key and returns a [Verifier].
func NewVerifierFromFile(path, issuer string) (*Verifier, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("sec: failed to read public key from %s: %w", path, err)
	}

	publicKey, err := jwt.ParseRSAPublicKeyFromPEM(data)
	if err != nil {
		return nil, fmt.Errorf("sec: failed to parse public key: %w", err)
	}

	return NewVerifier(publicKey, issuer), nil
}

// VerifyToken checks signature, expiry and issuer of tokenString.
func (verifier *Verifier) VerifyToken(tokenString string) (*AuthClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &AuthClaims{}, func(token *jwt.Token) (interface{}, error) {
		return verifier.publicKey, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}),
		jwt.WithIssuer(verifier.issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*AuthClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
