// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"errors"
	"fmt"
	"strings"

	jwt "github.com/golang-jwt/jwt/v5"
)

var ErrInvalidIdentity = errors.New("invalid identity token")

// IdentityClaims is the assertion an external identity provider signs after
// it has verified the user's email.
type IdentityClaims struct {
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	jwt.RegisteredClaims
}

// ParseIdentityToken verifies an HS256 identity token signed with the
// provider's shared secret. The token must carry an expiry and a verified
// email. When issuer is non-empty the iss claim must match it.
func ParseIdentityToken(tok, secret, issuer string) (*IdentityClaims, error) {
	if secret == "" {
		return nil, fmt.Errorf("%w: identity secret is empty", ErrInvalidIdentity)
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if issuer != "" {
		opts = append(opts, jwt.WithIssuer(issuer))
	}

	t, err := jwt.ParseWithClaims(tok, &IdentityClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidIdentity, err)
	}

	c, ok := t.Claims.(*IdentityClaims)
	if !ok || !t.Valid {
		return nil, ErrInvalidIdentity
	}
	c.Email = strings.TrimSpace(c.Email)
	if c.Email == "" {
		return nil, fmt.Errorf("%w: no email claim", ErrInvalidIdentity)
	}
	if !c.EmailVerified {
		return nil, fmt.Errorf("%w: email not verified", ErrInvalidIdentity)
	}
	return c, nil
}
