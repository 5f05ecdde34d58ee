// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides session tokens, identifiers, and address validation.

# Session Tokens

Sessions are HS256 JWTs carrying the user ID and email:

	token, err := auth.IssueSessionToken(user.ID, user.Email, secret, auth.SessionTTL)
	claims, err := auth.ParseSessionToken(token, secret)

Every token carries a random jti. ParseSessionToken rejects tokens signed
with any other algorithm, and any failure wraps ErrInvalidSession.

# Identity Tokens

Sessions are only issued in exchange for an identity token, an HS256 JWT the
external identity provider signs once it has verified the user's email:

	claims, err := auth.ParseIdentityToken(token, identitySecret, issuer)

The token must carry an expiry and email_verified true. Failures wrap
ErrInvalidIdentity.

# Share Slugs

Share slugs create URL-friendly identifiers for question sets:

	slug := auth.GenerateShareSlug(questionSetID, salt)

Slugs are base62 encoded (alphanumeric only) and deterministic from the
question set ID and salt.

# ID Generation

Random hex IDs for database records:

	id, err := auth.GenerateID(16)  // 32 hex characters

# IP Hashing

Answer sets store a salted hash of the submitter's IP, never the IP itself:

	hash := auth.HashIP(ipAddress, salt)

# Payout Addresses

ValidatePayoutAddress accepts 0x-prefixed 40-hex-digit addresses. Mixed-case
addresses must satisfy the EIP-55 checksum (Keccak-256 of the lowercase hex).
*/
package auth
