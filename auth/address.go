// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"encoding/hex"
	"errors"
	"strings"

	"golang.org/x/crypto/sha3"
)

var (
	ErrInvalidAddress  = errors.New("payout address must be 0x followed by 40 hex characters")
	ErrAddressChecksum = errors.New("payout address fails EIP-55 checksum")
)

// ValidatePayoutAddress checks that addr is a well-formed EVM address.
// All-lowercase and all-uppercase hex carry no checksum and are accepted;
// mixed case must match EIP-55.
func ValidatePayoutAddress(addr string) error {
	if len(addr) != 42 || !(strings.HasPrefix(addr, "0x") || strings.HasPrefix(addr, "0X")) {
		return ErrInvalidAddress
	}
	body := addr[2:]
	if _, err := hex.DecodeString(body); err != nil {
		return ErrInvalidAddress
	}

	if body == strings.ToLower(body) || body == strings.ToUpper(body) {
		return nil
	}
	if ChecksumAddress(addr) != "0x"+body {
		return ErrAddressChecksum
	}
	return nil
}

// ChecksumAddress returns the EIP-55 mixed-case form of a 0x-prefixed address.
// The input must already be 40 hex characters after the prefix.
func ChecksumAddress(addr string) string {
	lower := strings.ToLower(addr[2:])

	h := sha3.NewLegacyKeccak256()
	h.Write([]byte(lower))
	digest := hex.EncodeToString(h.Sum(nil))

	out := []byte(lower)
	for i, c := range out {
		if c >= 'a' && c <= 'f' && digest[i] >= '8' {
			out[i] = c - ('a' - 'A')
		}
	}
	return "0x" + string(out)
}
