// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package payout sends reward tokens to claimants.

The service never holds a signing key. Relayer posts each transfer to an
HTTP relayer that signs and submits the ERC-20 transfer:

	POST <PAYOUT_RELAYER_URL>
	Authorization: Bearer <PAYOUT_RELAYER_TOKEN>
	Idempotency-Key: <uuid>

	{"contract": "0x...", "to": "0x...", "amount": "100000000000000000000", "idempotency_key": "<uuid>"}

and expects {"tx_hash": "0x..."} back. Amounts are sent in base units
(18 decimals). The idempotency key is a name-based UUID of the claim ID, so
replaying the same claim is safe on the relayer side.

LogOnly is used when no relayer URL is configured; it logs the transfer and
reports it as skipped.
*/
package payout
