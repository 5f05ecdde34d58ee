// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package payout

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/danielhkuo/valconnect/models"
)

// TokenDecimals is the ERC-20 decimals of the reward token.
const TokenDecimals = 18

// claimNamespace scopes idempotency keys derived from claim IDs.
var claimNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://valconnect.app/claims"))

var ErrRelayerResponse = errors.New("unexpected relayer response")

// Transfer is one reward payment.
type Transfer struct {
	ClaimID string
	To      string
	Amount  decimal.Decimal // whole tokens
}

// Receipt reports how a transfer was handled. Status is models.PayoutSent or
// models.PayoutSkipped.
type Receipt struct {
	Status string
	Ref    string
}

// Payer sends reward tokens.
type Payer interface {
	Pay(ctx context.Context, t Transfer) (*Receipt, error)
}

// IdempotencyKey derives a stable key from the claim ID so a repeated call
// for the same claim cannot pay twice.
func IdempotencyKey(claimID string) string {
	return uuid.NewSHA1(claimNamespace, []byte(claimID)).String()
}

// BaseUnits converts whole tokens to the token's smallest unit, truncating
// anything finer.
func BaseUnits(amount decimal.Decimal) string {
	return amount.Shift(TokenDecimals).Truncate(0).String()
}

// HTTPClient is the subset of *http.Client the relayer needs.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Relayer submits transfers to an HTTP relayer that owns the signing key.
type Relayer struct {
	client   HTTPClient
	url      string
	token    string
	contract string
}

func NewRelayer(client HTTPClient, url, token, contract string) *Relayer {
	if client == nil {
		client = http.DefaultClient
	}
	return &Relayer{client: client, url: url, token: token, contract: contract}
}

type relayRequest struct {
	Contract       string `json:"contract"`
	To             string `json:"to"`
	Amount         string `json:"amount"`
	IdempotencyKey string `json:"idempotency_key"`
}

type relayResponse struct {
	TxHash string `json:"tx_hash"`
}

// Pay posts the transfer and returns the relayer's transaction hash.
func (r *Relayer) Pay(ctx context.Context, t Transfer) (*Receipt, error) {
	key := IdempotencyKey(t.ClaimID)
	body, err := json.Marshal(relayRequest{
		Contract:       r.contract,
		To:             t.To,
		Amount:         BaseUnits(t.Amount),
		IdempotencyKey: key,
	})
	if err != nil {
		return nil, fmt.Errorf("encode relay request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build relay request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Idempotency-Key", key)
	if r.token != "" {
		req.Header.Set("Authorization", "Bearer "+r.token)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("relay request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("%w: status %d: %s", ErrRelayerResponse, resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	var rr relayResponse
	if err := json.NewDecoder(resp.Body).Decode(&rr); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRelayerResponse, err)
	}
	if rr.TxHash == "" {
		return nil, fmt.Errorf("%w: missing tx_hash", ErrRelayerResponse)
	}

	slog.Info("payout sent", "claim_id", t.ClaimID, "to", t.To, "amount", t.Amount.String(), "tx_hash", rr.TxHash)
	return &Receipt{Status: models.PayoutSent, Ref: rr.TxHash}, nil
}

// LogOnly records transfers without sending anything. Used when no relayer
// is configured.
type LogOnly struct{}

func (LogOnly) Pay(ctx context.Context, t Transfer) (*Receipt, error) {
	slog.Warn("payout relayer not configured, skipping transfer",
		"claim_id", t.ClaimID, "to", t.To, "amount", t.Amount.String())
	return &Receipt{Status: models.PayoutSkipped}, nil
}
