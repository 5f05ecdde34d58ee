// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package payout

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/danielhkuo/valconnect/models"
)

func TestBaseUnits(t *testing.T) {
	tests := []struct {
		amount string
		want   string
	}{
		{"100", "100000000000000000000"},
		{"1.5", "1500000000000000000"},
		{"0", "0"},
		{"0.0000000000000000001", "0"},
	}

	for _, tt := range tests {
		if got := BaseUnits(decimal.RequireFromString(tt.amount)); got != tt.want {
			t.Errorf("BaseUnits(%s) = %s, want %s", tt.amount, got, tt.want)
		}
	}
}

func TestIdempotencyKey(t *testing.T) {
	a := IdempotencyKey("claim-1")
	if a != IdempotencyKey("claim-1") {
		t.Error("IdempotencyKey() is not deterministic")
	}
	if a == IdempotencyKey("claim-2") {
		t.Error("IdempotencyKey() collides for different claims")
	}
}

func TestRelayerPay(t *testing.T) {
	var got relayRequest
	var gotAuth, gotKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotKey = r.Header.Get("Idempotency-Key")
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("bad request body: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"tx_hash":"0xabc123"}`))
	}))
	defer srv.Close()

	r := NewRelayer(srv.Client(), srv.URL, "relay-token", "0xContract")
	receipt, err := r.Pay(context.Background(), Transfer{
		ClaimID: "claim-1",
		To:      "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed",
		Amount:  decimal.NewFromInt(100),
	})
	if err != nil {
		t.Fatalf("Pay() error = %v", err)
	}

	if receipt.Status != models.PayoutSent || receipt.Ref != "0xabc123" {
		t.Errorf("unexpected receipt %+v", receipt)
	}
	if gotAuth != "Bearer relay-token" {
		t.Errorf("Authorization = %q", gotAuth)
	}
	if gotKey != IdempotencyKey("claim-1") || got.IdempotencyKey != gotKey {
		t.Errorf("idempotency key header %q body %q", gotKey, got.IdempotencyKey)
	}
	if got.Contract != "0xContract" || got.Amount != "100000000000000000000" {
		t.Errorf("unexpected relay request %+v", got)
	}
}

func TestRelayerPayErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"server error", http.StatusInternalServerError, "insufficient funds"},
		{"not json", http.StatusOK, "ok"},
		{"missing hash", http.StatusOK, `{}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			r := NewRelayer(srv.Client(), srv.URL, "", "0xContract")
			_, err := r.Pay(context.Background(), Transfer{ClaimID: "c", To: "0x1", Amount: decimal.NewFromInt(1)})
			if !errors.Is(err, ErrRelayerResponse) {
				t.Errorf("Pay() error = %v, want ErrRelayerResponse", err)
			}
		})
	}
}

func TestRelayerUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	r := NewRelayer(nil, url, "", "0xContract")
	if _, err := r.Pay(context.Background(), Transfer{ClaimID: "c", To: "0x1", Amount: decimal.NewFromInt(1)}); err == nil {
		t.Error("expected error for unreachable relayer")
	}
}

func TestLogOnly(t *testing.T) {
	receipt, err := LogOnly{}.Pay(context.Background(), Transfer{ClaimID: "c", To: "0x1", Amount: decimal.NewFromInt(1)})
	if err != nil {
		t.Fatalf("Pay() error = %v", err)
	}
	if receipt.Status != models.PayoutSkipped {
		t.Errorf("Status = %s, want skipped", receipt.Status)
	}
}
