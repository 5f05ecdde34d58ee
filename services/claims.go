// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/danielhkuo/valconnect/auth"
	"github.com/danielhkuo/valconnect/db"
	"github.com/danielhkuo/valconnect/models"
	"github.com/danielhkuo/valconnect/payout"
)

// payoutTimeout bounds the payout call, which outlives the client request.
const payoutTimeout = 30 * time.Second

type ClaimStore interface {
	GetScore(ctx context.Context, id string) (*models.Score, error)
	ClaimReward(ctx context.Context, claim *models.RewardClaim, slot int) error
	UpdateClaimPayout(ctx context.Context, claimID, status string, ref, payoutErr *string) error
}

// ClaimService lets each participant of an eligible score claim once.
type ClaimService struct {
	store  ClaimStore
	payer  payout.Payer
	amount decimal.Decimal
	now    func() time.Time
}

func NewClaimService(store ClaimStore, payer payout.Payer, amount decimal.Decimal) *ClaimService {
	return &ClaimService{store: store, payer: payer, amount: amount, now: time.Now}
}

// Claim credits the participant and triggers the payout. Checks run in order:
// NotFound, InvalidParticipant, AlreadyClaimed, BelowThreshold, then the
// payout address.
//
// The credit is committed before the payout call. A failed payout is logged
// and recorded on the ledger entry, and does not undo the credit.
func (s *ClaimService) Claim(ctx context.Context, scoreID, userID, payoutAddress string) (*models.Score, error) {
	sc, err := s.store.GetScore(ctx, scoreID)
	if errors.Is(err, db.ErrNotFound) {
		return nil, NewNotFoundError("score not found")
	}
	if err != nil {
		return nil, err
	}

	slot := sc.ParticipantSlot(userID)
	if slot == 0 {
		return nil, NewInvalidParticipantError("user is not a participant of this score")
	}
	if sc.Claimed(slot) {
		return nil, NewAlreadyClaimedError("reward already claimed")
	}
	if sc.OverallScore < models.ClaimThreshold {
		return nil, NewBelowThresholdError(fmt.Sprintf("overall score %d is below the claim threshold of %d", sc.OverallScore, models.ClaimThreshold))
	}

	payoutAddress = strings.TrimSpace(payoutAddress)
	if err := auth.ValidatePayoutAddress(payoutAddress); err != nil {
		return nil, NewInvalidError(err.Error())
	}

	id, err := auth.GenerateID(16)
	if err != nil {
		return nil, err
	}

	claim := &models.RewardClaim{
		ID:            id,
		ScoreID:       scoreID,
		UserID:        userID,
		PayoutAddress: payoutAddress,
		Points:        sc.TotalPoints,
		Amount:        s.amount,
		PayoutStatus:  models.PayoutPending,
		ClaimedAt:     s.now().UTC(),
	}
	if err := s.store.ClaimReward(ctx, claim, slot); err != nil {
		switch {
		case errors.Is(err, db.ErrAlreadyClaimed):
			return nil, NewAlreadyClaimedError("reward already claimed")
		case errors.Is(err, db.ErrNotFound):
			return nil, NewNotFoundError("user not found")
		}
		return nil, err
	}

	slog.Info("reward claimed", "score_id", scoreID, "user_id", userID, "points", claim.Points, "amount", claim.Amount.String())

	// The credit is committed; finish the payout even if the client goes away
	payCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), payoutTimeout)
	defer cancel()
	s.pay(payCtx, claim)

	updated, err := s.store.GetScore(ctx, scoreID)
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *ClaimService) pay(ctx context.Context, claim *models.RewardClaim) {
	receipt, err := s.payer.Pay(ctx, payout.Transfer{
		ClaimID: claim.ID,
		To:      claim.PayoutAddress,
		Amount:  claim.Amount,
	})

	var status string
	var ref, payoutErr *string
	if err != nil {
		slog.Error("payout failed", "claim_id", claim.ID, "score_id", claim.ScoreID, "user_id", claim.UserID, "error", err)
		msg := err.Error()
		status, payoutErr = models.PayoutFailed, &msg
	} else {
		status = receipt.Status
		if receipt.Ref != "" {
			ref = &receipt.Ref
		}
	}

	if err := s.store.UpdateClaimPayout(ctx, claim.ID, status, ref, payoutErr); err != nil {
		slog.Error("failed to record payout outcome", "claim_id", claim.ID, "status", status, "error", err)
	}
}
