// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Interaction type constants
const (
	InteractionGame         = "game"
	InteractionConversation = "conversation"
)

// Payout status constants for reward claims
const (
	PayoutPending = "pending"
	PayoutSent    = "sent"
	PayoutFailed  = "failed"
	PayoutSkipped = "skipped"
)

// ClaimThreshold is the minimum overall score (inclusive) that unlocks a claim.
const ClaimThreshold = 80

// Request types

type RegisterRequest struct {
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
}

type GenerateQuestionsRequest struct {
	Mood            string `json:"mood"`
	InteractionType string `json:"interaction_type"`
	Context         string `json:"context"`
}

type SubmitAnswersRequest struct {
	DisplayName string       `json:"display_name"`
	Answers     []AnswerPair `json:"answers"`
}

type ClaimRequest struct {
	PayoutAddress string `json:"payout_address"`
}

// Response types

type AuthResponse struct {
	Exists bool   `json:"exists"`
	User   *User  `json:"user"`
	Token  string `json:"token,omitempty"`
}

type UserStatsResponse struct {
	TotalPoints         int             `json:"total_points"`
	PointsDisplay       string          `json:"points_display"`
	QuestionSetsCreated int             `json:"question_sets_created"`
	MoneyEarned         decimal.Decimal `json:"money_earned"`
}

type GenerateQuestionsResponse struct {
	QuestionSetID string `json:"question_set_id"`
	ShareSlug     string `json:"share_slug"`
	ShareURL      string `json:"share_url"`
}

type QuestionSetSummary struct {
	ID              string    `json:"id"`
	Mood            string    `json:"mood"`
	InteractionType string    `json:"interaction_type"`
	PromptCount     int       `json:"prompt_count"`
	ShareSlug       string    `json:"share_slug"`
	CreatedAt       time.Time `json:"created_at"`
	CreatedAgo      string    `json:"created_ago"`
}

type ListQuestionSetsResponse struct {
	QuestionSets []QuestionSetSummary `json:"question_sets"`
}

type SubmitAnswersResponse struct {
	Message string `json:"message"`
}

type PartnerAnsweredResponse struct {
	HasAnswered bool `json:"has_answered"`
}

type AnswersByQuestionResponse struct {
	AnswersCount int         `json:"answers_count"`
	Answers      []AnswerSet `json:"answers"`
}

type ListScoresResponse struct {
	Scores []Score `json:"scores"`
}

type MoodResponse struct {
	Label       string `json:"label"`
	Description string `json:"description"`
}

// Domain types

type User struct {
	ID                  string          `json:"id"`
	Email               string          `json:"email"`
	DisplayName         string          `json:"display_name"`
	TotalPoints         int             `json:"total_points"`
	QuestionSetsCreated int             `json:"question_sets_created"`
	MoneyEarned         decimal.Decimal `json:"money_earned"`
	CreatedAt           time.Time       `json:"created_at"`
}

type QuestionSet struct {
	ID              string     `json:"id"`
	UserID          string     `json:"user_id"`
	Mood            string     `json:"mood"`
	InteractionType string     `json:"interaction_type"`
	MoodDescription string     `json:"mood_description"`
	Context         string     `json:"context,omitempty"`
	Prompts         []string   `json:"prompts"`
	Options         [][]string `json:"options,omitempty"`
	ShareSlug       string     `json:"share_slug"`
	CreatedAt       time.Time  `json:"created_at"`
}

type AnswerPair struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

type AnswerSet struct {
	ID            string       `json:"id"`
	QuestionSetID string       `json:"question_set_id"`
	UserID        string       `json:"user_id"`
	DisplayName   string       `json:"display_name"`
	Answers       []AnswerPair `json:"answers"`
	IPHash        *string      `json:"-"` // Never expose in JSON
	UserAgent     *string      `json:"-"` // Never expose in JSON
	SubmittedAt   time.Time    `json:"submitted_at"`
}

type Comparison struct {
	QuestionIndex int    `json:"question_index"`
	Question      string `json:"question"`
	User1Answer   string `json:"user1_answer"`
	User2Answer   string `json:"user2_answer"`
	User1Name     string `json:"user1_name"`
	User2Name     string `json:"user2_name"`
	Compatibility int    `json:"compatibility"` // 0-100
	Explanation   string `json:"explanation"`
	Points        int    `json:"points"`
}

type Score struct {
	ID              string       `json:"id"`
	QuestionSetID   string       `json:"question_set_id"`
	User1ID         string       `json:"user1_id"`
	User2ID         string       `json:"user2_id"`
	Mood            string       `json:"mood"`
	Comparisons     []Comparison `json:"comparisons"`
	OverallScore    int          `json:"overall_score"` // 0-100
	OverallFeedback string       `json:"overall_feedback"`
	TotalPoints     int          `json:"total_points"`
	User1Claimed    bool         `json:"user1_claimed"`
	User2Claimed    bool         `json:"user2_claimed"`
	FullyClaimed    bool         `json:"fully_claimed"`
	ComputedAt      time.Time    `json:"computed_at"`
}

// ParticipantSlot returns 1 or 2 for a participant of the score, 0 otherwise.
func (s *Score) ParticipantSlot(userID string) int {
	switch userID {
	case s.User1ID:
		return 1
	case s.User2ID:
		return 2
	}
	return 0
}

// Claimed reports the claim flag for the given participant slot.
func (s *Score) Claimed(slot int) bool {
	switch slot {
	case 1:
		return s.User1Claimed
	case 2:
		return s.User2Claimed
	}
	return false
}

// RewardClaim is one participant's ledger entry for a score.
type RewardClaim struct {
	ID            string          `json:"id"`
	ScoreID       string          `json:"score_id"`
	UserID        string          `json:"user_id"`
	PayoutAddress string          `json:"payout_address"`
	Points        int             `json:"points"`
	Amount        decimal.Decimal `json:"amount"`
	PayoutStatus  string          `json:"payout_status"`
	PayoutRef     *string         `json:"payout_ref,omitempty"`
	PayoutError   *string         `json:"payout_error,omitempty"`
	ClaimedAt     time.Time       `json:"claimed_at"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
}
