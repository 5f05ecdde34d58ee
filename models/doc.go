// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Request Types

Types for parsing incoming JSON:

  - RegisterRequest: email, display_name
  - GenerateQuestionsRequest: mood, interaction_type, context
  - SubmitAnswersRequest: display_name, answers
  - ClaimRequest: payout_address

# Response Types

Types for JSON responses:

  - AuthResponse: exists, user, token
  - UserStatsResponse: total_points, question_sets_created, money_earned
  - GenerateQuestionsResponse: question_set_id, share_slug, share_url
  - ListQuestionSetsResponse: question_sets
  - PartnerAnsweredResponse: has_answered
  - ErrorResponse: error, code, message

# Domain Types

  - User: identity and aggregate counters
  - QuestionSet: generated prompts, immutable after creation
  - AnswerSet: one participant's answers to a question set
  - Score: compatibility result with per-participant claim flags
  - Comparison: per-question compatibility
  - RewardClaim: ledger entry for a claim and its payout outcome

# Constants

Interaction types:

	InteractionGame         = "game"
	InteractionConversation = "conversation"

Payout status:

	PayoutPending = "pending"
	PayoutSent    = "sent"
	PayoutFailed  = "failed"
	PayoutSkipped = "skipped"

Claims require ClaimThreshold (80) or higher.
*/
package models
