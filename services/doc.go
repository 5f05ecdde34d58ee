// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package services holds the business rules behind the HTTP handlers.

Each service depends on a narrow store interface that db.Store satisfies, so
tests run against an in-memory stub. Services return *ServiceError with a
stable ErrorCode for anything the caller can act on; the handlers map codes to
HTTP statuses. Any other error is an internal failure.

  - IdentityService: resolve and register users by email
  - QuestionSetService: generate prompts and persist question sets
  - AnswerService: one answer set per participant
  - ScoreService: compute a question set's score at most once
  - ClaimService: per-participant reward claims and payouts
*/
package services
