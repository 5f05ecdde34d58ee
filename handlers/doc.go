// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the valconnect API.

# Handler Types

Each handler is a thin struct over one or more services:

  - UserHandler: Registration, lookup, stats and per-user listings
  - QuestionHandler: Mood catalog, question generation and share links
  - AnswerHandler: Answer submission and retrieval
  - ScoreHandler: Compatibility comparison and reward claims

Handlers are created via constructor functions:

	scoreHandler := handlers.NewScoreHandler(scores, claims)

# Errors

Services return *services.ServiceError values. writeServiceError maps each
code to an HTTP status and writes a models.ErrorResponse carrying the code.
Any other error is logged and reported as a 500.

# Sessions

Register and CheckUser exchange an identity token, signed by the external
identity provider for a verified email, for a session token. A bare email
never yields a session.

Generate, Submit and Claim act on behalf of the session user, which
middleware.WithSession places in the request context.

	POST /questions/generate      → Generate (returns share_url)
	POST /questions/{id}/answers  → Submit
	POST /questions/{id}/compare  → Compare (201 when computed, 200 when stored)
	POST /scores/{id}/claim       → Claim
*/
package handlers
