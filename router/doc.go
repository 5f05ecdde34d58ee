// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the valconnect API.

# Route Registration

NewRouter builds the services over a store and returns a configured
http.ServeMux with all endpoints:

	mux := router.NewRouter(store, cfg, router.Collaborators{...})

Collaborators carries the question generator, answer comparator, mood
catalog and payer so tests can substitute fakes.

# Endpoints

Health:

	GET /health
	GET /

Users:

	POST /users/register          - Register or fetch by email
	GET  /users/check-user        - Look up by email
	GET  /users/{id}/stats        - Counters and earnings
	GET  /users/{id}/questions    - Question sets created
	GET  /users/{id}/scores       - Scores participated in

Questions (session required for generate):

	GET  /moods                   - Mood catalog
	POST /questions/generate      - Generate a question set
	GET  /questions/{id}          - Question set by ID
	GET  /share/{slug}            - Question set by share slug

Answers (session required for submit):

	POST /questions/{id}/answers           - Submit answers
	GET  /questions/{id}/answers           - All answer sets
	GET  /questions/{id}/answers/{userId}  - One participant's answers
	GET  /questions/{id}/partner-answered  - Both partners done?

Scores (session required for claim):

	POST /questions/{id}/compare  - Compute or fetch the score
	GET  /questions/{id}/score    - Score for a question set
	GET  /scores/{id}             - Score by ID
	POST /scores/{id}/claim       - Claim the reward
*/
package router
