// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the valconnect API server.

valconnect lets a couple answer the same generated question set, scores how
well their answers line up, and pays each partner a token reward when the
compatibility score reaches the claim threshold.

# Starting the Server

The server requires environment variables or CLI flags for configuration:

	DATABASE_URL=postgres://... SESSION_SECRET=... go run .

Or with SQLite for local development:

	go run . -t sqlite -d ./valconnect.db

A .env file in the working directory is loaded first; real environment
variables take precedence.

# Configuration

Required settings:

  - DATABASE_URL (-d): PostgreSQL URL or SQLite file path
  - SESSION_SECRET (--session-secret): HMAC key for session tokens
  - IDENTITY_TOKEN_SECRET (--identity-secret): Key the identity provider
    signs verified-email tokens with
  - SHARE_SLUG_SALT (--slug-salt): Secret for share slug generation
  - OPENAI_API_KEY (--llm-api-key): Key for the chat completions API

Optional settings:

  - PORT (-p): Server port (default: 9800)
  - DATABASE_TYPE (-t): postgres or sqlite (default: postgres)
  - IDENTITY_TOKEN_ISSUER: Required iss claim on identity tokens
  - SHARE_BASE_URL: Frontend origin used in share links
  - LLM_BASE_URL, LLM_MODEL: OpenAI-compatible endpoint and model
  - PAYOUT_RELAYER_URL, PAYOUT_RELAYER_TOKEN: Token transfer relayer
  - REWARD_TOKEN_CONTRACT, REWARD_AMOUNT: Reward token and amount per claim
  - LOG_LEVEL: debug, info, warn or error

# Architecture

The server uses a handler-based architecture with dependency injection:

  - handlers: HTTP request handlers (users, questions, answers, scores)
  - services: Business rules and error codes
  - router: Route definitions using Go 1.22+ routing
  - middleware: CORS, logging, sessions, JSON helpers
  - models: Domain and request/response types
  - db: Schema and store for PostgreSQL and SQLite
  - llm: Question generation and answer comparison
  - payout: Reward transfers through a relayer
  - auth: IDs, share slugs, session tokens and address checks
  - cliparse: Configuration parsing

See package documentation for each component.
*/
package main
