// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

An optional .env file in the working directory is loaded first. Variables
already set in the environment are never overwritten by it.

# CLI Flags and Environment Variables

Each flag falls back to an environment variable, then a default:

	-p                PORT                   9800
	-d                DATABASE_URL           (required)
	-t                DATABASE_TYPE          postgres (or sqlite)
	-session-secret   SESSION_SECRET         (required)
	-slug-salt        SHARE_SLUG_SALT        (required)
	-share-base-url   SHARE_BASE_URL         http://localhost:5173
	-llm-base-url     LLM_BASE_URL           https://openrouter.ai/api/v1
	-llm-api-key      OPENAI_API_KEY         (required)
	-llm-model        LLM_MODEL              openai/gpt-3.5-turbo
	-payout-url       PAYOUT_RELAYER_URL     empty logs payouts only
	-payout-token     PAYOUT_RELAYER_TOKEN
	-reward-contract  REWARD_TOKEN_CONTRACT  0x5DA0E2A86e4B0A51462B87f448853c428621ab07
	-reward-amount    REWARD_AMOUNT          100
	-log-level        LOG_LEVEL              info

CLI flags take precedence over environment variables.

# Validation

ParseFlags returns an error if a required value is missing, the port is not a
number, the database type is unknown, the reward amount is not a
non-negative decimal, or the log level is not one of debug, info, warn, error.
*/
package cliparse
