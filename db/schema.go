// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"
)

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
// The DDL is shared by PostgreSQL and SQLite.
func CreateSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

const schema = `
-- Users
CREATE TABLE IF NOT EXISTS app_user (
    id TEXT PRIMARY KEY,
    email TEXT NOT NULL UNIQUE,
    display_name TEXT NOT NULL,
    total_points INTEGER NOT NULL DEFAULT 0,
    question_sets_created INTEGER NOT NULL DEFAULT 0,
    money_earned NUMERIC(20, 8) NOT NULL DEFAULT 0,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

-- Question sets
CREATE TABLE IF NOT EXISTS question_set (
    id TEXT PRIMARY KEY,
    user_id TEXT NOT NULL REFERENCES app_user(id) ON DELETE CASCADE,
    mood TEXT NOT NULL,
    interaction_type TEXT NOT NULL CHECK (interaction_type IN ('game', 'conversation')),
    mood_description TEXT NOT NULL,
    context TEXT NOT NULL DEFAULT '',
    prompts TEXT NOT NULL,
    options TEXT,
    share_slug TEXT NOT NULL UNIQUE,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_question_set_user ON question_set(user_id, created_at);

-- Answer sets (one per participant per question set)
CREATE TABLE IF NOT EXISTS answer_set (
    id TEXT PRIMARY KEY,
    question_set_id TEXT NOT NULL REFERENCES question_set(id) ON DELETE CASCADE,
    user_id TEXT NOT NULL REFERENCES app_user(id) ON DELETE CASCADE,
    display_name TEXT NOT NULL,
    answers TEXT NOT NULL,
    ip_hash TEXT,
    user_agent TEXT,
    submitted_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    UNIQUE (question_set_id, user_id)
);

CREATE INDEX IF NOT EXISTS idx_answer_set_question_set ON answer_set(question_set_id, submitted_at);

-- Scores (at most one per question set)
CREATE TABLE IF NOT EXISTS score (
    id TEXT PRIMARY KEY,
    question_set_id TEXT NOT NULL UNIQUE REFERENCES question_set(id) ON DELETE CASCADE,
    user1_id TEXT NOT NULL REFERENCES app_user(id),
    user2_id TEXT NOT NULL REFERENCES app_user(id),
    mood TEXT NOT NULL,
    comparisons TEXT NOT NULL,
    overall_score INTEGER NOT NULL CHECK (overall_score >= 0 AND overall_score <= 100),
    overall_feedback TEXT NOT NULL,
    total_points INTEGER NOT NULL DEFAULT 0,
    user1_claimed BOOLEAN NOT NULL DEFAULT FALSE,
    user2_claimed BOOLEAN NOT NULL DEFAULT FALSE,
    computed_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_score_user1 ON score(user1_id);
CREATE INDEX IF NOT EXISTS idx_score_user2 ON score(user2_id);

-- Reward claims (ledger of credits and payout outcomes)
CREATE TABLE IF NOT EXISTS reward_claim (
    id TEXT PRIMARY KEY,
    score_id TEXT NOT NULL REFERENCES score(id) ON DELETE CASCADE,
    user_id TEXT NOT NULL REFERENCES app_user(id),
    payout_address TEXT NOT NULL,
    points INTEGER NOT NULL,
    amount NUMERIC(20, 8) NOT NULL,
    payout_status TEXT NOT NULL DEFAULT 'pending' CHECK (payout_status IN ('pending', 'sent', 'failed', 'skipped')),
    payout_ref TEXT,
    payout_error TEXT,
    claimed_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    UNIQUE (score_id, user_id)
);

CREATE INDEX IF NOT EXISTS idx_reward_claim_status ON reward_claim(payout_status);
`
