// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db handles connections, schema creation, and persistence.

# Connections

Open supports PostgreSQL (lib/pq) and SQLite (modernc.org/sqlite):

	conn, err := db.Open(db.TypeSQLite, db.SQLiteDSN("valconnect.db"))
	if err != nil {
		log.Fatal(err)
	}

SQLite connections are limited to one open connection, so Store never issues
a query while another result set is still open.

# Schema Creation

CreateSchema initializes all required tables. Safe to call multiple times -
uses IF NOT EXISTS for all tables and indexes. The same DDL runs on both
backends.

# Tables

  - app_user: Identity and aggregate counters
  - question_set: Generated prompts, immutable after creation
  - answer_set: One answer set per participant per question set
  - score: At most one score per question set
  - reward_claim: Ledger of claims and payout outcomes

# Relationships

	app_user 1──* question_set
	question_set 1──* answer_set
	question_set 1──1 score
	score 1──* reward_claim

# Store

Store wraps the connection pool with typed repository methods. Lookups return
ErrNotFound when no row matches, inserts that hit a unique constraint return
ErrDuplicate, and ClaimReward returns ErrAlreadyClaimed when the participant's
claim flag is already set.

Counters are incremented in SQL inside a transaction, never read-modify-write
in Go.
*/
package db
