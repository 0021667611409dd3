// Package postgres implements the PostgreSQL persistence layer for Momentum Hub.
package postgres

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATION 001: CREATE USERS
// ══════════════════════════════════════════════════════════════════════════════

const migration001Up = `
-- Migration: Create users table
-- Version: 001

-- Accounts. Username is the natural key: challenges, scores, and activity
-- reference it without foreign keys, so deleting a user leaves orphans
-- (tolerated, the leaderboard falls back to the bare username).
CREATE TABLE IF NOT EXISTS users (
    username VARCHAR(50) PRIMARY KEY,
    password_hash BYTEA NOT NULL,
    display_name VARCHAR(100) NOT NULL,
    role VARCHAR(20) NOT NULL DEFAULT 'student',
    target_score DECIMAL(2,1) NOT NULL DEFAULT 7.5,
    learning_time VARCHAR(30) NOT NULL DEFAULT 'Evening',
    difficulty VARCHAR(20) NOT NULL DEFAULT 'Medium',
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),

    CONSTRAINT valid_role CHECK (role IN ('student', 'admin')),
    CONSTRAINT valid_target CHECK (target_score >= 5.0 AND target_score <= 9.0)
);

CREATE INDEX IF NOT EXISTS idx_users_role ON users(role);
`

const migration001Down = `
DROP TABLE IF EXISTS users;
`

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATION 002: CREATE CHALLENGES AND SCORES
// ══════════════════════════════════════════════════════════════════════════════

const migration002Up = `
-- Migration: Create challenges and score entries
-- Version: 002

-- Daily challenges. The (username, day, seq) unique key is what makes
-- lazy seeding race-safe: concurrent first accesses insert with
-- ON CONFLICT DO NOTHING and at most one row per key survives.
CREATE TABLE IF NOT EXISTS challenges (
    username VARCHAR(50) NOT NULL,
    day DATE NOT NULL,
    seq SMALLINT NOT NULL,
    skill VARCHAR(20) NOT NULL,
    difficulty VARCHAR(20) NOT NULL,
    duration VARCHAR(30) NOT NULL,
    xp INTEGER NOT NULL,
    completed BOOLEAN NOT NULL DEFAULT FALSE,
    completed_at TIMESTAMP WITH TIME ZONE,
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),

    PRIMARY KEY (username, day, seq),

    CONSTRAINT valid_skill CHECK (skill IN ('Listening', 'Reading', 'Writing', 'Speaking')),
    CONSTRAINT valid_difficulty CHECK (difficulty IN ('Easy', 'Medium', 'Hard')),
    CONSTRAINT valid_xp CHECK (xp > 0),
    CONSTRAINT completed_has_timestamp CHECK (
        (completed = FALSE AND completed_at IS NULL) OR
        (completed = TRUE AND completed_at IS NOT NULL)
    )
);

-- Leaderboard aggregation scans completed rows only.
CREATE INDEX IF NOT EXISTS idx_challenges_completed ON challenges(username) WHERE completed = TRUE;

-- Immutable mock-test score entries. The overall band is frozen at insert
-- and never recomputed from the sub-scores.
CREATE TABLE IF NOT EXISTS score_entries (
    id UUID PRIMARY KEY,
    username VARCHAR(50) NOT NULL,
    test_day DATE NOT NULL,
    listening DECIMAL(2,1) NOT NULL,
    reading DECIMAL(2,1) NOT NULL,
    writing DECIMAL(2,1) NOT NULL,
    speaking DECIMAL(2,1) NOT NULL,
    overall DECIMAL(2,1) NOT NULL,
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),

    CONSTRAINT valid_bands CHECK (
        listening >= 0 AND listening <= 9 AND
        reading >= 0 AND reading <= 9 AND
        writing >= 0 AND writing <= 9 AND
        speaking >= 0 AND speaking <= 9 AND
        overall >= 0 AND overall <= 9
    )
);

CREATE INDEX IF NOT EXISTS idx_score_entries_user_day ON score_entries(username, test_day);
`

const migration002Down = `
DROP TABLE IF EXISTS score_entries;
DROP TABLE IF EXISTS challenges;
`

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATION 003: CREATE ACTIVITY LOG
// ══════════════════════════════════════════════════════════════════════════════

const migration003Up = `
-- Migration: Create activity log
-- Version: 003

-- Append-only activity log. Rows are never updated or deleted; the streak
-- metric is COUNT(DISTINCT day) per user and the admin dashboard reads
-- per-day and recency aggregates.
CREATE TABLE IF NOT EXISTS activity_log (
    id UUID PRIMARY KEY,
    username VARCHAR(50) NOT NULL,
    day DATE NOT NULL,
    kind VARCHAR(30) NOT NULL,
    challenge_seq SMALLINT,
    occurred_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),

    CONSTRAINT valid_kind CHECK (kind IN ('challenge_completed', 'login'))
);

CREATE INDEX IF NOT EXISTS idx_activity_log_user_day ON activity_log(username, day);
CREATE INDEX IF NOT EXISTS idx_activity_log_day ON activity_log(day);
CREATE INDEX IF NOT EXISTS idx_activity_log_occurred ON activity_log(occurred_at DESC);
`

const migration003Down = `
DROP TABLE IF EXISTS activity_log;
`
