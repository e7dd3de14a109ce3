package migration

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"bookingapi/internal/logging"
)

type migrationStep struct {
	Name string
	SQL  string
}

// sentinelTable is checked before running steps; its presence means the schema exists.
const sentinelTable = "public.users"

var steps = []migrationStep{
	{
		Name: "create_extension_uuid_ossp",
		SQL:  `CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`,
	},
	{
		Name: "create_table_users",
		SQL: `CREATE TABLE IF NOT EXISTS users (
  id            UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  email         TEXT        NOT NULL,
  name          TEXT        NOT NULL DEFAULT '',
  password_hash TEXT        NOT NULL DEFAULT '',
  google_id     TEXT        UNIQUE,
  timezone      TEXT        NOT NULL DEFAULT 'UTC',
  created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
  updated_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		// Lookups match lower(email), so uniqueness has to ignore case too.
		Name: "create_index_users_email_lower",
		SQL:  `CREATE UNIQUE INDEX IF NOT EXISTS users_email_lower_key ON users (lower(email));`,
	},
	{
		Name: "create_table_user_schedules",
		SQL: `CREATE TABLE IF NOT EXISTS user_schedules (
  id         UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  user_id    UUID        NOT NULL REFERENCES users (id) ON DELETE CASCADE,
  name       TEXT        NOT NULL,
  ical       TEXT        NOT NULL,
  timezone   TEXT        NOT NULL DEFAULT 'UTC',
  created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
  updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_table_session_types",
		SQL: `CREATE TABLE IF NOT EXISTS session_types (
  id               UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  user_id          UUID        NOT NULL REFERENCES users (id) ON DELETE CASCADE,
  schedule_id      UUID        REFERENCES user_schedules (id) ON DELETE SET NULL,
  name             TEXT        NOT NULL,
  description      TEXT        NOT NULL DEFAULT '',
  duration_minutes INTEGER     NOT NULL CHECK (duration_minutes > 0),
  price_cents      BIGINT      NOT NULL DEFAULT 0 CHECK (price_cents >= 0),
  currency         TEXT        NOT NULL DEFAULT 'usd',
  active           BOOLEAN     NOT NULL DEFAULT TRUE,
  created_at       TIMESTAMPTZ NOT NULL DEFAULT now(),
  updated_at       TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_table_chats",
		SQL: `CREATE TABLE IF NOT EXISTS chats (
  id         UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  user_id    UUID        NOT NULL REFERENCES users (id) ON DELETE CASCADE,
  title      TEXT        NOT NULL DEFAULT '',
  created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
  updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_table_chat_messages",
		SQL: `CREATE TABLE IF NOT EXISTS chat_messages (
  id         UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  chat_id    UUID        NOT NULL REFERENCES chats (id) ON DELETE CASCADE,
  role       TEXT        NOT NULL,
  content    TEXT        NOT NULL,
  created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_index_user_schedules_user_id",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_user_schedules_user_id ON user_schedules (user_id);`,
	},
	{
		Name: "create_index_session_types_user_id",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_session_types_user_id ON session_types (user_id);`,
	},
	{
		Name: "create_index_chats_user_id_updated_at",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_chats_user_id_updated_at ON chats (user_id, updated_at DESC);`,
	},
	{
		Name: "create_index_chat_messages_chat_id_created_at",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_chat_messages_chat_id_created_at ON chat_messages (chat_id, created_at);`,
	},
}

// EnsureMigrated checks if the users table exists and runs the schema steps if it doesn't.
func EnsureMigrated(ctx context.Context, db *sql.DB, log logrus.FieldLogger, dbHost string) error {
	start := time.Now()
	entry := logging.Component(log, "database").WithField("db_host", dbHost)

	entry.WithField("status", "starting").Info("db_migration_check")

	var exists bool
	query := fmt.Sprintf("SELECT to_regclass('%s') IS NOT NULL", sentinelTable)
	if err := db.QueryRowContext(ctx, query).Scan(&exists); err != nil {
		entry.WithFields(logrus.Fields{
			"status":      "error",
			"duration_ms": time.Since(start).Milliseconds(),
		}).WithError(err).Error("db_migration_failed")
		return fmt.Errorf("failed to check sentinel table: %w", err)
	}

	if exists {
		entry.WithFields(logrus.Fields{
			"status":      "success",
			"duration_ms": time.Since(start).Milliseconds(),
		}).Info("db_migration_skip")
		return nil
	}

	entry.WithField("status", "in_progress").Info("db_migration_start")

	for _, step := range steps {
		stepStart := time.Now()
		if _, err := db.ExecContext(ctx, step.SQL); err != nil {
			entry.WithFields(logrus.Fields{
				"status":           "error",
				"migration_step":   step.Name,
				"duration_ms":      time.Since(start).Milliseconds(),
				"step_duration_ms": time.Since(stepStart).Milliseconds(),
			}).WithError(err).Error("db_migration_failed")
			return fmt.Errorf("migration step %s failed: %w", step.Name, err)
		}

		entry.WithFields(logrus.Fields{
			"status":           "success",
			"migration_step":   step.Name,
			"step_duration_ms": time.Since(stepStart).Milliseconds(),
		}).Debug("db_migration_step")
	}

	entry.WithFields(logrus.Fields{
		"status":      "success",
		"steps":       len(steps),
		"duration_ms": time.Since(start).Milliseconds(),
	}).Info("db_migration_success")

	return nil
}
