package surreal

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/surrealdb/surrealdb.go"
)

// schema holds the DEFINE statements for the tables this backend owns.
// Every statement is idempotent.
var schema = []string{
	"DEFINE TABLE IF NOT EXISTS counter SCHEMALESS",
	"DEFINE TABLE IF NOT EXISTS student SCHEMAFULL",
	"DEFINE FIELD IF NOT EXISTS num ON student TYPE int",
	"DEFINE FIELD IF NOT EXISTS name ON student TYPE string ASSERT string::len($value) <= 100",
	"DEFINE FIELD IF NOT EXISTS course ON student TYPE string ASSERT string::len($value) <= 100",
	"DEFINE FIELD IF NOT EXISTS marks ON student TYPE int ASSERT $value >= 0 AND $value <= 100",
	"DEFINE FIELD IF NOT EXISTS age ON student TYPE int DEFAULT 18",
	"DEFINE INDEX IF NOT EXISTS student_num ON student FIELDS num UNIQUE",
	"DEFINE TABLE IF NOT EXISTS user SCHEMAFULL",
	"DEFINE FIELD IF NOT EXISTS num ON user TYPE int",
	"DEFINE FIELD IF NOT EXISTS username ON user TYPE string",
	"DEFINE FIELD IF NOT EXISTS email ON user TYPE string",
	"DEFINE FIELD IF NOT EXISTS password_hash ON user TYPE string",
	"DEFINE FIELD IF NOT EXISTS is_active ON user TYPE bool DEFAULT true",
	"DEFINE FIELD IF NOT EXISTS last_login ON user TYPE option<int>",
	"DEFINE FIELD IF NOT EXISTS date_joined ON user TYPE int",
	"DEFINE INDEX IF NOT EXISTS user_username ON user FIELDS username UNIQUE",
	"DEFINE INDEX IF NOT EXISTS user_email ON user FIELDS email",
}

// Migrate applies the schema.
func Migrate(ctx context.Context, conn *Connection) error {
	return conn.WithConnection(ctx, func(db *surrealdb.DB) error {
		for _, stmt := range schema {
			if err := Execute(ctx, db, stmt, nil); err != nil {
				return fmt.Errorf("failed to apply %q: %w", stmt, err)
			}
		}
		slog.InfoContext(ctx, "SurrealDB schema is up to date", "statements", len(schema))
		return nil
	})
}

type counterRow struct {
	Value uint `json:"value"`
}

// nextID increments the named counter and returns its new value. SurrealDB
// record ids are opaque, so numeric ids come from a counter record per table.
func nextID(ctx context.Context, db *surrealdb.DB, table string) (uint, error) {
	row, err := QueryOne[counterRow](ctx, db,
		"UPSERT type::thing('counter', $table) SET value += 1 RETURN value",
		map[string]any{"table": table})
	if err != nil {
		return 0, err
	}
	if row == nil {
		return 0, fmt.Errorf("counter %s returned no value", table)
	}
	return row.Value, nil
}
