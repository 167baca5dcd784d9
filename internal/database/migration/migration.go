package migration

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"

	"starterapi/internal/model"
)

// tables lists every entity the schema must carry. AutoMigrate is additive
// only: it creates missing tables, columns, and indexes and never drops.
var tables = []any{
	&model.User{},
}

// EnsureMigrated brings the schema up to date for all registered entities.
// Runs at startup before the HTTP listener; a failure aborts the process.
func EnsureMigrated(ctx context.Context, db *gorm.DB, loc *time.Location, dbHost string) error {
	start := time.Now()

	logJSON(loc, map[string]any{
		"component": "database",
		"event":     "db_migration_start",
		"status":    "in_progress",
		"db_host":   dbHost,
	})

	for _, table := range tables {
		stepStart := time.Now()
		if err := db.WithContext(ctx).AutoMigrate(table); err != nil {
			logJSON(loc, map[string]any{
				"component":     "database",
				"event":         "db_migration_failed",
				"status":        "error",
				"error_message": err.Error(),
				"db_host":       dbHost,
				"duration_ms":   time.Since(start).Milliseconds(),
			})
			return fmt.Errorf("auto-migrate %T: %w", table, err)
		}

		logJSON(loc, map[string]any{
			"component":        "database",
			"event":            "db_migration_step",
			"status":           "success",
			"migration_step":   fmt.Sprintf("%T", table),
			"db_host":          dbHost,
			"step_duration_ms": time.Since(stepStart).Milliseconds(),
		})
	}

	logJSON(loc, map[string]any{
		"component":   "database",
		"event":       "db_migration_success",
		"status":      "success",
		"db_host":     dbHost,
		"duration_ms": time.Since(start).Milliseconds(),
	})

	return nil
}

func logJSON(loc *time.Location, data map[string]any) {
	data["ts"] = time.Now().In(loc).Format(time.RFC3339Nano)
	if _, ok := data["level"]; !ok {
		if data["status"] == "error" {
			data["level"] = "error"
		} else {
			data["level"] = "info"
		}
	}

	b, err := json.Marshal(data)
	if err != nil {
		log.Printf("failed to marshal migration log: %v", err)
		return
	}
	log.SetFlags(0)
	log.Println(string(b))
}
