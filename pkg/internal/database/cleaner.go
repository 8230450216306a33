package database

import (
	"time"

	"github.com/rs/zerolog/log"
)

// DoAutoDatabaseCleanup hard-deletes rows that have been soft-deleted for
// longer than an hour. Deleted messages carry no tombstone in the live
// store; this sweep keeps the tables from accumulating them either.
func DoAutoDatabaseCleanup() {
	deadline := time.Now().Add(-60 * time.Minute)
	log.Debug().Time("deadline", deadline).Msg("Now cleaning up entire database...")

	var count int64
	for _, model := range AutoMaintainRange {
		tx := C.Unscoped().Delete(model, "deleted_at IS NOT NULL AND deleted_at <= ?", deadline)
		if tx.Error != nil {
			log.Error().Err(tx.Error).Msg("An error occurred when running database cleanup...")
		}
		count += tx.RowsAffected
	}

	log.Debug().Int64("affected", count).Msg("Clean up entire database accomplished.")
}
