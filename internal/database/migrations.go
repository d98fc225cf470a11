package database

import (
	"log"
	"strings"

	"gorm.io/gorm"
)

// RunMigrations runs any custom data migrations after schema changes
func RunMigrations(db *gorm.DB) error {
	if err := migratePhotoPaths(db); err != nil {
		return err
	}
	if err := migrateAttendanceStatus(db); err != nil {
		return err
	}
	return nil
}

// migratePhotoPaths normalizes legacy photo path values. Earlier imports
// stored absolute filesystem paths or url-style paths with a leading
// "/uploads/" segment; the application expects paths relative to the
// upload dir (students/<year>/<admission>.jpg).
// Safe to run multiple times: only rows with a recognized legacy prefix change.
func migratePhotoPaths(db *gorm.DB) error {
	if !db.Migrator().HasTable("students") {
		return nil
	}
	if !db.Migrator().HasColumn("students", "photo_path") {
		return nil
	}

	result := db.Exec(`UPDATE students SET photo_path = SUBSTR(photo_path, 10) WHERE photo_path LIKE '/uploads/%'`)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected > 0 {
		log.Printf("Normalized %d legacy /uploads/ photo paths", result.RowsAffected)
	}

	// Absolute paths can't be rewritten mechanically; clear them so the
	// placeholder takes over at display time.
	result = db.Exec(`UPDATE students SET photo_path = '' WHERE photo_path LIKE '/%'`)
	if result.Error != nil {
		log.Printf("Warning: failed to clear absolute photo paths: %v", result.Error)
	} else if result.RowsAffected > 0 {
		log.Printf("Cleared %d absolute photo paths", result.RowsAffected)
	}

	return nil
}

// migrateAttendanceStatus backfills NULL/empty attendance statuses and
// lowercases legacy mixed-case values ('Present' -> 'present').
func migrateAttendanceStatus(db *gorm.DB) error {
	if !db.Migrator().HasTable("attendance_records") {
		return nil
	}

	result := db.Exec(`UPDATE attendance_records SET status = 'present' WHERE status IS NULL OR status = ''`)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected > 0 {
		log.Printf("Backfilled %d attendance statuses", result.RowsAffected)
	}

	for _, s := range []string{"present", "absent", "late", "excused"} {
		legacy := strings.ToUpper(s[:1]) + s[1:]
		db.Exec(`UPDATE attendance_records SET status = ? WHERE status = ?`, s, legacy)
	}

	return nil
}
