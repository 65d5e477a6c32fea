package service

import "github.com/stackz/backend/internal/database"

// today returns the current UTC date in the storage format (YYYY-MM-DD).
func today() string {
	return database.Now().Format("2006-01-02")
}

// currentMonth returns the current UTC month in the snapshot format (YYYY-MM).
func currentMonth() string {
	return database.Now().Format("2006-01")
}
