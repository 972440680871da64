package db

import (
	"fmt"
	"os"
	"testing"

	"go.uber.org/zap"
)

// TestLiveDatabase opens the real bloom database and lists its records.
// Skipped if the database doesn't exist.
func TestLiveDatabase(t *testing.T) {
	dbPath := DefaultDBPath()
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Skip("database not found at", dbPath)
	}

	store, err := Open(dbPath, zap.NewNop())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer store.Close()

	records, err := store.Records()
	if err != nil {
		t.Fatalf("Records: %v", err)
	}
	fmt.Printf("Records: %d\n", len(records))
	for _, r := range records {
		fmt.Printf("  %s (%d bytes, updated %s)\n", r.Key, len(r.Value),
			r.UpdatedAt.Format("2006-01-02 15:04:05"))
	}
}
