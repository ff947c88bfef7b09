// Go testing basics:
// - Test files must end with _test.go (they're excluded from production builds)
// - Run with: go test ./internal/storage/ -v
// - t.Fatal stops the test immediately; t.Error continues to find more failures
package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/fleveque/stock-chat/internal/model"
)

// setupTestRepo creates a temporary SQLite database for testing.
// t.TempDir() is cleaned up automatically — no manual teardown needed.
func setupTestRepo(t *testing.T) CallRepository {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := NewDatabase(dbPath)
	if err != nil {
		t.Fatalf("creating test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	return NewCallRepository(db)
}

func TestCallRepository_Create(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	duration := int64(850)
	call := &model.APICall{
		Input:      "AAPL",
		Provider:   "openai",
		Operation:  "classify:gpt-4o",
		Success:    true,
		DurationMs: &duration,
	}

	if err := repo.Create(ctx, call); err != nil {
		t.Fatalf("creating call: %v", err)
	}

	if call.ID == 0 {
		t.Error("expected call ID to be set after create")
	}

	count, err := repo.Count(ctx)
	if err != nil {
		t.Fatalf("counting calls: %v", err)
	}
	if count != 1 {
		t.Errorf("expected 1 call, got %d", count)
	}
}

func TestCallRepository_StatsByProvider(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	calls := []struct {
		provider string
		success  bool
	}{
		{"alphavantage", true},
		{"alphavantage", false},
		{"alphavantage", true},
		{"openai", true},
	}

	for _, c := range calls {
		call := &model.APICall{Input: "x", Provider: c.provider, Operation: "op", Success: c.success}
		if err := repo.Create(ctx, call); err != nil {
			t.Fatalf("creating call: %v", err)
		}
	}

	stats, err := repo.StatsByProvider(ctx)
	if err != nil {
		t.Fatalf("querying stats: %v", err)
	}

	if len(stats) != 2 {
		t.Fatalf("expected 2 providers, got %d", len(stats))
	}

	// Ordered by provider name: alphavantage first.
	if stats[0].Provider != "alphavantage" || stats[0].Total != 3 || stats[0].Failed != 1 {
		t.Errorf("unexpected alphavantage stats: %+v", stats[0])
	}
	if stats[1].Provider != "openai" || stats[1].Total != 1 || stats[1].Failed != 0 {
		t.Errorf("unexpected openai stats: %+v", stats[1])
	}
}
