package storage

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/fleveque/stock-chat/internal/model"
)

// CallStats is the per-provider breakdown served by the admin endpoint.
type CallStats struct {
	Provider string `db:"provider" json:"provider"`
	Total    int64  `db:"total" json:"total"`
	Failed   int64  `db:"failed" json:"failed"`
}

// CallRepository defines the interface for the upstream-call log.
// Go interfaces are implicit — any struct with these methods satisfies it,
// which is what makes the nil-check-free fakes in tests possible.
type CallRepository interface {
	Create(ctx context.Context, call *model.APICall) error
	Count(ctx context.Context) (int64, error)
	StatsByProvider(ctx context.Context) ([]CallStats, error)
}

// sqliteCallRepository is the SQLite implementation of CallRepository.
// The struct is unexported — only the interface is public. This is a common
// Go pattern: export the interface, hide the implementation.
type sqliteCallRepository struct {
	db *sqlx.DB
}

// NewCallRepository creates a new SQLite-backed CallRepository.
func NewCallRepository(db *sqlx.DB) CallRepository {
	return &sqliteCallRepository{db: db}
}

func (r *sqliteCallRepository) Create(ctx context.Context, call *model.APICall) error {
	// NamedExecContext uses the struct's `db:` tags to map fields to :named placeholders.
	result, err := r.db.NamedExecContext(ctx, `
		INSERT INTO api_calls (input, provider, operation, success, duration_ms)
		VALUES (:input, :provider, :operation, :success, :duration_ms)
	`, call)
	if err != nil {
		return fmt.Errorf("creating api call record: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("getting last insert id: %w", err)
	}
	call.ID = id
	return nil
}

func (r *sqliteCallRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM api_calls")
	return count, err
}

func (r *sqliteCallRepository) StatsByProvider(ctx context.Context) ([]CallStats, error) {
	var stats []CallStats
	err := r.db.SelectContext(ctx, &stats, `
		SELECT provider,
		       COUNT(*) AS total,
		       SUM(CASE WHEN success THEN 0 ELSE 1 END) AS failed
		FROM api_calls
		GROUP BY provider
		ORDER BY provider
	`)
	if err != nil {
		return nil, fmt.Errorf("querying call stats: %w", err)
	}
	return stats, nil
}
