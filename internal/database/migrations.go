package database

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgconn"
)

// Execer runs a statement without returning rows.
type Execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// RunMigrations applies the insight schema. Every step is idempotent.
func RunMigrations(ctx context.Context, db Execer) error {
	migrations := []string{
		createInsightsTable,
		createInsightIndexes,
	}

	for i, migration := range migrations {
		slog.Debug("running migration", "step", i+1, "total", len(migrations))
		if _, err := db.Exec(ctx, migration); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}

	slog.Info("migrations completed", "count", len(migrations))
	return nil
}

const createInsightsTable = `
CREATE TABLE IF NOT EXISTS insights (
  id BIGSERIAL PRIMARY KEY,
  creation_number INTEGER NOT NULL DEFAULT 1,
  subject TEXT NOT NULL DEFAULT '',
  insight_id TEXT NOT NULL,
  status TEXT NOT NULL DEFAULT '',
  start_date TEXT,
  update_date TEXT,
  end_date TEXT,
  type TEXT NOT NULL DEFAULT '',
  main_category TEXT NOT NULL DEFAULT '',
  sub_category TEXT NOT NULL DEFAULT '',
  data_category TEXT NOT NULL DEFAULT '',
  target_banks JSONB NOT NULL DEFAULT '[]'::jsonb,
  logic_formula TEXT NOT NULL DEFAULT '',
  target_tables JSONB NOT NULL DEFAULT '[]'::jsonb,
  target_users TEXT NOT NULL DEFAULT '',
  related_insight TEXT NOT NULL DEFAULT '',
  revenue_category TEXT NOT NULL DEFAULT '',
  icon_type TEXT NOT NULL DEFAULT '',
  score TEXT NOT NULL DEFAULT '',
  relevance_policy TEXT NOT NULL DEFAULT '',
  relevance_score TEXT NOT NULL DEFAULT '',
  display_count INTEGER NOT NULL DEFAULT 1,
  select_count INTEGER NOT NULL DEFAULT 1,
  next_policy TEXT NOT NULL DEFAULT '',
  next_value TEXT NOT NULL DEFAULT '',
  app_link TEXT NOT NULL DEFAULT '',
  external_link TEXT NOT NULL DEFAULT '',
  teaser_image TEXT,
  story_images JSONB NOT NULL DEFAULT '[]'::jsonb,
  maintenance_date TEXT NOT NULL DEFAULT '2099-12-31',
  maintenance_reason TEXT NOT NULL DEFAULT '',
  remarks TEXT NOT NULL DEFAULT '',
  updated_by TEXT NOT NULL DEFAULT '',
  created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
  updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
);
`

const createInsightIndexes = `
CREATE INDEX IF NOT EXISTS idx_insights_insight_id ON insights(insight_id);
CREATE INDEX IF NOT EXISTS idx_insights_status ON insights(status);
CREATE INDEX IF NOT EXISTS idx_insights_target_banks ON insights USING GIN (target_banks);
CREATE INDEX IF NOT EXISTS idx_insights_target_tables ON insights USING GIN (target_tables);
`
