package insight

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/JonMunkholm/datacatalog/internal/apperrors"
)

// DBTX is satisfied by *pgxpool.Pool, *pgx.Conn and pgx.Tx.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Store persists insights in PostgreSQL.
type Store struct {
	db DBTX
}

// NewStore returns a Store using db.
func NewStore(db DBTX) *Store {
	return &Store{db: db}
}

const selectColumns = `id, creation_number, subject, insight_id, status,
	start_date, update_date, end_date, type, main_category, sub_category,
	data_category, target_banks, logic_formula, target_tables, target_users,
	related_insight, revenue_category, icon_type, score, relevance_policy,
	relevance_score, display_count, select_count, next_policy, next_value,
	app_link, external_link, teaser_image, story_images, maintenance_date,
	maintenance_reason, remarks, updated_by, created_at, updated_at`

// Create validates and inserts one insight.
func (s *Store) Create(ctx context.Context, in Input) (*Insight, error) {
	in.Normalize()
	if err := in.Validate(); err != nil {
		return nil, err
	}

	row := s.db.QueryRow(ctx, `INSERT INTO insights (
		creation_number, subject, insight_id, status, start_date, update_date,
		end_date, type, main_category, sub_category, data_category, target_banks,
		logic_formula, target_tables, target_users, related_insight,
		revenue_category, icon_type, score, relevance_policy, relevance_score,
		display_count, select_count, next_policy, next_value, app_link,
		external_link, teaser_image, story_images, maintenance_date,
		maintenance_reason, remarks, updated_by
	) VALUES (
		$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16,
		$17, $18, $19, $20, $21, $22, $23, $24, $25, $26, $27, $28, $29, $30,
		$31, $32, $33
	) RETURNING `+selectColumns, inputArgs(in)...)

	rec, err := scanInsight(row)
	if err != nil {
		return nil, fmt.Errorf("create insight: %w", err)
	}
	return rec, nil
}

// Get returns the insight with id.
func (s *Store) Get(ctx context.Context, id int64) (*Insight, error) {
	row := s.db.QueryRow(ctx, `SELECT `+selectColumns+` FROM insights WHERE id = $1`, id)
	rec, err := scanInsight(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NotFound("insight", id)
	}
	if err != nil {
		return nil, fmt.Errorf("get insight %d: %w", id, err)
	}
	return rec, nil
}

// List returns insights matching f ordered by id.
func (s *Store) List(ctx context.Context, f Filter) ([]*Insight, error) {
	where, args := f.where().Build()
	return s.query(ctx, `SELECT `+selectColumns+` FROM insights`+where+` ORDER BY id`, args...)
}

// All returns every insight in export order.
func (s *Store) All(ctx context.Context) ([]*Insight, error) {
	return s.query(ctx, `SELECT `+selectColumns+` FROM insights ORDER BY id`)
}

// Update replaces the updatable attributes of insight id and touches
// updated_at.
func (s *Store) Update(ctx context.Context, id int64, in Input) (*Insight, error) {
	in.Normalize()
	if err := in.Validate(); err != nil {
		return nil, err
	}

	args := append(inputArgs(in), id)
	row := s.db.QueryRow(ctx, `UPDATE insights SET
		creation_number = $1, subject = $2, insight_id = $3, status = $4,
		start_date = $5, update_date = $6, end_date = $7, type = $8,
		main_category = $9, sub_category = $10, data_category = $11,
		target_banks = $12, logic_formula = $13, target_tables = $14,
		target_users = $15, related_insight = $16, revenue_category = $17,
		icon_type = $18, score = $19, relevance_policy = $20,
		relevance_score = $21, display_count = $22, select_count = $23,
		next_policy = $24, next_value = $25, app_link = $26,
		external_link = $27, teaser_image = $28, story_images = $29,
		maintenance_date = $30, maintenance_reason = $31, remarks = $32,
		updated_by = $33, updated_at = now()
	WHERE id = $34
	RETURNING `+selectColumns, args...)

	rec, err := scanInsight(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NotFound("insight", id)
	}
	if err != nil {
		return nil, fmt.Errorf("update insight %d: %w", id, err)
	}
	return rec, nil
}

// Delete removes insight id.
func (s *Store) Delete(ctx context.Context, id int64) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM insights WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete insight %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("insight", id)
	}
	return nil
}

func (s *Store) query(ctx context.Context, sql string, args ...any) ([]*Insight, error) {
	rows, err := s.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("query insights: %w", err)
	}
	defer rows.Close()

	out := []*Insight{}
	for rows.Next() {
		rec, err := scanInsight(rows)
		if err != nil {
			return nil, fmt.Errorf("scan insight: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate insights: %w", err)
	}
	return out, nil
}

func inputArgs(in Input) []any {
	return []any{
		in.CreationNumber, in.Subject, in.InsightID, in.Status,
		in.StartDate, in.UpdateDate, in.EndDate, in.Type,
		in.MainCategory, in.SubCategory, in.DataCategory, in.TargetBanks,
		in.LogicFormula, in.TargetTables, in.TargetUsers, in.RelatedInsight,
		in.RevenueCategory, in.IconType, in.Score, in.RelevancePolicy,
		in.RelevanceScore, in.DisplayCount, in.SelectCount, in.NextPolicy,
		in.NextValue, in.AppLink, in.ExternalLink, in.TeaserImage,
		in.StoryImages, in.MaintenanceDate, in.MaintenanceReason, in.Remarks,
		in.UpdatedBy,
	}
}

func scanInsight(row pgx.Row) (*Insight, error) {
	var r Insight
	err := row.Scan(
		&r.ID, &r.CreationNumber, &r.Subject, &r.InsightID, &r.Status,
		&r.StartDate, &r.UpdateDate, &r.EndDate, &r.Type, &r.MainCategory,
		&r.SubCategory, &r.DataCategory, &r.TargetBanks, &r.LogicFormula,
		&r.TargetTables, &r.TargetUsers, &r.RelatedInsight, &r.RevenueCategory,
		&r.IconType, &r.Score, &r.RelevancePolicy, &r.RelevanceScore,
		&r.DisplayCount, &r.SelectCount, &r.NextPolicy, &r.NextValue,
		&r.AppLink, &r.ExternalLink, &r.TeaserImage, &r.StoryImages,
		&r.MaintenanceDate, &r.MaintenanceReason, &r.Remarks, &r.UpdatedBy,
		&r.CreatedAt, &r.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if r.TargetBanks == nil {
		r.TargetBanks = []string{}
	}
	if r.TargetTables == nil {
		r.TargetTables = []string{}
	}
	if r.StoryImages == nil {
		r.StoryImages = []string{}
	}
	return &r, nil
}
