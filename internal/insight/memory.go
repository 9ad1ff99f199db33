package insight

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/JonMunkholm/datacatalog/internal/apperrors"
)

// MemoryStore keeps insights in process memory. It backs dry-run imports
// and tests that do not need PostgreSQL.
type MemoryStore struct {
	mu      sync.Mutex
	nextID  int64
	records []*Insight
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{nextID: 1}
}

func (m *MemoryStore) Create(_ context.Context, in Input) (*Insight, error) {
	in.Normalize()
	if err := in.Validate(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	rec := &Insight{ID: m.nextID, CreatedAt: now, UpdatedAt: now}
	rec.apply(in)
	m.nextID++
	m.records = append(m.records, rec)
	return clone(rec), nil
}

func (m *MemoryStore) Get(_ context.Context, id int64) (*Insight, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if i := m.index(id); i >= 0 {
		return clone(m.records[i]), nil
	}
	return nil, apperrors.NotFound("insight", id)
}

func (m *MemoryStore) List(_ context.Context, f Filter) ([]*Insight, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := []*Insight{}
	for _, r := range m.records {
		if f.matches(r) {
			out = append(out, clone(r))
		}
	}
	return out, nil
}

func (m *MemoryStore) All(ctx context.Context) ([]*Insight, error) {
	return m.List(ctx, Filter{})
}

func (m *MemoryStore) Update(_ context.Context, id int64, in Input) (*Insight, error) {
	in.Normalize()
	if err := in.Validate(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.index(id)
	if i < 0 {
		return nil, apperrors.NotFound("insight", id)
	}
	rec := m.records[i]
	rec.apply(in)
	rec.UpdatedAt = time.Now()
	return clone(rec), nil
}

func (m *MemoryStore) Delete(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.index(id)
	if i < 0 {
		return apperrors.NotFound("insight", id)
	}
	m.records = slices.Delete(m.records, i, i+1)
	return nil
}

// Len returns the number of stored insights.
func (m *MemoryStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.records)
}

func (m *MemoryStore) index(id int64) int {
	return slices.IndexFunc(m.records, func(r *Insight) bool { return r.ID == id })
}

func clone(r *Insight) *Insight {
	c := *r
	c.TargetBanks = slices.Clone(r.TargetBanks)
	c.TargetTables = slices.Clone(r.TargetTables)
	c.StoryImages = slices.Clone(r.StoryImages)
	return &c
}

// matches applies the same rules as the SQL built by where.
func (f Filter) matches(r *Insight) bool {
	if f.CreationNumber != 0 && r.CreationNumber != f.CreationNumber {
		return false
	}
	exact := [][2]string{
		{f.Status, r.Status}, {f.Type, r.Type},
		{f.MainCategory, r.MainCategory}, {f.DataCategory, r.DataCategory},
	}
	for _, p := range exact {
		if p[0] != "" && p[0] != p[1] {
			return false
		}
	}
	like := [][2]string{
		{f.Subject, r.Subject}, {f.InsightID, r.InsightID},
		{f.SubCategory, r.SubCategory}, {f.LogicFormula, r.LogicFormula},
		{f.RelatedInsight, r.RelatedInsight},
	}
	for _, p := range like {
		if p[0] != "" && !strings.Contains(p[1], p[0]) {
			return false
		}
	}
	return anyOf(f.TargetBanks, r.TargetBanks) && anyOf(f.TargetTables, r.TargetTables)
}

func anyOf(want, have []string) bool {
	if len(want) == 0 {
		return true
	}
	for _, w := range want {
		if slices.Contains(have, w) {
			return true
		}
	}
	return false
}

// apply copies every writable attribute of in onto r, keeping identity
// and timestamps.
func (r *Insight) apply(in Input) {
	*r = Insight{
		ID:                r.ID,
		CreatedAt:         r.CreatedAt,
		UpdatedAt:         r.UpdatedAt,
		CreationNumber:    in.CreationNumber,
		Subject:           in.Subject,
		InsightID:         in.InsightID,
		Status:            in.Status,
		StartDate:         in.StartDate,
		UpdateDate:        in.UpdateDate,
		EndDate:           in.EndDate,
		Type:              in.Type,
		MainCategory:      in.MainCategory,
		SubCategory:       in.SubCategory,
		DataCategory:      in.DataCategory,
		TargetBanks:       in.TargetBanks,
		LogicFormula:      in.LogicFormula,
		TargetTables:      in.TargetTables,
		TargetUsers:       in.TargetUsers,
		RelatedInsight:    in.RelatedInsight,
		RevenueCategory:   in.RevenueCategory,
		IconType:          in.IconType,
		Score:             in.Score,
		RelevancePolicy:   in.RelevancePolicy,
		RelevanceScore:    in.RelevanceScore,
		DisplayCount:      in.DisplayCount,
		SelectCount:       in.SelectCount,
		NextPolicy:        in.NextPolicy,
		NextValue:         in.NextValue,
		AppLink:           in.AppLink,
		ExternalLink:      in.ExternalLink,
		TeaserImage:       in.TeaserImage,
		StoryImages:       in.StoryImages,
		MaintenanceDate:   in.MaintenanceDate,
		MaintenanceReason: in.MaintenanceReason,
		Remarks:           in.Remarks,
		UpdatedBy:         in.UpdatedBy,
	}
}
