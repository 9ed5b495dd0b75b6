package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/idcr-client/internal/domain/entity"
	"github.com/jhoicas/idcr-client/internal/domain/repository"
)

var _ repository.StatsRepository = (*StatsRepo)(nil)

// StatsRepo consultas de solo lectura para dashboard y analítica.
type StatsRepo struct {
	q Querier
}

// NewStatsRepository construye el adaptador de agregados.
func NewStatsRepository(q Querier) *StatsRepo {
	return &StatsRepo{q: q}
}

// Aggregate calcula los mismos conteos que entity.ComputeStats pero en SQL.
// processed = processing_status classified o reviewed, error = failed, pending = status pending.
func (r *StatsRepo) Aggregate(ctx context.Context, f entity.StatsFilter, now time.Time) (entity.Stats, error) {
	where, args := statsWhere(f)
	s := entity.Stats{
		DepartmentStats: map[string]int{},
		DocumentTypes:   map[string]int{},
		Priorities:      map[string]int{},
		UploadTrends:    []entity.UploadTrend{},
	}

	totals := `
	SELECT
	    COUNT(*)                                                                  AS total,
	    COUNT(*) FILTER (WHERE processing_status IN ('classified', 'reviewed'))   AS processed,
	    COUNT(*) FILTER (WHERE status = 'pending')                                AS pending,
	    COUNT(*) FILTER (WHERE processing_status = 'failed')                      AS failed
	FROM documents` + where
	if err := r.q.QueryRow(ctx, totals, args...).Scan(
		&s.TotalDocuments,
		&s.ProcessedDocuments,
		&s.PendingDocuments,
		&s.ErrorDocuments,
	); err != nil {
		return s, fmt.Errorf("stats.totals: %w", err)
	}
	s.ProcessingRate = entity.ProcessingRate(s.ProcessedDocuments, s.TotalDocuments)

	groups := []struct {
		col  string
		into map[string]int
	}{
		{"department", s.DepartmentStats},
		{"document_type", s.DocumentTypes},
		{"priority", s.Priorities},
	}
	for _, g := range groups {
		if err := r.groupCount(ctx, g.col, where, args, g.into); err != nil {
			return s, err
		}
	}

	trends, err := r.trend(ctx, where, args, entity.TrendSince(now))
	if err != nil {
		return s, err
	}
	s.UploadTrends = trends
	return s, nil
}

func (r *StatsRepo) groupCount(ctx context.Context, col, where string, args []any, into map[string]int) error {
	query := `SELECT ` + col + `, COUNT(*) FROM documents` + where + ` GROUP BY ` + col
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("stats.group %s: %w", col, err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			key string
			n   int
		)
		if err := rows.Scan(&key, &n); err != nil {
			return fmt.Errorf("stats.group %s scan: %w", col, err)
		}
		into[key] = n
	}
	return rows.Err()
}

// trend subidas por día (UTC) desde since, en orden de fecha.
func (r *StatsRepo) trend(ctx context.Context, where string, args []any, since time.Time) ([]entity.UploadTrend, error) {
	args = append(args[:len(args):len(args)], since)
	cond := " WHERE "
	if where != "" {
		cond = where + " AND "
	}
	query := `
	SELECT to_char(uploaded_at AT TIME ZONE 'UTC', 'YYYY-MM-DD') AS day, COUNT(*)
	FROM documents` + cond + fmt.Sprintf("uploaded_at >= $%d", len(args)) + `
	GROUP BY day
	ORDER BY day`

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("stats.trend: %w", err)
	}
	defer rows.Close()

	out := []entity.UploadTrend{}
	for rows.Next() {
		var t entity.UploadTrend
		if err := rows.Scan(&t.Date, &t.Count); err != nil {
			return nil, fmt.Errorf("stats.trend scan: %w", err)
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("stats.trend rows: %w", err)
	}
	return out, nil
}

// statsWhere filtro común; To es exclusivo.
func statsWhere(f entity.StatsFilter) (string, []any) {
	var (
		conds []string
		args  []any
	)
	if f.Department != "" {
		args = append(args, f.Department)
		conds = append(conds, fmt.Sprintf("lower(department) = lower($%d)", len(args)))
	}
	if f.From != nil {
		args = append(args, *f.From)
		conds = append(conds, fmt.Sprintf("uploaded_at >= $%d", len(args)))
	}
	if f.To != nil {
		args = append(args, *f.To)
		conds = append(conds, fmt.Sprintf("uploaded_at < $%d", len(args)))
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}
