// Package recalls is the read side of a completed store: filtered and
// paginated recall listings, lookups by slug and the small taxonomy tables.
package recalls

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"plainrecalls/internal/store"
	"plainrecalls/pkg/models"
)

const (
	DefaultLimit = 50
	MaxLimit     = 200
)

type Repo struct {
	DB *sql.DB
}

type ListQuery struct {
	Q              string // substring match on title, description, firm, recall number
	Agency         string
	CategoryID     string
	ManufacturerID string
	Year           int    // 0 means any
	From           string // inclusive YYYY-MM-DD
	To             string // inclusive YYYY-MM-DD
	Limit          int
	Offset         int
}

func NewRepo(db *sql.DB) *Repo {
	return &Repo{DB: db}
}

const recallColumns = `
	recall_id, agency, recall_number, slug, title, product_description,
	reason, hazard, remedy, classification, severity, date_reported,
	date_initiated, status, affected_count, manufacturer_id, distribution,
	category_id, recalling_firm, city, state, country, url
`

type scanner interface {
	Scan(dest ...any) error
}

func scanRecall(s scanner) (models.Recall, error) {
	var (
		r                                       models.Recall
		desc, reason, hazard, remedy, class     sql.NullString
		status, affected, dist, category, firm  sql.NullString
		city, state, country, url               sql.NullString
		severity                                sql.NullInt64
		dateReported, dateInitiated, manufactID sql.NullString
	)
	err := s.Scan(
		&r.RecallID, &r.Agency, &r.RecallNumber, &r.Slug, &r.Title, &desc,
		&reason, &hazard, &remedy, &class, &severity, &dateReported,
		&dateInitiated, &status, &affected, &manufactID, &dist,
		&category, &firm, &city, &state, &country, &url,
	)
	if err != nil {
		return r, err
	}

	r.ProductDescription = desc.String
	r.Reason = reason.String
	r.Hazard = hazard.String
	r.Remedy = remedy.String
	r.Classification = class.String
	r.Severity = models.SeverityModerate
	if severity.Valid {
		r.Severity = int(severity.Int64)
	}
	r.DateReported = nullable(dateReported)
	r.DateInitiated = nullable(dateInitiated)
	r.ManufacturerID = nullable(manufactID)
	r.Status = status.String
	r.AffectedCount = affected.String
	r.Distribution = dist.String
	r.CategoryID = category.String
	r.RecallingFirm = firm.String
	r.City = city.String
	r.State = state.String
	r.Country = country.String
	r.URL = url.String
	return r, nil
}

func nullable(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

func (r *Repo) queryRecalls(ctx context.Context, query string, args ...any) ([]models.Recall, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("recalls query: %w", err)
	}
	defer rows.Close()

	out := []models.Recall{}
	for rows.Next() {
		rec, err := scanRecall(rows)
		if err != nil {
			return nil, fmt.Errorf("recalls scan: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows err: %w", err)
	}
	return out, nil
}

// GetBySlug returns nil, nil when no recall has slug.
func (r *Repo) GetBySlug(ctx context.Context, slug string) (*models.Recall, error) {
	row := r.DB.QueryRowContext(ctx, `SELECT `+recallColumns+` FROM recalls WHERE slug = ?`, slug)
	rec, err := scanRecall(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan getBySlug: %w", err)
	}
	return &rec, nil
}

func (r *Repo) Count(ctx context.Context, q ListQuery) (int, error) {
	sqlStr, args := buildListSQL(q, true)
	var total int
	if err := r.DB.QueryRowContext(ctx, sqlStr, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("count scan: %w", err)
	}
	return total, nil
}

func (r *Repo) List(ctx context.Context, q ListQuery) ([]models.Recall, error) {
	sqlStr, args := buildListSQL(q, false)
	return r.queryRecalls(ctx, sqlStr, args...)
}

// Related returns other recalls of the same category, newest first.
func (r *Repo) Related(ctx context.Context, rec models.Recall, limit int) ([]models.Recall, error) {
	if limit <= 0 {
		limit = 5
	}
	return r.queryRecalls(ctx, `
		SELECT `+recallColumns+`
		FROM recalls
		WHERE category_id = ? AND recall_id != ?
		ORDER BY date_reported DESC
		LIMIT ?
	`, rec.CategoryID, rec.RecallID, limit)
}

// likePattern wraps s for a substring LIKE, escaping LIKE wildcards.
func likePattern(s string) string {
	s = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
	return "%" + s + "%"
}

// NormalizeLimit clamps limit to (0, MaxLimit], using DefaultLimit for
// non-positive values.
func NormalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	return min(limit, MaxLimit)
}

// buildListSQL builds either COUNT(*) or the SELECT list for q.
// Results are ordered by date_reported descending; undated recalls sort last.
func buildListSQL(q ListQuery, countOnly bool) (string, []any) {
	sqlStr := `SELECT ` + recallColumns + ` FROM recalls`
	if countOnly {
		sqlStr = `SELECT COUNT(*) FROM recalls`
	}

	var where []string
	var args []any

	if kw := strings.TrimSpace(q.Q); kw != "" {
		where = append(where, `(title LIKE ? ESCAPE '\' OR product_description LIKE ? ESCAPE '\' OR recalling_firm LIKE ? ESCAPE '\' OR recall_number LIKE ? ESCAPE '\')`)
		p := likePattern(kw)
		args = append(args, p, p, p, p)
	}
	if q.Agency != "" {
		where = append(where, "agency = ?")
		args = append(args, q.Agency)
	}
	if q.CategoryID != "" {
		where = append(where, "category_id = ?")
		args = append(args, q.CategoryID)
	}
	if q.ManufacturerID != "" {
		where = append(where, "manufacturer_id = ?")
		args = append(args, q.ManufacturerID)
	}
	if q.Year > 0 {
		y := strconv.Itoa(q.Year)
		where = append(where, "date_reported BETWEEN ? AND ?")
		args = append(args, y+"-01-01", y+"-12-31")
	}
	if q.From != "" {
		where = append(where, "date_reported >= ?")
		args = append(args, q.From)
	}
	if q.To != "" {
		where = append(where, "date_reported <= ?")
		args = append(args, q.To)
	}

	if len(where) > 0 {
		sqlStr += " WHERE " + strings.Join(where, " AND ")
	}

	if !countOnly {
		sqlStr += " ORDER BY date_reported DESC, recall_id ASC LIMIT ? OFFSET ?"
		args = append(args, NormalizeLimit(q.Limit), max(q.Offset, 0))
	}
	return sqlStr, args
}

func (r *Repo) Categories(ctx context.Context) ([]models.Category, error) {
	return r.categories(ctx, `SELECT category_id, category_name, slug, description, recall_count FROM categories ORDER BY recall_count DESC, category_id ASC`)
}

// CategoryBySlug returns nil, nil when not found.
func (r *Repo) CategoryBySlug(ctx context.Context, slug string) (*models.Category, error) {
	cs, err := r.categories(ctx, `SELECT category_id, category_name, slug, description, recall_count FROM categories WHERE slug = ?`, slug)
	if err != nil || len(cs) == 0 {
		return nil, err
	}
	return &cs[0], nil
}

func (r *Repo) categories(ctx context.Context, query string, args ...any) ([]models.Category, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("categories query: %w", err)
	}
	defer rows.Close()

	out := []models.Category{}
	for rows.Next() {
		var c models.Category
		var desc sql.NullString
		if err := rows.Scan(&c.CategoryID, &c.CategoryName, &c.Slug, &desc, &c.RecallCount); err != nil {
			return nil, fmt.Errorf("categories scan: %w", err)
		}
		c.Description = desc.String
		out = append(out, c)
	}
	return out, rows.Err()
}

// TopManufacturers returns manufacturers by recall count. A non-empty
// search restricts them to names containing it.
func (r *Repo) TopManufacturers(ctx context.Context, search string, limit int) ([]models.Manufacturer, error) {
	query := `SELECT manufacturer_id, name, slug, recall_count, latest_recall_date FROM manufacturers`
	var args []any
	if s := strings.TrimSpace(search); s != "" {
		query += ` WHERE name LIKE ? ESCAPE '\'`
		args = append(args, likePattern(s))
	}
	query += ` ORDER BY recall_count DESC, manufacturer_id ASC LIMIT ?`
	args = append(args, NormalizeLimit(limit))
	return r.manufacturers(ctx, query, args...)
}

// ManufacturerBySlug returns nil, nil when not found.
func (r *Repo) ManufacturerBySlug(ctx context.Context, slug string) (*models.Manufacturer, error) {
	ms, err := r.manufacturers(ctx, `SELECT manufacturer_id, name, slug, recall_count, latest_recall_date FROM manufacturers WHERE slug = ?`, slug)
	if err != nil || len(ms) == 0 {
		return nil, err
	}
	return &ms[0], nil
}

func (r *Repo) manufacturers(ctx context.Context, query string, args ...any) ([]models.Manufacturer, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("manufacturers query: %w", err)
	}
	defer rows.Close()

	out := []models.Manufacturer{}
	for rows.Next() {
		var m models.Manufacturer
		var latest sql.NullString
		if err := rows.Scan(&m.ManufacturerID, &m.Name, &m.Slug, &m.RecallCount, &latest); err != nil {
			return nil, fmt.Errorf("manufacturers scan: %w", err)
		}
		m.LatestRecallDate = nullable(latest)
		out = append(out, m)
	}
	return out, rows.Err()
}

// Agencies returns agencies that have at least one recall.
func (r *Repo) Agencies(ctx context.Context) ([]models.Agency, error) {
	return r.agencies(ctx, `SELECT agency_id, agency_name, slug, description, url, recall_count FROM agencies WHERE recall_count > 0 ORDER BY recall_count DESC, agency_id ASC`)
}

// AgencyBySlug returns nil, nil when not found.
func (r *Repo) AgencyBySlug(ctx context.Context, slug string) (*models.Agency, error) {
	as, err := r.agencies(ctx, `SELECT agency_id, agency_name, slug, description, url, recall_count FROM agencies WHERE slug = ?`, slug)
	if err != nil || len(as) == 0 {
		return nil, err
	}
	return &as[0], nil
}

func (r *Repo) agencies(ctx context.Context, query string, args ...any) ([]models.Agency, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("agencies query: %w", err)
	}
	defer rows.Close()

	out := []models.Agency{}
	for rows.Next() {
		var a models.Agency
		var desc, url sql.NullString
		if err := rows.Scan(&a.AgencyID, &a.AgencyName, &a.Slug, &desc, &url, &a.RecallCount); err != nil {
			return nil, fmt.Errorf("agencies scan: %w", err)
		}
		a.Description = desc.String
		a.URL = url.String
		out = append(out, a)
	}
	return out, rows.Err()
}

// Stats reads the precomputed aggregates; it never scans recalls.
func (r *Repo) Stats(ctx context.Context) (models.Stats, error) {
	return store.ReadStats(ctx, r.DB)
}
