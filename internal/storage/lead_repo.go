package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/intlakaa/internal/model"
)

var leadColumns = []string{
	"id", "name", "phone", "store_url", "monthly_sales",
	"ip_address", "country", "phone_country", "created_at", "updated_at",
}

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

type LeadRepository struct {
	db *Database
}

func NewLeadRepository(db *Database) *LeadRepository {
	return &LeadRepository{db: db}
}

func (r *LeadRepository) Create(ctx context.Context, lead *model.Lead) (*model.Lead, error) {
	if lead.ID == "" {
		lead.ID = uuid.NewString()
	}
	now := time.Now()

	query, args, err := psql.Insert("requests").
		Columns(leadColumns...).
		Values(lead.ID, lead.Name, lead.Phone, lead.StoreURL, lead.MonthlySales,
			lead.IPAddress, lead.Country, lead.PhoneCountry, now, now).
		Suffix("RETURNING " + strings.Join(leadColumns, ", ")).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build insert: %w", err)
	}

	var created model.Lead
	if err := r.db.QueryRowxContext(ctx, query, args...).StructScan(&created); err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	return &created, nil
}

// List returns one page of leads, newest first, and the total number of
// leads matching the search term.
func (r *LeadRepository) List(ctx context.Context, q model.LeadQuery) ([]model.Lead, int, error) {
	q = q.Normalize()

	sel := psql.Select(leadColumns...).From("requests")
	count := psql.Select("COUNT(*)").From("requests")
	if cond := searchCondition(q.Search); cond != nil {
		sel = sel.Where(cond)
		count = count.Where(cond)
	}

	query, args, err := sel.OrderBy("created_at DESC").
		Limit(uint64(q.Limit)).
		Offset(uint64(q.Offset())).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build list query: %w", err)
	}

	leads := []model.Lead{}
	if err := r.db.SelectContext(ctx, &leads, query, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to list requests: %w", err)
	}

	query, args, err = count.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build count query: %w", err)
	}
	var total int
	if err := r.db.GetContext(ctx, &total, query, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to count requests: %w", err)
	}

	return leads, total, nil
}

// All returns every lead, newest first, for export.
func (r *LeadRepository) All(ctx context.Context) ([]model.Lead, error) {
	query, args, err := psql.Select(leadColumns...).From("requests").OrderBy("created_at DESC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build export query: %w", err)
	}
	leads := []model.Lead{}
	if err := r.db.SelectContext(ctx, &leads, query, args...); err != nil {
		return nil, fmt.Errorf("failed to export requests: %w", err)
	}
	return leads, nil
}

func (r *LeadRepository) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return ErrNotFound
	}
	query, args, err := psql.Delete("requests").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete: %w", err)
	}
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to delete request: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Stats counts leads overall, since the start of now's month and since the
// start of now's day. Boundaries are taken in now's location.
func (r *LeadRepository) Stats(ctx context.Context, now time.Time) (*model.LeadStats, error) {
	y, m, d := now.Date()
	monthStart := time.Date(y, m, 1, 0, 0, 0, 0, now.Location())
	dayStart := time.Date(y, m, d, 0, 0, 0, 0, now.Location())

	var stats model.LeadStats
	query := `
		SELECT COUNT(*) AS total,
		       COUNT(*) FILTER (WHERE created_at >= $1) AS this_month,
		       COUNT(*) FILTER (WHERE created_at >= $2) AS today
		FROM requests
	`
	if err := r.db.GetContext(ctx, &stats, query, monthStart, dayStart); err != nil {
		return nil, fmt.Errorf("failed to compute request stats: %w", err)
	}
	return &stats, nil
}

func searchCondition(term string) sq.Sqlizer {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil
	}
	pattern := "%" + likeEscaper.Replace(term) + "%"
	return sq.Or{
		sq.ILike{"name": pattern},
		sq.ILike{"phone": pattern},
	}
}
