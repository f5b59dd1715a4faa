package repo

import (
	"context"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"garmentgrid/internal/domain"
	"garmentgrid/internal/infra"
	"garmentgrid/internal/sqlinline"
)

const (
	markerListProducts   = "--sql b89752ed-07d2-4a7c-8604-fe3cb169cd6f\n"
	markerSearchProducts = "--sql 612f5149-5cf0-4217-bd16-7dbdf37a2874\n"
	markerCountProducts  = "--sql df3822c2-006b-4d63-ba5b-468c3f009104\n"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

var productColumns = []string{"id", "name", "description", "category", "price", "quantity", "min_order", "images"}

// ProductRepositoryPG reads the catalogue from PostgreSQL.
type ProductRepositoryPG struct {
	db infra.SQLExecutor
}

// NewProductRepository creates a new ProductRepositoryPG.
func NewProductRepository(db infra.SQLExecutor) *ProductRepositoryPG {
	return &ProductRepositoryPG{db: db}
}

// List returns every product ordered by id.
func (r *ProductRepositoryPG) List(ctx context.Context) ([]domain.Product, error) {
	query, args, err := psql.Select(productColumns...).From("products").OrderBy("id").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list query: %w", err)
	}
	return r.queryProducts(ctx, markerListProducts+query, args...)
}

// GetByID fetches a single product.
func (r *ProductRepositoryPG) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	p, err := scanProduct(r.db.QueryRow(ctx, sqlinline.QSelectProductByID, id))
	if err != nil {
		if infra.IsNoRows(err) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// Search filters by a case-insensitive substring of name or category and
// returns one window of the result together with the total match count.
func (r *ProductRepositoryPG) Search(ctx context.Context, term string, limit, offset int) ([]domain.Product, int, error) {
	cond := searchCondition(term)

	countQuery, countArgs, err := psql.Select("count(*)").From("products").Where(cond).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build count query: %w", err)
	}
	var total int
	if err := r.db.QueryRow(ctx, markerCountProducts+countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}

	builder := psql.Select(productColumns...).From("products").Where(cond).OrderBy("id")
	if limit > 0 {
		builder = builder.Limit(uint64(limit))
	}
	if offset > 0 {
		builder = builder.Offset(uint64(offset))
	}
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build search query: %w", err)
	}
	items, err := r.queryProducts(ctx, markerSearchProducts+query, args...)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func searchCondition(term string) sq.Sqlizer {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil
	}
	pattern := "%" + likeEscaper.Replace(term) + "%"
	return sq.Or{
		sq.ILike{"name": pattern},
		sq.ILike{"category": pattern},
	}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func (r *ProductRepositoryPG) queryProducts(ctx context.Context, query string, args ...any) ([]domain.Product, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]domain.Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func scanProduct(row pgx.Row) (domain.Product, error) {
	var p domain.Product
	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Category, &p.Price, &p.Quantity, &p.MinOrder, &p.Images)
	return p, err
}

var _ domain.ProductRepository = (*ProductRepositoryPG)(nil)
