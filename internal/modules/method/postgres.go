package method

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/lib/pq"
)

type postgresRepo struct{ db *sql.DB }

func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

func (r *postgresRepo) Create(ctx context.Context, m *ShippingMethod) error {
	return r.db.QueryRowContext(ctx, `
		INSERT INTO shipping_methods (name, description, display_order, restricted_country_ids)
		VALUES ($1,$2,$3,$4)
		RETURNING id, created_at, updated_at`,
		m.Name, m.Description, m.DisplayOrder, toInt64Array(m.RestrictedCountryIDs),
	).Scan(&m.ID, &m.CreatedAt, &m.UpdatedAt)
}

func (r *postgresRepo) GetByID(ctx context.Context, id int) (*ShippingMethod, error) {
	m, err := r.scanMethod(r.db.QueryRowContext(ctx, `
		SELECT id,name,description,display_order,restricted_country_ids,created_at,updated_at
		FROM shipping_methods WHERE id=$1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return m, err
}

func (r *postgresRepo) List(ctx context.Context, countryID int) ([]ShippingMethod, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id,name,description,display_order,restricted_country_ids,created_at,updated_at
		FROM shipping_methods
		WHERE $1 = 0 OR NOT ($1 = ANY(restricted_country_ids))
		ORDER BY display_order ASC, id ASC`, countryID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var methods []ShippingMethod
	for rows.Next() {
		m, err := r.scanMethod(rows)
		if err != nil {
			return nil, err
		}
		methods = append(methods, *m)
	}
	return methods, rows.Err()
}

func (r *postgresRepo) Update(ctx context.Context, m *ShippingMethod) error {
	m.UpdatedAt = time.Now()
	res, err := r.db.ExecContext(ctx, `
		UPDATE shipping_methods SET name=$1,description=$2,display_order=$3,
		restricted_country_ids=$4,updated_at=$5 WHERE id=$6`,
		m.Name, m.Description, m.DisplayOrder, toInt64Array(m.RestrictedCountryIDs), m.UpdatedAt, m.ID)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *postgresRepo) Delete(ctx context.Context, id int) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM shipping_methods WHERE id=$1`, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// ── scanners ──────────────────────────────────────────────────────────────────

type methodScanner interface {
	Scan(dest ...interface{}) error
}

func (r *postgresRepo) scanMethod(row methodScanner) (*ShippingMethod, error) {
	m := &ShippingMethod{}
	var restricted pq.Int64Array
	err := row.Scan(&m.ID, &m.Name, &m.Description, &m.DisplayOrder, &restricted,
		&m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return nil, err
	}
	for _, id := range restricted {
		m.RestrictedCountryIDs = append(m.RestrictedCountryIDs, int(id))
	}
	return m, nil
}

func toInt64Array(ids []int) pq.Int64Array {
	out := make(pq.Int64Array, len(ids))
	for i, id := range ids {
		out[i] = int64(id)
	}
	return out
}
