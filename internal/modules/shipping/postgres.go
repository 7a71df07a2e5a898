package shipping

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

type postgresRepo struct{ db *sql.DB }

func NewPostgresRepository(db *sql.DB) RuleRepository { return &postgresRepo{db: db} }

const ruleColumns = `id,shipping_method_id,store_id,warehouse_id,country_id,state_province_id,zip,
	weight_from,weight_to,order_subtotal_from,order_subtotal_to,
	additional_fixed_cost,rate_per_weight_unit,lower_weight_limit,percentage_rate_of_subtotal,
	transit_days,created_at,updated_at`

// The filter arguments are $1..$6; NULL disables a filter, NULL or empty rule
// scopes are wildcards.
const ruleFilterWhere = `
	WHERE ($1::int IS NULL OR shipping_method_id = $1)
	  AND ($2::int IS NULL OR store_id IS NULL OR store_id = $2)
	  AND ($3::int IS NULL OR warehouse_id IS NULL OR warehouse_id = $3)
	  AND ($4::int IS NULL OR country_id IS NULL OR country_id = $4)
	  AND ($5::int IS NULL OR state_province_id IS NULL OR state_province_id = $5)
	  AND ($6::text IS NULL OR $6 = '' OR zip IS NULL OR zip = '' OR zip = $6)`

func (r *postgresRepo) GetByID(ctx context.Context, id int) (*Rule, error) {
	rule, err := r.scanRule(r.db.QueryRowContext(ctx,
		`SELECT `+ruleColumns+` FROM shipping_rules WHERE id=$1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRuleNotFound
	}
	return rule, err
}

func (r *postgresRepo) Insert(ctx context.Context, rule *Rule) error {
	return r.db.QueryRowContext(ctx, `
		INSERT INTO shipping_rules (shipping_method_id,store_id,warehouse_id,country_id,state_province_id,zip,
			weight_from,weight_to,order_subtotal_from,order_subtotal_to,
			additional_fixed_cost,rate_per_weight_unit,lower_weight_limit,percentage_rate_of_subtotal,transit_days)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)
		RETURNING id, created_at, updated_at`,
		rule.ShippingMethodID, rule.StoreID, rule.WarehouseID, rule.CountryID, rule.StateProvinceID, rule.Zip,
		rule.WeightFrom, rule.WeightTo, rule.OrderSubtotalFrom, rule.OrderSubtotalTo,
		rule.AdditionalFixedCost, rule.RatePerWeightUnit, rule.LowerWeightLimit, rule.PercentageRateOfSubtotal,
		rule.TransitDays,
	).Scan(&rule.ID, &rule.CreatedAt, &rule.UpdatedAt)
}

func (r *postgresRepo) Update(ctx context.Context, rule *Rule) error {
	rule.UpdatedAt = time.Now()
	res, err := r.db.ExecContext(ctx, `
		UPDATE shipping_rules SET shipping_method_id=$1,store_id=$2,warehouse_id=$3,country_id=$4,
		state_province_id=$5,zip=$6,weight_from=$7,weight_to=$8,order_subtotal_from=$9,order_subtotal_to=$10,
		additional_fixed_cost=$11,rate_per_weight_unit=$12,lower_weight_limit=$13,
		percentage_rate_of_subtotal=$14,transit_days=$15,updated_at=$16 WHERE id=$17`,
		rule.ShippingMethodID, rule.StoreID, rule.WarehouseID, rule.CountryID, rule.StateProvinceID, rule.Zip,
		rule.WeightFrom, rule.WeightTo, rule.OrderSubtotalFrom, rule.OrderSubtotalTo,
		rule.AdditionalFixedCost, rule.RatePerWeightUnit, rule.LowerWeightLimit, rule.PercentageRateOfSubtotal,
		rule.TransitDays, rule.UpdatedAt, rule.ID)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *postgresRepo) Delete(ctx context.Context, id int) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM shipping_rules WHERE id=$1`, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *postgresRepo) Page(ctx context.Context, f RuleFilter, pageIndex, pageSize int) (RulePage, error) {
	f = f.normalized()
	args := []interface{}{f.ShippingMethodID, f.StoreID, f.WarehouseID, f.CountryID, f.StateProvinceID, f.Zip}

	var total int
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM shipping_rules`+ruleFilterWhere, args...).Scan(&total); err != nil {
		return RulePage{}, err
	}

	if pageIndex < 0 {
		pageIndex = 0
	}
	var limit interface{}
	offset := 0
	if pageSize > 0 {
		if pageIndex > (total-1)/pageSize {
			return NewRulePage(nil, total, pageIndex, pageSize, false), nil
		}
		limit = pageSize
		offset = pageIndex * pageSize
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+ruleColumns+` FROM shipping_rules`+ruleFilterWhere+` ORDER BY id ASC LIMIT $7 OFFSET $8`,
		append(args, limit, offset)...)
	if err != nil {
		return RulePage{}, err
	}
	defer rows.Close()
	items, err := r.scanRules(rows)
	if err != nil {
		return RulePage{}, err
	}
	return NewRulePage(items, total, pageIndex, pageSize, false), nil
}

func (r *postgresRepo) All(ctx context.Context) ([]Rule, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+ruleColumns+` FROM shipping_rules ORDER BY id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return r.scanRules(rows)
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrRuleNotFound
	}
	return nil
}

// ── scanners ──────────────────────────────────────────────────────────────────

type ruleScanner interface {
	Scan(dest ...interface{}) error
}

func (r *postgresRepo) scanRules(rows *sql.Rows) ([]Rule, error) {
	var rules []Rule
	for rows.Next() {
		rule, err := r.scanRule(rows)
		if err != nil {
			return nil, err
		}
		rules = append(rules, *rule)
	}
	return rules, rows.Err()
}

func (r *postgresRepo) scanRule(row ruleScanner) (*Rule, error) {
	rule := &Rule{}
	var storeID, warehouseID, countryID, stateID, transitDays sql.NullInt64
	var zip sql.NullString
	err := row.Scan(&rule.ID, &rule.ShippingMethodID, &storeID, &warehouseID, &countryID, &stateID, &zip,
		&rule.WeightFrom, &rule.WeightTo, &rule.OrderSubtotalFrom, &rule.OrderSubtotalTo,
		&rule.AdditionalFixedCost, &rule.RatePerWeightUnit, &rule.LowerWeightLimit, &rule.PercentageRateOfSubtotal,
		&transitDays, &rule.CreatedAt, &rule.UpdatedAt)
	if err != nil {
		return nil, err
	}
	rule.StoreID = nullableInt(storeID)
	rule.WarehouseID = nullableInt(warehouseID)
	rule.CountryID = nullableInt(countryID)
	rule.StateProvinceID = nullableInt(stateID)
	rule.TransitDays = nullableInt(transitDays)
	if zip.Valid && zip.String != "" {
		rule.Zip = &zip.String
	}
	return rule, nil
}

func nullableInt(n sql.NullInt64) *int {
	if !n.Valid {
		return nil
	}
	v := int(n.Int64)
	return &v
}
