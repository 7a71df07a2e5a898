package shipping

import (
	"context"
	"errors"
)

// ErrRuleNotFound is returned when no rule has the requested id.
var ErrRuleNotFound = errors.New("shipping rule not found")

// RuleRepository defines data access for shipping rules.
type RuleRepository interface {
	GetByID(ctx context.Context, id int) (*Rule, error)
	Insert(ctx context.Context, rule *Rule) error
	Update(ctx context.Context, rule *Rule) error
	Delete(ctx context.Context, id int) error
	// Page filters rules with the same predicate as FilterRules.
	Page(ctx context.Context, f RuleFilter, pageIndex, pageSize int) (RulePage, error)
	// All returns every rule in store order (id ascending).
	All(ctx context.Context) ([]Rule, error)
}
