package shipping

import (
	"sort"
	"strings"
)

// SelectionPolicy decides which rule wins when several match a shipment.
type SelectionPolicy string

const (
	// SelectFirstMatch picks the first matching rule in store order (id ascending).
	SelectFirstMatch SelectionPolicy = "first"
	// SelectMostSpecific prefers exact store, warehouse, country, state and zip
	// scopes over wildcards, in that order, falling back to store order.
	SelectMostSpecific SelectionPolicy = "specific"
)

// ParseSelectionPolicy maps a configuration value to a policy. Unknown values
// select SelectFirstMatch.
func ParseSelectionPolicy(s string) SelectionPolicy {
	if SelectionPolicy(strings.ToLower(strings.TrimSpace(s))) == SelectMostSpecific {
		return SelectMostSpecific
	}
	return SelectFirstMatch
}

// Matches reports whether rule applies to the shipment context.
func Matches(rule Rule, sc ShipmentContext) bool {
	if rule.ShippingMethodID != sc.ShippingMethodID {
		return false
	}
	if !scopeMatches(rule, sc.StoreID, sc.WarehouseID, sc.CountryID, sc.StateProvinceID, sc.Zip) {
		return false
	}
	if sc.Weight.Valid {
		w := sc.Weight.Decimal
		if w.LessThan(rule.WeightFrom) || w.GreaterThan(rule.WeightTo) {
			return false
		}
	}
	if sc.OrderSubtotal.Valid {
		s := sc.OrderSubtotal.Decimal
		if s.LessThan(rule.OrderSubtotalFrom) || s.GreaterThan(rule.OrderSubtotalTo) {
			return false
		}
	}
	return true
}

func scopeMatches(rule Rule, storeID, warehouseID, countryID, stateProvinceID int, zip string) bool {
	return idMatches(rule.StoreID, storeID) &&
		idMatches(rule.WarehouseID, warehouseID) &&
		idMatches(rule.CountryID, countryID) &&
		idMatches(rule.StateProvinceID, stateProvinceID) &&
		zipMatches(rule.Zip, zip)
}

func idMatches(scope *int, id int) bool {
	return scope == nil || *scope == id
}

func zipMatches(scope *string, zip string) bool {
	return isWildcardZip(scope) || *scope == zip
}

func isWildcardZip(zip *string) bool {
	return zip == nil || *zip == ""
}

// FindBestRule returns the rule that prices the shipment, or false when no rule
// applies. rules must be in store order.
func FindBestRule(sc ShipmentContext, rules []Rule, policy SelectionPolicy) (*Rule, bool) {
	var best *Rule
	for i := range rules {
		if !Matches(rules[i], sc) {
			continue
		}
		if policy != SelectMostSpecific {
			return &rules[i], true
		}
		if best == nil || moreSpecific(rules[i], *best) {
			best = &rules[i]
		}
	}
	return best, best != nil
}

// moreSpecific reports whether a ranks strictly above b. Equal ranks keep the
// earlier rule.
func moreSpecific(a, b Rule) bool {
	ka, kb := specificity(a), specificity(b)
	for i := range ka {
		if ka[i] != kb[i] {
			return ka[i]
		}
	}
	return false
}

func specificity(r Rule) [5]bool {
	return [5]bool{
		r.StoreID != nil,
		r.WarehouseID != nil,
		r.CountryID != nil,
		r.StateProvinceID != nil,
		!isWildcardZip(r.Zip),
	}
}

// MatchesFilter applies the identity part of the matching predicate, using only
// the filters that are set.
func MatchesFilter(rule Rule, f RuleFilter) bool {
	f = f.normalized()
	if f.ShippingMethodID != nil && rule.ShippingMethodID != *f.ShippingMethodID {
		return false
	}
	if f.StoreID != nil && !idMatches(rule.StoreID, *f.StoreID) {
		return false
	}
	if f.WarehouseID != nil && !idMatches(rule.WarehouseID, *f.WarehouseID) {
		return false
	}
	if f.CountryID != nil && !idMatches(rule.CountryID, *f.CountryID) {
		return false
	}
	if f.StateProvinceID != nil && !idMatches(rule.StateProvinceID, *f.StateProvinceID) {
		return false
	}
	if f.Zip != nil && !zipMatches(rule.Zip, *f.Zip) {
		return false
	}
	return true
}

// normalized drops filters that name no value: zero ids and empty zips.
func (f RuleFilter) normalized() RuleFilter {
	for _, id := range []**int{&f.ShippingMethodID, &f.StoreID, &f.WarehouseID, &f.CountryID, &f.StateProvinceID} {
		if *id != nil && **id == 0 {
			*id = nil
		}
	}
	if f.Zip != nil && *f.Zip == "" {
		f.Zip = nil
	}
	return f
}

// FilterRules returns one page of the rules passing f, ordered by id. A
// pageSize of zero or less returns every match on a single page.
func FilterRules(rules []Rule, f RuleFilter, pageIndex, pageSize int) RulePage {
	matched := make([]Rule, 0, len(rules))
	for _, r := range rules {
		if MatchesFilter(r, f) {
			matched = append(matched, r)
		}
	}
	sort.SliceStable(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })
	return NewRulePage(matched, len(matched), pageIndex, pageSize, true)
}

// NewRulePage builds a page. When slice is true, items holds every match and
// is cut down to the requested page; otherwise items is already the page.
func NewRulePage(items []Rule, total, pageIndex, pageSize int, slice bool) RulePage {
	if pageIndex < 0 {
		pageIndex = 0
	}
	if pageSize <= 0 {
		pageIndex = 0
		pageSize = total
	}
	page := RulePage{PageIndex: pageIndex, PageSize: pageSize, TotalCount: total, Items: []Rule{}}
	if pageSize > 0 {
		page.TotalPages = (total + pageSize - 1) / pageSize
	}
	if !slice {
		if items != nil {
			page.Items = items
		}
		return page
	}
	if len(items) == 0 || pageIndex > (len(items)-1)/pageSize {
		return page
	}
	start := pageIndex * pageSize
	end := min(start+pageSize, len(items))
	page.Items = items[start:end]
	return page
}
