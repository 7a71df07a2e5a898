package method

import (
	"slices"
	"time"
)

// ShippingMethod is a carrier service customers can choose at checkout.
type ShippingMethod struct {
	ID                   int       `json:"id"`
	Name                 string    `json:"name"`
	Description          string    `json:"description,omitempty"`
	DisplayOrder         int       `json:"display_order"`
	RestrictedCountryIDs []int     `json:"restricted_country_ids,omitempty"` // countries the method is not offered to
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
}

// AvailableFor reports whether the method may ship to countryID. Zero means
// the destination country is unknown, which never restricts.
func (m ShippingMethod) AvailableFor(countryID int) bool {
	return countryID == 0 || !slices.Contains(m.RestrictedCountryIDs, countryID)
}

// CreateMethodRequest is the payload for creating or updating a shipping method.
type CreateMethodRequest struct {
	Name                 string `json:"name"`
	Description          string `json:"description,omitempty"`
	DisplayOrder         int    `json:"display_order"`
	RestrictedCountryIDs []int  `json:"restricted_country_ids,omitempty"`
}
