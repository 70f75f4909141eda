package domain

import "strings"

// The fixed category taxonomy. The classification collaborator must return
// one of these labels; anything else is treated as a failed classification.
const (
	CategoryIncome         = "Income"
	CategoryFoodDining     = "Food & Dining"
	CategoryTransportation = "Transportation"
	CategoryHousing        = "Housing"
	CategoryEntertainment  = "Entertainment"
	CategoryHealthcare     = "Healthcare"
	CategoryShopping       = "Shopping"
	CategoryUtilities      = "Utilities"
	CategoryEducation      = "Education"
	CategoryTravel         = "Travel"
	CategoryOther          = "Other"
)

// Categories lists every valid category label, in taxonomy order.
var Categories = []string{
	CategoryIncome,
	CategoryFoodDining,
	CategoryTransportation,
	CategoryHousing,
	CategoryEntertainment,
	CategoryHealthcare,
	CategoryShopping,
	CategoryUtilities,
	CategoryEducation,
	CategoryTravel,
	CategoryOther,
}

var categoryByNormalized = func() map[string]string {
	m := make(map[string]string, len(Categories))
	for _, c := range Categories {
		m[NormalizeCategory(c)] = c
	}
	return m
}()

// NormalizeCategory normalizes a category name for case-insensitive
// comparison.
func NormalizeCategory(name string) string {
	return strings.ToUpper(strings.TrimSpace(name))
}

// CanonicalCategory maps a free-form label to the canonical category name.
// The second return is false when the label is not part of the taxonomy.
func CanonicalCategory(label string) (string, bool) {
	c, ok := categoryByNormalized[NormalizeCategory(label)]
	return c, ok
}
