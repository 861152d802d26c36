package expense

import (
	"time"

	"snapledger/internal/extraction"
)

// Category classifies an expense by business type.
type Category string

const (
	CategoryDining    Category = "Dining"
	CategoryGroceries Category = "Groceries"
	CategoryLodging   Category = "Lodging"
	CategoryFuel      Category = "Fuel"
	CategoryRetail    Category = "Retail"
	// CategoryOther is the catch-all for absent or unrecognized categories.
	CategoryOther Category = "Other"
)

// Categories lists the closed category set.
func Categories() []Category {
	return []Category{
		CategoryDining,
		CategoryGroceries,
		CategoryLodging,
		CategoryFuel,
		CategoryRetail,
		CategoryOther,
	}
}

// Record is a finalized expense record. Vendor is never empty, Amount is
// never negative and holds at most two decimals, Date is always a valid
// YYYY-MM-DD string. ID and CreatedAt are assigned once at store insertion
// and never change afterwards.
type Record struct {
	ID        string            `json:"id"`
	ImageRef  string            `json:"image_ref,omitempty"` // empty only for manual entries
	Vendor    string            `json:"vendor"`
	Amount    float64           `json:"amount"`
	Date      string            `json:"date"` // YYYY-MM-DD
	Category  Category          `json:"category"`
	Notes     string            `json:"notes,omitempty"`
	Items     []extraction.Item `json:"items,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
}

// Patch is a partial update. Nil fields are left untouched; ID and
// CreatedAt cannot be patched.
type Patch struct {
	ImageRef *string   `json:"image_ref,omitempty"`
	Vendor   *string   `json:"vendor,omitempty"`
	Amount   *float64  `json:"amount,omitempty"`
	Date     *string   `json:"date,omitempty"`
	Category *Category `json:"category,omitempty"`
	Notes    *string   `json:"notes,omitempty"`
}
