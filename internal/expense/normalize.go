package expense

import (
	"math"
	"strings"
	"time"

	"snapledger/internal/extraction"
)

// UnknownVendor is substituted when a candidate carries no vendor name.
const UnknownVendor = "Unknown Vendor"

// dateLayout is the canonical transaction-date form.
const dateLayout = "2006-01-02"

// Normalize coerces a candidate into the canonical record shape. It never
// fails: every field gets a usable value no matter what the candidate
// holds. ID and CreatedAt are left zero; the store assigns them.
//
// Categories outside the closed set pass through unchanged; rejecting them
// is left to the edit surface, which re-prompts the user anyway.
func Normalize(c *extraction.Candidate, imageRef string, now time.Time) Record {
	vendor := strings.TrimSpace(c.Vendor)
	if vendor == "" {
		vendor = UnknownVendor
	}

	amount := c.Amount
	if math.IsNaN(amount) || math.IsInf(amount, 0) || amount < 0 {
		amount = 0
	}
	amount = math.Round(amount*100) / 100

	date := c.Date
	if _, err := time.Parse(dateLayout, date); err != nil {
		date = now.Format(dateLayout)
	}

	category := Category(strings.TrimSpace(c.Category))
	if category == "" {
		category = CategoryOther
	}

	return Record{
		ImageRef: imageRef,
		Vendor:   vendor,
		Amount:   amount,
		Date:     date,
		Category: category,
		Items:    c.Items,
	}
}
