package expense

import (
	"math"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"snapledger/internal/extraction"
)

var _ = Describe("Normalize", func() {
	var (
		candidate *extraction.Candidate
		imageRef  string
		now       time.Time
		record    Record
	)

	BeforeEach(func() {
		now = time.Date(2024, 6, 15, 10, 30, 0, 0, time.UTC)
		imageRef = "/tmp/receipt.jpg"
		candidate = &extraction.Candidate{
			Vendor:   "Cafe X",
			Amount:   12.34,
			Date:     "2024-06-14",
			Category: "Dining",
		}
	})

	JustBeforeEach(func() {
		record = Normalize(candidate, imageRef, now)
	})

	When("the candidate is well-formed", func() {
		It("passes the fields through", func() {
			Expect(record.Vendor).To(Equal("Cafe X"))
			Expect(record.Amount).To(Equal(12.34))
			Expect(record.Date).To(Equal("2024-06-14"))
			Expect(record.Category).To(Equal(CategoryDining))
			Expect(record.ImageRef).To(Equal(imageRef))
		})

		It("leaves ID and CreatedAt for the store to assign", func() {
			Expect(record.ID).To(BeEmpty())
			Expect(record.CreatedAt.IsZero()).To(BeTrue())
		})
	})

	When("the vendor is blank", func() {
		BeforeEach(func() {
			candidate.Vendor = "   "
		})

		It("substitutes the sentinel default", func() {
			Expect(record.Vendor).To(Equal(UnknownVendor))
		})
	})

	When("the amount has excess precision", func() {
		BeforeEach(func() {
			candidate.Amount = 12.345
		})

		It("rounds to two decimal places", func() {
			Expect(record.Amount).To(Equal(12.35))
		})
	})

	When("the amount is negative", func() {
		BeforeEach(func() {
			candidate.Amount = -7.50
		})

		It("substitutes zero", func() {
			Expect(record.Amount).To(BeZero())
		})
	})

	When("the amount is not a finite number", func() {
		BeforeEach(func() {
			candidate.Amount = math.NaN()
		})

		It("substitutes zero", func() {
			Expect(record.Amount).To(BeZero())
		})
	})

	When("the date names a day that does not exist", func() {
		BeforeEach(func() {
			candidate.Date = "2024-02-30"
		})

		It("substitutes the current date", func() {
			Expect(record.Date).To(Equal("2024-06-15"))
		})
	})

	When("the date is absent", func() {
		BeforeEach(func() {
			candidate.Date = ""
		})

		It("substitutes the current date", func() {
			Expect(record.Date).To(Equal("2024-06-15"))
		})
	})

	When("the category is absent", func() {
		BeforeEach(func() {
			candidate.Category = ""
		})

		It("substitutes the catch-all category", func() {
			Expect(record.Category).To(Equal(CategoryOther))
		})
	})

	When("the category is outside the closed set", func() {
		BeforeEach(func() {
			candidate.Category = "Entertainment"
		})

		It("passes it through without re-validation", func() {
			Expect(record.Category).To(Equal(Category("Entertainment")))
		})
	})

	When("the candidate carries line items", func() {
		BeforeEach(func() {
			candidate.Items = []extraction.Item{{Name: "coffee", Price: 4.50}}
		})

		It("preserves them", func() {
			Expect(record.Items).To(HaveLen(1))
			Expect(record.Items[0].Name).To(Equal("coffee"))
		})
	})
})
