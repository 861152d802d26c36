package expense

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"snapledger/internal/extraction"
)

var _ = Describe("Server", func() {
	var (
		persister *mockPersister
		store     *Store
		extractor *mockExtractor
		service   *Service
		server    *Server
		basicAuth BasicAuth
		recorder  *httptest.ResponseRecorder
	)

	BeforeEach(func() {
		persister = newMockPersister()
		store = newTestStore(persister)
		extractor = &mockExtractor{
			candidate: &extraction.Candidate{
				Vendor:   "CVS Pharmacy",
				Amount:   25.99,
				Date:     "2024-06-10",
				Category: "Retail",
			},
		}
		service = NewServiceWithDeps(store, extraction.NewEncoder(), extractor,
			extraction.NewSynthesizer(), &fixedTimeSource{t: testNow})

		storage, err := NewLocalStorage(GinkgoT().TempDir())
		Expect(err).NotTo(HaveOccurred())

		basicAuth = BasicAuth{}
		server = NewServer(service, storage, basicAuth)
		recorder = httptest.NewRecorder()
	})

	decodeRecord := func() Record {
		var record Record
		Expect(json.NewDecoder(recorder.Body).Decode(&record)).To(Succeed())
		return record
	}

	Describe("POST /api/expenses/scan", func() {
		It("produces a record from a readable image", func() {
			path := filepath.Join(GinkgoT().TempDir(), "receipt.png")
			Expect(os.WriteFile(path, pngBytes(), 0644)).To(Succeed())

			body, _ := json.Marshal(map[string]string{"image_ref": path})
			req := httptest.NewRequest("POST", "/api/expenses/scan", bytes.NewReader(body))
			server.ServeHTTP(recorder, req)

			Expect(recorder.Code).To(Equal(http.StatusCreated))
			Expect(decodeRecord().Vendor).To(Equal("CVS Pharmacy"))
		})

		It("still produces a record when the image is missing", func() {
			body, _ := json.Marshal(map[string]string{"image_ref": "/nope/fuel-stop.jpg"})
			req := httptest.NewRequest("POST", "/api/expenses/scan", bytes.NewReader(body))
			server.ServeHTTP(recorder, req)

			Expect(recorder.Code).To(Equal(http.StatusCreated))
			record := decodeRecord()
			Expect(record.Vendor).NotTo(BeEmpty())
			Expect(record.Category).To(Equal(CategoryFuel))
		})

		It("rejects a missing image_ref", func() {
			req := httptest.NewRequest("POST", "/api/expenses/scan", strings.NewReader(`{}`))
			server.ServeHTTP(recorder, req)

			Expect(recorder.Code).To(Equal(http.StatusBadRequest))
		})
	})

	Describe("POST /api/expenses/upload", func() {
		It("stores the original and produces a record", func() {
			var buf bytes.Buffer
			mw := multipart.NewWriter(&buf)
			part, err := mw.CreateFormFile("file", "receipt.png")
			Expect(err).NotTo(HaveOccurred())
			_, err = part.Write(pngBytes())
			Expect(err).NotTo(HaveOccurred())
			Expect(mw.Close()).To(Succeed())

			req := httptest.NewRequest("POST", "/api/expenses/upload", &buf)
			req.Header.Set("Content-Type", mw.FormDataContentType())
			server.ServeHTTP(recorder, req)

			Expect(recorder.Code).To(Equal(http.StatusCreated))
			record := decodeRecord()
			Expect(record.Vendor).To(Equal("CVS Pharmacy"))
			Expect(record.ImageRef).To(BeAnExistingFile())
		})

		It("rejects a request without a file", func() {
			var buf bytes.Buffer
			mw := multipart.NewWriter(&buf)
			Expect(mw.Close()).To(Succeed())

			req := httptest.NewRequest("POST", "/api/expenses/upload", &buf)
			req.Header.Set("Content-Type", mw.FormDataContentType())
			server.ServeHTTP(recorder, req)

			Expect(recorder.Code).To(Equal(http.StatusBadRequest))
		})
	})

	Describe("POST /api/expenses", func() {
		It("normalizes manual entries", func() {
			body := `{"vendor": "Cafe X", "amount": 12.345, "date": "2024-02-30", "category": "Other", "notes": "team lunch"}`
			req := httptest.NewRequest("POST", "/api/expenses", strings.NewReader(body))
			server.ServeHTTP(recorder, req)

			Expect(recorder.Code).To(Equal(http.StatusCreated))
			record := decodeRecord()
			Expect(record.Amount).To(Equal(12.35))
			Expect(record.Date).NotTo(Equal("2024-02-30"))
			Expect(record.Notes).To(Equal("team lunch"))
			Expect(record.ImageRef).To(BeEmpty())
		})
	})

	Describe("GET /api/expenses", func() {
		BeforeEach(func() {
			for _, date := range []string{"2024-06-09", "2024-06-12", "2024-06-15"} {
				_, err := store.Add(draftRecord("Vendor "+date, date, 10))
				Expect(err).NotTo(HaveOccurred())
			}
		})

		It("lists all records newest first", func() {
			req := httptest.NewRequest("GET", "/api/expenses", nil)
			server.ServeHTTP(recorder, req)

			Expect(recorder.Code).To(Equal(http.StatusOK))
			var records []Record
			Expect(json.NewDecoder(recorder.Body).Decode(&records)).To(Succeed())
			Expect(records).To(HaveLen(3))
			Expect(records[0].Date).To(Equal("2024-06-15"))
		})

		It("filters by inclusive date range", func() {
			req := httptest.NewRequest("GET", "/api/expenses?start=2024-06-10&end=2024-06-15", nil)
			server.ServeHTTP(recorder, req)

			Expect(recorder.Code).To(Equal(http.StatusOK))
			var records []Record
			Expect(json.NewDecoder(recorder.Body).Decode(&records)).To(Succeed())
			Expect(records).To(HaveLen(2))
		})

		It("rejects a half-open range", func() {
			req := httptest.NewRequest("GET", "/api/expenses?start=2024-06-10", nil)
			server.ServeHTTP(recorder, req)

			Expect(recorder.Code).To(Equal(http.StatusBadRequest))
		})
	})

	Describe("record routes", func() {
		var existing Record

		BeforeEach(func() {
			var err error
			existing, err = store.Add(draftRecord("Cafe X", "2024-06-14", 12.35))
			Expect(err).NotTo(HaveOccurred())
		})

		It("gets a record by id", func() {
			req := httptest.NewRequest("GET", "/api/expenses/"+existing.ID, nil)
			server.ServeHTTP(recorder, req)

			Expect(recorder.Code).To(Equal(http.StatusOK))
			Expect(decodeRecord().ID).To(Equal(existing.ID))
		})

		It("returns 404 for an unknown id", func() {
			req := httptest.NewRequest("GET", "/api/expenses/no-such-id", nil)
			server.ServeHTTP(recorder, req)

			Expect(recorder.Code).To(Equal(http.StatusNotFound))
		})

		It("patches a record", func() {
			req := httptest.NewRequest("PATCH", "/api/expenses/"+existing.ID, strings.NewReader(`{"vendor": "Cafe Y"}`))
			server.ServeHTTP(recorder, req)

			Expect(recorder.Code).To(Equal(http.StatusOK))
			record := decodeRecord()
			Expect(record.Vendor).To(Equal("Cafe Y"))
			Expect(record.Amount).To(Equal(12.35))
		})

		It("returns 404 when patching an unknown id", func() {
			req := httptest.NewRequest("PATCH", "/api/expenses/no-such-id", strings.NewReader(`{"vendor": "Cafe Y"}`))
			server.ServeHTTP(recorder, req)

			Expect(recorder.Code).To(Equal(http.StatusNotFound))
		})

		It("deletes a record", func() {
			req := httptest.NewRequest("DELETE", "/api/expenses/"+existing.ID, nil)
			server.ServeHTTP(recorder, req)

			Expect(recorder.Code).To(Equal(http.StatusNoContent))
			Expect(store.List()).To(BeEmpty())
		})

		It("clears the collection", func() {
			req := httptest.NewRequest("DELETE", "/api/expenses", nil)
			server.ServeHTTP(recorder, req)

			Expect(recorder.Code).To(Equal(http.StatusNoContent))
			Expect(store.List()).To(BeEmpty())
		})
	})

	Describe("authentication", func() {
		BeforeEach(func() {
			storage, err := NewLocalStorage(GinkgoT().TempDir())
			Expect(err).NotTo(HaveOccurred())
			server = NewServer(service, storage, BasicAuth{Username: "user", Password: "pass"})
		})

		It("rejects requests without credentials", func() {
			req := httptest.NewRequest("GET", "/api/expenses", nil)
			server.ServeHTTP(recorder, req)

			Expect(recorder.Code).To(Equal(http.StatusUnauthorized))
		})

		It("accepts valid credentials", func() {
			req := httptest.NewRequest("GET", "/api/expenses", nil)
			req.SetBasicAuth("user", "pass")
			server.ServeHTTP(recorder, req)

			Expect(recorder.Code).To(Equal(http.StatusOK))
		})

		It("rejects wrong credentials", func() {
			req := httptest.NewRequest("GET", "/api/expenses", nil)
			req.SetBasicAuth("user", "wrong")
			server.ServeHTTP(recorder, req)

			Expect(recorder.Code).To(Equal(http.StatusUnauthorized))
		})
	})
})
