package expense

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"time"

	"snapledger/internal/extraction"
)

// corsError writes an error response with CORS headers set.
func corsError(w http.ResponseWriter, message string, code int) {
	setCORSHeaders(w)
	http.Error(w, message, code)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Error encoding response", "error", err)
	}
}

// handleScan runs the pipeline on an image reference the client already
// holds (a server-local path or a remote URL).
func (s *Server) handleScan(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ImageRef string `json:"image_ref"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ImageRef == "" {
		corsError(w, "image_ref is required", http.StatusBadRequest)
		return
	}

	record, err := s.service.ProduceRecord(r.Context(), req.ImageRef)
	if err != nil {
		slog.Error("Error storing scanned record", "image_ref", req.ImageRef, "error", err)
		corsError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, record)
}

// handleUpload accepts a multipart document upload, stores the original,
// and runs the pipeline on the stored path.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	// 50MB covers high-resolution phone photos
	maxFormSize := int64(50 << 20)
	if err := r.ParseMultipartForm(maxFormSize); err != nil {
		slog.Error("Error parsing multipart form", "error", err)
		corsError(w, "Error parsing form", http.StatusBadRequest)
		return
	}

	f, header, err := r.FormFile("file")
	if err != nil {
		corsError(w, "No file provided", http.StatusBadRequest)
		return
	}
	defer f.Close()

	if header.Size > maxFormSize {
		corsError(w, "File is too large. Maximum size is 50MB.", http.StatusBadRequest)
		return
	}

	data, err := io.ReadAll(f)
	if err != nil {
		slog.Error("Error reading upload", "filename", header.Filename, "error", err)
		corsError(w, "Error reading file", http.StatusInternalServerError)
		return
	}

	filename := fmt.Sprintf("%d_%s", time.Now().UnixNano(), filepath.Base(header.Filename))
	path, err := s.storage.Save(filename, data)
	if err != nil {
		slog.Error("Error saving upload", "filename", header.Filename, "error", err)
		corsError(w, "Error saving file", http.StatusInternalServerError)
		return
	}

	record, err := s.service.ProduceRecord(r.Context(), path)
	if err != nil {
		slog.Error("Error storing scanned record", "image_ref", path, "error", err)
		s.storage.Remove(path)
		corsError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, record)
}

// handleCreateExpense creates a record from direct manual entry. The input
// still passes through the normalizer so manual records honor the same
// field invariants as scanned ones.
func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ImageRef string  `json:"image_ref"`
		Vendor   string  `json:"vendor"`
		Amount   float64 `json:"amount"`
		Date     string  `json:"date"`
		Category string  `json:"category"`
		Notes    string  `json:"notes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		corsError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	candidate := &extraction.Candidate{
		Vendor:   req.Vendor,
		Amount:   req.Amount,
		Date:     req.Date,
		Category: req.Category,
	}
	draft := Normalize(candidate, req.ImageRef, time.Now())
	draft.Notes = req.Notes

	record, err := s.service.Store().Add(draft)
	if err != nil {
		slog.Error("Error storing manual record", "error", err)
		corsError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, record)
}

// handleListExpenses lists records, optionally filtered by an inclusive
// transaction-date range (?start=YYYY-MM-DD&end=YYYY-MM-DD).
func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	store := s.service.Store()

	start := r.URL.Query().Get("start")
	end := r.URL.Query().Get("end")

	var records []Record
	if start != "" || end != "" {
		if start == "" || end == "" {
			corsError(w, "start and end must be supplied together", http.StatusBadRequest)
			return
		}
		records = store.QueryByDateRange(start, end)
	} else {
		records = store.List()
	}

	writeJSON(w, http.StatusOK, records)
}

// handleGetExpense returns a single record by ID.
func (s *Server) handleGetExpense(w http.ResponseWriter, r *http.Request) {
	record, ok := s.service.Store().GetByID(r.PathValue("id"))
	if !ok {
		corsError(w, "Expense not found", http.StatusNotFound)
		return
	}

	writeJSON(w, http.StatusOK, record)
}

// handleUpdateExpense applies a partial update to a record.
func (s *Server) handleUpdateExpense(w http.ResponseWriter, r *http.Request) {
	var patch Patch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		corsError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	record, err := s.service.Store().Update(r.PathValue("id"), patch)
	if err != nil {
		slog.Error("Error updating record", "id", r.PathValue("id"), "error", err)
		corsError(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	if record == nil {
		corsError(w, "Expense not found", http.StatusNotFound)
		return
	}

	writeJSON(w, http.StatusOK, record)
}

// handleDeleteExpense removes a record by ID.
func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	if record, ok := s.service.Store().GetByID(id); ok && record.ImageRef != "" {
		// Best effort; the stored original may live outside our storage dir.
		if err := s.storage.Remove(record.ImageRef); err != nil {
			slog.Warn("Failed to delete stored image", "image_ref", record.ImageRef, "error", err)
		}
	}

	if err := s.service.Store().Delete(id); err != nil {
		slog.Error("Error deleting record", "id", id, "error", err)
		corsError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	setCORSHeaders(w)
	w.WriteHeader(http.StatusNoContent)
}

// handleClearExpenses empties the collection.
func (s *Server) handleClearExpenses(w http.ResponseWriter, r *http.Request) {
	if err := s.service.Store().ClearAll(); err != nil {
		slog.Error("Error clearing records", "error", err)
		corsError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	setCORSHeaders(w)
	w.WriteHeader(http.StatusNoContent)
}
