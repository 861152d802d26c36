package expense

import (
	"context"
	"log/slog"

	"snapledger/internal/extraction"
)

// Service runs the degradation pipeline: encode the image reference, ask
// the recognition service for a candidate, and fall back to a synthesized
// candidate on any recoverable failure. The result always passes through
// the normalizer before landing in the store.
type Service struct {
	store      *Store
	encoder    *extraction.Encoder
	extractor  extraction.Extractor
	synth      *extraction.Synthesizer
	timeSource TimeSource
}

// NewService creates a Service with the default synthesizer and clock.
func NewService(store *Store, encoder *extraction.Encoder, extractor extraction.Extractor) *Service {
	return NewServiceWithDeps(store, encoder, extractor, extraction.NewSynthesizer(), systemTimeSource{})
}

// NewServiceWithDeps creates a Service with custom dependencies for testing.
func NewServiceWithDeps(store *Store, encoder *extraction.Encoder, extractor extraction.Extractor, synth *extraction.Synthesizer, timeSource TimeSource) *Service {
	return &Service{
		store:      store,
		encoder:    encoder,
		extractor:  extractor,
		synth:      synth,
		timeSource: timeSource,
	}
}

// Store returns the underlying record store.
func (s *Service) Store() *Store {
	return s.store
}

// ProduceRecord turns an image reference into a stored expense record. It
// never fails on recognition problems; the only returned error is a store
// persistence failure, which callers should surface rather than swallow.
// Concurrent invocations are independent; duplicate adds from user retries
// are acceptable and user-correctable.
func (s *Service) ProduceRecord(ctx context.Context, imageRef string) (Record, error) {
	candidate := s.acquireCandidate(ctx, imageRef)
	draft := Normalize(candidate, imageRef, s.timeSource.Now())
	return s.store.Add(draft)
}

// acquireCandidate runs encoder and extractor, substituting the synthesizer
// on any recoverable failure. It never fails.
func (s *Service) acquireCandidate(ctx context.Context, imageRef string) *extraction.Candidate {
	now := s.timeSource.Now()

	payload, err := s.encoder.Encode(imageRef)
	if err != nil {
		slog.Warn("Payload encoding failed, synthesizing record",
			"image_ref", imageRef,
			"error", err,
		)
		return s.synth.Synthesize(imageRef, now)
	}

	// The recognition service only accepts embedded bytes, so a remote URL
	// goes straight to the synthesizer. Deliberate routing, not an error.
	if payload.ByReference {
		slog.Info("By-reference payload, synthesizing record", "image_ref", imageRef)
		return s.synth.Synthesize(imageRef, now)
	}

	candidate, err := s.extractor.Extract(ctx, payload)
	if err != nil {
		slog.Warn("Extraction failed, synthesizing record",
			"image_ref", imageRef,
			"error", err,
		)
		return s.synth.Synthesize(imageRef, now)
	}

	return candidate
}
