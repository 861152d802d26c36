package extraction

import (
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"
)

// Payload is the transmittable form of an image reference. Embedded
// payloads carry PNG bytes; by-reference payloads carry only the URL, since
// the recognition service cannot dereference arbitrary URLs.
type Payload struct {
	Ref         string
	MIME        string
	Data        []byte
	ByReference bool
}

// ByteResolver resolves an image reference into raw bytes plus a MIME type
// hint. Platform-specific acquisition strategies implement this; the
// encoder depends only on the interface.
type ByteResolver interface {
	ResolveBytes(ref string) ([]byte, string, error)
}

// FileResolver reads image references from the local filesystem.
type FileResolver struct{}

// ResolveBytes reads the file at ref. A missing or unreadable file is an
// *AccessError, not a crash.
func (FileResolver) ResolveBytes(ref string) ([]byte, string, error) {
	if _, err := os.Stat(ref); err != nil {
		return nil, "", &AccessError{Ref: ref, Err: err}
	}

	data, err := os.ReadFile(ref)
	if err != nil {
		return nil, "", &AccessError{Ref: ref, Err: err}
	}

	return data, mime.TypeByExtension(strings.ToLower(filepath.Ext(ref))), nil
}

// Encoder turns an image reference into a transmittable payload.
type Encoder struct {
	resolver ByteResolver
}

// NewEncoder creates an Encoder backed by the local filesystem.
func NewEncoder() *Encoder {
	return NewEncoderWithResolver(FileResolver{})
}

// NewEncoderWithResolver creates an Encoder with a custom byte resolver.
func NewEncoderWithResolver(resolver ByteResolver) *Encoder {
	return &Encoder{resolver: resolver}
}

// Encode produces a payload for imageRef. Remote URLs pass through
// unencoded, tagged by-reference. Local files are read and normalized to
// PNG; any failure along the way is an *AccessError. Pure transformation,
// no other side effects.
func (e *Encoder) Encode(imageRef string) (*Payload, error) {
	if isRemoteRef(imageRef) {
		return &Payload{Ref: imageRef, ByReference: true}, nil
	}

	data, mimeType, err := e.resolver.ResolveBytes(imageRef)
	if err != nil {
		return nil, err
	}

	pngData, err := normalizeToPNG(data, mimeType)
	if err != nil {
		return nil, &AccessError{Ref: imageRef, Err: fmt.Errorf("preparing image: %w", err)}
	}

	return &Payload{Ref: imageRef, MIME: "image/png", Data: pngData}, nil
}

func isRemoteRef(ref string) bool {
	return strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://")
}
