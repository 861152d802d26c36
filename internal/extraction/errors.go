package extraction

import "fmt"

// ConfigurationError means no usable credential could be resolved. It is
// fatal: no extraction call can be attempted and no fallback applies.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("extraction configuration: %s", e.Reason)
}

// AccessError means an image reference could not be read or prepared for
// transmission. Recoverable: the pipeline substitutes a synthesized record.
type AccessError struct {
	Ref string
	Err error
}

func (e *AccessError) Error() string {
	return fmt.Sprintf("accessing %q: %v", e.Ref, e.Err)
}

func (e *AccessError) Unwrap() error { return e.Err }

// ServiceError means the recognition service could not be reached or
// answered with a non-success status. Recoverable.
type ServiceError struct {
	Err error
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("recognition service: %v", e.Err)
}

func (e *ServiceError) Unwrap() error { return e.Err }

// FormatError means the service answered but the answer could not be
// turned into a candidate record. Recoverable.
type FormatError struct {
	Reason string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("recognition response: %s", e.Reason)
}
