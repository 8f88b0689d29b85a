package fetcher

import "fmt"

// TransportError is returned when the HTTP round trip itself failed
// (DNS, connection refused, timeout, cancelled context).
type TransportError struct {
	URL string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport error fetching %s: %v", e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// APIError is returned for responses with a status in [400, 599]
type APIError struct {
	URL        string
	StatusCode int
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error fetching %s: status %d", e.URL, e.StatusCode)
}

// DecodeError is returned when the body is not JSON of the expected shape
type DecodeError struct {
	URL string
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("failed to decode response from %s: %v", e.URL, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }
