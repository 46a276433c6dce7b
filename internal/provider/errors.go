package provider

import "fmt"

// APIError is a non-retryable upstream response.
type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API failed with status %d: %s", e.Status, e.Body)
}

// ExhaustedError is returned when every attempt failed with a retryable
// error. Detail carries the last captured failure body or message.
type ExhaustedError struct {
	Attempts int
	Detail   string
}

func (e *ExhaustedError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("request failed after %d attempts", e.Attempts)
	}
	return e.Detail
}
