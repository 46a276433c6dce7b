package provider

// Outcome classification for a single call attempt. Keeping this a
// closed set keeps the backoff loop free of status-code conditionals.

type outcome interface{ callOutcome() }

// success carries the parsed response body.
type success struct {
	resp *generateResponse
}

// retryableFailure covers HTTP 429, 5xx and transport errors. transport
// marks errors that short-circuit on the final attempt instead of
// surfacing as ExhaustedError.
type retryableFailure struct {
	err       error
	detail    string
	transport bool
}

// fatalFailure covers every other HTTP status; no retry follows.
type fatalFailure struct {
	status int
	detail string
}

func (success) callOutcome()          {}
func (retryableFailure) callOutcome() {}
func (fatalFailure) callOutcome()     {}

type statusClass int

const (
	statusOK statusClass = iota
	statusRetryable
	statusFatal
)

// classifyStatus maps an HTTP status to its retry class: 2xx succeeds,
// 429 and 5xx are retryable, anything else is fatal.
func classifyStatus(status int) statusClass {
	switch {
	case status >= 200 && status < 300:
		return statusOK
	case status == 429 || status >= 500:
		return statusRetryable
	default:
		return statusFatal
	}
}
