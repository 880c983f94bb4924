package engine

import (
	"encoding/json"
	"fmt"
)

// ChangeStatus classifies the outcome of a change or rollback operation.
type ChangeStatus string

const (
	// StatusSuccess indicates the operation achieved the desired state.
	StatusSuccess ChangeStatus = "SUCCESS"

	// StatusFailed indicates the operation was attempted and did not
	// achieve the desired state. The result message carries the cause.
	StatusFailed ChangeStatus = "FAILED"

	// StatusWarn indicates a benign non-application, for example a
	// rollback with no backup to restore.
	StatusWarn ChangeStatus = "WARN"
)

// Validate checks if the change status is valid.
func (s ChangeStatus) Validate() error {
	switch s {
	case StatusSuccess, StatusFailed, StatusWarn:
		return nil
	default:
		return fmt.Errorf("invalid change status: %s", s)
	}
}

// MarshalJSON implements custom JSON marshaling for type-safe enum serialization.
func (s ChangeStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(s))
}

// UnmarshalJSON implements custom JSON unmarshaling with validation.
func (s *ChangeStatus) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	*s = ChangeStatus(str)
	return s.Validate()
}

// ChangeResult is the immutable outcome of a single change or rollback
// invocation. Every StateChanger operation produces one; it is never
// mutated after construction.
type ChangeResult struct {
	// Status is the three-way outcome classification.
	Status ChangeStatus `json:"status"`

	// Message is a human-readable detail for the outcome.
	Message string `json:"message"`
}

// Success builds a SUCCESS result with a formatted message.
func Success(format string, args ...interface{}) ChangeResult {
	return ChangeResult{Status: StatusSuccess, Message: fmt.Sprintf(format, args...)}
}

// Failed builds a FAILED result with a formatted message.
func Failed(format string, args ...interface{}) ChangeResult {
	return ChangeResult{Status: StatusFailed, Message: fmt.Sprintf(format, args...)}
}

// Warn builds a WARN result with a formatted message.
func Warn(format string, args ...interface{}) ChangeResult {
	return ChangeResult{Status: StatusWarn, Message: fmt.Sprintf(format, args...)}
}

// String renders the result as "[STATUS] message".
func (r ChangeResult) String() string {
	return fmt.Sprintf("[%s] %s", r.Status, r.Message)
}
