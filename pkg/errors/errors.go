package errors

import (
	stderrors "errors"
	"fmt"
	"time"
)

// ErrorType represents the stage of the pipeline an error belongs to
type ErrorType string

const (
	// ErrorTypeExtraction represents render/network/timeout failures; fatal to the run
	ErrorTypeExtraction ErrorType = "extraction"
	// ErrorTypeStoreCorrupt represents an unreadable seen-set; non-fatal, treated as empty baseline
	ErrorTypeStoreCorrupt ErrorType = "store_corrupt"
	// ErrorTypeDelivery represents notification transport failures
	ErrorTypeDelivery ErrorType = "delivery"
	// ErrorTypePersistence represents durable write failures; fatal to the run
	ErrorTypePersistence ErrorType = "persistence"
	// ErrorTypeRateLimit represents a fetch cooldown still in effect
	ErrorTypeRateLimit ErrorType = "rate_limit"
	// ErrorTypeConfiguration represents configuration errors
	ErrorTypeConfiguration ErrorType = "configuration"
)

// WatchError represents a pipeline-stage error
type WatchError struct {
	Type    ErrorType
	Message string
	Err     error
	Time    time.Time
}

// Error implements the error interface
func (e *WatchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap returns the underlying error
func (e *WatchError) Unwrap() error {
	return e.Err
}

// New creates a new WatchError
func New(errType ErrorType, message string, err error) *WatchError {
	return &WatchError{
		Type:    errType,
		Message: message,
		Err:     err,
		Time:    time.Now(),
	}
}

// NewExtraction creates a new extraction error
func NewExtraction(message string, err error) *WatchError {
	return New(ErrorTypeExtraction, message, err)
}

// NewStoreCorrupt creates a new corrupt-store warning
func NewStoreCorrupt(message string, err error) *WatchError {
	return New(ErrorTypeStoreCorrupt, message, err)
}

// NewDelivery creates a new delivery error
func NewDelivery(message string, err error) *WatchError {
	return New(ErrorTypeDelivery, message, err)
}

// NewPersistence creates a new persistence error
func NewPersistence(message string, err error) *WatchError {
	return New(ErrorTypePersistence, message, err)
}

// NewRateLimit creates a new rate limit error
func NewRateLimit(duration time.Duration) *WatchError {
	return New(ErrorTypeRateLimit, fmt.Sprintf("fetch blocked for %v", duration), nil)
}

// NewConfiguration creates a new configuration error
func NewConfiguration(message string, err error) *WatchError {
	return New(ErrorTypeConfiguration, message, err)
}

// IsType reports whether err is a WatchError of the given type
func IsType(err error, errType ErrorType) bool {
	var we *WatchError
	if stderrors.As(err, &we) {
		return we.Type == errType
	}
	return false
}
