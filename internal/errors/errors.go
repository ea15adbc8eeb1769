// Package errors provides custom error types for domain-specific errors.
package errors

import (
	"errors"
	"fmt"
)

// Standard sentinel errors
var (
	ErrNoPayload           = errors.New("agent response contained no payload")
	ErrUnparseableResponse = errors.New("unable to parse analysis results")
	ErrTransportFailed     = errors.New("agent call failed")
	ErrNotificationFailed  = errors.New("notification failed")
	ErrEmptyWatchlist      = errors.New("watchlist is empty")
	ErrAnalysisInProgress  = errors.New("an analysis run is already in progress")
	ErrDatabaseError       = errors.New("database error")
	ErrConfigInvalid       = errors.New("invalid configuration")
	ErrHistoryItemNotFound = errors.New("history item not found")
	ErrRecipientRequired   = errors.New("recipient email is required")
)

// FallbackTransportMessage is shown when a transport failure carries no
// message text of its own.
const FallbackTransportMessage = "Analysis failed. Please try again."

// AgentError represents a failure of a remote agent call.
type AgentError struct {
	AgentID string
	Message string
	Err     error
}

func (e *AgentError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("agent error [%s]: %s: %v", e.AgentID, e.Message, e.Err)
	}
	return fmt.Sprintf("agent error [%s]: %s", e.AgentID, e.Message)
}

func (e *AgentError) Unwrap() error {
	return e.Err
}

// UserMessage returns the text to surface to the user, falling back to a
// generic string when the transport supplied none.
func (e *AgentError) UserMessage() string {
	if e.Message != "" {
		return e.Message
	}
	return FallbackTransportMessage
}

// NewAgentError creates a new AgentError.
func NewAgentError(agentID, message string, err error) *AgentError {
	return &AgentError{AgentID: agentID, Message: message, Err: err}
}

// NotificationError represents a logical failure reported by the
// notification agent: the transport succeeded but the alert was not sent.
// Distinct from a transport failure and surfaced per ticker. It never
// affects the history ledger.
type NotificationError struct {
	Ticker    string
	Recipient string
	Reason    string
}

func (e *NotificationError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("notification error [%s -> %s]: %s", e.Ticker, e.Recipient, e.Reason)
	}
	return fmt.Sprintf("notification error [%s -> %s]: failed to send email", e.Ticker, e.Recipient)
}

func (e *NotificationError) Unwrap() error {
	return ErrNotificationFailed
}

// NewNotificationError creates a new NotificationError.
func NewNotificationError(ticker, recipient, reason string) *NotificationError {
	return &NotificationError{Ticker: ticker, Recipient: recipient, Reason: reason}
}

// Is reports whether err matches target, following wrapped errors.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
