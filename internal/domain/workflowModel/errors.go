package workflowModel

import (
	"errors"
	"fmt"
)

type ErrorType string

const (
	ErrorTypeConfiguration ErrorType = "configuration"
	ErrorTypeExtraction    ErrorType = "extraction"
	ErrorTypeGeneration    ErrorType = "generation"
	ErrorTypeImage         ErrorType = "image"
)

// PipelineError is the single error type every stage boundary returns.
type PipelineError struct {
	Type    ErrorType
	Message string
	Err     error
}

func (e *PipelineError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s error: %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s error: %s", e.Type, e.Message)
}

func (e *PipelineError) Unwrap() error {
	return e.Err
}

// Retryable is false only for missing credentials; nothing changes until redeploy.
func (e *PipelineError) Retryable() bool {
	return e.Type != ErrorTypeConfiguration
}

func NewConfigurationError(message string, err error) *PipelineError {
	return &PipelineError{Type: ErrorTypeConfiguration, Message: message, Err: err}
}

func NewExtractionError(message string, err error) *PipelineError {
	return &PipelineError{Type: ErrorTypeExtraction, Message: message, Err: err}
}

func NewGenerationError(message string, err error) *PipelineError {
	return &PipelineError{Type: ErrorTypeGeneration, Message: message, Err: err}
}

func NewImageError(message string, err error) *PipelineError {
	return &PipelineError{Type: ErrorTypeImage, Message: message, Err: err}
}

func isType(err error, t ErrorType) bool {
	var pe *PipelineError
	return errors.As(err, &pe) && pe.Type == t
}

func IsConfigurationError(err error) bool { return isType(err, ErrorTypeConfiguration) }
func IsExtractionError(err error) bool    { return isType(err, ErrorTypeExtraction) }
func IsGenerationError(err error) bool    { return isType(err, ErrorTypeGeneration) }
func IsImageError(err error) bool         { return isType(err, ErrorTypeImage) }

// UserMessage is the human readable text shown in ProgressState.ErrorMessage.
func UserMessage(err error) string {
	var pe *PipelineError
	if errors.As(err, &pe) {
		return pe.Message
	}
	if err == nil {
		return ""
	}
	return err.Error()
}

var (
	ErrSessionNotFound  = errors.New("session not found")
	ErrNoDocument       = errors.New("no document loaded")
	ErrNoArtifact       = errors.New("workflow has not produced an artifact yet")
	ErrNoQuestions      = errors.New("no parsed questions available")
	ErrQuestionNotFound = errors.New("question not found")
	ErrStaleResult      = errors.New("result discarded: document or request changed while running")
)
