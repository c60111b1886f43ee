package llm

import (
	"errors"
	"fmt"
)

// Code identifies a domain error kind. The set is closed; the api error
// boundary maps each code to exactly one HTTP status.
type Code string

const (
	CodeInvalidKey          Code = "INVALID_KEY"
	CodeModelNotSupported   Code = "MODEL_NOT_SUPPORTED"
	CodeProviderUnavailable Code = "PROVIDER_UNAVAILABLE"
	CodeRateLimit           Code = "RATE_LIMIT"
	CodeNotConfigured       Code = "LLM_NOT_CONFIGURED"
	CodeInvalidProvider     Code = "INVALID_PROVIDER"
	CodeValidation          Code = "VALIDATION"
)

// Error is a tagged domain error. Messages are safe to show to users; they
// never contain key material or raw upstream payloads.
type Error struct {
	Code    Code
	Message string
}

func (e *Error) Error() string { return e.Message }

// AsDomain unwraps err to an *Error if one is anywhere in the chain.
func AsDomain(err error) (*Error, bool) {
	var de *Error
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}

func ErrInvalidKey(message string) error {
	if message == "" {
		message = "Invalid API key"
	}
	return &Error{Code: CodeInvalidKey, Message: message}
}

func ErrModelNotSupported(model string, provider Provider) error {
	return &Error{
		Code:    CodeModelNotSupported,
		Message: fmt.Sprintf("Model %s is not supported by provider %s", model, provider),
	}
}

func ErrProviderUnavailable(provider Provider, message string) error {
	if message == "" {
		message = fmt.Sprintf("Provider %s is currently unavailable", provider)
	}
	return &Error{Code: CodeProviderUnavailable, Message: message}
}

func ErrRateLimit(message string) error {
	if message == "" {
		message = "Rate limit exceeded. Please try again later."
	}
	return &Error{Code: CodeRateLimit, Message: message}
}

func ErrNotConfigured() error {
	return &Error{
		Code:    CodeNotConfigured,
		Message: "LLM provider not configured. Please configure an AI provider first.",
	}
}

func ErrInvalidProvider(provider Provider) error {
	return &Error{
		Code:    CodeInvalidProvider,
		Message: fmt.Sprintf("Provider %s is not supported", provider),
	}
}

// Validationf builds a VALIDATION-tagged error for input-shape problems.
// Input problems travel the same error channel as the other domain errors
// instead of being recognized by message matching.
func Validationf(format string, args ...any) error {
	return &Error{Code: CodeValidation, Message: fmt.Sprintf(format, args...)}
}
