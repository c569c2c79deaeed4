// Package errors provides custom error types for the autolex service.
// These errors enable programmatic error checking across the webhook
// handler, the reconciliation engine, and the API clients.
package errors

import (
	"errors"
	"fmt"
)

// New returns an error that formats as the given text.
// It's an alias for the standard library errors.New for convenience.
var New = errors.New

// Common sentinel errors for the autolex service
var (
	// ErrBadSignature indicates that a webhook body failed signature verification
	ErrBadSignature = errors.New("invalid webhook signature")

	// ErrMalformedPayload indicates that a payload could not be decoded
	ErrMalformedPayload = errors.New("malformed payload")

	// ErrNotCompany indicates that a lexoffice contact carries no company record
	ErrNotCompany = errors.New("contact is not a company")

	// ErrMissingJoinKey indicates that a company record carries no customer number
	ErrMissingJoinKey = errors.New("customer number missing")

	// ErrAmbiguousMatch indicates that a customer number matches more than one Autotask company
	ErrAmbiguousMatch = errors.New("ambiguous company match")

	// ErrUnavailable indicates that a remote API is temporarily unavailable
	ErrUnavailable = errors.New("service unavailable")
)

// MalformedPayloadError represents a payload that could not be decoded
type MalformedPayloadError struct {
	Source  string // "lexoffice" or "autotask"
	Message string
	Err     error
}

// Error implements the error interface
func (e *MalformedPayloadError) Error() string {
	if e.Source != "" {
		return fmt.Sprintf("malformed %s payload: %s", e.Source, e.Message)
	}
	return fmt.Sprintf("malformed payload: %s", e.Message)
}

// Unwrap implements errors.Unwrap
func (e *MalformedPayloadError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *MalformedPayloadError) Is(target error) bool {
	return target == ErrMalformedPayload
}

// NewMalformedPayloadError creates a new MalformedPayloadError
func NewMalformedPayloadError(source string, err error) *MalformedPayloadError {
	message := ""
	if err != nil {
		message = err.Error()
	}
	return &MalformedPayloadError{Source: source, Message: message, Err: err}
}

// MissingJoinKeyError represents a company record without a customer number
type MissingJoinKeyError struct {
	ContactID string
}

// Error implements the error interface
func (e *MissingJoinKeyError) Error() string {
	if e.ContactID != "" {
		return fmt.Sprintf("contact %s has no customer number", e.ContactID)
	}
	return "contact has no customer number"
}

// Is implements errors.Is support
func (e *MissingJoinKeyError) Is(target error) bool {
	return target == ErrMissingJoinKey
}

// NewMissingJoinKeyError creates a new MissingJoinKeyError
func NewMissingJoinKeyError(contactID string) *MissingJoinKeyError {
	return &MissingJoinKeyError{ContactID: contactID}
}

// AmbiguousMatchError represents a customer number that resolves to more
// than one Autotask company, which makes any write unsafe
type AmbiguousMatchError struct {
	CustomerNumber string
	CompanyIDs     []int64
}

// Error implements the error interface
func (e *AmbiguousMatchError) Error() string {
	return fmt.Sprintf("customer number %s matches %d Autotask companies (IDs: %v)", e.CustomerNumber, len(e.CompanyIDs), e.CompanyIDs)
}

// Is implements errors.Is support
func (e *AmbiguousMatchError) Is(target error) bool {
	return target == ErrAmbiguousMatch
}

// NewAmbiguousMatchError creates a new AmbiguousMatchError
func NewAmbiguousMatchError(customerNumber string, companyIDs []int64) *AmbiguousMatchError {
	return &AmbiguousMatchError{CustomerNumber: customerNumber, CompanyIDs: companyIDs}
}

// APIError represents an error response from a remote API
type APIError struct {
	Service    string // "lexoffice" or "autotask"
	StatusCode int
	Endpoint   string
	Message    string
	Err        error
}

// Error implements the error interface
func (e *APIError) Error() string {
	if e.Endpoint != "" {
		return fmt.Sprintf("%s API error (status %d) on %s: %s", e.Service, e.StatusCode, e.Endpoint, e.Message)
	}
	return fmt.Sprintf("%s API error (status %d): %s", e.Service, e.StatusCode, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *APIError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *APIError) Is(target error) bool {
	if e.StatusCode >= 500 {
		return target == ErrUnavailable
	}
	return false
}

// NewAPIError creates a new APIError
func NewAPIError(service string, statusCode int, endpoint, message string) *APIError {
	return &APIError{
		Service:    service,
		StatusCode: statusCode,
		Endpoint:   endpoint,
		Message:    message,
	}
}

// ConfigError represents a configuration error
type ConfigError struct {
	Field   string
	Message string
	Err     error
}

// Error implements the error interface
func (e *ConfigError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("configuration error: %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("configuration error: %s", e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ConfigError) Unwrap() error {
	return e.Err
}

// NewConfigError creates a new ConfigError
func NewConfigError(field, message string) *ConfigError {
	return &ConfigError{Field: field, Message: message}
}

// Helper functions for error checking

// IsNotCompany checks if an error indicates a non-company contact
func IsNotCompany(err error) bool {
	return errors.Is(err, ErrNotCompany)
}

// IsMalformedPayload checks if an error is a payload decoding error
func IsMalformedPayload(err error) bool {
	return errors.Is(err, ErrMalformedPayload)
}

// IsMissingJoinKey checks if an error indicates a missing customer number
func IsMissingJoinKey(err error) bool {
	return errors.Is(err, ErrMissingJoinKey)
}

// IsAmbiguousMatch checks if an error indicates an ambiguous company match
func IsAmbiguousMatch(err error) bool {
	return errors.Is(err, ErrAmbiguousMatch)
}

// IsBadSignature checks if an error is a signature verification error
func IsBadSignature(err error) bool {
	return errors.Is(err, ErrBadSignature)
}

// IsUnavailable checks if an error indicates remote unavailability
func IsUnavailable(err error) bool {
	return errors.Is(err, ErrUnavailable)
}

// Helper wrapping functions for common patterns

// WrapMalformedPayload wraps an error as a MalformedPayloadError
func WrapMalformedPayload(source string, err error) error {
	if err == nil {
		return nil
	}
	return NewMalformedPayloadError(source, err)
}

// WrapAPI wraps an error as an APIError
func WrapAPI(service, endpoint string, statusCode int, err error) error {
	if err == nil {
		return nil
	}
	return &APIError{
		Service:    service,
		StatusCode: statusCode,
		Endpoint:   endpoint,
		Message:    err.Error(),
		Err:        err,
	}
}
