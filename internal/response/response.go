// Package response holds the result envelope every repository adapter
// returns: a tagged success/error union in a single-item and a list shape.
// Services below the adapters never produce envelopes; transports above
// them only read the status class.
package response

import (
	"encoding/json"
	"net/http"
)

type Status string

const (
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// Reason classifies the error variant. Only adapters assign reasons.
type Reason string

const (
	ReasonValidation     Reason = "validation_error"
	ReasonDuplicateEmail Reason = "duplicate_email"
	ReasonAuthFailed     Reason = "authentication_failed"
	ReasonNotFound       Reason = "not_found"
	ReasonPersistence    Reason = "persistence_failure"
	// ReasonCapacityLimit is produced only when the bounded capacity policy
	// is active and an increment would exceed max_capacity.
	ReasonCapacityLimit Reason = "capacity_limit"
)

// Result is the single-item envelope. The zero value is not meaningful;
// construct through OK / Err.
type Result[T any] struct {
	status  Status
	data    *T
	message string
	reason  Reason
}

func OK[T any](data T, message string) Result[T] {
	return Result[T]{status: StatusSuccess, data: &data, message: message}
}

func Err[T any](reason Reason, message string) Result[T] {
	return Result[T]{status: StatusError, reason: reason, message: message}
}

func (r Result[T]) IsSuccess() bool { return r.status == StatusSuccess }
func (r Result[T]) Message() string { return r.message }
func (r Result[T]) Reason() Reason  { return r.reason }

// Data returns the payload; ok is false for the error variant.
func (r Result[T]) Data() (T, bool) {
	if r.data == nil {
		var zero T
		return zero, false
	}
	return *r.data, true
}

// StatusCode maps the status class onto HTTP: OK or ClientError. No other
// classes exist in this core.
func (r Result[T]) StatusCode() int {
	if r.status == StatusSuccess {
		return http.StatusOK
	}
	return http.StatusBadRequest
}

func (r Result[T]) MarshalJSON() ([]byte, error) {
	if r.status == StatusSuccess {
		return json.Marshal(successBody[*T]{Status: r.status, Data: r.data, Message: r.message})
	}
	return json.Marshal(errorBody{Status: r.status, Reason: r.reason, Message: r.message})
}

// ListResult is the list envelope. Success data is a possibly empty slice;
// adapters classify empty results as errors per operation policy before
// constructing the envelope.
type ListResult[T any] struct {
	status  Status
	data    []T
	message string
	reason  Reason
}

func OKList[T any](data []T, message string) ListResult[T] {
	return ListResult[T]{status: StatusSuccess, data: data, message: message}
}

func ErrList[T any](reason Reason, message string) ListResult[T] {
	return ListResult[T]{status: StatusError, reason: reason, message: message}
}

func (r ListResult[T]) IsSuccess() bool { return r.status == StatusSuccess }
func (r ListResult[T]) Message() string { return r.message }
func (r ListResult[T]) Reason() Reason  { return r.reason }
func (r ListResult[T]) Data() []T       { return r.data }

func (r ListResult[T]) StatusCode() int {
	if r.status == StatusSuccess {
		return http.StatusOK
	}
	return http.StatusBadRequest
}

func (r ListResult[T]) MarshalJSON() ([]byte, error) {
	if r.status == StatusSuccess {
		return json.Marshal(successBody[[]T]{Status: r.status, Data: r.data, Message: r.message})
	}
	return json.Marshal(errorBody{Status: r.status, Reason: r.reason, Message: r.message})
}

type successBody[T any] struct {
	Status  Status `json:"status"`
	Data    T      `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

type errorBody struct {
	Status  Status `json:"status"`
	Reason  Reason `json:"reason,omitempty"`
	Message string `json:"message,omitempty"`
}
