package httpdto

import "net/http"

type Response[T any] struct {
	Success bool   `json:"success"`
	Data    T      `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	Code    string `json:"code,omitempty"`
}

func NewSuccessResponse[T any](data T) Response[T] {
	return Response[T]{
		Success: true,
		Data:    data,
	}
}

func NewErrorResponse(err string, code string) Response[any] {
	return Response[any]{
		Success: false,
		Error:   err,
		Code:    code,
	}
}

// NewStatusErrorResponse builds the error envelope with the message and code
// clients expect for a given status.
func NewStatusErrorResponse(status int) Response[any] {
	switch status {
	case http.StatusBadRequest:
		return NewErrorResponse("invalid request", "INVALID_REQUEST")
	case http.StatusUnauthorized:
		return NewErrorResponse("unauthorized", "UNAUTHORIZED")
	case http.StatusForbidden:
		return NewErrorResponse("forbidden", "FORBIDDEN")
	case http.StatusNotFound:
		return NewErrorResponse("not found", "NOT_FOUND")
	case http.StatusRequestEntityTooLarge:
		return NewErrorResponse("payload too large", "TOO_LARGE")
	default:
		return NewErrorResponse("Internal server error", "INTERNAL_ERROR")
	}
}
