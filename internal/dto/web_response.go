package dto

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
)

// WebResponse is the envelope every endpoint responds with.
type WebResponse[T any] struct {
	Status Status              `json:"status"`
	Data   T                   `json:"data"`
	Errors map[string][]string `json:"errors,omitempty"` // Field validation messages
}

// Status describes the outcome. Code mirrors the HTTP status as a string.
type Status struct {
	Code        string `json:"code"`
	Description string `json:"description"`
	Details     string `json:"details,omitempty"`
}

// PageResponse is the data payload of a paginated listing.
type PageResponse[T any] struct {
	Items           []T   `json:"items"`
	PageNumber      int   `json:"pageNumber"`
	PageSize        int   `json:"pageSize"`
	TotalPages      int   `json:"totalPages"`
	TotalRecords    int64 `json:"totalRecords"`
	HasNextPage     bool  `json:"hasNextPage"`
	HasPreviousPage bool  `json:"hasPreviousPage"`
}

// NewStatus builds a Status for an HTTP status code.
func NewStatus(code int, description string) Status {
	return Status{Code: strconv.Itoa(code), Description: description}
}

// NewResponse wraps data in the envelope.
func NewResponse[T any](code int, description string, data T) WebResponse[T] {
	return WebResponse[T]{Status: NewStatus(code, description), Data: data}
}

// Success is NewResponse with 200 and the default description.
func Success[T any](data T) WebResponse[T] {
	return NewResponse(fiber.StatusOK, "Success", data)
}

// Failure is an envelope with null data.
func Failure(code int, description string) WebResponse[any] {
	return NewResponse[any](code, description, nil)
}

// NewPageResponse computes the pagination metadata for one page of items.
func NewPageResponse[T any](items []T, pageNumber, pageSize int, totalRecords int64) *PageResponse[T] {
	if items == nil {
		items = []T{}
	}

	var totalPages int64
	if pageSize > 0 {
		totalPages = totalRecords / int64(pageSize)
		if totalRecords%int64(pageSize) != 0 {
			totalPages++
		}
	}

	return &PageResponse[T]{
		Items:           items,
		PageNumber:      pageNumber,
		PageSize:        pageSize,
		TotalPages:      int(totalPages),
		TotalRecords:    totalRecords,
		HasNextPage:     int64(pageNumber) < totalPages,
		HasPreviousPage: pageNumber > 1,
	}
}
