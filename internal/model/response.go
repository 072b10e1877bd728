package model

import "time"

// APIResponse is the envelope every API endpoint answers with.
type APIResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	Data      any    `json:"data"`
	Timestamp int64  `json:"timestamp"`
}

func NewResponse(success bool, message string, data any) APIResponse {
	return APIResponse{
		Success:   success,
		Message:   message,
		Data:      data,
		Timestamp: time.Now().Unix(),
	}
}

type Meta struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

func NewMeta(page int, limit int, total int) Meta {
	totalPages := 0
	if limit > 0 {
		totalPages = (total + limit - 1) / limit
	}
	return Meta{Page: page, Limit: limit, Total: total, TotalPages: totalPages}
}

type Page[T any] struct {
	Items []T `json:"items"`
	Meta  Meta `json:"meta"`
}
