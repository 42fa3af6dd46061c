package response

import "github.com/farxc/productivity-dashboard/internal/dashboard/types"

type APIResponse[T any] struct {
	Success  bool            `json:"success"`
	Message  string          `json:"message,omitempty"`
	Messages []types.Message `json:"messages,omitempty"`
	Data     T               `json:"data,omitempty"`
}

type ErrorResponse struct {
	Error    string          `json:"error"`
	Messages []types.Message `json:"messages,omitempty"`
}
