package dto

// Pagination is the pagination block returned with list responses.
type Pagination struct {
	Total  int64 `json:"total"`
	Limit  int   `json:"limit"`
	Offset int   `json:"offset"`
}

// APIResponse is the uniform response envelope for all endpoints.
type APIResponse struct {
	Success    bool        `json:"success"`
	Data       interface{} `json:"data,omitempty"`
	Message    string      `json:"message,omitempty"`
	Pagination *Pagination `json:"pagination,omitempty"`
}

// NewSuccessResponse wraps data in a success envelope.
func NewSuccessResponse(data interface{}) APIResponse {
	return APIResponse{
		Success: true,
		Data:    data,
	}
}

// NewSuccessMessageResponse wraps data plus a human-readable message.
func NewSuccessMessageResponse(data interface{}, message string) APIResponse {
	return APIResponse{
		Success: true,
		Data:    data,
		Message: message,
	}
}

// NewPagedResponse wraps a list payload with its pagination block.
func NewPagedResponse(data interface{}, pagination *Pagination) APIResponse {
	return APIResponse{
		Success:    true,
		Data:       data,
		Pagination: pagination,
	}
}

// NewErrorResponse builds the failure envelope.
func NewErrorResponse(message string) APIResponse {
	return APIResponse{
		Success: false,
		Message: message,
	}
}
