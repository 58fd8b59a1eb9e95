package http

// APIResponse represents standard API response.
type APIResponse struct {
	Status  int         `json:"status" example:"200"`
	Message string      `json:"message" example:"OK"`
	Data    interface{} `json:"data,omitempty"`
}

// APIResponse400Err represents 400 error response.
type APIResponse400Err struct {
	Status  int               `json:"status" example:"400"`
	Message string            `json:"message" example:"Bad Request"`
	Data    []ValidationError `json:"data,omitempty"`
}

// APIResponse503Err represents a response for data that is not available yet.
type APIResponse503Err struct {
	Status  int         `json:"status" example:"503"`
	Message string      `json:"message" example:"Service Unavailable"`
	Data    []*AppError `json:"data,omitempty"`
}

// ValidationError represents validation error detail.
type ValidationError struct {
	Code    string                 `json:"code,omitempty" example:"ERR_REQUIRED"`
	Field   string                 `json:"field,omitempty" example:"lang"`
	Message string                 `json:"message,omitempty" example:"lang is required"`
	Params  map[string]interface{} `json:"params,omitempty"`
}
