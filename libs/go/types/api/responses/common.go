package responses

// Envelope wraps every successful response body
type Envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data"`
}

// ErrorResponse represents a standard error response
type ErrorResponse struct {
	Success       bool        `json:"success"`
	Error         ErrorDetail `json:"error"`
	CorrelationID string      `json:"correlation_id,omitempty"`
}

// ErrorDetail carries the machine-readable code alongside the message
type ErrorDetail struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// HealthResponse is returned by the liveness endpoints
type HealthResponse struct {
	Status    string `json:"status"`
	Service   string `json:"service"`
	Version   string `json:"version"`
	Timestamp string `json:"timestamp"`
}
