package handlers

// ErrorResponse represents a JSON error payload.
type ErrorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// MessageResponse represents a simple JSON message payload.
type MessageResponse struct {
	Message string `json:"message"`
}
