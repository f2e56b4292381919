package api

type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

type ErrorResponse struct {
	Error   string  `json:"error"`
	Message string  `json:"message,omitempty"`
	Stack   *string `json:"stack,omitempty"`
}

type NotFoundResponse struct {
	Error string `json:"error"`
}
