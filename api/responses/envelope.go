package responses

// Success wraps every 2xx JSON payload.
type Success struct {
	Data any `json:"data"`
}

// Failure wraps every error payload.
type Failure struct {
	Error ErrorBody `json:"error"`
}

type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
	// Stack carries the error chain of 5xx responses outside production.
	Stack []string `json:"stack,omitempty"`
}
