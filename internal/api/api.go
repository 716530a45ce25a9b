package api

const (
	MsgMissingFields = "Missing required fields: id, enabled, description"
	MsgFlagExists    = "Feature flag already exists"
	MsgFlagNotFound  = "Feature flag not found"
	MsgInvalidBody   = "Invalid request body"
	MsgInternalError = "An internal error occurred"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

func NewErrorResponse(message string) ErrorResponse {
	return ErrorResponse{Error: message}
}
