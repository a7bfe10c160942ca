package serverutils

type ErrorBody struct {
	Error string `json:"error"`
}

type SuccessBody struct {
	Success bool `json:"success"`
}

func ErrorResponse(message string) ErrorBody {
	return ErrorBody{Error: message}
}

func SuccessResponse() SuccessBody {
	return SuccessBody{Success: true}
}
