package view

// Response is the envelope every endpoint returns.
type Response struct {
	Success       bool           `json:"success"`
	Message       string         `json:"message"`
	Data          any            `json:"data"`
	Meta          *Meta          `json:"meta,omitempty"`
	ErrorMessages []ErrorMessage `json:"errorMessages,omitempty"`
}

type Meta struct {
	Page  int `json:"page,omitempty"`
	Limit int `json:"limit,omitempty"`
	Count int `json:"count"`
	Total int `json:"total,omitempty"`
}

type ErrorMessage struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

func OK(message string, data any) Response {
	return Response{Success: true, Message: message, Data: data}
}

func OKWithMeta(message string, data any, meta Meta) Response {
	return Response{Success: true, Message: message, Data: data, Meta: &meta}
}

func Fail(message, path string) Response {
	return Response{
		Success:       false,
		Message:       message,
		ErrorMessages: []ErrorMessage{{Path: path, Message: message}},
	}
}
