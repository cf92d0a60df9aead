package models

// ErrorResponse - стандартная структура для ответа об ошибке в формате JSON.
type ErrorResponse struct {
	Message string `json:"message"`
}

// MessageResponse - ответ с текстовым сообщением (например, после сохранения прогресса).
type MessageResponse struct {
	Message string `json:"message"`
}
