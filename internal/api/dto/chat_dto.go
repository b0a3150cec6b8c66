package dto

// QuestionRequest payload for the chat-bot ask endpoint.
type QuestionRequest struct {
	Message string `json:"message" validate:"required"`
}
