package chat

type PostMessageRequest struct {
	Content string `json:"content" binding:"required"`
}
