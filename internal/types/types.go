package types

// Turn is one message of a conversation as the provider sees it.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

type ChatRequest struct {
	Messages []Turn `json:"messages"`
}

type ChatResponse struct {
	Reply string `json:"reply"`
}

type ImageRequest struct {
	Prompt string `json:"prompt"`
}

type ImageResponse struct {
	URL string `json:"url"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type HealthResponse struct {
	Status string `json:"status"`
}
