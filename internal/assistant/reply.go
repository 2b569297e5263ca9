package assistant

import "yai-assistant/internal/client"

const (
	msgNoReply            = "YAI could not generate a reply."
	msgBackendUnreachable = "Error talking to YAI backend. Please try again."
	errorPrefix           = "Error: "
)

// foldReply turns a chat envelope into the assistant message text.
func foldReply(env client.Envelope) string {
	if reply, ok := env.Field("reply"); ok {
		return reply
	}
	if msg, ok := env.Field("error"); ok {
		return errorPrefix + msg
	}
	return msgNoReply
}
