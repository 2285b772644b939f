// Package api provides the chat completion client.
package api

// Endpoint paths relative to the configured base URL.
const (
	PathChatCompletions = "/chat/completions"
)

// GJSON paths for inspecting chat completion request bodies.
const (
	PathReqModel        = "model"
	PathReqMessageCount = "messages.#"
	PathReqRoles        = "messages.#.role"
)
