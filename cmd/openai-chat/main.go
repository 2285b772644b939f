// Command openai-chat is a terminal chat client for OpenAI compatible
// chat completion endpoints.
package main

import "github.com/thedracle/openai-chat/internal/commands"

func main() {
	commands.Execute()
}
