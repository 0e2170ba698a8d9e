package main

import "github.com/ecrypto/chatclient/internal/commands"

func main() {
	commands.Execute()
}
