package parser

import (
	"fmt"
	"strings"
)

// Usage maps each command to its syntax.
var Usage = map[string]string{
	"assign":  "assign <leader> to <mission> [at <system>]",
	"pass":    "pass",
	"resolve": "resolve [n]",
	"move":    "move all|<unit>... from <system> to <system> [with <leader>]",
	"combat":  "combat <system>",
	"play":    "play <card> for <faction>",
	"round":   "round",
	"retreat": "retreat <faction>",
	"show":    "show status|systems|units <system>|leaders|missions|objectives|cards <faction>|combat|log",
	"restart": "restart",
	"help":    "help [command]",
	"quit":    "quit",
}

// Commands lists the command names in help order.
var Commands = []string{
	"assign", "pass", "resolve", "move", "combat", "play", "round", "retreat",
	"show", "restart", "help", "quit",
}

// MapError takes a raw input and a participle error, and returns a human-friendly guidance message.
func MapError(input string, err error) error {
	input = strings.TrimSpace(input)
	if input == "" {
		return fmt.Errorf("I wasn't able to understand your command")
	}

	cmd := strings.ToLower(strings.Fields(input)[0])
	if cmd == "exit" {
		cmd = "quit"
	}
	if usage, ok := Usage[cmd]; ok {
		return fmt.Errorf("The command %s must be: %s", cmd, usage)
	}
	return fmt.Errorf("I wasn't able to understand your command, try help")
}
