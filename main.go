package main

import (
	"deskpilot/cmd"

	_ "deskpilot/internal/platform/darwin"
)

func main() {
	cmd.Execute()
}
