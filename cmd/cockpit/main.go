package main

import "github.com/agentcockpit/cockpit/internal/cli"

func main() {
	cli.Execute()
}
