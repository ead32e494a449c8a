package main

import "github.com/classroom-labs/coursechat-cli/internal/adapters/driving/cli"

func main() {
	cli.Execute()
}
