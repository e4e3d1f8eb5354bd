package main

import "github.com/getstack/getstack-mcp/cmd"

func main() {
	cmd.Execute()
}
