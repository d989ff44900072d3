package main

import "github.com/vendabot/vendabot/cmd"

func main() {
	cmd.Execute()
}
