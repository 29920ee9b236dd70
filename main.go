package main

import "github.com/keycontent/keycontent/cmd"

func main() {
	cmd.Execute()
}
