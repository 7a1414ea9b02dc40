package main

import "github.com/pageforge/pageforge/cmd"

func main() {
	cmd.Execute()
}
