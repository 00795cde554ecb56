package main

import "github.com/chazu/cellwfc/cmd"

func main() {
	cmd.Execute()
}
