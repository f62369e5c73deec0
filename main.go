package main

import "github.com/mascot-tools/buildgraph/cmd"

func main() {
	cmd.Execute()
}
