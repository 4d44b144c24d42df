package main

import "github.com/nfrund/denote/cmd/denote/cmd"

func main() {
	cmd.Execute()
}
