package main

import "github.com/theirongolddev/sessmeter/cmd"

func main() {
	cmd.Execute()
}
