package main

import "github.com/KaramelBytes/fitsloom-cli/cmd"

func main() {
	cmd.Execute()
}
