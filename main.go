package main

import "github.com/hmans/threads/cmd"

func main() {
	cmd.Execute()
}
