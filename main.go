package main

import "clip-trimmer/cmd"

func main() {
	cmd.Execute()
}
