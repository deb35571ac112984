package main

import "progbuild/go/progbuild/cmd"

func main() {
	cmd.Execute()
}
