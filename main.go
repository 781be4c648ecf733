package main

import "github.com/notargets/femapping/cmd"

func main() {
	cmd.Execute()
}
