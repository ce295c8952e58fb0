package main

import "github.com/freeway-sim/freeway-sim/cmd"

func main() {
	cmd.Execute()
}
