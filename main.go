package main

import "github.com/npow/galactic-uprising/cmd"

func main() {
	cmd.Execute()
}
