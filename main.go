package main

import "biliblock/cmd"

func main() {
	cmd.Execute()
}
