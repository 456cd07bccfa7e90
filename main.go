package main

import "github.com/velsec/sharescout/cmd"

func main() {
	cmd.Execute()
}
