package main

import "github.com/robaho/memglass/cmd"

func main() {
	cmd.Execute()
}
