package main

import "github.com/descry-dev/descry/cmd"

func main() {
	cmd.Execute()
}
