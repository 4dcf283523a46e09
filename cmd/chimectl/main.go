package main

import (
	"github.com/example/chime/cmd/chimectl/cmd"
)

func main() {
	cmd.Execute()
}
