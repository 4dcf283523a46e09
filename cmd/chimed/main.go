package main

import (
	"github.com/example/chime/cmd/chimed/cmd"
)

func main() {
	cmd.Execute()
}
