package main

import (
	"github.com/avakit/swapcore/cmd"
)

func main() {
	cmd.Execute()
}
