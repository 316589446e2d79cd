package main

import (
	"github.com/tarn-lang/tarn/cmd/tarn/commands"
)

func main() {
	commands.Execute()
}
