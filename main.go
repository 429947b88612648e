package main

import (
	"os"

	"github.com/applytrack/applytrack/app"
)

func main() {
	err := app.Execute()
	if err != nil {
		os.Exit(1)
	}
}
