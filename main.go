package main

import (
	"os"

	"github.com/authvault/authvault/app"
)

func main() {
	err := app.Execute()
	if err != nil {
		os.Exit(1)
	}
}
