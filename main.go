package main

import (
	"os"

	"github.com/authstarter/go-auth-starter/app"
)

func main() {
	err := app.Execute()
	if err != nil {
		os.Exit(1)
	}
}
