package main

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/wolfman30/working-days-api/cmd/workdays/cmd"
)

func main() {
	_ = godotenv.Load()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
