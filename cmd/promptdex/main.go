package main

import (
	"github.com/joho/godotenv"
	"github.com/promptdex/promptdex/internal/cli"
)

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	cli.Execute()
}
