package main

import (
	"github.com/joho/godotenv"

	"farewatch/internal/cli"
)

func main() {
	// Local overrides win over the shared .env.
	_ = godotenv.Load(".env.local", ".env")

	cli.Execute()
}
