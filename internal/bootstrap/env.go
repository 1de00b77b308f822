package bootstrap

import (
	"log"

	"github.com/joho/godotenv"
)

// Loadenv loads .env before the fx graph is built, so providers can read
// their settings from the environment.
func Loadenv() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}
}
