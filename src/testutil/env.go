package testutil

import (
	"os"
	"path/filepath"

	"github.com/Mani19492/darkctf-arena/src/utils"
	"github.com/joho/godotenv"
)

// GetEnv loads the project .env (when present) and returns the value
// of key.
func GetEnv(key string) string {
	_ = godotenv.Load(filepath.Join(utils.FindProjectRoot(), ".env"))

	return os.Getenv(key)
}
