package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
)

// LoadDotEnv loads the first existing file in paths into the process
// environment and returns its path. Variables already set are not
// overridden. An empty string is returned when none of the files exist.
func LoadDotEnv(paths ...string) (string, error) {
	for _, path := range paths {
		if _, err := os.Stat(path); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return "", fmt.Errorf("checking %s: %w", path, err)
		}
		if err := godotenv.Load(path); err != nil {
			return "", fmt.Errorf("loading %s: %w", path, err)
		}
		return path, nil
	}
	return "", nil
}
