package env

import (
	"fmt"
	"os"

	"github.com/subosito/gotenv"
)

// LoadDotEnv parses a .env file and returns its key-value pairs without
// exporting them to the process environment. Quoting, export prefixes,
// comments and ${VAR} expansion follow gotenv; a malformed line is an error.
func LoadDotEnv(path string) (map[string]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open env file: %w", err)
	}
	defer file.Close()

	parsed, err := gotenv.StrictParse(file)
	if err != nil {
		return nil, fmt.Errorf("parsing env file %s: %w", path, err)
	}

	result := make(map[string]string, len(parsed))
	for k, v := range parsed {
		result[k] = v
	}
	return result, nil
}
