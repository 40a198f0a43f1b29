package testsupport

import "os"

// LoadFixture reads a raw fixture file from disk.
func LoadFixture(path string) ([]byte, error) {
	return os.ReadFile(path)
}
