// Package export serializes a finished ResultSet to the supported on-disk
// formats. Serializers are independent and order-preserving; any subset may
// run over the same set.
package export

import (
	"fmt"
	"os"
	"path/filepath"
)

// ensureDir creates the destination directory for path if it is missing.
func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating output directory %s: %w", dir, err)
	}
	return nil
}
