// Package scaffold writes a starter demo file for `convoplay init`.
package scaffold

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
)

//go:embed starter.yaml
var starter []byte

// Write creates a starter demo at path. It refuses to overwrite an existing
// file so a stray init never destroys someone's work.
func Write(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s already exists", path)
	} else if !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return os.WriteFile(path, starter, 0o644)
}

// Starter returns the embedded starter document, mainly for tests.
func Starter() []byte { return starter }
