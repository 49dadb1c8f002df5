package envfile

import (
	"fmt"
	"os"
	"path/filepath"
)

// WriteFile writes the rendered content to path atomically: the content goes
// to a temp file in the destination directory, permissions are tightened to
// owner read/write only, and the temp file is renamed over the destination.
// A failure part-way never leaves a truncated output file behind.
func WriteFile(path string, content string) error {
	dir := filepath.Dir(path)

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	cleanup := func() {
		tmp.Close()
		os.Remove(tmpName)
	}

	if _, err := tmp.WriteString(content); err != nil {
		cleanup()
		return fmt.Errorf("write env file: %w", err)
	}
	// The file carries secret material; restrict before it becomes visible
	// at the final path.
	if err := tmp.Chmod(0o600); err != nil {
		cleanup()
		return fmt.Errorf("chmod env file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close env file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("rename env file: %w", err)
	}
	return nil
}

// Generate is the full transform: load, render, write. It is what the CLI
// calls after resolving Options.
func Generate(inputPath, outputPath string, opts Options) error {
	sa, err := Load(inputPath)
	if err != nil {
		return err
	}
	content, err := Render(sa, opts)
	if err != nil {
		return err
	}
	return WriteFile(outputPath, content)
}
