package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/example/haggle/internal/ports/primary"
)

// readNegotiationFile loads a negotiation saved with --out.
func readNegotiationFile(path string) (*primary.Negotiation, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read negotiation file: %w", err)
	}

	var n primary.Negotiation
	if err := json.Unmarshal(data, &n); err != nil {
		return nil, fmt.Errorf("failed to parse negotiation file %s: %w", path, err)
	}

	return &n, nil
}

// writeNegotiationFile saves a negotiation as indented JSON.
func writeNegotiationFile(path string, n *primary.Negotiation) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	data, err := json.MarshalIndent(n, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal negotiation: %w", err)
	}

	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("failed to write negotiation file: %w", err)
	}

	return nil
}
