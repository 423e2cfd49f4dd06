// Package fixture serializes decoded extension records to CBOR so test
// harnesses can persist machine-readable snapshots of captured records and
// diff them against golden files.
package fixture

import (
	"fmt"
	"os"

	"github.com/fxamacker/cbor/v2"
)

// Snapshot encodes a decoded record (or any diagnostic value) as
// deterministic CBOR.
func Snapshot(record interface{}) ([]byte, error) {
	opts := cbor.CoreDetEncOptions()
	mode, err := opts.EncMode()
	if err != nil {
		return nil, fmt.Errorf("building CBOR encoder: %w", err)
	}
	data, err := mode.Marshal(record)
	if err != nil {
		return nil, fmt.Errorf("encoding snapshot: %w", err)
	}
	return data, nil
}

// Load decodes a CBOR snapshot into out.
func Load(data []byte, out interface{}) error {
	if err := cbor.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decoding snapshot: %w", err)
	}
	return nil
}

// WriteFile persists a snapshot of record at path.
func WriteFile(path string, record interface{}) error {
	data, err := Snapshot(record)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing snapshot %s: %w", path, err)
	}
	return nil
}

// ReadFile loads the snapshot at path into out.
func ReadFile(path string, out interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading snapshot %s: %w", path, err)
	}
	return Load(data, out)
}
