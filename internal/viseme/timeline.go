package viseme

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// WriteJSON writes the sequence as an indented JSON timeline.
func (s *Sequence) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("encode timeline: %w", err)
	}
	return nil
}

// SaveJSON writes the timeline to path, replacing any existing file.
func (s *Sequence) SaveJSON(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create timeline: %w", err)
	}
	if err := s.WriteJSON(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// LoadJSON reads a timeline previously written by SaveJSON.
func LoadJSON(path string) (*Sequence, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read timeline: %w", err)
	}
	var seq Sequence
	if err := json.Unmarshal(data, &seq); err != nil {
		return nil, fmt.Errorf("decode timeline %s: %w", path, err)
	}
	if seq.WindowMs <= 0 {
		return nil, fmt.Errorf("decode timeline %s: %w", path, ErrInvalidWindow)
	}
	return &seq, nil
}
