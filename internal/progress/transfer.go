package progress

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
)

// Export writes the stored profile as indented JSON.
func (s *Store) Export(ctx context.Context, w io.Writer) error {
	p := s.Load(ctx)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(p); err != nil {
		return fmt.Errorf("progress: cannot export profile: %w", err)
	}
	return nil
}

// Import replaces the stored profile with one read from r. Malformed or
// invalid data is rejected and nothing is changed.
func (s *Store) Import(ctx context.Context, r io.Reader) bool {
	p, err := DecodeProfile(r)
	if err != nil {
		s.logger.Error("cannot import profile", "error", err)
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.save(ctx, p)
	return true
}

// DecodeProfile reads and validates a profile in export format.
func DecodeProfile(r io.Reader) (UserProfile, error) {
	var p UserProfile
	dec := json.NewDecoder(r)
	if err := dec.Decode(&p); err != nil {
		return UserProfile{}, fmt.Errorf("progress: invalid profile json: %w", err)
	}
	if p.Level == 0 {
		p.Level = LevelForXP(p.Experience)
	}
	if err := validate.Struct(p); err != nil {
		return UserProfile{}, fmt.Errorf("progress: invalid profile: %w", err)
	}
	return p, nil
}
