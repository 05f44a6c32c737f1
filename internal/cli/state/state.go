package state

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Identity stores the player identity between CLI runs. Registering with the
// same user_id resumes the server-side profile.
type Identity struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Rating   int    `json:"elo_rating"`
}

func Load(path string) (Identity, error) {
	var id Identity
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return id, nil
		}
		return id, fmt.Errorf("read identity failed: %w", err)
	}
	if len(data) == 0 {
		return id, nil
	}
	if err := json.Unmarshal(data, &id); err != nil {
		return id, fmt.Errorf("parse identity failed: %w", err)
	}
	return id, nil
}

func Save(path string, id Identity) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create identity dir failed: %w", err)
	}
	data, err := json.MarshalIndent(id, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal identity failed: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write identity failed: %w", err)
	}
	return nil
}

func Clear(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove identity failed: %w", err)
	}
	return nil
}
