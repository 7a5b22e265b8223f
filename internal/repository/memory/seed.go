package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/jnst/race-registration/internal/model"
)

// LoadUsers reads a JSON array of users from path and upserts them. Users are provisioned
// out-of-band; this is how the memory store gets them.
func (s *Store) LoadUsers(ctx context.Context, path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("failed to read users file: %w", err)
	}

	var users []model.User
	if err := json.Unmarshal(data, &users); err != nil {
		return 0, fmt.Errorf("failed to parse users file: %w", err)
	}

	for i := range users {
		if !users[i].Role.Valid() {
			return i, fmt.Errorf("user %s: unknown role %q", users[i].Email, users[i].Role)
		}

		if err := s.Users().Upsert(ctx, &users[i]); err != nil {
			return i, fmt.Errorf("user %s: %w", users[i].Email, err)
		}
	}

	return len(users), nil
}
