// Package persistence provides the PostgreSQL and SQLite implementations of
// the task repository.
package persistence

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// ErrTaskNotFound is returned when a task does not exist in the store.
var ErrTaskNotFound = errors.New("task not found")

// marshalDependencies encodes dependency IDs as a JSON string array.
func marshalDependencies(deps []uuid.UUID) (string, error) {
	ids := make([]string, 0, len(deps))
	for _, dep := range deps {
		ids = append(ids, dep.String())
	}
	encoded, err := json.Marshal(ids)
	if err != nil {
		return "", fmt.Errorf("failed to encode dependencies: %w", err)
	}
	return string(encoded), nil
}

// unmarshalDependencies decodes a JSON string array into dependency IDs.
func unmarshalDependencies(data []byte) ([]uuid.UUID, error) {
	if len(data) == 0 {
		return nil, nil
	}

	var ids []string
	if err := json.Unmarshal(data, &ids); err != nil {
		return nil, fmt.Errorf("failed to decode dependencies: %w", err)
	}

	deps := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		dep, err := uuid.Parse(id)
		if err != nil {
			return nil, fmt.Errorf("invalid dependency id %q: %w", id, err)
		}
		deps = append(deps, dep)
	}
	return deps, nil
}
