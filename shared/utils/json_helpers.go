package utils

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// MarshalMap сериализует map для записи в jsonb. nil map пишется как {}, а не null.
func MarshalMap[V any](data map[string]V) ([]byte, error) {
	if data == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(data)
}

// UnmarshalMap читает jsonb в map. Пустые данные и null дают пустую (не nil) map.
func UnmarshalMap[V any](data []byte) (map[string]V, error) {
	out := make(map[string]V)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return out, nil
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("failed to unmarshal json map: %w", err)
	}
	return out, nil
}
