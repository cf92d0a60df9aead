package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// SceneMap - отображение sceneId -> Scene, сохраняющее авторский порядок ключей.
// Первый ключ является стартовой сценой главы, поэтому обычный map[string]*Scene не подходит.
type SceneMap struct {
	order  []string
	scenes map[string]*Scene
}

// NewSceneMap создает пустой SceneMap.
func NewSceneMap() SceneMap {
	return SceneMap{scenes: make(map[string]*Scene)}
}

// Set добавляет или заменяет сцену. Новый ключ добавляется в конец порядка.
func (m *SceneMap) Set(sceneID string, scene *Scene) {
	if m.scenes == nil {
		m.scenes = make(map[string]*Scene)
	}
	if _, exists := m.scenes[sceneID]; !exists {
		m.order = append(m.order, sceneID)
	}
	m.scenes[sceneID] = scene
}

// Get возвращает сцену по ключу.
func (m SceneMap) Get(sceneID string) (*Scene, bool) {
	scene, ok := m.scenes[sceneID]
	return scene, ok
}

// Has сообщает, есть ли сцена с таким ключом.
func (m SceneMap) Has(sceneID string) bool {
	_, ok := m.scenes[sceneID]
	return ok
}

// First возвращает первый ключ в авторском порядке.
func (m SceneMap) First() (string, bool) {
	if len(m.order) == 0 {
		return "", false
	}
	return m.order[0], true
}

// Keys возвращает копию ключей в авторском порядке.
func (m SceneMap) Keys() []string {
	keys := make([]string, len(m.order))
	copy(keys, m.order)
	return keys
}

// Len - количество сцен.
func (m SceneMap) Len() int {
	return len(m.order)
}

// Reorder задает порядок ключей. Используется при чтении из jsonb, который порядок не хранит.
// order должен содержать ровно те же ключи, что и map.
func (m *SceneMap) Reorder(order []string) error {
	if len(order) != len(m.scenes) {
		return fmt.Errorf("scene order has %d keys, scenes has %d", len(order), len(m.scenes))
	}
	seen := make(map[string]struct{}, len(order))
	for _, key := range order {
		if _, ok := m.scenes[key]; !ok {
			return fmt.Errorf("scene order references unknown scene %q", key)
		}
		if _, dup := seen[key]; dup {
			return fmt.Errorf("scene order contains duplicate scene %q", key)
		}
		seen[key] = struct{}{}
	}
	m.order = append(m.order[:0:0], order...)
	return nil
}

// MarshalJSON пишет объект с ключами в авторском порядке.
func (m SceneMap) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range m.order {
		if i > 0 {
			buf.WriteByte(',')
		}
		keyJSON, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		sceneJSON, err := json.Marshal(m.scenes[key])
		if err != nil {
			return nil, fmt.Errorf("failed to marshal scene %q: %w", key, err)
		}
		buf.Write(keyJSON)
		buf.WriteByte(':')
		buf.Write(sceneJSON)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON читает объект токенами, чтобы сохранить порядок ключей.
// Повторяющийся ключ заменяет сцену, но сохраняет свою первую позицию.
func (m *SceneMap) UnmarshalJSON(data []byte) error {
	*m = NewSceneMap()
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		return nil
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("scenes: expected JSON object, got %v", tok)
	}

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("scenes: expected string key, got %v", keyTok)
		}
		var scene Scene
		if err := dec.Decode(&scene); err != nil {
			return fmt.Errorf("scenes: failed to decode scene %q: %w", key, err)
		}
		m.Set(key, &scene)
	}

	if _, err := dec.Token(); err != nil {
		return err
	}
	return nil
}
