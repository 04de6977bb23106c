// Package prompt loads LLM prompts from JSON files so they can be tuned
// without a rebuild.
package prompt

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// Template is one prompt file.
type Template struct {
	ID           string `json:"id"` // e.g. "chat.roi_intake"
	Name         string `json:"name"`
	Description  string `json:"description"`
	SystemPrompt string `json:"system_prompt"`
	Version      string `json:"version"`
}

// Library holds loaded prompts by ID.
type Library struct {
	mu      sync.RWMutex
	prompts map[string]*Template
}

// NewLibrary returns an empty library.
func NewLibrary() *Library {
	return &Library{prompts: make(map[string]*Template)}
}

// Register adds or replaces a prompt.
func (l *Library) Register(t *Template) error {
	if t.ID == "" {
		return fmt.Errorf("prompt ID cannot be empty")
	}
	if strings.TrimSpace(t.SystemPrompt) == "" {
		return fmt.Errorf("prompt %s has an empty system_prompt", t.ID)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.prompts[t.ID] = t
	return nil
}

// SystemPrompt returns the system prompt registered under id.
func (l *Library) SystemPrompt(id string) (string, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	t, ok := l.prompts[id]
	if !ok {
		return "", false
	}
	return t.SystemPrompt, true
}

// IDs lists the registered prompt IDs, sorted.
func (l *Library) IDs() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()

	ids := make([]string, 0, len(l.prompts))
	for id := range l.prompts {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Count returns the number of registered prompts
func (l *Library) Count() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.prompts)
}

// LoadDirectory registers every .json file under baseDir/prompts. A file
// without an id is named after its path: prompts/chat/roi_intake.json
// becomes "chat.roi_intake".
func (l *Library) LoadDirectory(baseDir string) error {
	dir := filepath.Join(baseDir, "prompts")
	if _, err := os.Stat(dir); err != nil {
		return fmt.Errorf("prompts directory not found: %s", dir)
	}

	return filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() || filepath.Ext(path) != ".json" {
			return nil
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}
		var t Template
		if err := json.Unmarshal(data, &t); err != nil {
			return fmt.Errorf("failed to parse %s: %w", path, err)
		}
		if t.ID == "" {
			t.ID = idFromPath(path, dir)
		}
		return l.Register(&t)
	})
}

func idFromPath(path, baseDir string) string {
	rel, _ := filepath.Rel(baseDir, path)
	rel = strings.TrimSuffix(rel, ".json")
	return strings.ReplaceAll(rel, string(filepath.Separator), ".")
}
