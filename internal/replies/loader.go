// Package replies provides the canned assistant messages.
// Messages are stored as JSON files, one per panel, and embedded at compile time.
package replies

import (
	"embed"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Panel files.
const (
	Applicant = "applicant.json"
	Manager   = "manager.json"
)

//go:embed *.json
var replyFiles embed.FS

var (
	cache   = make(map[string]map[string]string)
	cacheMu sync.RWMutex
)

// Get retrieves a message by filename and key.
func Get(filename, key string) (string, error) {
	messages, err := loadFile(filename)
	if err != nil {
		return "", err
	}

	message, exists := messages[key]
	if !exists {
		return "", fmt.Errorf("reply key %q not found in %s", key, filename)
	}

	return message, nil
}

// MustGet retrieves a message by filename and key, panicking if not found.
// The embedded files are fixed at build time, so a miss is a programming error.
func MustGet(filename, key string) string {
	message, err := Get(filename, key)
	if err != nil {
		panic(fmt.Sprintf("failed to load reply: %v", err))
	}
	return message
}

// Format replaces placeholders in the form {{.Key}} with values from data.
func Format(template string, data map[string]string) string {
	result := template
	for key, value := range data {
		placeholder := fmt.Sprintf("{{.%s}}", key)
		result = strings.ReplaceAll(result, placeholder, value)
	}
	return result
}

// Render is MustGet followed by Format.
func Render(filename, key string, data map[string]string) string {
	return Format(MustGet(filename, key), data)
}

func loadFile(filename string) (map[string]string, error) {
	cacheMu.RLock()
	if messages, exists := cache[filename]; exists {
		cacheMu.RUnlock()
		return messages, nil
	}
	cacheMu.RUnlock()

	data, err := replyFiles.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read reply file %s: %w", filename, err)
	}

	var messages map[string]string
	if err := json.Unmarshal(data, &messages); err != nil {
		return nil, fmt.Errorf("failed to parse reply file %s: %w", filename, err)
	}

	cacheMu.Lock()
	cache[filename] = messages
	cacheMu.Unlock()

	return messages, nil
}

// ClearCache clears the reply cache. Useful for testing.
func ClearCache() {
	cacheMu.Lock()
	cache = make(map[string]map[string]string)
	cacheMu.Unlock()
}

// List returns all message keys in a file, sorted.
func List(filename string) ([]string, error) {
	messages, err := loadFile(filename)
	if err != nil {
		return nil, err
	}

	keys := make([]string, 0, len(messages))
	for key := range messages {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys, nil
}
