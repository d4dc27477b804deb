package mix

import (
	"sort"
	"sync"

	"github.com/mohae/deepcopy"
)

// ToolMix is the settings namespace read by the config builder.
const ToolMix = "mix"

// Settings maps a tool name ("mix", "babel", "postcss", ...) to its
// settings. Safe for concurrent use.
type Settings struct {
	mu    sync.RWMutex
	tools map[string]map[string]any
}

// NewSettings creates empty settings.
func NewSettings() *Settings {
	return &Settings{tools: make(map[string]map[string]any)}
}

// Get returns one setting.
func (s *Settings) Get(tool, key string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.tools[tool][key]
	return v, ok
}

// String returns a string setting, or def when unset or not a string.
func (s *Settings) String(tool, key, def string) string {
	v, ok := s.Get(tool, key)
	if !ok {
		return def
	}
	if str, ok := v.(string); ok {
		return str
	}
	return def
}

// Bool returns a bool setting, false when unset.
func (s *Settings) Bool(tool, key string) bool {
	v, _ := s.Get(tool, key)
	b, _ := v.(bool)
	return b
}

// Set writes one setting.
func (s *Settings) Set(tool, key string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.tools[tool] == nil {
		s.tools[tool] = make(map[string]any)
	}
	s.tools[tool][key] = value
}

// SetDefault writes a setting only if it is not already set.
func (s *Settings) SetDefault(tool, key string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.tools[tool] == nil {
		s.tools[tool] = make(map[string]any)
	}
	if _, ok := s.tools[tool][key]; !ok {
		s.tools[tool][key] = value
	}
}

// Merge writes every key of values into tool, replacing existing keys.
func (s *Settings) Merge(tool string, values map[string]any) {
	for k, v := range values {
		s.Set(tool, k, v)
	}
}

// Tool returns a deep copy of one tool's settings (never nil).
func (s *Settings) Tool(tool string) map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	src := s.tools[tool]
	if len(src) == 0 {
		return map[string]any{}
	}
	return deepcopy.Copy(src).(map[string]any)
}

// Tools returns the configured tool names, sorted.
func (s *Settings) Tools() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.tools))
	for name := range s.tools {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// clone copies every tool for a child context.
func (s *Settings) clone() *Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return &Settings{tools: deepcopy.Copy(s.tools).(map[string]map[string]any)}
}
