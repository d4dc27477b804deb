package bundler

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// Config is one finished bundler configuration. Its schema belongs to the
// external bundler; this package only guarantees it is JSON-serializable.
type Config map[string]any

// JSON renders the config as indented JSON with sorted keys.
func (c Config) JSON() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(map[string]any(c)); err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	return buf.Bytes(), nil
}

// Get looks up a gjson dot path (e.g. "output.publicPath",
// "module.rules.#"). A missing path yields a result whose Exists is false.
func (c Config) Get(path string) gjson.Result {
	raw, err := json.Marshal(map[string]any(c))
	if err != nil {
		return gjson.Result{}
	}
	return gjson.GetBytes(raw, path)
}

// Set writes value at an sjson dot path, creating intermediate objects.
// Numbers keep their textual form (json.Number) after the round trip.
func (c *Config) Set(path string, value any) error {
	raw, err := json.Marshal(map[string]any(*c))
	if err != nil {
		return fmt.Errorf("set %s: %w", path, err)
	}
	raw, err = sjson.SetBytes(raw, path, value)
	if err != nil {
		return fmt.Errorf("set %s: %w", path, err)
	}
	return c.replace(raw)
}

// SetRaw writes a raw JSON literal at path. Used for overrides supplied as
// text (e.g. `true`, `"/assets/"`, `{"hot":true}`).
func (c *Config) SetRaw(path, rawValue string) error {
	if !gjson.Valid(rawValue) {
		return c.Set(path, rawValue)
	}
	raw, err := json.Marshal(map[string]any(*c))
	if err != nil {
		return fmt.Errorf("set %s: %w", path, err)
	}
	raw, err = sjson.SetRawBytes(raw, path, []byte(rawValue))
	if err != nil {
		return fmt.Errorf("set %s: %w", path, err)
	}
	return c.replace(raw)
}

// Delete removes the value at path. Deleting a missing path is a no-op.
func (c *Config) Delete(path string) error {
	raw, err := json.Marshal(map[string]any(*c))
	if err != nil {
		return fmt.Errorf("delete %s: %w", path, err)
	}
	raw, err = sjson.DeleteBytes(raw, path)
	if err != nil {
		return fmt.Errorf("delete %s: %w", path, err)
	}
	return c.replace(raw)
}

func (c *Config) replace(raw []byte) error {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	next := make(map[string]any)
	if err := dec.Decode(&next); err != nil {
		return fmt.Errorf("decode config: %w", err)
	}
	*c = next
	return nil
}
