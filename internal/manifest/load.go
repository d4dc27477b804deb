package manifest

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"
	"gopkg.in/yaml.v3"
)

// DefaultNames are the manifest file names Discover looks for, in order.
var DefaultNames = []string{"mix.yaml", "mix.yml", "mix.cue"}

// ErrNotFound is returned by Discover when no manifest exists.
var ErrNotFound = errors.New("no manifest found")

// Error codes for LoadError.
const (
	ErrCodeRead    = "E101"
	ErrCodeParse   = "E102"
	ErrCodeInvalid = "E103"
	ErrCodeFormat  = "E104"
)

// LoadError is a manifest loading failure, positioned when the parser
// reports a position.
type LoadError struct {
	Code    string
	Message string
	Pos     token.Pos
	Err     error
}

func (e *LoadError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *LoadError) Unwrap() error { return e.Err }

// Discover returns the first of DefaultNames present in dir.
func Discover(dir string) (string, error) {
	for _, name := range DefaultNames {
		p := filepath.Join(dir, name)
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w in %s (looked for %s)", ErrNotFound, dir, strings.Join(DefaultNames, ", "))
}

// Load reads a manifest, choosing the format by extension.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeRead, Message: fmt.Sprintf("reading manifest: %v", err), Err: err}
	}

	var m *Manifest
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		m, err = ParseYAML(data)
	case ".cue":
		m, err = ParseCUE(path, data)
	default:
		return nil, &LoadError{Code: ErrCodeFormat, Message: fmt.Sprintf("unsupported manifest extension %q", ext)}
	}
	if err != nil {
		return nil, err
	}
	m.Path = path
	return m, nil
}

// ParseYAML parses a YAML manifest. Unknown fields are rejected.
func ParseYAML(data []byte) (*Manifest, error) {
	var m Manifest
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&m); err != nil {
		return nil, &LoadError{Code: ErrCodeParse, Message: fmt.Sprintf("parsing YAML: %v", err), Err: err}
	}
	if err := m.Validate(); err != nil {
		return nil, &LoadError{Code: ErrCodeInvalid, Message: fmt.Sprintf("invalid manifest: %v", err), Err: err}
	}
	return &m, nil
}

// ParseCUE parses a CUE manifest. The value must be concrete; unknown
// fields are rejected.
func ParseCUE(filename string, data []byte) (*Manifest, error) {
	ctx := cuecontext.New()
	v := ctx.CompileBytes(data, cue.Filename(filename))
	if err := v.Err(); err != nil {
		return nil, cueLoadError("compiling CUE", err)
	}
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return nil, cueLoadError("validating CUE", err)
	}

	raw, err := v.MarshalJSON()
	if err != nil {
		return nil, cueLoadError("exporting CUE", err)
	}

	var m Manifest
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&m); err != nil {
		return nil, &LoadError{Code: ErrCodeParse, Message: fmt.Sprintf("decoding CUE value: %v", err), Err: err}
	}
	if err := m.Validate(); err != nil {
		return nil, &LoadError{Code: ErrCodeInvalid, Message: fmt.Sprintf("invalid manifest: %v", err), Err: err}
	}
	return &m, nil
}

func cueLoadError(what string, err error) *LoadError {
	le := &LoadError{Code: ErrCodeParse, Message: fmt.Sprintf("%s: %v", what, err), Err: err}
	for _, e := range cueerrors.Errors(err) {
		// Conflicts carry their location in the input positions only.
		if pos := firstValid(cueerrors.Positions(e), e.InputPositions()); pos.IsValid() {
			le.Pos = pos
			le.Message = fmt.Sprintf("%s: %s", what, e.Error())
			break
		}
	}
	return le
}

func firstValid(lists ...[]token.Pos) token.Pos {
	for _, list := range lists {
		for _, pos := range list {
			if pos.IsValid() {
				return pos
			}
		}
	}
	return token.NoPos
}
