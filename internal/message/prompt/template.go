// Package prompt loads and renders the JSON prompt templates shipped with
// the service.
package prompt

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	CustomMessage     = "custom-message"
	StructuredMessage = "structured-message"
)

// Template is a pair of prompts with {{placeholder}} substitution tokens.
type Template struct {
	SystemPrompt string `json:"system_prompt"`
	UserPrompt   string `json:"user_prompt"`
}

// Loader reads templates from a directory on every call, so prompt edits
// take effect without a restart.
type Loader struct {
	dir string
}

func NewLoader(dir string) *Loader {
	return &Loader{dir: dir}
}

// Load reads the named template, e.g. "custom-message".
func (l *Loader) Load(name string) (Template, error) {
	data, err := os.ReadFile(filepath.Join(l.dir, name+".json"))
	if err != nil {
		return Template{}, fmt.Errorf("read prompt template %s: %w", name, err)
	}

	var tpl Template
	if err := json.Unmarshal(data, &tpl); err != nil {
		return Template{}, fmt.Errorf("parse prompt template %s: %w", name, err)
	}
	return tpl, nil
}

// Render substitutes {{key}} tokens with the given values. Unknown tokens
// are left untouched.
func Render(s string, vars map[string]string) string {
	for key, value := range vars {
		s = strings.ReplaceAll(s, "{{"+key+"}}", value)
	}
	return s
}
