// Package prefs persiste la preferencia de tema del dashboard en un YAML chico.
package prefs

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

type Theme string

const (
	Light Theme = "light"
	Dark  Theme = "dark"
)

// Toggle devuelve el otro tema.
func (t Theme) Toggle() Theme {
	if t == Dark {
		return Light
	}
	return Dark
}

func ParseTheme(s string) Theme {
	if strings.EqualFold(strings.TrimSpace(s), string(Dark)) {
		return Dark
	}
	return Light
}

type Prefs struct {
	Theme Theme `yaml:"theme"`
}

func Default() Prefs {
	return Prefs{Theme: Light}
}

// Load lee path. Un archivo inexistente devuelve Default sin error; uno
// ilegible devuelve Default y el error.
func Load(path string) (Prefs, error) {
	b, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return Default(), fmt.Errorf("prefs: read %s: %w", path, err)
	}

	var raw struct {
		Theme string `yaml:"theme"`
	}
	if err := yaml.Unmarshal(b, &raw); err != nil {
		return Default(), fmt.Errorf("prefs: parse %s: %w", path, err)
	}
	return Prefs{Theme: ParseTheme(raw.Theme)}, nil
}

// Save escribe p en path (crea el directorio si hace falta).
func Save(path string, p Prefs) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("prefs: mkdir: %w", err)
		}
	}

	b, err := yaml.Marshal(Prefs{Theme: ParseTheme(string(p.Theme))})
	if err != nil {
		return fmt.Errorf("prefs: marshal: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("prefs: write %s: %w", path, err)
	}
	return nil
}
