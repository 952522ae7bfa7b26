package domain

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
	m "stitch.dev/pkg/stitch/internal/model"
)

// builtinTemplates is the default scaffolding manifest. A user manifest with
// the same shape can be layered on top via LoadTemplates.
const builtinTemplates = `
templates:
  go: |
    package main

    func main() {
    }
  sh: |
    #!/usr/bin/env bash
    set -euo pipefail
  py: |
    def main():
        pass


    if __name__ == "__main__":
        main()
  md: |
    # {{name}}
  empty: ""
`

type templateManifest struct {
	Templates map[string]string `yaml:"templates"`
}

// Scaffolder expands file templates for the create command.
type Scaffolder struct {
	templates map[string]string
}

// NewScaffolder parses the built-in manifest. The manifest is static, so a
// parse failure is a programming error.
func NewScaffolder() *Scaffolder {
	s := &Scaffolder{templates: map[string]string{}}
	if err := s.merge([]byte(builtinTemplates)); err != nil {
		panic(fmt.Sprintf("built-in template manifest is invalid: %v", err))
	}

	return s
}

// LoadTemplates layers a user manifest over the built-in templates.
func (s *Scaffolder) LoadTemplates(manifest []byte) error {
	return s.merge(manifest)
}

func (s *Scaffolder) merge(manifest []byte) error {
	var parsed templateManifest
	if err := yaml.Unmarshal(manifest, &parsed); err != nil {
		return fmt.Errorf("failed to parse template manifest: %w", err)
	}

	for name, content := range parsed.Templates {
		s.templates[name] = content
	}

	return nil
}

// Names returns the available template names, sorted.
func (s *Scaffolder) Names() []string {
	names := make([]string, 0, len(s.templates))
	for name := range s.templates {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

// Expand returns the scaffold content for file. An empty templateName picks
// the template matching the file extension, falling back to empty content.
func (s *Scaffolder) Expand(file m.Path, templateName string) (string, error) {
	derived := templateName == ""
	if derived {
		templateName = strings.TrimPrefix(filepath.Ext(string(file)), ".")
	}

	content, ok := s.templates[templateName]
	if !ok {
		if derived {
			return "", nil
		}

		return "", fmt.Errorf("unknown template %q (available: %s)", templateName, strings.Join(s.Names(), ", "))
	}

	base := filepath.Base(string(file))
	name := strings.TrimSuffix(base, filepath.Ext(base))

	return strings.ReplaceAll(content, "{{name}}", name), nil
}
