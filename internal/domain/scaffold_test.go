package domain

import (
	"strings"
	"testing"
)

func TestScaffolder(t *testing.T) {
	s := NewScaffolder()

	t.Run("extension picks the template", func(t *testing.T) {
		content, err := s.Expand("cmd/tool/main.go", "")
		if err != nil {
			t.Fatalf("expand failed: %v", err)
		}

		if !strings.Contains(content, "package main") {
			t.Errorf("unexpected go template %q", content)
		}
	})

	t.Run("name placeholder is substituted", func(t *testing.T) {
		content, err := s.Expand("docs/readme.md", "")
		if err != nil {
			t.Fatalf("expand failed: %v", err)
		}

		if !strings.Contains(content, "# readme") {
			t.Errorf("placeholder not substituted: %q", content)
		}
	})

	t.Run("unknown extension yields empty content", func(t *testing.T) {
		content, err := s.Expand("data.xyz", "")
		if err != nil {
			t.Fatalf("expand failed: %v", err)
		}

		if content != "" {
			t.Errorf("expected empty content, got %q", content)
		}
	})

	t.Run("explicit unknown template errors", func(t *testing.T) {
		_, err := s.Expand("f.txt", "nope")
		if err == nil || !strings.Contains(err.Error(), "nope") {
			t.Errorf("expected an unknown-template error, got %v", err)
		}
	})

	t.Run("user manifest overrides builtins", func(t *testing.T) {
		s := NewScaffolder()

		err := s.LoadTemplates([]byte("templates:\n  go: |\n    package custom\n"))
		if err != nil {
			t.Fatalf("load failed: %v", err)
		}

		content, err := s.Expand("x.go", "")
		if err != nil {
			t.Fatalf("expand failed: %v", err)
		}

		if !strings.Contains(content, "package custom") {
			t.Errorf("override not applied: %q", content)
		}
	})

	t.Run("names are sorted and include builtins", func(t *testing.T) {
		names := s.Names()

		found := map[string]bool{}
		for i, name := range names {
			found[name] = true

			if i > 0 && names[i-1] > name {
				t.Errorf("names not sorted: %v", names)
			}
		}

		for _, want := range []string{"go", "sh", "py", "md", "empty"} {
			if !found[want] {
				t.Errorf("builtin template %q missing from %v", want, names)
			}
		}
	})
}
