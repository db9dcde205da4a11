/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package games

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultContent(t *testing.T) {
	c := DefaultContent()

	if len(c.Prompts) < 2 || len(c.Words) == 0 || len(c.Terms) == 0 {
		t.Fatalf("got %d prompts, %d words, %d terms", len(c.Prompts), len(c.Words), len(c.Terms))
	}
	for _, e := range c.Terms {
		if e.Category == "" {
			t.Errorf("term %q has no category", e.Word)
		}
	}
}

func TestLoadContent(t *testing.T) {
	dir := t.TempDir()

	write := func(name, body string) string {
		t.Helper()
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
			t.Fatal(err)
		}
		return path
	}

	t.Run("empty path", func(t *testing.T) {
		c, err := LoadContent("")
		if err != nil || len(c.Words) != len(DefaultContent().Words) {
			t.Fatalf("got %v", err)
		}
	})

	t.Run("partial pack", func(t *testing.T) {
		path := write("partial.yaml", "fictionary_words:\n  - word: Gnomon\n    definition: The part of a sundial that casts the shadow\n")

		c, err := LoadContent(path)
		if err != nil {
			t.Fatal(err)
		}
		if len(c.Words) != 1 || c.Words[0].Word != "Gnomon" {
			t.Errorf("got words %+v", c.Words)
		}
		if len(c.Prompts) != len(DefaultContent().Prompts) {
			t.Error("missing prompts did not fall back")
		}
	})

	t.Run("unknown section", func(t *testing.T) {
		path := write("typo.yaml", "fictionary_wrods: []\n")
		if _, err := LoadContent(path); err == nil {
			t.Error("accepted an unknown section")
		}
	})

	t.Run("missing definition", func(t *testing.T) {
		path := write("bad.yaml", "scriptionary_terms:\n  - word: Closure\n")
		if _, err := LoadContent(path); err == nil {
			t.Error("accepted an entry without a definition")
		}
	})

	t.Run("single prompt", func(t *testing.T) {
		path := write("one.yaml", "fakinit_prompts:\n  - Name a fruit\n")
		if _, err := LoadContent(path); err == nil {
			t.Error("accepted a single prompt")
		}
	})

	t.Run("missing file", func(t *testing.T) {
		if _, err := LoadContent(filepath.Join(dir, "nope.yaml")); err == nil {
			t.Error("accepted a missing file")
		}
	})
}
