/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package games

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"slices"

	"gopkg.in/yaml.v2"
)

//go:embed content.yaml
var defaultContent []byte

// Entry is a word (or term) with its authoritative definition.
type Entry struct {
	Word       string `yaml:"word"`
	Category   string `yaml:"category,omitempty"`
	Definition string `yaml:"definition"`
}

// Content is the material rounds are drawn from.
type Content struct {
	Prompts []string `yaml:"fakinit_prompts"`
	Words   []Entry  `yaml:"fictionary_words"`
	Terms   []Entry  `yaml:"scriptionary_terms"`
}

// DefaultContent returns the embedded content pack.
func DefaultContent() *Content {
	c, err := parseContent(defaultContent)
	if err != nil {
		panic("embedded content pack is invalid: " + err.Error())
	}

	return c
}

// LoadContent reads a content pack from path, or the embedded pack when path
// is empty. Sections missing from the file fall back to the embedded ones.
func LoadContent(path string) (*Content, error) {
	if path == "" {
		return DefaultContent(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading content pack: %w", err)
	}

	c, err := parseContent(data)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	def := DefaultContent()
	if len(c.Prompts) == 0 {
		c.Prompts = def.Prompts
	}
	if len(c.Words) == 0 {
		c.Words = def.Words
	}
	if len(c.Terms) == 0 {
		c.Terms = def.Terms
	}

	return c, nil
}

func parseContent(data []byte) (*Content, error) {
	var c Content
	if err := yaml.UnmarshalStrict(data, &c); err != nil {
		return nil, err
	}

	if len(c.Prompts) == 1 {
		return nil, errors.New("fakinit_prompts needs at least two prompts")
	}

	for _, e := range slices.Concat(c.Words, c.Terms) {
		if e.Word == "" || e.Definition == "" {
			return nil, errors.New("every entry needs a word and a definition")
		}
	}

	return &c, nil
}
