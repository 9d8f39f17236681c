package game

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed cards.yaml
var defaultContentYAML []byte

// EffectSpec is a timed-effect descriptor carried by a sub-event.
type EffectSpec struct {
	Type        string `yaml:"type"`
	Turns       int    `yaml:"turns"`
	NeedsTarget bool   `yaml:"needs_target"`
}

// SubEvent is one concrete outcome inside an object-card family.
type SubEvent struct {
	Name        string      `yaml:"name"`
	Instruction string      `yaml:"instruction"`
	Effect      *EffectSpec `yaml:"effect,omitempty"`
	Action      string      `yaml:"action,omitempty"`
}

// Text returns the display text: the instruction, or the name if the
// sub-event has no instruction.
func (se SubEvent) Text() string {
	if se.Instruction != "" {
		return se.Instruction
	}
	return se.Name
}

// subEventKey derives the comparable identity used by the bag sampler.
func subEventKey(se SubEvent) string {
	if se.Name != "" {
		return se.Name
	}
	return se.Instruction
}

// CardFamily is an object card: a named pool of sub-events sampled at
// draw time.
type CardFamily struct {
	Name          string     `yaml:"name"`
	Kind          string     `yaml:"kind"` // social, crowd, or special
	Subcategories []SubEvent `yaml:"subcategories"`
}

// CardKind maps the family's content kind to the statistics vocabulary.
func (f *CardFamily) CardKind() CardKind {
	switch f.Kind {
	case "social":
		return KindSocial
	case "crowd":
		return KindCrowd
	case "special":
		return KindSpecial
	default:
		return KindNormal
	}
}

// Content is the static game-content table: plain deck entries, item
// names, object-card families, and the penalty deck.
type Content struct {
	Deck      []string     `yaml:"deck"`
	Items     []string     `yaml:"items"`
	Families  []CardFamily `yaml:"families"`
	Penalties []string     `yaml:"penalties"`
}

// Validate checks the minimum content a session needs.
func (c *Content) Validate() error {
	if len(c.Deck) == 0 {
		return fmt.Errorf("content: deck must not be empty")
	}
	if len(c.Penalties) == 0 {
		return fmt.Errorf("content: penalties must not be empty")
	}
	for i, f := range c.Families {
		if f.Name == "" {
			return fmt.Errorf("content: family %d has no name", i)
		}
		if len(f.Subcategories) == 0 {
			return fmt.Errorf("content: family %q has no subcategories", f.Name)
		}
	}
	return nil
}

// familiesOfKind returns the families matching a content kind.
func (c *Content) familiesOfKind(kind string) []*CardFamily {
	var out []*CardFamily
	for i := range c.Families {
		if c.Families[i].Kind == kind {
			out = append(out, &c.Families[i])
		}
	}
	return out
}

// IsItem reports whether text names an item card.
func (c *Content) IsItem(text string) bool {
	for _, item := range c.Items {
		if item == text {
			return true
		}
	}
	return false
}

// ParseContent parses a YAML content document.
func ParseContent(data []byte) (*Content, error) {
	var c Content
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse content YAML: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// LoadContent reads and parses a content file from disk.
func LoadContent(path string) (*Content, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseContent(data)
}

// DefaultContent returns the embedded content table.
func DefaultContent() *Content {
	c, err := ParseContent(defaultContentYAML)
	if err != nil {
		// The embedded table is part of the build; a parse failure is a
		// programmer error.
		panic(fmt.Sprintf("embedded cards.yaml: %v", err))
	}
	return c
}
