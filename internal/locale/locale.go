// Package locale maps message keys to localized strings.
//
// The default English catalog is embedded at build time so it is available
// in all distributions. Additional catalogs can be loaded from YAML files.
package locale

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed en.yaml
var enCatalog []byte

// Catalog is an opaque key-to-string lookup.
type Catalog struct {
	messages map[string]string
}

// Default returns the embedded English catalog.
// The embedded catalog is validated by tests; a parse failure here would be
// a build defect, so it degrades to key-echo rather than failing.
func Default() *Catalog {
	c, err := Parse(enCatalog)
	if err != nil {
		return &Catalog{messages: map[string]string{}}
	}
	return c
}

// Parse builds a catalog from YAML data (flat string-to-string mapping).
func Parse(data []byte) (*Catalog, error) {
	messages := map[string]string{}
	if err := yaml.Unmarshal(data, &messages); err != nil {
		return nil, fmt.Errorf("parse message catalog: %w", err)
	}
	return &Catalog{messages: messages}, nil
}

// LoadFile reads a catalog from a YAML file, overlaying the embedded
// defaults so partial translations stay usable.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read message catalog: %w", err)
	}

	overlay, err := Parse(data)
	if err != nil {
		return nil, err
	}

	c := Default()
	for k, v := range overlay.messages {
		c.messages[k] = v
	}
	return c, nil
}

// Get returns the localized string for key, or the key itself when missing.
func (c *Catalog) Get(key string) string {
	if msg, ok := c.messages[key]; ok {
		return msg
	}
	return key
}

// Has reports whether the catalog contains key.
func (c *Catalog) Has(key string) bool {
	_, ok := c.messages[key]
	return ok
}
