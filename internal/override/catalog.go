// Package override implements custom theme stylesheets: a catalog of
// themeable elements, extraction of per-element rules from CSS text, and
// generation of override CSS that layers on top of a base theme.
package override

import (
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/huatuo-dr/geek-ppt/internal/theme"
)

// ErrUnknownElement is returned for descriptor ids not in the catalog.
var ErrUnknownElement = errors.New("unknown style element")

// CanonicalPrefix is the wrapper selector every catalog selector starts with.
const CanonicalPrefix = ".plain-slide"

// Descriptor describes one themeable visual element.
type Descriptor struct {
	ID              string `yaml:"id" json:"id"`
	Label           string `yaml:"label" json:"label"`
	Selector        string `yaml:"selector" json:"selector"`
	DefaultCSS      string `yaml:"default_css" json:"defaultCss"`
	PreviewMarkdown string `yaml:"preview_markdown" json:"previewMarkdown"`
}

// SelectorFor rewrites the descriptor's selector for base.
func (d Descriptor) SelectorFor(base string) string {
	wrapper := "." + theme.WrapperClass(base)
	if strings.HasPrefix(d.Selector, CanonicalPrefix) {
		return wrapper + strings.TrimPrefix(d.Selector, CanonicalPrefix)
	}
	return d.Selector
}

//go:embed catalog.yaml
var catalogYAML []byte

var (
	catalogOnce sync.Once
	catalog     []Descriptor
	catalogErr  error
)

func loadCatalog() ([]Descriptor, error) {
	catalogOnce.Do(func() {
		var doc struct {
			Elements []Descriptor `yaml:"elements"`
		}
		if err := yaml.Unmarshal(catalogYAML, &doc); err != nil {
			catalogErr = fmt.Errorf("parse style catalog: %w", err)
			return
		}
		seen := make(map[string]bool, len(doc.Elements))
		for _, d := range doc.Elements {
			if d.ID == "" || d.Selector == "" {
				catalogErr = fmt.Errorf("style catalog: element %q missing id or selector", d.ID)
				return
			}
			if seen[d.ID] {
				catalogErr = fmt.Errorf("style catalog: duplicate element %q", d.ID)
				return
			}
			seen[d.ID] = true
		}
		catalog = doc.Elements
	})
	return catalog, catalogErr
}

// Catalog returns a copy of the element catalog in editor order. It panics
// if the embedded catalog is malformed, which is a build defect.
func Catalog() []Descriptor {
	c, err := loadCatalog()
	if err != nil {
		panic(err)
	}
	return append([]Descriptor(nil), c...)
}

// Lookup finds a descriptor by id.
func Lookup(id string) (Descriptor, error) {
	for _, d := range Catalog() {
		if d.ID == id {
			return d, nil
		}
	}
	return Descriptor{}, fmt.Errorf("%w: %s", ErrUnknownElement, id)
}

// Defaults returns the catalog's default property blocks keyed by id.
func Defaults() map[string]string {
	out := make(map[string]string)
	for _, d := range Catalog() {
		out[d.ID] = d.DefaultCSS
	}
	return out
}
