package override

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
)

// FileExtension is the extension of exported custom theme files.
const FileExtension = ".geekstyle"

// Theme is a named custom theme: an override stylesheet plus display data.
type Theme struct {
	ThemeID     string `json:"themeId"`
	DisplayName string `json:"displayName"`
	CSS         string `json:"css"`
}

// Base returns the base theme the stylesheet builds on.
func (t Theme) Base() string {
	return Extract(t.CSS, "").Base
}

// ReadTheme decodes a .geekstyle document. Both css and displayName are
// required.
func ReadTheme(r io.Reader) (Theme, error) {
	var t Theme
	if err := json.NewDecoder(r).Decode(&t); err != nil {
		return Theme{}, fmt.Errorf("decode theme: %w", err)
	}
	if strings.TrimSpace(t.CSS) == "" || strings.TrimSpace(t.DisplayName) == "" {
		return Theme{}, errors.New("decode theme: css and displayName are required")
	}
	return t, nil
}

// WriteTheme encodes t as an indented .geekstyle document.
func WriteTheme(w io.Writer, t Theme) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(t); err != nil {
		return fmt.Errorf("encode theme: %w", err)
	}
	return nil
}
