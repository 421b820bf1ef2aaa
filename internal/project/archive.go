package project

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/huatuo-dr/geek-ppt/internal/override"
	"github.com/huatuo-dr/geek-ppt/internal/theme"
)

// Extension is the file extension of packed projects.
const Extension = ".geekppt"

// ErrInvalidArchive is returned when an archive is not a packed project.
var ErrInvalidArchive = errors.New("invalid .geekppt archive")

const (
	manifestName = "project.json"
	lockName     = "plugins/lock.json"
	slidesDir    = "slides/"
	assetsDir    = "assets/"

	maxEntrySize = 64 << 20
)

type slideMeta struct {
	SlideID  string   `json:"slideId"`
	Order    int      `json:"order"`
	Title    string   `json:"title"`
	Notes    string   `json:"notes"`
	Template Template `json:"template,omitempty"`
}

type manifest struct {
	ProjectID     string           `json:"projectId"`
	Name          string           `json:"name"`
	CreatedAt     time.Time        `json:"createdAt"`
	UpdatedAt     time.Time        `json:"updatedAt"`
	PluginConfig  PluginConfig     `json:"pluginConfig"`
	CustomThemes  []override.Theme `json:"customThemes,omitempty"`
	SlideSize     *SlideSize       `json:"slideSize,omitempty"`
	FormatVersion int              `json:"formatVersion"`
	SlideOrder    []slideMeta      `json:"slideOrder"`
}

type lock struct {
	ActivePluginID string    `json:"activePluginId"`
	LockedAt       time.Time `json:"lockedAt"`
}

// SlideFileName is the archive path of the slide at index i.
func SlideFileName(i int) string {
	return fmt.Sprintf("%s%03d.md", slidesDir, i+1)
}

// Pack writes p as a .geekppt zip: project.json with slide metadata, one
// markdown file per slide, the plugin lock and the assets folder.
func Pack(w io.Writer, p *Project) error {
	zw := zip.NewWriter(w)

	size := p.SlideSize
	m := manifest{
		ProjectID:     p.ProjectID,
		Name:          p.Name,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
		PluginConfig:  p.PluginConfig,
		CustomThemes:  p.CustomThemes,
		SlideSize:     &size,
		FormatVersion: p.FormatVersion,
		SlideOrder:    make([]slideMeta, len(p.Slides)),
	}
	for i, s := range p.Slides {
		m.SlideOrder[i] = slideMeta{
			SlideID:  s.SlideID,
			Order:    s.Order,
			Title:    s.Title,
			Notes:    s.Notes,
			Template: s.Template,
		}
	}
	if err := writeJSON(zw, manifestName, m); err != nil {
		return err
	}

	for i, s := range p.Slides {
		if err := writeFile(zw, SlideFileName(i), []byte(s.MarkdownContent)); err != nil {
			return err
		}
	}

	if _, err := zw.Create(assetsDir); err != nil {
		return fmt.Errorf("pack assets: %w", err)
	}
	names := make([]string, 0, len(p.Assets))
	for name := range p.Assets {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := writeFile(zw, assetsDir+strings.TrimPrefix(name, "/"), p.Assets[name]); err != nil {
			return err
		}
	}

	l := lock{ActivePluginID: p.PluginConfig.ActivePluginID, LockedAt: time.Now().UTC()}
	if err := writeJSON(zw, lockName, l); err != nil {
		return err
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("pack project: %w", err)
	}
	return nil
}

func writeFile(zw *zip.Writer, name string, data []byte) error {
	f, err := zw.Create(name)
	if err != nil {
		return fmt.Errorf("pack %s: %w", name, err)
	}
	if _, err := f.Write(data); err != nil {
		return fmt.Errorf("pack %s: %w", name, err)
	}
	return nil
}

func writeJSON(zw *zip.Writer, name string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("pack %s: %w", name, err)
	}
	return writeFile(zw, name, data)
}

// Unpack reads a .geekppt zip. Slides are read from slides/*.md in name
// order and matched to project.json's slide metadata by position; missing
// metadata gets defaults.
func Unpack(r io.ReaderAt, size int64) (*Project, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidArchive, err)
	}

	files := make(map[string]*zip.File, len(zr.File))
	for _, f := range zr.File {
		files[f.Name] = f
	}

	mf, ok := files[manifestName]
	if !ok {
		return nil, fmt.Errorf("%w: missing %s", ErrInvalidArchive, manifestName)
	}
	var m manifest
	if err := readJSON(mf, &m); err != nil {
		return nil, err
	}

	var slideNames []string
	for name, f := range files {
		if strings.HasPrefix(name, slidesDir) && strings.HasSuffix(name, ".md") && !f.FileInfo().IsDir() {
			slideNames = append(slideNames, name)
		}
	}
	if len(slideNames) == 0 {
		return nil, fmt.Errorf("%w: no slides found", ErrInvalidArchive)
	}
	sort.Strings(slideNames)

	now := time.Now().UTC()
	p := &Project{
		ProjectID:     m.ProjectID,
		Name:          m.Name,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     now,
		CustomThemes:  m.CustomThemes,
		FormatVersion: m.FormatVersion,
	}
	if p.ProjectID == "" {
		p.ProjectID = "imported"
	}
	if p.Name == "" {
		p.Name = "导入的演示"
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	if p.FormatVersion == 0 {
		p.FormatVersion = FormatVersion
	}
	p.SlideSize = DefaultSlideSize()
	if m.SlideSize != nil && m.SlideSize.Width > 0 && m.SlideSize.Height > 0 {
		p.SlideSize = *m.SlideSize
	}

	for i, name := range slideNames {
		content, err := readAll(files[name])
		if err != nil {
			return nil, err
		}
		s := Slide{
			SlideID:         fmt.Sprintf("imported-%d", i),
			Order:           i,
			Title:           fmt.Sprintf("第 %d 页", i+1),
			MarkdownContent: string(content),
			Template:        Content,
		}
		if i < len(m.SlideOrder) {
			meta := m.SlideOrder[i]
			if meta.SlideID != "" {
				s.SlideID = meta.SlideID
			}
			if meta.Title != "" {
				s.Title = meta.Title
			}
			if meta.Template != "" {
				s.Template = meta.Template
			}
			s.Notes = meta.Notes
		}
		p.Slides = append(p.Slides, s)
	}

	p.PluginConfig.ActivePluginID = theme.DefaultPluginID
	if lf, ok := files[lockName]; ok {
		var l lock
		if err := readJSON(lf, &l); err != nil {
			return nil, err
		}
		if l.ActivePluginID != "" {
			p.PluginConfig.ActivePluginID = l.ActivePluginID
		}
	}
	if _, custom := p.CustomTheme(p.PluginConfig.ActivePluginID); !custom {
		p.PluginConfig.ActivePluginID = theme.NormalizeID(p.PluginConfig.ActivePluginID)
	}

	for name, f := range files {
		if !strings.HasPrefix(name, assetsDir) || f.FileInfo().IsDir() {
			continue
		}
		data, err := readAll(f)
		if err != nil {
			return nil, err
		}
		if p.Assets == nil {
			p.Assets = make(map[string][]byte)
		}
		p.Assets[path.Clean(strings.TrimPrefix(name, assetsDir))] = data
	}
	return p, nil
}

func readAll(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", ErrInvalidArchive, f.Name, err)
	}
	defer rc.Close()
	data, err := io.ReadAll(io.LimitReader(rc, maxEntrySize+1))
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", ErrInvalidArchive, f.Name, err)
	}
	if len(data) > maxEntrySize {
		return nil, fmt.Errorf("%w: %s is too large", ErrInvalidArchive, f.Name)
	}
	return data, nil
}

func readJSON(f *zip.File, v interface{}) error {
	data, err := readAll(f)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: parse %s: %v", ErrInvalidArchive, f.Name, err)
	}
	return nil
}

// WriteFile packs p to the named file.
func WriteFile(name string, p *Project) error {
	var buf bytes.Buffer
	if err := Pack(&buf, p); err != nil {
		return err
	}
	return os.WriteFile(name, buf.Bytes(), 0o644)
}

// ReadFile unpacks the named file.
func ReadFile(name string) (*Project, error) {
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, err
	}
	return Unpack(bytes.NewReader(data), int64(len(data)))
}
