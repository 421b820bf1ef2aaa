package server

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/huatuo-dr/geek-ppt/internal/export"
	"github.com/huatuo-dr/geek-ppt/internal/override"
	"github.com/huatuo-dr/geek-ppt/internal/project"
	"github.com/huatuo-dr/geek-ppt/internal/render"
	"github.com/huatuo-dr/geek-ppt/internal/theme"
)

type themeInfo struct {
	ID          string              `json:"id"`
	Version     string              `json:"version"`
	DisplayName string              `json:"displayName"`
	Appearance  theme.Appearance    `json:"appearance"`
	Background  string              `json:"background"`
	Foreground  string              `json:"foreground"`
	Accent      string              `json:"accent"`
	Missing     []theme.ElementType `json:"missingElementTypes,omitempty"`
}

type extractRequest struct {
	CSS  string `json:"css"`
	Base string `json:"base"`
}

type extractResponse struct {
	Base       string            `json:"base"`
	Properties map[string]string `json:"properties"`
}

type generateRequest struct {
	Base       string            `json:"base"`
	Properties map[string]string `json:"properties"`
}

type generateResponse struct {
	CSS string `json:"css"`
}

type diffRequest struct {
	From string `json:"from"`
	To   string `json:"to"`
}

type diffResponse struct {
	Diff string `json:"diff"`
}

type elementPreviewRequest struct {
	Base       string            `json:"base"`
	Properties map[string]string `json:"properties"`
	CanvasSize render.Size       `json:"canvasSize"`
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	var req render.Request
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	if req.CanvasSize.Width <= 0 || req.CanvasSize.Height <= 0 {
		req.CanvasSize = render.DefaultSize
	}
	writeJSON(w, http.StatusOK, s.svc.Render(r.Context(), req))
}

func (s *Server) handleThemes(w http.ResponseWriter, _ *http.Request) {
	plugins := s.registry.ListAll()
	out := make([]themeInfo, 0, len(plugins))
	for _, p := range plugins {
		out = append(out, themeInfo{
			ID:          p.ID,
			Version:     p.Version,
			DisplayName: p.DisplayName,
			Appearance:  p.Appearance,
			Background:  p.Colors.Background,
			Foreground:  p.Colors.Foreground,
			Accent:      p.Colors.Accent,
			Missing:     p.MissingElementTypes(),
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleThemeCSS(w http.ResponseWriter, r *http.Request) {
	p, err := s.registry.Get(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	w.Header().Set("Content-Type", "text/css; charset=utf-8")
	_, _ = w.Write([]byte(p.CSS()))
}

func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
	var req extractRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	ex := override.Extract(req.CSS, req.Base)
	writeJSON(w, http.StatusOK, extractResponse{Base: ex.Base, Properties: ex.Properties})
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, generateResponse{CSS: override.Generate(req.Properties, req.Base)})
}

func (s *Server) handleDiff(w http.ResponseWriter, r *http.Request) {
	var req diffRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, diffResponse{Diff: override.Diff(req.From, req.To)})
}

func (s *Server) handleElements(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, override.Catalog())
}

func (s *Server) handleElementPreview(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := override.Lookup(id); err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	var req elementPreviewRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.CanvasSize.Width <= 0 || req.CanvasSize.Height <= 0 {
		req.CanvasSize = render.DefaultSize
	}
	writeJSON(w, http.StatusOK, s.svc.PreviewElement(r.Context(), id, req.Base, req.Properties, req.CanvasSize))
}

// previewThemeID names the transient custom theme carrying a preview's
// override stylesheet.
const previewThemeID = "preview-override"

// handlePreview serves a full presentation page for the markdown form
// values, one slide each, in the plugin and optional override given. An
// override without a base directive applies on top of the plugin.
func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	slides := r.Form["markdown"]
	if len(slides) == 0 {
		writeError(w, http.StatusBadRequest, "missing markdown")
		return
	}

	p := project.FromMarkdown(r.Form.Get("title"), slides...)
	p.PluginConfig.ActivePluginID = r.Form.Get("plugin")
	if label := r.Form.Get("size"); label != "" {
		size, err := project.PresetByLabel(label)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		p.SlideSize = size
	}
	if css := r.Form.Get("override"); strings.TrimSpace(css) != "" {
		if _, ok := override.DetectBase(css); !ok {
			if dir := override.Directive(r.Form.Get("plugin")); dir != "" {
				css = dir + "\n\n" + css
			}
		}
		p.CustomThemes = append(p.CustomThemes, override.Theme{ThemeID: previewThemeID, DisplayName: previewThemeID, CSS: css})
		p.PluginConfig.ActivePluginID = previewThemeID
	}

	html, _, err := export.Document(r.Context(), s.svc, p)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(html))
}
