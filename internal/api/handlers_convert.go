package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/dgallion1/mdxmigrate/internal/csf"
	"github.com/dgallion1/mdxmigrate/internal/mdx"
	"github.com/dgallion1/mdxmigrate/internal/parser"
)

type convertRequest struct {
	Filename string `json:"filename"`
	Source   string `json:"source"`
}

type fileResponse struct {
	Path    string `json:"path"`
	Content string `json:"content"`
}

type csfResponse struct {
	Module    string       `json:"module"`
	Title     string       `json:"title,omitempty"`
	Component string       `json:"component,omitempty"`
	Doc       fileResponse `json:"doc"`
	Stories   fileResponse `json:"stories"`
	Exports   []string     `json:"exports"`
	Warnings  []string     `json:"warnings"`
}

type headingsResponse struct {
	File         fileResponse `json:"file"`
	Changed      bool         `json:"changed"`
	Headings     int          `json:"headings"`
	Specifiers   int          `json:"specifiers_removed"`
	Declarations int          `json:"declarations_removed"`
}

// decodeConvert reads and checks a convert request. It writes the error
// response itself and returns ok=false on failure.
func decodeConvert(w http.ResponseWriter, r *http.Request) (convertRequest, bool) {
	var req convertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			jsonError(w, fmt.Sprintf("request exceeds max size (%d bytes)", tooBig.Limit), http.StatusRequestEntityTooLarge)
			return req, false
		}
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return req, false
	}
	if req.Filename == "" {
		req.Filename = "document.mdx"
	}
	req.Filename = sanitizeFilename(req.Filename)
	if !parser.IsSupportedExtension(req.Filename) {
		jsonError(w, fmt.Sprintf("unsupported file type: %s", filepath.Ext(req.Filename)), http.StatusBadRequest)
		return req, false
	}
	if strings.TrimSpace(req.Source) == "" {
		jsonError(w, "source is required", http.StatusBadRequest)
		return req, false
	}
	return req, true
}

func (s *Server) parse(w http.ResponseWriter, req convertRequest) (*mdx.Document, bool) {
	doc, err := s.parser.Parse(strings.NewReader(req.Source), req.Filename)
	if err != nil {
		s.log.Info("preview parse failed", "filename", req.Filename, "error", err)
		jsonError(w, err.Error(), http.StatusUnprocessableEntity)
		return nil, false
	}
	return doc, true
}

func (s *Server) handleConvertCSF(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeConvert(w, r)
	if !ok {
		return
	}
	doc, ok := s.parse(w, req)
	if !ok {
		return
	}

	res, err := s.splitter.Split(doc, req.Filename)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, csf.ErrStoryUnnamed) {
			status = http.StatusUnprocessableEntity
		}
		jsonError(w, err.Error(), status)
		return
	}

	out := csfResponse{
		Module:    res.Module,
		Title:     res.Meta.Title,
		Component: res.Meta.Component,
		Doc:       fileResponse{Path: res.DocPath, Content: string(res.Doc)},
		Stories:   fileResponse{Path: res.StoriesPath, Content: string(res.Stories)},
		Exports:   []string{},
		Warnings:  []string{},
	}
	for _, sd := range res.Exports {
		out.Exports = append(out.Exports, sd.ExportName)
	}
	out.Warnings = append(out.Warnings, res.Warnings...)
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleConvertHeadings(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeConvert(w, r)
	if !ok {
		return
	}
	doc, ok := s.parse(w, req)
	if !ok {
		return
	}

	st := s.normalizer.Normalize(doc)
	content := doc.Bytes()
	writeJSON(w, http.StatusOK, headingsResponse{
		File:         fileResponse{Path: req.Filename, Content: string(content)},
		Changed:      string(content) != req.Source,
		Headings:     st.Headings,
		Specifiers:   st.Specifiers,
		Declarations: st.Declarations,
	})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	writeJSON(w, code, map[string]string{"error": msg})
}

func sanitizeFilename(name string) string {
	// Strip path components, keep only the base name.
	name = filepath.Base(name)
	name = strings.ReplaceAll(name, "/", "_")
	name = strings.ReplaceAll(name, "\\", "_")
	name = strings.ReplaceAll(name, "..", "_")
	if name == "" || name == "." {
		name = "unnamed"
	}
	return name
}
