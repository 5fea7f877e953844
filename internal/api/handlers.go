package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/mkalinic/sitegen/internal/pipeline"
	"github.com/mkalinic/sitegen/internal/sitemap"
	"github.com/mkalinic/sitegen/internal/tabular"
)

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes+1024*1024) // extra 1MB for form overhead

	if err := r.ParseMultipartForm(8 << 20); err != nil {
		jsonError(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		jsonError(w, "file is required: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer file.Close()

	filename := sanitizeFilename(header.Filename)
	if strings.ToLower(filepath.Ext(filename)) != ".csv" {
		jsonError(w, fmt.Sprintf("unsupported file type: %s (expected .csv)", filepath.Ext(filename)), http.StatusBadRequest)
		return
	}

	data, err := io.ReadAll(io.LimitReader(file, s.cfg.MaxUploadBytes+1))
	if err != nil {
		jsonError(w, "failed to read file", http.StatusInternalServerError)
		return
	}
	if int64(len(data)) > s.cfg.MaxUploadBytes {
		jsonError(w, fmt.Sprintf("file exceeds max size (%d bytes)", s.cfg.MaxUploadBytes), http.StatusRequestEntityTooLarge)
		return
	}

	session, err := s.service.Upload(filename, data)
	if err != nil {
		var ingestErr *tabular.IngestError
		if errors.As(err, &ingestErr) {
			jsonError(w, ingestErr.Error(), http.StatusUnprocessableEntity)
			return
		}
		jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(session.Snapshot())
}

func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	session := s.service.Get(chi.URLParam(r, "sessionID"))
	if session == nil {
		jsonError(w, "session not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(session.Snapshot())
}

type generateRequest struct {
	QuestionColumn string `json:"question_column"`
	AnswerColumn   string `json:"answer_column"`
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	var req generateRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
			return
		}
	}

	result, err := s.service.Generate(r.Context(), sessionID, req.QuestionColumn, req.AnswerColumn)
	switch {
	case errors.Is(err, pipeline.ErrSessionNotFound):
		jsonError(w, err.Error(), http.StatusNotFound)
		return
	case errors.Is(err, pipeline.ErrNoPairs):
		jsonError(w, err.Error(), http.StatusUnprocessableEntity)
		return
	case errors.Is(err, pipeline.ErrUnknownColumn):
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	case err != nil:
		// LLM failures. The previous result, if any, is still available
		// under /result.
		jsonError(w, err.Error(), http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}

func (s *Server) handleResult(w http.ResponseWriter, r *http.Request) {
	session := s.service.Get(chi.URLParam(r, "sessionID"))
	if session == nil {
		jsonError(w, "session not found", http.StatusNotFound)
		return
	}
	result := session.Result()
	if result == nil {
		jsonError(w, "no sitemap generated yet", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}

func (s *Server) handleDownloadXML(w http.ResponseWriter, r *http.Request) {
	session, result := s.sessionResult(w, r)
	if result == nil {
		return
	}

	body := []byte(result.XML)
	if r.URL.Query().Get("normalized") == "1" {
		normalized, err := sitemap.Marshal(result.URLs)
		if err != nil {
			jsonError(w, "normalize sitemap: "+err.Error(), http.StatusInternalServerError)
			return
		}
		body = normalized
	}

	w.Header().Set("Content-Type", "application/xml")
	w.Header().Set("Content-Disposition", attachment(downloadName(session, result, "sitemap", "xml")))
	w.Write(body)
}

func (s *Server) handleDownloadTree(w http.ResponseWriter, r *http.Request) {
	session, result := s.sessionResult(w, r)
	if result == nil {
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", attachment(downloadName(session, result, "sitemap_structure", "txt")))
	w.Write([]byte(result.TreeText))
}

func (s *Server) handleLLMStats(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(s.llmStats.Snapshot())
}

func (s *Server) sessionResult(w http.ResponseWriter, r *http.Request) (*pipeline.Session, *pipeline.Result) {
	session := s.service.Get(chi.URLParam(r, "sessionID"))
	if session == nil {
		jsonError(w, "session not found", http.StatusNotFound)
		return nil, nil
	}
	result := session.Result()
	if result == nil {
		jsonError(w, "no sitemap generated yet", http.StatusNotFound)
		return nil, nil
	}
	return session, result
}

// downloadName labels artifacts with the detected client name when one
// exists, else with the generation timestamp.
func downloadName(session *pipeline.Session, result *pipeline.Result, stem, ext string) string {
	if session.ClientName != "" {
		return fmt.Sprintf("%s_%s.%s", stem, session.ClientName, ext)
	}
	return fmt.Sprintf("%s_%s.%s", stem, result.GeneratedAt.Format("20060102_150405"), ext)
}

func attachment(filename string) string {
	return fmt.Sprintf("attachment; filename=%q", filename)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func sanitizeFilename(name string) string {
	name = filepath.Base(name)
	name = strings.ReplaceAll(name, "/", "_")
	name = strings.ReplaceAll(name, "\\", "_")
	name = strings.ReplaceAll(name, "..", "_")
	if name == "" || name == "." {
		name = "unnamed.csv"
	}
	return name
}
