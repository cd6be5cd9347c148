package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/hlog"

	"pdf-rag/internal/chromemdb"
	"pdf-rag/internal/helper"
	"pdf-rag/internal/models"
	"pdf-rag/internal/parser"
	"pdf-rag/internal/rag"
	"pdf-rag/internal/session"
)

const (
	msgUploaded        = "PDFs uploaded and indexed successfully"
	msgNoFilePart      = "No file part"
	msgNotAllowed      = "File type not allowed: "
	msgMissingQuestion = "Missing 'query' in request body"
	msgErrorPrefix     = "An error occurred: "
)

type errorResponse struct {
	Error string `json:"error"`
}

type uploadResponse struct {
	Message   string   `json:"message"`
	SessionID string   `json:"session_id"`
	Files     []string `json:"files"`
	Chunks    int      `json:"chunks"`
}

type askRequest struct {
	Question *string `json:"question"`
}

type askResponse struct {
	Response string         `json:"response"`
	Sources  []models.Chunk `json:"sources"`
}

type sessionResponse struct {
	SessionID string     `json:"session_id"`
	Files     []string   `json:"files"`
	Chunks    int        `json:"chunks"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

func newSessionResponse(sess *session.Session) sessionResponse {
	resp := sessionResponse{SessionID: sess.ID(), Files: sess.Files(), Chunks: sess.Chunks()}
	if t := sess.UpdatedAt(); !t.IsZero() {
		resp.UpdatedAt = &t
	}
	return resp
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func sessionID(r *http.Request) string {
	return strings.TrimSpace(r.Header.Get(SessionHeader))
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	logger := hlog.FromRequest(r)

	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadMB<<20)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("Upload exceeds %d MB", s.cfg.MaxUploadMB))
			return
		}
		writeError(w, http.StatusBadRequest, msgNoFilePart)
		return
	}
	defer r.MultipartForm.RemoveAll()

	headers := r.MultipartForm.File[filesField]
	if len(headers) == 0 {
		writeError(w, http.StatusBadRequest, msgNoFilePart)
		return
	}
	for _, fh := range headers {
		if !parser.IsPDF(fh.Filename) {
			writeError(w, http.StatusBadRequest, msgNotAllowed+fh.Filename)
			return
		}
	}

	files, err := readFiles(headers)
	if err != nil {
		writeError(w, http.StatusBadRequest, msgErrorPrefix+err.Error())
		return
	}
	s.archive(r, files)

	res, err := s.indexer.Build(r.Context(), files)
	if err != nil {
		logger.Error().Err(err).Str("session", sessionID(r)).Msg("Error indexing upload")
		writeError(w, http.StatusInternalServerError, msgErrorPrefix+err.Error())
		return
	}
	sess := s.sessions.Replace(sessionID(r), res)

	w.Header().Set(SessionHeader, sess.ID())
	writeJSON(w, http.StatusOK, uploadResponse{
		Message:   msgUploaded,
		SessionID: sess.ID(),
		Files:     res.Files,
		Chunks:    len(res.Chunks),
	})
}

func readFiles(headers []*multipart.FileHeader) ([]models.File, error) {
	files := make([]models.File, 0, len(headers))
	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			return nil, fmt.Errorf("failed to open %s: %w", fh.Filename, err)
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", fh.Filename, err)
		}
		files = append(files, models.File{Name: fh.Filename, Data: data})
	}
	return files, nil
}

// archive keeps a copy of raw uploads when an uploads dir is configured.
// Failures are logged and never fail the upload.
func (s *Server) archive(r *http.Request, files []models.File) {
	if s.cfg.UploadsDir == "" {
		return
	}
	for _, f := range files {
		path, err := helper.SaveFile(s.cfg.UploadsDir, f.Name, f.Data)
		if err != nil {
			hlog.FromRequest(r).Warn().Err(err).Str("file", f.Name).Msg("Error archiving upload")
			continue
		}
		hlog.FromRequest(r).Debug().Str("path", path).Msg("Archived upload")
	}
}

func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	var req askRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Question == nil || strings.TrimSpace(*req.Question) == "" {
		writeError(w, http.StatusBadRequest, msgMissingQuestion)
		return
	}

	var index *chromemdb.VectorDBManager
	if sess, ok := s.sessions.Get(sessionID(r)); ok {
		index = sess.Index()
	}
	if index == nil {
		writeError(w, http.StatusBadRequest, msgErrorPrefix+rag.ErrNoIndex.Error())
		return
	}

	res, err := s.rag.Query(r.Context(), index, *req.Question)
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("Error answering question")
		writeError(w, http.StatusBadRequest, msgErrorPrefix+err.Error())
		return
	}

	writeJSON(w, http.StatusOK, askResponse{Response: res.Content, Sources: res.Sources})
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	id := sessionID(r)
	sess, ok := s.sessions.Get(id)
	if !ok {
		writeError(w, http.StatusNotFound, "Unknown session: "+id)
		return
	}
	writeJSON(w, http.StatusOK, newSessionResponse(sess))
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessions.Create()
	if err != nil {
		writeError(w, http.StatusInternalServerError, msgErrorPrefix+err.Error())
		return
	}
	w.Header().Set(SessionHeader, sess.ID())
	writeJSON(w, http.StatusOK, newSessionResponse(sess))
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	if sess, ok := s.sessions.Delete(sessionID(r)); ok {
		hlog.FromRequest(r).Debug().Str("session", sess.ID()).Strs("files", sess.Files()).Msg("Clearing session")
		if err := sess.Clear(); err != nil {
			hlog.FromRequest(r).Warn().Err(err).Str("session", sess.ID()).Msg("Error clearing session")
		}
	}
	w.WriteHeader(http.StatusNoContent)
}
