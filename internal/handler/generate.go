package handler

import (
	"bytes"
	"errors"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"

	"github.com/a3tai/dr-antrag/internal/form"
	"github.com/a3tai/dr-antrag/internal/trip"
)

// formField is the form field the web front end posts the request in.
const formField = "json_data"

// maxFormMemory bounds the in-memory part of multipart parsing.
const maxFormMemory = 1 << 20

// generate handles POST /generate. The request JSON is accepted either as
// form field json_data or as a raw JSON body. The filled PDF is streamed
// back as an attachment and its work directory removed afterwards.
func (s *Server) generate(w http.ResponseWriter, r *http.Request) {
	raw, err := readPayload(r)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, msgTooLarge)
			return
		}
		s.logger.Warn("failed to read request body", "error", err)
		writeError(w, http.StatusBadRequest, msgNoData)
		return
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		s.logger.Warn("request without JSON data")
		writeError(w, http.StatusBadRequest, msgNoData)
		return
	}

	req, err := trip.Parse(raw)
	if err != nil {
		var verr *trip.ValidationError
		if errors.As(err, &verr) {
			s.logger.Warn("invalid request", "violations", verr.Summary())
			writeError(w, http.StatusBadRequest, msgValidationPrefix+verr.Summary())
			return
		}
		s.logger.Error("failed to parse JSON", "error", err)
		writeError(w, http.StatusBadRequest, msgInvalidJSON)
		return
	}

	dir, cleanup, err := s.outRoot.WorkDir()
	if err != nil {
		s.logger.Error("failed to create work directory", "error", err)
		writeError(w, http.StatusInternalServerError, msgGenerationFailed)
		return
	}
	defer cleanup()

	path, err := s.forms.Fill(req, dir)
	if err != nil {
		s.writeFillError(w, err)
		return
	}

	s.sendFile(w, r, path)
}

func (s *Server) writeFillError(w http.ResponseWriter, err error) {
	switch form.KindOf(err) {
	case form.KindTemplateNotFound:
		writeError(w, http.StatusInternalServerError, msgTemplateMissing)
	case form.KindValidationFailed:
		writeError(w, http.StatusBadRequest, msgValidationPrefix+err.Error())
	default:
		writeError(w, http.StatusInternalServerError, msgGenerationFailed)
	}
}

func (s *Server) sendFile(w http.ResponseWriter, r *http.Request, path string) {
	f, err := os.Open(path)
	if err != nil {
		s.logger.Error("failed to open generated PDF", "path", path, "error", err)
		writeError(w, http.StatusInternalServerError, msgGenerationFailed)
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		s.logger.Error("failed to stat generated PDF", "path", path, "error", err)
		writeError(w, http.StatusInternalServerError, msgGenerationFailed)
		return
	}

	name := filepath.Base(path)
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": name}))
	http.ServeContent(w, r, name, info.ModTime(), f)

	s.logger.Info("PDF sent", "filename", name)
}

// readPayload returns the submitted JSON text. Form posts carry it in
// json_data; any other content type is read as the raw body.
func readPayload(r *http.Request) ([]byte, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))

	switch mediaType {
	case "application/x-www-form-urlencoded", "multipart/form-data":
		if err := r.ParseMultipartForm(maxFormMemory); err != nil && !errors.Is(err, http.ErrNotMultipart) {
			return nil, err
		}
		return []byte(r.FormValue(formField)), nil
	default:
		return io.ReadAll(r.Body)
	}
}
