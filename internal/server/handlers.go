package server

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/procdeck/pkg/buildinfo"
	errs "github.com/matzehuels/procdeck/pkg/errors"
	"github.com/matzehuels/procdeck/pkg/pipeline"
	"github.com/matzehuels/procdeck/pkg/render"
	"github.com/matzehuels/procdeck/pkg/render/deck"
	"github.com/matzehuels/procdeck/pkg/table"
)

const indexHTML = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <title>procdeck</title>
</head>
<body>
  <h1>Process table to diagram deck</h1>
  <form id="upload" action="/upload" method="post" enctype="multipart/form-data">
    <input type="file" name="file" accept=".xlsx,.xlsm,.csv">
    <button type="submit">Upload</button>
  </form>
  <p id="status"></p>
  <p><a href="/download">Download combined deck</a></p>
  <script>
    document.getElementById('upload').addEventListener('submit', async (e) => {
      e.preventDefault();
      const res = await fetch('/upload', { method: 'POST', body: new FormData(e.target) });
      const body = await res.json();
      document.getElementById('status').textContent = body.message;
    });
  </script>
</body>
</html>
`

type uploadResponse struct {
	Message  string            `json:"message"`
	ID       string            `json:"id"`
	Pages    []string          `json:"pages"`
	Failures map[string]string `json:"failures,omitempty"`
	Files    []string          `json:"files"`
}

type healthResponse struct {
	Status string         `json:"status"`
	Build  buildinfo.Info `json:"build"`
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = io.WriteString(w, indexHTML)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Build: buildinfo.Get()})
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)
	file, header, err := r.FormFile("file")
	if err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			writeError(w, tooLarge(tooBig.Limit))
			return
		}
		writeError(w, badRequest("No file selected", err))
		return
	}
	defer file.Close()

	if err := errs.ValidateUploadFilename(header.Filename); err != nil {
		writeError(w, err)
		return
	}

	id := uuid.NewString()[:8]
	ext := filepath.Ext(header.Filename)
	base := fmt.Sprintf("%s_%s", strings.TrimSuffix(header.Filename, ext), id)
	path := filepath.Join(s.cfg.UploadDir, base+ext)

	if err := saveUpload(path, file); err != nil {
		writeError(w, internal("failed to save file", err))
		return
	}
	s.logger.Info("saved upload", "file", path, "id", id)

	tbl, err := table.Load(path, "")
	if err != nil {
		if rmErr := os.Remove(path); rmErr != nil {
			s.logger.Warn("remove rejected upload", "file", path, "err", rmErr)
		}
		writeError(w, err)
		return
	}

	d := deck.New()
	report, err := s.runner.Run(r.Context(), tbl, d)
	if err != nil {
		writeError(w, internal("pipeline failed", err))
		return
	}

	resp := uploadResponse{Message: "Upload successful", ID: id}
	for _, p := range report.Pages {
		resp.Pages = append(resp.Pages, p.Policy)
	}
	if len(report.Failures) > 0 {
		resp.Failures = make(map[string]string, len(report.Failures))
		for _, f := range report.Failures {
			resp.Failures[f.Policy] = errs.UserMessage(f.Err)
		}
	}
	if d.Len() == 0 {
		writeJSON(w, http.StatusUnprocessableEntity, &apiError{
			Code:    string(errs.ErrCodeMalformedTable),
			Message: "no policy produced a page",
			Details: fmt.Sprint(resp.Failures),
		})
		return
	}

	written, err := d.Write(s.cfg.UploadDir, base, s.formats())
	if err != nil {
		writeError(w, err)
		return
	}
	for _, p := range written {
		resp.Files = append(resp.Files, filepath.Base(p))
	}

	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Now().Add(24 * time.Hour),
	})
	writeJSON(w, http.StatusOK, resp)
}

func saveUpload(path string, src io.Reader) error {
	dst, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		_ = os.Remove(path)
		return err
	}
	return dst.Close()
}

// formats returns the configured output formats. PDF is replaced by JSON
// when rsvg-convert is missing so that uploads still yield a download.
func (s *Server) formats() []string {
	opts := s.runner.Options
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return []string{pipeline.FormatJSON}
	}
	formats := slices.Clone(opts.Formats)
	if i := slices.Index(formats, pipeline.FormatPDF); i >= 0 && !render.Available() {
		s.logger.Warn("rsvg-convert not found, skipping pdf output")
		formats = slices.Delete(formats, i, i+1)
		if !slices.Contains(formats, pipeline.FormatJSON) {
			formats = append(formats, pipeline.FormatJSON)
		}
	}
	return formats
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		c, err := r.Cookie(CookieName)
		if err != nil {
			writeError(w, notFound("no upload found for this session"))
			return
		}
		id = c.Value
	}
	if err := errs.ValidateIdentifier(id); err != nil {
		writeError(w, err)
		return
	}

	path, ok := s.combinedFile(id)
	if !ok {
		writeError(w, notFound("combined file not found"))
		return
	}
	s.logger.Debug("serving download", "file", path)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filepath.Base(path)))
	http.ServeFile(w, r, path)
}

// combinedFile finds the combined output of upload id, preferring PDF.
func (s *Server) combinedFile(id string) (string, bool) {
	for _, format := range []string{pipeline.FormatPDF, pipeline.FormatJSON} {
		pattern := filepath.Join(s.cfg.UploadDir, deck.CombinedName("*_"+id, format, 0))
		matches, err := filepath.Glob(pattern)
		if err == nil && len(matches) > 0 {
			return matches[0], true
		}
	}
	return "", false
}
