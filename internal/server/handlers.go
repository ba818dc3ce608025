package server

import (
	"bytes"
	"encoding/json"
	"image/png"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/disintegration/imaging"
	"github.com/go-chi/chi/v5"

	"github.com/labelpress/labelpress/pkg/buildinfo"
	"github.com/labelpress/labelpress/pkg/errors"
	"github.com/labelpress/labelpress/pkg/pipeline"
	"github.com/labelpress/labelpress/pkg/render/sink"
)

// maxUploadBytes bounds multipart dataset uploads.
const maxUploadBytes = 32 << 20

var contentTypes = map[string]string{
	pipeline.FormatPDF:  "application/pdf",
	pipeline.FormatPNG:  "image/png",
	pipeline.FormatJSON: "application/json",
}

// =============================================================================
// Meta
// =============================================================================

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"version": buildinfo.Version,
		"commit":  buildinfo.Commit,
		"date":    buildinfo.Date,
	})
}

// =============================================================================
// Rendering
// =============================================================================

// handleRender runs the pipeline and returns artifacts directly. A single
// requested format comes back as raw bytes with its content type; several
// formats come back as a JSON envelope with base64 artifact data.
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	opts, cleanup, err := s.decodeRequest(r)
	if cleanup != nil {
		defer cleanup()
	}
	if err != nil {
		writeError(w, s.cfg.Logger, err)
		return
	}

	result, err := s.execute(r, opts)
	if err != nil {
		writeError(w, s.cfg.Logger, err)
		return
	}

	if len(opts.Formats) == 1 {
		format := opts.Formats[0]
		w.Header().Set("Content-Type", contentTypes[format])
		w.WriteHeader(http.StatusOK)
		w.Write(result.Artifacts[format])
		return
	}
	writeJSON(w, http.StatusOK, renderResponse(result))
}

// handleCreateSheet runs the pipeline, stores the result as a document,
// and returns its ID and stats. The stored document always carries a PDF
// for fetching, regardless of the requested formats.
func (s *Server) handleCreateSheet(w http.ResponseWriter, r *http.Request) {
	opts, cleanup, err := s.decodeRequest(r)
	if cleanup != nil {
		defer cleanup()
	}
	if err != nil {
		writeError(w, s.cfg.Logger, err)
		return
	}
	if !containsFormat(opts.Formats, pipeline.FormatPDF) {
		opts.Formats = append(opts.Formats, pipeline.FormatPDF)
	}

	result, err := s.execute(r, opts)
	if err != nil {
		writeError(w, s.cfg.Logger, err)
		return
	}

	scale := opts.Scale
	if scale == 0 {
		scale = pipeline.DefaultScale
	}
	id := s.docs.put(result, scale)
	writeJSON(w, http.StatusCreated, map[string]any{
		"id":         id,
		"sheet_hash": result.SheetHash,
		"records":    result.Stats.Records,
		"pages":      result.Stats.Pages,
		"degraded":   result.Stats.Degraded,
		"document":   "/api/documents/" + id,
		"preview":    "/api/documents/" + id + "/preview",
	})
}

func (s *Server) handleDocument(w http.ResponseWriter, r *http.Request) {
	doc, ok := s.docs.get(chi.URLParam(r, "id"))
	if !ok {
		writeError(w, s.cfg.Logger, errors.New(errors.ErrCodeJobNotFound, "document not found"))
		return
	}
	pdf, ok := doc.Result.Artifacts[pipeline.FormatPDF]
	if !ok {
		writeError(w, s.cfg.Logger, errors.New(errors.ErrCodeInternal, "document has no pdf artifact"))
		return
	}
	w.Header().Set("Content-Type", contentTypes[pipeline.FormatPDF])
	w.WriteHeader(http.StatusOK)
	w.Write(pdf)
}

// handlePreview rasterizes one page of a stored document. Query params:
// page (1-based, default 1) and width (pixels, default the natural raster
// width).
func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	doc, ok := s.docs.get(chi.URLParam(r, "id"))
	if !ok {
		writeError(w, s.cfg.Logger, errors.New(errors.ErrCodeJobNotFound, "document not found"))
		return
	}

	page := 1
	if v := r.URL.Query().Get("page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, s.cfg.Logger, errors.New(errors.ErrCodeInvalidInput, "page must be a number, got %q", v))
			return
		}
		page = n
	}

	data, err := sink.RenderPNG(doc.Result.Sheet,
		sink.WithPNGFonts(s.cfg.Fonts),
		sink.WithScale(doc.Scale),
		sink.WithPage(page),
	)
	if err != nil {
		writeError(w, s.cfg.Logger, err)
		return
	}

	if v := r.URL.Query().Get("width"); v != "" {
		width, err := strconv.Atoi(v)
		if err != nil || width < 1 {
			writeError(w, s.cfg.Logger, errors.New(errors.ErrCodeInvalidInput, "width must be a positive number, got %q", v))
			return
		}
		data, err = resizePNG(data, width)
		if err != nil {
			writeError(w, s.cfg.Logger, err)
			return
		}
	}

	w.Header().Set("Content-Type", contentTypes[pipeline.FormatPNG])
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// execute routes to the symbol or label pipeline based on the options.
func (s *Server) execute(r *http.Request, opts pipeline.Options) (*pipeline.Result, error) {
	opts.Logger = s.cfg.Logger
	opts.Fonts = s.cfg.Fonts
	if opts.Text != "" || opts.ImagePath != "" {
		return s.runner.ExecuteSymbols(r.Context(), opts)
	}
	return s.runner.Execute(r.Context(), opts)
}

// decodeRequest reads pipeline options from a JSON body or a multipart
// form with an uploaded dataset file. The cleanup func removes any temp
// file and is non-nil whenever one was created.
func (s *Server) decodeRequest(r *http.Request) (pipeline.Options, func(), error) {
	var opts pipeline.Options

	ct := r.Header.Get("Content-Type")
	if strings.HasPrefix(ct, "multipart/form-data") {
		return s.decodeMultipart(r)
	}

	if err := json.NewDecoder(io.LimitReader(r.Body, maxUploadBytes)).Decode(&opts); err != nil {
		return opts, nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decoding request body")
	}
	if opts.Dataset != "" {
		// Server-side paths are not accepted over the API.
		return opts, nil, errors.New(errors.ErrCodeInvalidInput,
			"dataset paths are not accepted; upload the file or send records inline")
	}
	return opts, nil, nil
}

func (s *Server) decodeMultipart(r *http.Request) (pipeline.Options, func(), error) {
	var opts pipeline.Options

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		return opts, nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "parsing multipart form")
	}

	file, header, err := r.FormFile("dataset")
	if err != nil {
		return opts, nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "multipart request needs a dataset file")
	}
	defer file.Close()

	// The dataset reader detects the format by extension, so the temp
	// file keeps the upload's.
	ext := strings.ToLower(filepath.Ext(header.Filename))
	tmp, err := os.CreateTemp("", "labelpress-upload-*"+ext)
	if err != nil {
		return opts, nil, errors.Wrap(errors.ErrCodeInternal, err, "storing upload")
	}
	cleanup := func() { os.Remove(tmp.Name()) }
	if _, err := io.Copy(tmp, file); err != nil {
		tmp.Close()
		return opts, cleanup, errors.Wrap(errors.ErrCodeInternal, err, "storing upload")
	}
	if err := tmp.Close(); err != nil {
		return opts, cleanup, errors.Wrap(errors.ErrCodeInternal, err, "storing upload")
	}

	opts.Dataset = tmp.Name()
	opts.Rows = r.FormValue("rows")
	opts.Template = r.FormValue("template")
	if v := r.FormValue("formats"); v != "" {
		opts.Formats = strings.Split(v, ",")
	}
	if v := r.FormValue("scale"); v != "" {
		scale, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return opts, cleanup, errors.New(errors.ErrCodeInvalidInput, "scale must be a number, got %q", v)
		}
		opts.Scale = scale
	}
	if v := r.FormValue("page"); v != "" {
		page, err := strconv.Atoi(v)
		if err != nil {
			return opts, cleanup, errors.New(errors.ErrCodeInvalidInput, "page must be a number, got %q", v)
		}
		opts.Page = page
	}
	return opts, cleanup, nil
}

// =============================================================================
// Library
// =============================================================================

func (s *Server) handleLibraryList(w http.ResponseWriter, r *http.Request) {
	items, err := s.cfg.Library.List(r.Context())
	if err != nil {
		writeError(w, s.cfg.Logger, err)
		return
	}
	if items == nil {
		items = []string{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

func (s *Server) handleLibraryAdd(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Items []string `json:"items"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, s.cfg.Logger, errors.Wrap(errors.ErrCodeInvalidInput, err, "decoding request body"))
		return
	}
	if err := s.cfg.Library.Add(r.Context(), body.Items...); err != nil {
		writeError(w, s.cfg.Logger, err)
		return
	}
	s.handleLibraryList(w, r)
}

func (s *Server) handleLibraryReplace(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Items []string `json:"items"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, s.cfg.Logger, errors.Wrap(errors.ErrCodeInvalidInput, err, "decoding request body"))
		return
	}
	if err := s.cfg.Library.Replace(r.Context(), body.Items); err != nil {
		writeError(w, s.cfg.Logger, err)
		return
	}
	s.handleLibraryList(w, r)
}

func (s *Server) handleLibraryRemove(w http.ResponseWriter, r *http.Request) {
	item := chi.URLParam(r, "item")
	if err := s.cfg.Library.Remove(r.Context(), item); err != nil {
		writeError(w, s.cfg.Logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// Helpers
// =============================================================================

// renderResponse is the JSON envelope for multi-format renders. Artifact
// bytes marshal as base64.
func renderResponse(result *pipeline.Result) map[string]any {
	return map[string]any{
		"sheet_hash": result.SheetHash,
		"records":    result.Stats.Records,
		"pages":      result.Stats.Pages,
		"degraded":   result.Stats.Degraded,
		"cache": map[string]bool{
			"plan":   result.CacheInfo.PlanHit,
			"render": result.CacheInfo.RenderHit,
		},
		"artifacts": result.Artifacts,
	}
}

// resizePNG scales a PNG to the given width, preserving aspect ratio.
func resizePNG(data []byte, width int) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "decoding preview")
	}
	resized := imaging.Resize(img, width, 0, imaging.Lanczos)
	var buf bytes.Buffer
	if err := png.Encode(&buf, resized); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encoding preview")
	}
	return buf.Bytes(), nil
}

func containsFormat(formats []string, format string) bool {
	for _, f := range formats {
		if f == format {
			return true
		}
	}
	return false
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps error codes onto HTTP statuses and emits a JSON error
// body. Unknown errors are logged and reported as a plain 500 without
// leaking internals.
func writeError(w http.ResponseWriter, logger *log.Logger, err error) {
	status := http.StatusInternalServerError
	switch errors.GetCode(err) {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidFormat,
		errors.ErrCodeInvalidTemplate, errors.ErrCodeInvalidDataset,
		errors.ErrCodeGridBounds:
		status = http.StatusBadRequest
	case errors.ErrCodeResourceMissing:
		status = http.StatusUnprocessableEntity
	case errors.ErrCodeNotFound, errors.ErrCodeFileNotFound,
		errors.ErrCodeItemNotFound, errors.ErrCodeJobNotFound:
		status = http.StatusNotFound
	}

	if status == http.StatusInternalServerError {
		logger.Error("request failed", "error", err)
		writeJSON(w, status, map[string]any{
			"error": map[string]string{"code": string(errors.ErrCodeInternal), "message": "internal error"},
		})
		return
	}
	writeJSON(w, status, map[string]any{
		"error": map[string]string{
			"code":    string(errors.GetCode(err)),
			"message": errors.UserMessage(err),
		},
	})
}
