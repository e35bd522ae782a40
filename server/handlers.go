package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/sunnystate/quotes/assets"
	"github.com/sunnystate/quotes/export"
	"github.com/sunnystate/quotes/layout"
	"github.com/sunnystate/quotes/logging"
	"github.com/sunnystate/quotes/quote"
	"github.com/sunnystate/quotes/theme"
)

var validate = func() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}()

func validationDetails(err error) map[string]string {
	out := map[string]string{}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			out[fe.Namespace()] = fmt.Sprintf("failed %s %s", fe.Tag(), fe.Param())
		}
	}
	return out
}

type handlers struct {
	Deps
}

func (h *handlers) health(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

type renderQuery struct {
	Mode string `validate:"omitempty,oneof=download preview"`
	Page int    `validate:"min=1,max=50"`
}

// decodeQuote reads and validates the JSON quote body.
func (h *handlers) decodeQuote(w http.ResponseWriter, r *http.Request) (quote.Quote, bool) {
	var q quote.Quote
	body := http.MaxBytesReader(w, r.Body, h.maxRequest())
	if err := json.NewDecoder(body).Decode(&q); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, r, http.StatusRequestEntityTooLarge, codeTooLarge, "quote body is too large", nil)
			return q, false
		}
		writeError(w, r, http.StatusBadRequest, codeBadRequest, "invalid quote JSON", nil)
		return q, false
	}
	if err := validate.Struct(q); err != nil {
		writeError(w, r, http.StatusUnprocessableEntity, codeValidation, "quote failed validation", validationDetails(err))
		return q, false
	}
	return q, true
}

func (h *handlers) render(w http.ResponseWriter, r *http.Request) {
	rq := renderQuery{Mode: r.URL.Query().Get("mode"), Page: 1}
	if err := validate.Struct(rq); err != nil {
		writeError(w, r, http.StatusBadRequest, codeValidation, "mode must be download or preview", nil)
		return
	}
	mode := layout.ModeDownload
	if rq.Mode == "preview" {
		mode = layout.ModePreview
	}
	q, ok := h.decodeQuote(w, r)
	if !ok {
		return
	}
	h.generate(w, r, h.Generator, q, mode)
}

func (h *handlers) thumbnail(w http.ResponseWriter, r *http.Request) {
	rq := renderQuery{Page: 1}
	if p := r.URL.Query().Get("page"); p != "" {
		n, err := strconv.Atoi(p)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, codeBadRequest, "page must be a number", nil)
			return
		}
		rq.Page = n
	}
	if err := validate.Struct(rq); err != nil {
		writeError(w, r, http.StatusBadRequest, codeValidation, "page out of range", validationDetails(err))
		return
	}
	q, ok := h.decodeQuote(w, r)
	if !ok {
		return
	}
	h.generate(w, r, h.Thumbnails(rq.Page), q, layout.ModePreview)
}

func (h *handlers) generate(w http.ResponseWriter, r *http.Request, gen *export.Generator, q quote.Quote, mode layout.Mode) {
	start := time.Now()
	art, err := gen.Generate(r.Context(), q, mode)
	h.Metrics.duration.WithLabelValues(mode.String()).Observe(time.Since(start).Seconds())
	h.Metrics.documents.WithLabelValues(mode.String(), outcome(err)).Inc()
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, codeExport, export.ErrExportFailed.Error(), nil)
		return
	}
	defer art.Release()

	data, err := art.Bytes()
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, codeExport, export.ErrExportFailed.Error(), nil)
		return
	}
	disposition := "attachment"
	if mode == layout.ModePreview {
		disposition = "inline"
	}
	w.Header().Set("Content-Type", art.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("%s; filename=%q", disposition, art.FileName))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Header().Set("X-Page-Count", strconv.Itoa(art.Pages))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

type uploadQuery struct {
	Kind string `validate:"required,oneof=logo photo"`
}

type uploadResponse struct {
	assets.Uploaded
	Recent []assets.Uploaded `json:"recent,omitempty"`
}

func (h *handlers) upload(w http.ResponseWriter, r *http.Request) {
	uq := uploadQuery{Kind: r.URL.Query().Get("kind")}
	if err := validate.Struct(uq); err != nil {
		writeError(w, r, http.StatusBadRequest, codeValidation, "kind must be logo or photo", nil)
		return
	}
	kind := assets.Kind(uq.Kind)
	log := logging.FromContext(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload()+1<<20)
	file, hdr, err := r.FormFile("file")
	if err != nil {
		writeError(w, r, http.StatusBadRequest, codeBadRequest, "expected one image in form field \"file\"", nil)
		return
	}
	defer file.Close()

	res, err := h.Uploader.Upload(r.Context(), kind, hdr.Filename, file)
	h.Metrics.uploads.WithLabelValues(string(kind), outcome(err)).Inc()
	if err != nil {
		log.Warn("upload failed", slog.String("kind", string(kind)), slog.Any("error", err))
		writeError(w, r, http.StatusBadGateway, codeUpload, err.Error(), nil)
		return
	}

	resp := uploadResponse{Uploaded: res}
	if kind == assets.KindLogo && h.Logos != nil {
		recent, err := h.Logos.Add(res)
		if err != nil {
			log.Warn("recent logos not saved", slog.Any("error", err))
		}
		resp.Recent = recent
	}
	writeJSON(w, r, http.StatusOK, resp)
}

func (h *handlers) recentLogos(w http.ResponseWriter, r *http.Request) {
	list := []assets.Uploaded{}
	if h.Logos != nil {
		list = append(list, h.Logos.Recent()...)
	}
	writeJSON(w, r, http.StatusOK, list)
}

func (h *handlers) getTheme(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, h.Theme.Current())
}

type themeRequest struct {
	Action string `json:"action" validate:"omitempty,oneof=toggle set auto"`
	Mode   string `json:"mode"   validate:"required_if=Action set,omitempty,oneof=light dark"`
}

func (h *handlers) setTheme(w http.ResponseWriter, r *http.Request) {
	var req themeRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 4096)).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, codeBadRequest, "invalid theme JSON", nil)
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, r, http.StatusBadRequest, codeValidation, "invalid theme request", validationDetails(err))
		return
	}
	var st theme.State
	switch req.Action {
	case "set":
		st = h.Theme.Set(theme.Mode(req.Mode), false)
	case "auto":
		st = h.Theme.Set("", true)
	default:
		st = h.Theme.Toggle()
	}
	writeJSON(w, r, http.StatusOK, st)
}

func (h *handlers) maxRequest() int64 {
	if h.MaxRequestSize > 0 {
		return h.MaxRequestSize
	}
	return 1 << 20
}

func (h *handlers) maxUpload() int64 {
	if h.MaxUploadBytes > 0 {
		return h.MaxUploadBytes
	}
	return assets.DefaultMaxBytes
}
