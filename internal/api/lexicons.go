package api

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/JaimeStill/empath/internal/classifier"
	"github.com/JaimeStill/empath/pkg/formatting"
	"github.com/JaimeStill/empath/pkg/handlers"
	"github.com/JaimeStill/empath/pkg/openapi"
	"github.com/JaimeStill/empath/pkg/routes"
	"github.com/JaimeStill/empath/pkg/storage"
)

const lexiconContentType = "application/yaml"

type lexiconHandler struct {
	store       storage.System
	logger      *slog.Logger
	maxSize     int64
	maxListSize int32
}

func newLexiconHandler(
	store storage.System,
	logger *slog.Logger,
	maxSize int64,
	maxListSize int32,
) *lexiconHandler {
	return &lexiconHandler{
		store:       store,
		logger:      logger.With("handler", "lexicons"),
		maxSize:     maxSize,
		maxListSize: maxListSize,
	}
}

type lexiconInfo struct {
	Key      string `json:"key"`
	Version  string `json:"version"`
	Emotions int    `json:"emotions"`
	Size     string `json:"size"`
}

var lexiconKey = openapi.KeyParam("key", "Blob key, may contain slashes")

var lexiconSchemas = map[string]*openapi.Schema{
	"LexiconInfo": {
		Type: "object",
		Properties: map[string]*openapi.Schema{
			"key":      {Type: "string"},
			"version":  {Type: "string"},
			"emotions": {Type: "integer", Description: "Emotions with cue words"},
			"size":     {Type: "string", Example: "1.2 KB"},
		},
	},
	"BlobList": {
		Type: "object",
		Properties: map[string]*openapi.Schema{
			"blobs": {Type: "array", Items: &openapi.Schema{
				Type: "object",
				Properties: map[string]*openapi.Schema{
					"key":            {Type: "string"},
					"content_type":   {Type: "string"},
					"content_length": {Type: "integer"},
					"last_modified":  {Type: "string", Format: "date-time"},
				},
			}},
			"next_marker": {Type: "string"},
		},
	},
}

var listLexiconsOp = &openapi.Operation{
	Summary: "List stored lexicons",
	Parameters: []*openapi.Parameter{
		openapi.QueryParam("prefix", "string", "Key prefix", false),
		openapi.QueryParam("marker", "string", "Continuation marker", false),
		openapi.QueryParam("max_results", "integer", "Page size", false),
	},
	Responses: map[int]*openapi.Response{
		200: openapi.ResponseJSON("Lexicon blobs", "BlobList"),
		400: openapi.ResponseRef("BadRequest"),
	},
}

var downloadLexiconOp = &openapi.Operation{
	Summary:    "Download a lexicon",
	Parameters: []*openapi.Parameter{lexiconKey},
	Responses: map[int]*openapi.Response{
		200: {Description: "Lexicon YAML", Content: map[string]*openapi.MediaType{lexiconContentType: {}}},
		404: openapi.ResponseRef("NotFound"),
	},
}

var uploadLexiconOp = &openapi.Operation{
	Summary:     "Upload a lexicon",
	Description: "The body is validated as a lexicon before it is stored.",
	Parameters:  []*openapi.Parameter{lexiconKey},
	RequestBody: &openapi.RequestBody{
		Required: true,
		Content:  map[string]*openapi.MediaType{lexiconContentType: {}},
	},
	Responses: map[int]*openapi.Response{
		201: openapi.ResponseJSON("Stored lexicon", "LexiconInfo"),
		400: openapi.ResponseRef("BadRequest"),
		422: openapi.ResponseRef("UnprocessableEntity"),
	},
}

var deleteLexiconOp = &openapi.Operation{
	Summary:    "Delete a lexicon",
	Parameters: []*openapi.Parameter{lexiconKey},
	Responses: map[int]*openapi.Response{
		204: {Description: "Deleted"},
		404: openapi.ResponseRef("NotFound"),
	},
}

func (h *lexiconHandler) routes() routes.Group {
	return routes.Group{
		Prefix:  "/lexicons",
		Tags:    []string{"Lexicons"},
		Schemas: lexiconSchemas,
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: h.list, OpenAPI: listLexiconsOp},
			{Method: "GET", Pattern: "/{key...}", Handler: h.download, OpenAPI: downloadLexiconOp},
			{Method: "PUT", Pattern: "/{key...}", Handler: h.upload, OpenAPI: uploadLexiconOp},
			{Method: "DELETE", Pattern: "/{key...}", Handler: h.delete, OpenAPI: deleteLexiconOp},
		},
	}
}

func (h *lexiconHandler) list(w http.ResponseWriter, r *http.Request) {
	maxResults, err := storage.ParseMaxResults(
		r.URL.Query().Get("max_results"),
		h.maxListSize,
	)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	result, err := h.store.List(
		r.Context(),
		r.URL.Query().Get("prefix"),
		r.URL.Query().Get("marker"),
		maxResults,
	)
	if err != nil {
		handlers.RespondError(w, h.logger, storage.MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

func (h *lexiconHandler) download(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")

	body, err := h.store.Download(r.Context(), key)
	if err != nil {
		handlers.RespondError(w, h.logger, storage.MapHTTPStatus(err), err)
		return
	}
	defer body.Close()

	w.Header().Set("Content-Type", lexiconContentType)
	w.WriteHeader(http.StatusOK)
	io.Copy(w, body)
}

// upload validates the body as a lexicon before storing it, so a stored
// lexicon always parses when the model loads it.
func (h *lexiconHandler) upload(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")

	data, err := io.ReadAll(io.LimitReader(r.Body, h.maxSize+1))
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			handlers.RespondError(w, h.logger, http.StatusRequestEntityTooLarge, err)
			return
		}
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}
	if int64(len(data)) > h.maxSize {
		handlers.RespondError(w, h.logger, http.StatusRequestEntityTooLarge, errors.New("lexicon exceeds maximum request size"))
		return
	}

	lex, err := classifier.ParseLexicon(data)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusUnprocessableEntity, err)
		return
	}

	if err := h.store.Upload(r.Context(), key, bytes.NewReader(data), lexiconContentType); err != nil {
		handlers.RespondError(w, h.logger, storage.MapHTTPStatus(err), err)
		return
	}

	info := lexiconInfo{
		Key:      key,
		Version:  lex.Version,
		Emotions: len(lex.Emotions),
		Size:     formatting.FormatBytes(int64(len(data)), 1),
	}
	h.logger.Info("lexicon stored", "key", key, "version", lex.Version, "size", info.Size)

	handlers.RespondJSON(w, http.StatusCreated, info)
}

func (h *lexiconHandler) delete(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Delete(r.Context(), r.PathValue("key")); err != nil {
		handlers.RespondError(w, h.logger, storage.MapHTTPStatus(err), err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
