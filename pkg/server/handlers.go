package server

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strconv"

	"github.com/matzehuels/bstlayout/pkg/buildinfo"
	"github.com/matzehuels/bstlayout/pkg/errors"
	"github.com/matzehuels/bstlayout/pkg/pipeline"
	"github.com/matzehuels/bstlayout/pkg/tokenize"
)

// treeRequest is the JSON form of a tree request. Pointer fields distinguish
// "absent" from the zero value so server defaults survive.
type treeRequest struct {
	Input     string  `json:"input"`
	Malformed *string `json:"malformed,omitempty"`
	Overflow  *string `json:"overflow,omitempty"`
	MaxTokens *int    `json:"max_tokens,omitempty"`
	Format    *string `json:"format,omitempty"`
	Indent    *bool   `json:"indent,omitempty"`
	Detailed  *bool   `json:"detailed,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, buildinfo.Get())
}

func (s *Server) handleTree(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.opts.MaxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			writeErrorStatus(w, http.StatusRequestEntityTooLarge, errors.New(errors.ErrCodeInvalidInput,
				"request body too large (max %d bytes)", tooLarge.Limit))
			return
		}
		writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "read request body"))
		return
	}

	input, opts, err := s.parseTreeRequest(r, body)
	if err != nil {
		writeError(w, err)
		return
	}

	result, err := s.runner.Execute(r.Context(), input, opts)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", result.ContentType())
	if result.CacheHit {
		w.Header().Set("X-Cache", "HIT")
	} else {
		w.Header().Set("X-Cache", "MISS")
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(result.Artifact)
}

// parseTreeRequest extracts the input text and options. JSON bodies carry
// both; any other body is the input and options come from the query string.
func (s *Server) parseTreeRequest(r *http.Request, body []byte) (string, pipeline.Options, error) {
	opts := s.opts.Defaults
	if err := applyQuery(&opts, r.URL.Query()); err != nil {
		return "", opts, err
	}

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "application/json" {
		return string(body), opts, nil
	}

	var req treeRequest
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		return "", opts, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid JSON request")
	}
	if req.Malformed != nil {
		opts.Malformed = tokenize.MalformedPolicy(*req.Malformed)
	}
	if req.Overflow != nil {
		opts.Overflow = tokenize.OverflowPolicy(*req.Overflow)
	}
	if req.MaxTokens != nil {
		opts.MaxTokens = *req.MaxTokens
	}
	if req.Format != nil {
		opts.Format = *req.Format
	}
	if req.Indent != nil {
		opts.Indent = *req.Indent
	}
	if req.Detailed != nil {
		opts.Detailed = *req.Detailed
	}
	return req.Input, opts, nil
}

func applyQuery(opts *pipeline.Options, q url.Values) error {
	if v := q.Get("malformed"); v != "" {
		opts.Malformed = tokenize.MalformedPolicy(v)
	}
	if v := q.Get("overflow"); v != "" {
		opts.Overflow = tokenize.OverflowPolicy(v)
	}
	if v := q.Get("format"); v != "" {
		opts.Format = v
	}
	if v := q.Get("max_tokens"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return errors.New(errors.ErrCodeInvalidOption, "invalid max_tokens: %q", v)
		}
		opts.MaxTokens = n
	}
	for _, b := range []struct {
		name string
		dst  *bool
	}{{"indent", &opts.Indent}, {"detailed", &opts.Detailed}} {
		v := q.Get(b.name)
		if v == "" {
			continue
		}
		on, err := strconv.ParseBool(v)
		if err != nil {
			return errors.New(errors.ErrCodeInvalidOption, "invalid %s: %q", b.name, v)
		}
		*b.dst = on
	}
	return nil
}
