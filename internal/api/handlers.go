package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"net/url"

	"github.com/starford/folio/internal/contact"
)

const maxBodyBytes = 64 << 10

var errUnsupportedType = errors.New("unsupported content type")

// Handler holds API route handlers.
type Handler struct {
	orch *contact.Orchestrator
}

// NewHandler creates a new Handler.
func NewHandler(orch *contact.Orchestrator) *Handler {
	return &Handler{orch: orch}
}

// Contact handles POST /api/contact.
//
// The body may be JSON, urlencoded or multipart with the fields name, email
// and message. The response is always a contact.Result.
func (h *Handler) Contact(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	raw, err := readFields(r)
	if err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			writeJSON(w, http.StatusRequestEntityTooLarge, errorBody("request body too large"))
			return
		case errors.Is(err, errUnsupportedType):
			writeJSON(w, http.StatusUnsupportedMediaType, errorBody(err.Error()))
			return
		}
		writeJSON(w, http.StatusBadRequest, errorBody("malformed request body"))
		return
	}

	res := h.orch.Submit(r.Context(), raw)
	writeJSON(w, statusFor(res), res)
}

func statusFor(res contact.Result) int {
	switch {
	case res.Success:
		return http.StatusOK
	case res.Error == contact.MsgInvalidForm:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusBadGateway
	}
}

func readFields(r *http.Request) (contact.RawFields, error) {
	ct := r.Header.Get("Content-Type")
	mediaType := ""
	if ct != "" {
		var err error
		if mediaType, _, err = mime.ParseMediaType(ct); err != nil {
			return nil, fmt.Errorf("%w: %s", errUnsupportedType, ct)
		}
	}

	switch mediaType {
	case "application/json":
		var body map[string]*string
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			return nil, fmt.Errorf("decode json: %w", err)
		}
		return contact.RawFields(body).FoldKeys(), nil
	case "multipart/form-data":
		if err := r.ParseMultipartForm(maxBodyBytes); err != nil {
			return nil, fmt.Errorf("parse multipart: %w", err)
		}
	case "application/x-www-form-urlencoded":
		if err := r.ParseForm(); err != nil {
			return nil, fmt.Errorf("parse form: %w", err)
		}
	case "":
		// an empty body needs no content type
		if r.ContentLength != 0 {
			return nil, errUnsupportedType
		}
		if err := r.ParseForm(); err != nil {
			return nil, fmt.Errorf("parse form: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: %s", errUnsupportedType, mediaType)
	}
	return formFields(r.PostForm), nil
}

// formFields keeps the first value of each submitted field.
func formFields(values url.Values) contact.RawFields {
	m := make(map[string]string, len(values))
	for k := range values {
		m[k] = values.Get(k)
	}
	return contact.FieldsFromMap(m)
}
