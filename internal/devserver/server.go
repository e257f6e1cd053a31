package devserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/five82/shelf/internal/catalog"
)

// maxBody caps request payloads.
const maxBody = 1 << 20

// Server serves the /books collection from a MemoryStore.
type Server struct {
	store *catalog.MemoryStore
	mux   *http.ServeMux
}

// New builds the handler for store.
func New(store *catalog.MemoryStore) *Server {
	s := &Server{store: store, mux: http.NewServeMux()}

	s.mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	s.mux.HandleFunc("GET /books", s.list)
	s.mux.HandleFunc("POST /books", s.create)
	s.mux.HandleFunc("PUT /books/{id}", s.update)
	s.mux.HandleFunc("DELETE /books/{id}", s.delete)
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// list handles GET /books
func (s *Server) list(w http.ResponseWriter, r *http.Request) {
	records, err := s.store.List(r.Context())
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, records)
}

// create handles POST /books
func (s *Server) create(w http.ResponseWriter, r *http.Request) {
	fields, ok := decodeFields(w, r)
	if !ok {
		return
	}
	rec, err := s.store.Create(r.Context(), fields)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, rec)
}

// update handles PUT /books/{id}
func (s *Server) update(w http.ResponseWriter, r *http.Request) {
	fields, ok := decodeFields(w, r)
	if !ok {
		return
	}
	rec, err := s.store.Update(r.Context(), catalog.ID(r.PathValue("id")), fields)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// delete handles DELETE /books/{id}
func (s *Server) delete(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Delete(r.Context(), catalog.ID(r.PathValue("id"))); err != nil {
		writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// problem is the error body; catalog.Client decodes the same shape.
type problem struct {
	Error  string   `json:"error"`
	Fields []string `json:"fields,omitempty"`
}

func decodeFields(w http.ResponseWriter, r *http.Request) (catalog.Fields, bool) {
	var fields catalog.Fields
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBody))
	if err := dec.Decode(&fields); err != nil {
		writeJSON(w, http.StatusBadRequest, problem{Error: fmt.Sprintf("invalid JSON: %v", err)})
		return catalog.Fields{}, false
	}
	return fields, true
}

func writeStoreError(w http.ResponseWriter, err error) {
	var storeErr *catalog.Error
	if !errors.As(err, &storeErr) {
		writeJSON(w, http.StatusInternalServerError, problem{Error: err.Error()})
		return
	}
	switch storeErr.Kind {
	case catalog.KindNotFound:
		writeJSON(w, http.StatusNotFound, problem{Error: catalog.ErrNotFound.Error()})
	case catalog.KindValidation:
		msg := catalog.ErrValidation.Error()
		if storeErr.Err != nil {
			msg = storeErr.Err.Error()
		}
		writeJSON(w, http.StatusUnprocessableEntity, problem{Error: msg, Fields: storeErr.Fields})
	default:
		writeJSON(w, http.StatusInternalServerError, problem{Error: err.Error()})
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("write response: %v", err)
	}
}

// statusRecorder captures the status code for the access log.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (rw *statusRecorder) WriteHeader(code int) {
	rw.status = code
	rw.ResponseWriter.WriteHeader(code)
}

// AccessLog logs one line per request.
func AccessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rw, r)

		log.Printf("access method=%s path=%s status=%d duration_ms=%d",
			r.Method, r.URL.Path, rw.status, time.Since(start).Milliseconds())
	})
}
