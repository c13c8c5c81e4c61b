// Package remotetest provides an in-process json-server style backend for
// exercising remote stores in tests.
package remotetest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"

	"github.com/gorilla/mux"
)

// Server serves list/create/update/delete on a set of named collections.
// Records are kept as decoded JSON objects; ids are assigned sequentially.
type Server struct {
	srv *httptest.Server

	mu          sync.Mutex
	collections map[string][]map[string]any
	nextID      int64
	envelope    string
	stringIDs   bool
	silent      bool
	failNext    []int
	requests    map[string]int
	requestIDs  []string
}

// NewServer starts a server with the given empty collections and closes it
// when the test finishes.
func NewServer(t testing.TB, collections ...string) *Server {
	t.Helper()
	s := &Server{
		collections: make(map[string][]map[string]any),
		nextID:      1,
		requests:    make(map[string]int),
	}
	for _, name := range collections {
		s.collections[name] = nil
	}
	s.srv = httptest.NewServer(s.router())
	t.Cleanup(s.srv.Close)
	return s
}

// URL returns the base URL of the server.
func (s *Server) URL() string { return s.srv.URL }

// Close shuts the server down; subsequent requests fail at the transport.
func (s *Server) Close() { s.srv.Close() }

// Seed appends records to a collection, assigning ids to those without one.
func (s *Server) Seed(collection string, records ...any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range records {
		data, err := json.Marshal(r)
		if err != nil {
			return fmt.Errorf("encode seed: %w", err)
		}
		var obj map[string]any
		if err := json.Unmarshal(data, &obj); err != nil {
			return fmt.Errorf("decode seed: %w", err)
		}
		s.insertLocked(collection, obj)
	}
	return nil
}

// Records returns a copy of a collection's records.
func (s *Server) Records(collection string) []map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]map[string]any, 0, len(s.collections[collection]))
	for _, r := range s.collections[collection] {
		out = append(out, cloneRecord(r))
	}
	return out
}

// SetEnvelope wraps list responses as {key: [...]}; empty returns bare arrays.
func (s *Server) SetEnvelope(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.envelope = key
}

// SetStringIDs makes the server emit ids as JSON strings.
func (s *Server) SetStringIDs(on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stringIDs = on
}

// SetSilentCreate makes POST answer 201 with an empty body.
func (s *Server) SetSilentCreate(on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.silent = on
}

// FailNext makes the next request answer with status.
func (s *Server) FailNext(status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failNext = append(s.failNext, status)
}

// Requests returns how many requests hit method and path.
func (s *Server) Requests(method, path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.requests[method+" "+path]
}

// RequestIDs returns the X-Request-ID headers seen so far.
func (s *Server) RequestIDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.requestIDs...)
}

func (s *Server) router() *mux.Router {
	r := mux.NewRouter()
	r.Use(s.track)
	r.HandleFunc("/{collection}", s.handleList).Methods(http.MethodGet)
	r.HandleFunc("/{collection}", s.handleCreate).Methods(http.MethodPost)
	r.HandleFunc("/{collection}/{id}", s.handleGet).Methods(http.MethodGet)
	r.HandleFunc("/{collection}/{id}", s.handleUpdate).Methods(http.MethodPut, http.MethodPatch)
	r.HandleFunc("/{collection}/{id}", s.handleDelete).Methods(http.MethodDelete)
	return r
}

func (s *Server) track(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.requests[r.Method+" "+r.URL.Path]++
		if id := r.Header.Get("X-Request-ID"); id != "" {
			s.requestIDs = append(s.requestIDs, id)
		}
		status := 0
		if len(s.failNext) > 0 {
			status = s.failNext[0]
			s.failNext = s.failNext[1:]
		}
		s.mu.Unlock()

		if status != 0 {
			http.Error(w, http.StatusText(status), status)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	records, ok := s.collections[mux.Vars(r)["collection"]]
	out := make([]map[string]any, 0, len(records))
	for _, rec := range records {
		out = append(out, s.renderLocked(rec))
	}
	envelope := s.envelope
	s.mu.Unlock()

	if !ok {
		http.NotFound(w, r)
		return
	}
	if envelope != "" {
		writeJSON(w, http.StatusOK, map[string]any{envelope: out})
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, _, ok := s.findLocked(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, s.renderLocked(rec))
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	var obj map[string]any
	if err := json.NewDecoder(r.Body).Decode(&obj); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	name := mux.Vars(r)["collection"]
	if _, ok := s.collections[name]; !ok {
		http.NotFound(w, r)
		return
	}
	delete(obj, "id")
	rec := s.insertLocked(name, obj)
	if s.silent {
		w.WriteHeader(http.StatusCreated)
		return
	}
	writeJSON(w, http.StatusCreated, s.renderLocked(rec))
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	var obj map[string]any
	if err := json.NewDecoder(r.Body).Decode(&obj); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	rec, idx, ok := s.findLocked(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	id := rec["id"]
	if r.Method == http.MethodPut {
		rec = map[string]any{}
	}
	for k, v := range obj {
		rec[k] = v
	}
	rec["id"] = id
	s.collections[mux.Vars(r)["collection"]][idx] = rec
	writeJSON(w, http.StatusOK, s.renderLocked(rec))
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, idx, ok := s.findLocked(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	name := mux.Vars(r)["collection"]
	records := s.collections[name]
	s.collections[name] = append(records[:idx:idx], records[idx+1:]...)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) insertLocked(collection string, obj map[string]any) map[string]any {
	if id, ok := numericID(obj["id"]); ok {
		obj["id"] = id
		if id >= s.nextID {
			s.nextID = id + 1
		}
	} else {
		obj["id"] = s.nextID
		s.nextID++
	}
	s.collections[collection] = append(s.collections[collection], obj)
	return obj
}

func (s *Server) findLocked(r *http.Request) (map[string]any, int, bool) {
	vars := mux.Vars(r)
	id, err := strconv.ParseInt(vars["id"], 10, 64)
	if err != nil {
		return nil, -1, false
	}
	for i, rec := range s.collections[vars["collection"]] {
		if rec["id"] == id {
			return rec, i, true
		}
	}
	return nil, -1, false
}

func (s *Server) renderLocked(rec map[string]any) map[string]any {
	out := cloneRecord(rec)
	if s.stringIDs {
		out["id"] = strconv.FormatInt(rec["id"].(int64), 10)
	}
	return out
}

func numericID(v any) (int64, bool) {
	switch id := v.(type) {
	case float64:
		if id > 0 {
			return int64(id), true
		}
	case string:
		if n, err := strconv.ParseInt(id, 10, 64); err == nil && n > 0 {
			return n, true
		}
	}
	return 0, false
}

func cloneRecord(rec map[string]any) map[string]any {
	out := make(map[string]any, len(rec))
	for k, v := range rec {
		out[k] = v
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
