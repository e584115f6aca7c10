package vectorstore

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

// fakeWeaviate implementa el subconjunto REST/GraphQL de Weaviate que usa el cliente
type fakeWeaviate struct {
	t *testing.T

	mu       sync.Mutex
	classes  map[string]bool
	objects  map[string]map[string]any
	requests []string
	headers  http.Header
	live     int
	created  int
	queries  []string
	graphql  map[string]any
}

func newFakeWeaviate(t *testing.T, classes ...string) (*fakeWeaviate, *httptest.Server) {
	t.Helper()
	f := &fakeWeaviate{
		t:       t,
		classes: map[string]bool{},
		objects: map[string]map[string]any{},
	}
	for _, c := range classes {
		f.classes[c] = true
	}
	srv := httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(srv.Close)
	return f, srv
}

func (f *fakeWeaviate) count(method, prefix string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, r := range f.requests {
		if strings.HasPrefix(r, method+" "+prefix) {
			n++
		}
	}
	return n
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body != nil {
		_ = json.NewEncoder(w).Encode(body)
	}
}

func (f *fakeWeaviate) serve(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	path := strings.TrimPrefix(r.URL.Path, "/v1")
	f.requests = append(f.requests, r.Method+" "+path)
	f.headers = r.Header.Clone()

	switch {
	case path == "/.well-known/ready":
		w.WriteHeader(http.StatusOK)
	case path == "/.well-known/live":
		f.live++
		w.WriteHeader(http.StatusOK)
	case path == "/.well-known/openid-configuration":
		w.WriteHeader(http.StatusNotFound)
	case path == "/meta":
		writeJSON(w, http.StatusOK, map[string]any{"hostname": "http://[::]:8080", "version": "1.28.2", "modules": map[string]any{}})
	case strings.HasPrefix(path, "/schema"):
		f.serveSchema(w, r, strings.TrimPrefix(path, "/schema"))
	case strings.HasPrefix(path, "/objects"):
		f.serveObjects(w, r, strings.Trim(strings.TrimPrefix(path, "/objects"), "/"))
	case path == "/graphql":
		var body struct {
			Query string `json:"query"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		f.queries = append(f.queries, body.Query)
		writeJSON(w, http.StatusOK, map[string]any{"data": f.graphql})
	default:
		f.t.Logf("fake weaviate: unhandled %s %s", r.Method, r.URL.Path)
		w.WriteHeader(http.StatusNotFound)
	}
}

func (f *fakeWeaviate) serveSchema(w http.ResponseWriter, r *http.Request, rest string) {
	name := strings.Trim(rest, "/")
	switch {
	case r.Method == http.MethodGet && name == "":
		classes := make([]map[string]any, 0, len(f.classes))
		for c := range f.classes {
			classes = append(classes, map[string]any{"class": c})
		}
		writeJSON(w, http.StatusOK, map[string]any{"classes": classes})
	case r.Method == http.MethodGet:
		if !f.classes[name] {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"class": name})
	case r.Method == http.MethodPost:
		var class map[string]any
		_ = json.NewDecoder(r.Body).Decode(&class)
		name, _ := class["class"].(string)
		f.classes[name] = true
		f.created++
		writeJSON(w, http.StatusOK, class)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// serveObjects acepta /objects, /objects/{id} y /objects/{class}/{id}
func (f *fakeWeaviate) serveObjects(w http.ResponseWriter, r *http.Request, rest string) {
	id := ""
	if rest != "" {
		parts := strings.Split(rest, "/")
		id = parts[len(parts)-1]
	}

	switch r.Method {
	case http.MethodPost:
		var obj map[string]any
		_ = json.NewDecoder(r.Body).Decode(&obj)
		objID, _ := obj["id"].(string)
		props, _ := obj["properties"].(map[string]any)
		f.objects[objID] = props
		writeJSON(w, http.StatusOK, obj)
	case http.MethodHead:
		if _, ok := f.objects[id]; !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	case http.MethodGet:
		props, ok := f.objects[id]
		if !ok {
			writeJSON(w, http.StatusNotFound, nil)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"id": id, "class": "ProductShopify", "properties": props})
	case http.MethodPut:
		if _, ok := f.objects[id]; !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		var obj map[string]any
		_ = json.NewDecoder(r.Body).Decode(&obj)
		props, _ := obj["properties"].(map[string]any)
		f.objects[id] = props
		writeJSON(w, http.StatusOK, obj)
	case http.MethodDelete:
		if _, ok := f.objects[id]; !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		delete(f.objects, id)
		w.WriteHeader(http.StatusNoContent)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (f *fakeWeaviate) liveChecks() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.live
}

func (f *fakeWeaviate) classesCreated() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.created
}

func (f *fakeWeaviate) hasClass(name string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.classes[name]
}

func (f *fakeWeaviate) lastHeader(key string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.headers.Get(key)
}

func (f *fakeWeaviate) graphQLQueries() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.queries...)
}
