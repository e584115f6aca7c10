// Package memory implementa la colección vectorial en memoria para desarrollo local y tests.
package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"unicode"

	"catalog-search/internal/vectorstore"
)

// searchableFields son las propiedades que participan en la búsqueda por texto
var searchableFields = []string{"name", "description", "category", "type", "tags"}

// Store es un Provider en memoria. La colección se crea en el primer Collection().
type Store struct {
	name string

	mu      sync.RWMutex
	created bool
	objects map[string]vectorstore.Properties
}

func NewStore(name string) *Store {
	return &Store{name: name, objects: make(map[string]vectorstore.Properties)}
}

func (s *Store) Name() string { return s.name }

func (s *Store) Collection(_ context.Context) (vectorstore.Collection, error) {
	s.mu.Lock()
	s.created = true
	s.mu.Unlock()
	return s, nil
}

func (s *Store) ExistingCollection(_ context.Context) (vectorstore.Collection, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.created {
		return nil, fmt.Errorf("%w: %s", vectorstore.ErrCollectionNotFound, s.name)
	}
	return s, nil
}

// Len devuelve la cantidad de objetos guardados
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.objects)
}

func (s *Store) Exists(_ context.Context, id string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.objects[id]
	return ok, nil
}

func (s *Store) Get(_ context.Context, id string) (*vectorstore.Object, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	props, ok := s.objects[id]
	if !ok {
		return nil, nil
	}
	return &vectorstore.Object{ID: id, Properties: copyProps(props)}, nil
}

func (s *Store) Insert(_ context.Context, id string, props vectorstore.Properties) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.objects[id]; ok {
		return fmt.Errorf("object %s already exists", id)
	}
	s.objects[id] = copyProps(props)
	return nil
}

func (s *Store) Replace(_ context.Context, id string, props vectorstore.Properties) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.objects[id]; !ok {
		return fmt.Errorf("object %s not found", id)
	}
	s.objects[id] = copyProps(props)
	return nil
}

func (s *Store) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, id)
	return nil
}

// NearText ordena por coincidencia de tokens; sin módulo generativo la respuesta queda vacía.
func (s *Store) NearText(_ context.Context, query string, limit int, _ string) (*vectorstore.QueryResult, error) {
	terms := tokenize(query)

	s.mu.RLock()
	matches := make([]vectorstore.Match, 0, len(s.objects))
	for id, props := range s.objects {
		if len(terms) == 0 {
			break
		}
		haystack := make(map[string]bool)
		for _, field := range searchableFields {
			for _, tok := range tokenize(textOf(props[field])) {
				haystack[tok] = true
			}
		}
		hits := 0
		for _, term := range terms {
			if haystack[term] {
				hits++
			}
		}
		if hits == 0 {
			continue
		}
		matches = append(matches, vectorstore.Match{
			ID:         id,
			Properties: copyProps(props),
			Distance:   1 - float64(hits)/float64(len(terms)),
		})
	}
	s.mu.RUnlock()

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Distance != matches[j].Distance {
			return matches[i].Distance < matches[j].Distance
		}
		return matches[i].ID < matches[j].ID
	})
	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	return &vectorstore.QueryResult{Matches: matches}, nil
}

func tokenize(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
}

func textOf(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case []string:
		return strings.Join(t, " ")
	case []any:
		parts := make([]string, 0, len(t))
		for _, p := range t {
			if str, ok := p.(string); ok {
				parts = append(parts, str)
			}
		}
		return strings.Join(parts, " ")
	}
	return ""
}

func copyProps(p vectorstore.Properties) vectorstore.Properties {
	out := make(vectorstore.Properties, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}
