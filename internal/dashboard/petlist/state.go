// Package petlist guarda la lista autoritativa de mascotas que muestra el dashboard.
//
// Todas las escrituras son una sola sección crítica: quien lee nunca ve un
// estado a medio aplicar. Sólo el controller de mutaciones y la carga inicial
// escriben acá.
package petlist

import (
	"strings"
	"sync"

	"pawgrammers/internal/petstore"
)

type State struct {
	mu   sync.RWMutex
	pets []petstore.Pet
}

func New() *State {
	return &State{}
}

// All devuelve una copia en el orden recibido del último List().
func (s *State) All() []petstore.Pet {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return clone(s.pets)
}

func (s *State) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.pets)
}

// Filter devuelve, en orden, las mascotas cuyo nombre contiene query
// (sin distinguir mayúsculas). Query vacía => todas.
func (s *State) Filter(query string) []petstore.Pet {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return filter(s.pets, query)
}

// Get busca por id normalizado.
func (s *State) Get(id string) (petstore.Pet, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, p := range s.pets {
		if p.ID == id {
			return p, true
		}
	}
	return petstore.Pet{}, false
}

// ReplaceAll pisa la lista completa de una vez.
func (s *State) ReplaceAll(records []petstore.Pet) {
	next := clone(records)

	s.mu.Lock()
	s.pets = next
	s.mu.Unlock()
}

// Prepend agrega un registro al principio (alta optimista).
func (s *State) Prepend(p petstore.Pet) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := make([]petstore.Pet, 0, len(s.pets)+1)
	next = append(next, p)
	next = append(next, s.pets...)
	s.pets = next
}

// Remove saca todos los registros con ese id. Devuelve cuántos sacó.
func (s *State) Remove(id string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := make([]petstore.Pet, 0, len(s.pets))
	for _, p := range s.pets {
		if p.ID != id {
			next = append(next, p)
		}
	}
	removed := len(s.pets) - len(next)
	s.pets = next
	return removed
}

// Replace cambia el registro con id oldID por p, en la misma posición.
// Devuelve false si oldID no estaba.
func (s *State) Replace(oldID string, p petstore.Pet) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.pets {
		if s.pets[i].ID == oldID {
			next := clone(s.pets)
			next[i] = p
			s.pets = next
			return true
		}
	}
	return false
}

func filter(pets []petstore.Pet, query string) []petstore.Pet {
	if query == "" {
		return clone(pets)
	}

	q := strings.ToLower(query)
	out := make([]petstore.Pet, 0, len(pets))
	for _, p := range pets {
		if strings.Contains(strings.ToLower(p.Name), q) {
			out = append(out, p)
		}
	}
	return out
}

func clone(in []petstore.Pet) []petstore.Pet {
	out := make([]petstore.Pet, len(in))
	copy(out, in)
	return out
}
