package main

import (
	"fmt"
	"sort"
	"sync"
	"time"
)

// Status is the state of a todo.
type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
)

// Todo is one item of the list.
type Todo struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Status      Status    `json:"status"`
	Tags        []string  `json:"tags"`
	CreatedAt   time.Time `json:"created_at"`
}

// Stats summarizes the list.
type Stats struct {
	Total     int            `json:"total"`
	Completed int            `json:"completed"`
	Pending   int            `json:"pending"`
	ByTag     map[string]int `json:"by_tag"`
}

// Store is an in-memory todo store.
type Store struct {
	mu     sync.RWMutex
	todos  map[string]*Todo
	nextID int
}

// NewStore creates a new store with sample data.
func NewStore() *Store {
	s := &Store{
		todos:  make(map[string]*Todo),
		nextID: 1,
	}

	s.Add("Buy groceries", "Milk, eggs, bread", []string{"personal"})
	s.Add("Review PR #123", "Check the authentication changes", []string{"work", "urgent"})
	s.Add("Write documentation", "Update API docs for v2", []string{"work"})

	return s
}

// Add creates a new todo and returns its ID.
func (s *Store) Add(title, description string, tags []string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := fmt.Sprintf("todo-%d", s.nextID)
	s.nextID++
	s.todos[id] = &Todo{
		ID:          id,
		Title:       title,
		Description: description,
		Status:      StatusPending,
		Tags:        tags,
		CreatedAt:   time.Now(),
	}
	return id
}

// Get returns a copy of a todo, or nil.
func (s *Store) Get(id string) *Todo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.todos[id]
	if !ok {
		return nil
	}
	cp := *t
	return &cp
}

// Toggle flips the completed status of a todo.
func (s *Store) Toggle(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	todo, ok := s.todos[id]
	if !ok {
		return false
	}
	if todo.Status == StatusCompleted {
		todo.Status = StatusPending
	} else {
		todo.Status = StatusCompleted
	}
	return true
}

// Delete removes a todo by ID.
func (s *Store) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.todos[id]; !ok {
		return false
	}
	delete(s.todos, id)
	return true
}

// List returns todos newest first, filtered by status when it is set.
func (s *Store) List(status Status) []Todo {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]Todo, 0, len(s.todos))
	for _, todo := range s.todos {
		if status != "" && todo.Status != status {
			continue
		}
		result = append(result, *todo)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].ID > result[j].ID
		}
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result
}

// Tags returns every tag in use, sorted.
func (s *Store) Tags() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]bool)
	for _, todo := range s.todos {
		for _, tag := range todo.Tags {
			seen[tag] = true
		}
	}
	tags := make([]string, 0, len(seen))
	for tag := range seen {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}

// Stats returns statistics about the todos.
func (s *Store) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := Stats{ByTag: make(map[string]int)}
	for _, todo := range s.todos {
		stats.Total++
		if todo.Status == StatusCompleted {
			stats.Completed++
		} else {
			stats.Pending++
		}
		for _, tag := range todo.Tags {
			stats.ByTag[tag]++
		}
	}
	return stats
}
