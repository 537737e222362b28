package viewstate

import (
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

type Status string

const (
	StatusIdle    Status = "idle"
	StatusLoading Status = "loading"
	StatusLoaded  Status = "loaded"
	StatusFailed  Status = "failed"
)

// State is a point-in-time copy of a cell.
type State[T any] struct {
	Status    Status    `json:"status"`
	Data      T         `json:"-"`
	Token     uint64    `json:"token"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Cell holds one independently loaded slice of view data. Every load takes a
// token from Begin; only the holder of the newest token may publish, so a slow
// response cannot overwrite a newer one.
type Cell[T any] struct {
	name   string
	mu     sync.RWMutex
	state  State[T]
	latest uint64
	empty  T
}

func NewCell[T any](name string, empty T) *Cell[T] {
	return &Cell[T]{
		name:  name,
		empty: empty,
		state: State[T]{Status: StatusIdle, Data: empty},
	}
}

func (c *Cell[T]) Name() string {
	return c.name
}

// Begin marks the cell loading and returns the token for this load.
func (c *Cell[T]) Begin() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.latest++
	c.state.Status = StatusLoading
	c.state.Token = c.latest
	c.state.UpdatedAt = time.Now().UTC()
	return c.latest
}

// Complete publishes data for token. It reports false when a newer load has
// started since.
func (c *Cell[T]) Complete(token uint64, data T) bool {
	return c.finish(token, StatusLoaded, data)
}

// Fail resets the cell to its empty value.
func (c *Cell[T]) Fail(token uint64) bool {
	return c.finish(token, StatusFailed, c.empty)
}

func (c *Cell[T]) finish(token uint64, status Status, data T) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if token != c.latest {
		log.Debug().Str("cell", c.name).Uint64("token", token).Uint64("latest", c.latest).Msg("Discarding stale load result")
		return false
	}
	c.state = State[T]{
		Status:    status,
		Data:      data,
		Token:     token,
		UpdatedAt: time.Now().UTC(),
	}
	return true
}

func (c *Cell[T]) Load() State[T] {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}
