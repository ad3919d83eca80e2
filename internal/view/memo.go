package view

import (
	"log/slog"
	"sync"

	"github.com/tartampluch/go-contacts/internal/config"
	"github.com/tartampluch/go-contacts/internal/contacts"
)

// memoKey identifies one derivation. generation changes whenever the
// records are replaced.
type memoKey struct {
	generation uint64
	state      State
}

// Memo caches the last derivation of a record set. Any change to the
// records or to the state invalidates it. Safe for concurrent use.
type Memo struct {
	pipeline *Pipeline

	mu         sync.Mutex
	records    []contacts.Contact
	generation uint64
	key        memoKey
	result     Result
	valid      bool
}

// NewMemo wraps a pipeline around a record set.
func NewMemo(p *Pipeline, records []contacts.Contact) *Memo {
	return &Memo{pipeline: p, records: records}
}

// Pipeline returns the wrapped pipeline.
func (m *Memo) Pipeline() *Pipeline {
	return m.pipeline
}

// Records returns the current record set.
func (m *Memo) Records() []contacts.Contact {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.records
}

// SetRecords replaces the record set and invalidates the cache.
func (m *Memo) SetRecords(records []contacts.Contact) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = records
	m.generation++
	m.valid = false
}

// SetPipeline replaces the pipeline (e.g. a new page size) and invalidates the cache.
func (m *Memo) SetPipeline(p *Pipeline) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pipeline = p
	m.valid = false
}

// Derive returns the cached result when neither the records nor the state
// changed since the last call.
func (m *Memo) Derive(st State) Result {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := memoKey{generation: m.generation, state: st}
	if m.valid && m.key == key {
		slog.Debug(config.MsgMemoHit, config.LogKeyComponent, config.CompView)
		return m.result
	}

	m.result = m.pipeline.Derive(m.records, st)
	m.key = key
	m.valid = true
	return m.result
}
