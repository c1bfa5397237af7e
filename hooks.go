package factmerge

import (
	"sync"

	"github.com/agentstation/factmerge/pkg/facts"
)

// Hook function types for merge events
type (
	// FileExtractedHook is called after a file was extracted successfully.
	// It may be called concurrently for different files.
	FileExtractedHook func(name string, extracted []facts.Fact)

	// FileSkippedHook is called when a file is skipped because it could not
	// be extracted. It may be called concurrently for different files.
	FileSkippedHook func(name string, err error)

	// ConflictHook is called once per conflict after a merge.
	ConflictHook func(conflict facts.Conflict)
)

// hooks manages event callbacks for merges
type hooks struct {
	mu              sync.RWMutex
	onFileExtracted []FileExtractedHook
	onFileSkipped   []FileSkippedHook
	onConflict      []ConflictHook
}

// newHooks creates a new hooks instance
func newHooks() *hooks {
	return &hooks{}
}

// OnFileExtracted registers a callback for extracted files
func (h *hooks) OnFileExtracted(fn FileExtractedHook) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onFileExtracted = append(h.onFileExtracted, fn)
}

// OnFileSkipped registers a callback for skipped files
func (h *hooks) OnFileSkipped(fn FileSkippedHook) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onFileSkipped = append(h.onFileSkipped, fn)
}

// OnConflict registers a callback for conflicts
func (h *hooks) OnConflict(fn ConflictHook) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onConflict = append(h.onConflict, fn)
}

func (h *hooks) fileExtracted(name string, extracted []facts.Fact) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, hook := range h.onFileExtracted {
		hook(name, extracted)
	}
}

func (h *hooks) fileSkipped(name string, err error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, hook := range h.onFileSkipped {
		hook(name, err)
	}
}

func (h *hooks) conflicts(conflicts []facts.Conflict) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, c := range conflicts {
		for _, hook := range h.onConflict {
			hook(c)
		}
	}
}
