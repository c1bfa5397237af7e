package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/agentstation/factmerge/internal/server/response"
	"github.com/agentstation/factmerge/pkg/errors"
	"github.com/agentstation/factmerge/pkg/facts"
)

// FieldInfo describes one canonical field.
type FieldInfo struct {
	ID       string              `json:"id"`
	Category facts.FieldCategory `json:"category"`
	Synonyms []string            `json:"synonyms"`
}

// HandleFields handles GET {prefix}/fields.
// It lists the canonical fields with their categories and synonyms,
// optionally only those of ?category=.
func (h *Handlers) HandleFields(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		response.MethodNotAllowed(w, r.Method)
		return
	}

	category := facts.FieldCategory(strings.ToLower(r.URL.Query().Get("category")))
	if category != "" && !category.IsValid() {
		response.ErrorFromType(w, fmt.Errorf("unknown category %q: %w", category, errors.ErrInvalidInput))
		return
	}

	tables, err := h.app.Tables()
	if err != nil {
		response.ErrorFromType(w, err)
		return
	}

	list := tables.Fields()
	out := make([]FieldInfo, 0, len(list))
	for _, f := range list {
		c := tables.Category(f.ID)
		if category != "" && c != category {
			continue
		}
		out = append(out, FieldInfo{
			ID:       f.ID,
			Category: c,
			Synonyms: f.Synonyms,
		})
	}

	response.OK(w, map[string]any{
		"fields": out,
		"count":  len(out),
	})
}
