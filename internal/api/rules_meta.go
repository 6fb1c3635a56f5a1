package api

import (
	"net/http"
	"strings"

	"github.com/codewithboateng/reactlift/internal/ir"
)

// GET /api/v1/rules: the built-in catalog with metadata, optionally
// narrowed to one category. Read-only, no auth needed.
func (s *Server) handleRules(w http.ResponseWriter, r *http.Request) {
	type R struct {
		ID         string `json:"id"`
		Title      string `json:"title"`
		Category   string `json:"category"`
		Severity   string `json:"severity"`
		Suggestion string `json:"suggestion,omitempty"`
	}

	category := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("category")))
	if category != "" && !ir.Category(category).Valid() {
		s.err(w, http.StatusBadRequest, "unknown category: "+category)
		return
	}

	var out []R
	for _, rule := range s.Registry.All() {
		if category != "" && rule.Category() != ir.Category(category) {
			continue
		}
		out = append(out, R{
			ID:         rule.ID(),
			Title:      rule.Title(),
			Category:   string(rule.Category()),
			Severity:   string(rule.Severity()),
			Suggestion: rule.Suggestion(),
		})
	}
	// Registration order is already stable.
	writeJSON(w, http.StatusOK, map[string]any{"items": out, "count": len(out)})
}
