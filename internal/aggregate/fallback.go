package aggregate

// StaticFallbackRecord returns the built-in placeholder CV used when no
// data source is reachable. It is expressed as a raw record and passed
// through the reconciler like any other source, so the fallback exercises
// the same canonical shape guarantees.
func StaticFallbackRecord() map[string]any {
	return map[string]any{
		"personalInfo": map[string]any{
			"name":    "Jonathan Example",
			"title":   "Software Engineer",
			"email":   "hello@example.dev",
			"summary": "Portfolio data is temporarily unavailable; this is placeholder content.",
		},
		"experiences": []any{
			map[string]any{
				"title":        "Software Engineer",
				"organization": "Example Labs",
				"startDate":    "2022-01",
				"isCurrent":    true,
				"type":         "work",
				"technologies": []any{"Go", "PostgreSQL"},
			},
		},
		"skills": []any{
			map[string]any{"name": "Go", "category": "Languages", "proficiencyLevel": float64(4)},
			map[string]any{"name": "SQL", "category": "Databases", "proficiencyLevel": float64(4)},
		},
		"projects": []any{
			map[string]any{
				"title":       "Portfolio Site",
				"description": "Personal portfolio with dynamic CV generation.",
				"featured":    true,
				"status":      "live",
			},
		},
		"languages": []any{
			map[string]any{"name": "English", "proficiencyLevel": "Fluent"},
		},
	}
}
