package reconcile

// Helpers for reading loosely-typed JSON fields. Missing, null, and
// wrongly-typed values all degrade to the zero default; nothing here
// panics or returns an error.

func mapOf(raw map[string]any, key string) (map[string]any, bool) {
	if raw == nil {
		return nil, false
	}
	value, ok := raw[key].(map[string]any)
	return value, ok
}

// collectionOf reads a field as a sequence. Absent, null, and non-array
// values all read as empty — absent is not the same as empty in the
// source, but both must reconcile to an empty slice, never nil.
func collectionOf(raw map[string]any, key string) []any {
	if raw == nil {
		return nil
	}
	value, ok := raw[key].([]any)
	if !ok {
		return nil
	}
	return value
}

func stringField(entry map[string]any, key string) string {
	value, _ := entry[key].(string)
	return value
}

// firstString returns the first non-empty string among the given keys.
func firstString(entry map[string]any, keys ...string) string {
	for _, key := range keys {
		if value := stringField(entry, key); value != "" {
			return value
		}
	}
	return ""
}

func boolField(entry map[string]any, key string) bool {
	value, _ := entry[key].(bool)
	return value
}

func intField(entry map[string]any, keys ...string) int {
	for _, key := range keys {
		switch value := entry[key].(type) {
		case float64:
			return int(value)
		case int:
			return value
		}
	}
	return 0
}

func floatField(entry map[string]any, keys ...string) float64 {
	for _, key := range keys {
		switch value := entry[key].(type) {
		case float64:
			return value
		case int:
			return float64(value)
		}
	}
	return 0
}

func stringsOf(items []any) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok && s != "" {
			out = append(out, s)
		}
	}
	return out
}
