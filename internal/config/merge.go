package config

// Clone produces a structurally independent deep copy of a hierarchical
// mapping. Nested maps are copied recursively so mutating the clone never
// touches the source; scalar values are shared (they are immutable here).
func Clone(source map[string]any) map[string]any {
	if source == nil {
		return map[string]any{}
	}
	out := make(map[string]any, len(source))
	for key, value := range source {
		if nested, ok := value.(map[string]any); ok {
			out[key] = Clone(nested)
		} else {
			out[key] = value
		}
	}
	return out
}

// Merge layers override onto base without mutating either input. Every key of
// base is present in the result; where both sides hold nested maps they are
// merged recursively, otherwise the override value wins outright, including
// type changes. The merge deliberately skips type validation so legacy or
// hand-edited files degrade gracefully instead of failing the load.
func Merge(base, override map[string]any) map[string]any {
	out := Clone(base)
	for key, value := range override {
		baseNested, baseIsMap := out[key].(map[string]any)
		overrideNested, overrideIsMap := value.(map[string]any)
		if baseIsMap && overrideIsMap {
			out[key] = Merge(baseNested, overrideNested)
			continue
		}
		if overrideIsMap {
			out[key] = Clone(overrideNested)
			continue
		}
		out[key] = value
	}
	return out
}
