package config

import "strings"

// mergeMaps folds src into dst. Nested maps merge key by key; any other
// value in src replaces what dst had. Keys match case-insensitively and keep
// the spelling dst already has, so an env layer's "indexmode" overrides the
// defaults' "indexMode" instead of sitting next to it. Maps taken from src
// are copied so that later merges never write into a source's data.
func mergeMaps(dst, src map[string]any) {
	for k, v := range src {
		k = existingKey(dst, k)
		if mv, ok := v.(map[string]any); ok {
			if existing, ok := dst[k].(map[string]any); ok {
				mergeMaps(existing, mv)
				continue
			}
			cp := make(map[string]any, len(mv))
			mergeMaps(cp, mv)
			dst[k] = cp
			continue
		}
		dst[k] = v
	}
}

// existingKey returns the key in m that equals k ignoring case, or k.
func existingKey(m map[string]any, k string) string {
	if _, ok := m[k]; ok {
		return k
	}
	for existing := range m {
		if strings.EqualFold(existing, k) {
			return existing
		}
	}
	return k
}
