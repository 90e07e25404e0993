package logging

import "strings"

var sensitiveWords = []string{"secret", "password", "token", "key", "auth", "credential"}

// redact walks through a slice of key-value pairs (flattened as
// [key1, value1, key2, value2, ...]). If a key contains a sensitive word,
// its value is replaced with "[REDACTED]". Returns a new slice; the
// original is not modified.
func redact(pairs []any) []any {
	if len(pairs) == 0 {
		return pairs
	}
	result := make([]any, len(pairs))
	copy(result, pairs)
	for i := 0; i+1 < len(result); i += 2 {
		key, ok := result[i].(string)
		if !ok {
			continue
		}
		if isSensitive(key) {
			result[i+1] = "[REDACTED]"
		}
	}
	return result
}

func isSensitive(key string) bool {
	lower := strings.ToLower(key)
	for _, w := range sensitiveWords {
		if strings.Contains(lower, w) {
			return true
		}
	}
	return false
}
