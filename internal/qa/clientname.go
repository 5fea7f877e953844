package qa

import (
	"strings"

	"github.com/mkalinic/sitegen/internal/tabular"
)

const maxClientNameLen = 40

// DetectClientName looks for a client name to label download artifacts with.
// It prefers a column whose name mentions both "client" and "name", then any
// "name" column whose first value is short and not URL-like. Returns "" when
// nothing usable is found; callers fall back to a timestamp.
func DetectClientName(t *tabular.Table) string {
	for _, col := range t.Columns {
		lower := strings.ToLower(col)
		if strings.Contains(lower, "client") && strings.Contains(lower, "name") {
			if v := firstValue(t, col); v != "" {
				return SanitizeName(v)
			}
		}
	}
	for _, col := range t.Columns {
		if !strings.Contains(strings.ToLower(col), "name") {
			continue
		}
		v := firstValue(t, col)
		if v == "" || len(v) > 64 || looksLikeURL(v) {
			continue
		}
		return SanitizeName(v)
	}
	return ""
}

func firstValue(t *tabular.Table, col string) string {
	for i := range t.Rows {
		if v := strings.TrimSpace(t.Value(i, col)); v != "" {
			return v
		}
	}
	return ""
}

func looksLikeURL(s string) bool {
	lower := strings.ToLower(s)
	return strings.Contains(lower, "http://") ||
		strings.Contains(lower, "https://") ||
		strings.Contains(lower, "www.") ||
		strings.Contains(lower, "/")
}

// SanitizeName reduces a free-form value to a filesystem-safe token.
func SanitizeName(s string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		case r == ' ':
			b.WriteRune('_')
		}
	}
	out := b.String()
	if len(out) > maxClientNameLen {
		out = out[:maxClientNameLen]
	}
	return strings.Trim(out, "_")
}
