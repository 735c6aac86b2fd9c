package display

// Truncate shortens s to at most max runes, keeping the tail behind a leading
// ellipsis (e.g. "…son 02/ep01.mkv"). The tail carries the information in a
// path, so that end is preserved.
func Truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	if max <= 1 {
		return "…"
	}
	return "…" + string(r[len(r)-max+1:])
}
