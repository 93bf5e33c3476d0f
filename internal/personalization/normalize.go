package personalization

// Normalize scales m so its values sum to 1.0 and returns it. Two edge
// cases are contractual and shared by every call site: an empty (or nil)
// map is returned unchanged, and a map whose values sum to zero or below is
// returned unchanged rather than divided by zero.
func Normalize(m WeightMap) WeightMap {
	if len(m) == 0 {
		return m
	}
	total := m.Sum()
	if total <= 0 {
		return m
	}
	for k, v := range m {
		m[k] = v / total
	}
	return m
}
