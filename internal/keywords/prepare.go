package keywords

// Prepare keeps the first MaxInputChars runes of text. The text is otherwise sent as given.
func Prepare(text string) string {
	return truncate(text, MaxInputChars)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	n := 0
	for i := range s {
		if n == max {
			return s[:i]
		}
		n++
	}
	return s
}
