package httpmetrics

// The site serves a fixed set of pages. Anything else is collapsed to one
// label so path-scanning clients cannot mint unbounded metric series.
var servedPaths = map[string]struct{}{
	"/":         {},
	"/register": {},
	"/login":    {},
	"/logout":   {},
	"/health":   {},
	"/metrics":  {},
}

func NormalizePath(path string) string {
	if path == "" {
		return "/"
	}
	if _, ok := servedPaths[path]; ok {
		return path
	}
	return "/unmatched"
}
