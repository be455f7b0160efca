package formatter

import "regexp"

// urlPattern matches scheme-prefixed tokens up to the next whitespace.
var urlPattern = regexp.MustCompile(`https?://[^\s]+|ftp://[^\s]+`)

func containsURL(s string) bool {
	return urlPattern.MatchString(s)
}

// splitURLs walks s in original order, calling url for every URL token
// and text for the runs between them. Concatenating the callback inputs
// reproduces s exactly.
func splitURLs(s string, text, url func(segment string)) {
	matches := urlPattern.FindAllStringIndex(s, -1)
	if len(matches) == 0 {
		text(s)
		return
	}

	last := 0
	for _, m := range matches {
		if m[0] > last {
			text(s[last:m[0]])
		}
		url(s[m[0]:m[1]])
		last = m[1]
	}
	if last < len(s) {
		text(s[last:])
	}
}
