package presentation

import "strings"

// Resolve determines the (section, subsection) where a fact is
// presented. fieldName is the fact's short concept name; memberText and
// dimensionText come from the fact's context. The same concept can be
// tagged in several statement locations (primary statement plus
// footnote tables); the context text is the only signal distinguishing
// which occurrence, and climbing the presentation parent chain
// approximates locating the enclosing structural block. Both results
// are empty when no location can be established.
func (g *Graph) Resolve(fieldName, memberText, dimensionText string) (section, subsection string) {
	key, tableSearch := lookupKey(fieldName, memberText)
	candidates := g.Lookup(key)
	if len(candidates) == 0 {
		return "", ""
	}
	if len(candidates) == 1 && !tableSearch {
		return candidates[0].Section, candidates[0].From
	}
	if strings.TrimSpace(memberText) == "" && strings.TrimSpace(dimensionText) == "" {
		return candidates[0].Section, candidates[0].From
	}
	// Every filtered candidate gets its own direct check and climb
	// before giving up.
	for _, cand := range candidates {
		if tableSearch {
			if s, sub, ok := g.findTable(cand, memberText, dimensionText); ok {
				return s, sub
			}
		} else {
			if s, sub, ok := g.findLinked(cand, memberText, dimensionText); ok {
				return s, sub
			}
		}
	}
	return "", ""
}

// lookupKey picks the arc lookup key. Member text carrying a
// "...Member" label marks a table row: the member concept name becomes
// the key and the search switches to table mode. Otherwise the fact's
// own field name is the key.
func lookupKey(fieldName, memberText string) (key string, tableSearch bool) {
	lower := strings.ToLower(memberText)
	if !strings.Contains(lower, "member") {
		return fieldName, false
	}
	if strings.HasSuffix(lower, "member") {
		if i := strings.LastIndexByte(memberText, ':'); i >= 0 {
			return memberText[i+1:], true
		}
		return memberText, true
	}
	// "member" sits mid-string: take from the nearest ':' or space
	// before its last occurrence through the end of the word.
	end := strings.LastIndex(lower, "member") + len("member")
	if i := lastDelim(memberText[:end-len("member")]); i >= 0 {
		return memberText[i+1 : end], true
	}
	return memberText, true
}

func lastDelim(s string) int {
	for i := len(s) - 1; i >= 0; i-- {
		if s[i] == ':' || s[i] == ' ' {
			return i
		}
	}
	return -1
}

// findLinked checks a candidate's labels directly against the context
// text, then climbs toward the root until some ancestor's labels appear
// in it. The arc data is not guaranteed acyclic, so the climb carries a
// visited set; a revisited label ends the climb as a failure.
func (g *Graph) findLinked(cand Arc, memberText, dimensionText string) (string, string, bool) {
	if labelInText(cand.Section, cand.From, memberText, dimensionText) {
		return cand.Section, cand.From, true
	}
	visited := make(map[string]bool)
	current := cand.From
	for current != "" && !visited[current] {
		visited[current] = true
		parents := g.Lookup(current)
		if len(parents) == 0 {
			break
		}
		for _, p := range parents {
			if labelInText(p.Section, p.From, memberText, dimensionText) {
				return p.Section, p.From, true
			}
		}
		current = parents[len(parents)-1].From
	}
	return "", "", false
}

// findTable is the table-mode variant: a climb level is accepted as
// soon as the word "table" shows up in its labels.
func (g *Graph) findTable(cand Arc, memberText, dimensionText string) (string, string, bool) {
	if labelInText(cand.Section, cand.From, memberText, dimensionText) {
		return cand.Section, cand.From, true
	}
	visited := make(map[string]bool)
	current := cand.From
	for current != "" && !visited[current] {
		visited[current] = true
		parents := g.Lookup(current)
		if len(parents) == 0 {
			break
		}
		for _, p := range parents {
			if isTableLabel(p.Section) || isTableLabel(p.From) {
				return p.Section, p.From, true
			}
		}
		current = parents[len(parents)-1].From
	}
	return "", "", false
}

// labelInText reports whether either label occurs as a substring of the
// member or dimension text. Empty labels never match.
func labelInText(section, from, memberText, dimensionText string) bool {
	for _, label := range [2]string{section, from} {
		if label == "" {
			continue
		}
		if strings.Contains(memberText, label) || strings.Contains(dimensionText, label) {
			return true
		}
	}
	return false
}

func isTableLabel(s string) bool {
	return strings.Contains(strings.ToLower(s), "table")
}
