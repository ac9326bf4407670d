package xbrl

import (
	"errors"
	"strconv"
	"strings"
)

// Null is the sentinel recorded for absent fact attributes.
const Null = "null"

// ErrUnfilteredContext reports a context element that escaped the
// exclusion filter during fact extraction. The document's dataset
// cannot be trusted past this point, so the document is abandoned;
// other documents in the batch are unaffected.
var ErrUnfilteredContext = errors.New("unfiltered context element reached fact extraction")

// Fact is one reportable tagged value from an instance document.
type Fact struct {
	ID         string
	Tag        string
	RawValue   string
	ContextRef string
	UnitRef    string
	Decimals   string
}

// exclusionTags filters structural and linking elements out of the fact
// walk. Matching is by substring against the qualified tag.
var exclusionTags = []string{
	"}xbrl",
	"html",
	"}loc",
	"}footnote",
	"}schemaRef",
	"}context",
	"}unit",
	"}entity",
	"}identifier",
	"}period",
	"}startDate",
	"}endDate",
	"}segment",
	"}instant",
	"}measure",
	"}divide",
	"explicitMember",
	"dimension",
}

func excluded(tag string) bool {
	for _, s := range exclusionTags {
		if strings.Contains(tag, s) {
			return true
		}
	}
	return false
}

// ExtractFacts walks the document and returns one Fact per reportable
// element, in document order. Some filers omit the id attribute; those
// facts get a document-scoped sequential id starting at 1, never
// referenced outside the current document.
func ExtractFacts(doc *Node) ([]Fact, error) {
	var facts []Fact
	var seq int
	var walkErr error

	doc.Walk(func(n *Node) {
		if walkErr != nil {
			return
		}
		tag := n.Tag()
		if excluded(tag) {
			return
		}
		if strings.HasSuffix(tag, "context") {
			// The exclusion set must catch every context element; one
			// slipping through means the filter invariant is broken.
			walkErr = ErrUnfilteredContext
			return
		}
		id, ok := n.Attr("id")
		if !ok || id == "" {
			seq++
			id = strconv.Itoa(seq)
		}
		facts = append(facts, Fact{
			ID:         id,
			Tag:        tag,
			RawValue:   n.Text,
			ContextRef: n.AttrDefault("contextRef", Null),
			UnitRef:    n.AttrDefault("unitRef", Null),
			Decimals:   n.AttrDefault("decimals", Null),
		})
	})

	if walkErr != nil {
		return nil, walkErr
	}
	return facts, nil
}
