// Package presentation builds the statement hierarchy from an XBRL
// presentation linkbase and resolves facts to their reporting section.
package presentation

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"secxbrl/pkg/core/xbrl"
)

// LinkbaseNS is the namespace of presentation linkbase documents.
const LinkbaseNS = "http://www.xbrl.org/2003/linkbase"

// Arc is one parent→child edge in a presentation section. Labels are
// bare concept names with locator-scheme prefixes stripped.
type Arc struct {
	Section string
	From    string
	To      string
}

// Graph holds the presentation arcs for one filing. Duplicates are
// harmless: every lookup is match-based, not uniqueness-based.
type Graph struct {
	Arcs []Arc
}

// Size returns the arc count.
func (g *Graph) Size() int { return len(g.Arcs) }

// Lookup returns all arcs whose child label equals toLabel.
func (g *Graph) Lookup(toLabel string) []Arc {
	var out []Arc
	for _, a := range g.Arcs {
		if a.To == toLabel {
			out = append(out, a)
		}
	}
	return out
}

// PresentationPath derives the presentation linkbase path paired with
// an instance document: same base name with a "_pre" infix before the
// extension.
func PresentationPath(instancePath string) string {
	ext := filepath.Ext(instancePath)
	return strings.TrimSuffix(instancePath, ext) + "_pre" + ext
}

// LoadGraphFor loads the presentation graph paired with instancePath.
// A missing or unreadable presentation file is non-fatal and yields an
// empty graph: every fact then resolves to empty section/subsection.
func LoadGraphFor(instancePath string) *Graph {
	f, err := os.Open(PresentationPath(instancePath))
	if err != nil {
		return &Graph{}
	}
	defer f.Close()
	g, err := ParseGraph(f)
	if err != nil {
		return &Graph{}
	}
	return g
}

// ParseGraph reads a presentation linkbase into a Graph. The section
// name is the final path segment of each presentationLink's role
// identifier; arc endpoints come from the from/to locator references.
func ParseGraph(r io.Reader) (*Graph, error) {
	doc, err := xbrl.Parse(r)
	if err != nil {
		return nil, err
	}
	g := &Graph{}
	doc.Walk(func(n *xbrl.Node) {
		if n.Space != LinkbaseNS || n.Local != "presentationLink" {
			return
		}
		section := ""
		if role, ok := n.Attr("role"); ok {
			section = lastPathSegment(role)
		}
		n.Walk(func(c *xbrl.Node) {
			if c.Local != "presentationArc" {
				return
			}
			from, _ := c.Attr("from")
			to, _ := c.Attr("to")
			g.Arcs = append(g.Arcs, Arc{
				Section: section,
				From:    xbrl.LocatorToken(from),
				To:      xbrl.LocatorToken(to),
			})
		})
	})
	return g, nil
}

func lastPathSegment(role string) string {
	if i := strings.LastIndexByte(role, '/'); i >= 0 {
		return role[i+1:]
	}
	return role
}
