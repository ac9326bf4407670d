package xbrl

import "strings"

// InstanceNS is the XBRL instance namespace that context elements live in.
const InstanceNS = "http://www.xbrl.org/2003/instance"

// Context is one reporting context from an instance document.
// DimensionPath and MemberText are built in lockstep: each dimension
// qualifier prepends its name to one and its member label to the other,
// joined with " / ", so nested qualifiers read newest-first.
type Context struct {
	ID            string
	AsOfDate      string
	DimensionPath string
	MemberText    string
	Extra         map[string]string
}

// ExtractContexts builds the context table for one instance document.
// Contexts missing the required id attribute are silently dropped.
func ExtractContexts(doc *Node) map[string]Context {
	contexts := make(map[string]Context)
	doc.Walk(func(n *Node) {
		if n.Space != InstanceNS || n.Local != "context" {
			return
		}
		id, ok := n.Attr("id")
		if !ok || id == "" {
			return
		}
		contexts[id] = extractContext(n, id)
	})
	return contexts
}

func extractContext(cn *Node, id string) Context {
	ctx := Context{ID: id, Extra: make(map[string]string)}

	// Valid filings supply either an end date or an instant; when both
	// appear the last one in document order wins.
	cn.Walk(func(n *Node) {
		if n.Local != "period" {
			return
		}
		n.Walk(func(d *Node) {
			if d.Local == "endDate" || d.Local == "instant" {
				ctx.AsOfDate = strings.TrimSpace(d.Text)
			}
		})
	})

	cn.Walk(func(n *Node) {
		text := strings.TrimSpace(n.Text)
		for _, a := range n.Attrs {
			if a.Name.Local == "dimension" {
				if text == "" {
					continue
				}
				ctx.DimensionPath = prependPath(a.Value, ctx.DimensionPath)
				ctx.MemberText = prependPath(text, ctx.MemberText)
			} else {
				ctx.Extra[a.Name.Local] = a.Value
				if text != "" {
					ctx.Extra[a.Name.Local] = text
				}
			}
		}
	})
	return ctx
}

func prependPath(head, rest string) string {
	if rest == "" {
		return head
	}
	return head + " / " + rest
}
