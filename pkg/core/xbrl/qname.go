package xbrl

import "strings"

// LocalName returns the concept name from a qualified tag: the portion
// after the last '}'. Tags without a namespace are returned whole.
func LocalName(tag string) string {
	if i := strings.LastIndexByte(tag, '}'); i >= 0 {
		return tag[i+1:]
	}
	return tag
}

// LocatorToken strips locator-scheme prefixes from a presentation
// locator reference. References look like "loc_us-gaap_Assets_0a1b":
// the concept name is the token between the last two underscores. A
// reference with a single underscore keeps what follows it; one with
// none is returned whole.
func LocatorToken(ref string) string {
	last := strings.LastIndexByte(ref, '_')
	if last < 0 {
		return ref
	}
	prev := strings.LastIndexByte(ref[:last], '_')
	if prev < 0 {
		return ref[last+1:]
	}
	return ref[prev+1 : last]
}
