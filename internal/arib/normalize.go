package arib

import (
	"strings"

	"golang.org/x/text/width"
)

// enclosed maps the Unicode enclosed broadcast marks back to the bracketed
// abbreviations they stand for in listings.
var enclosed = map[rune]string{
	'\U0001F14A': "[HV]",
	'\U0001F14B': "[MV]",
	'\U0001F14C': "[SD]",
	'\U0001F14D': "[SS]",
	'\U0001F14E': "[PPV]",
	'\U0001F131': "[B]",
	'\U0001F13D': "[N]",
	'\U0001F13F': "[P]",
	'\U0001F142': "[S]",
	'\U0001F146': "[W]",
	'\U0001F200': "[ほか]",
	'\U0001F210': "[手]",
	'\U0001F211': "[字]",
	'\U0001F212': "[双]",
	'\U0001F213': "[デ]",
	'\U0001F214': "[二]",
	'\U0001F215': "[多]",
	'\U0001F216': "[解]",
	'\U0001F217': "[天]",
	'\U0001F218': "[交]",
	'\U0001F219': "[映]",
	'\U0001F21A': "[無]",
	'\U0001F21B': "[料]",
	'\U0001F21C': "[前]",
	'\U0001F21D': "[後]",
	'\U0001F21E': "[再]",
	'\U0001F21F': "[新]",
	'\U0001F220': "[初]",
	'\U0001F221': "[終]",
	'\U0001F222': "[生]",
	'\U0001F223': "[販]",
	'\U0001F224': "[声]",
	'\U0001F225': "[吹]",
	'\U0001F226': "[演]",
}

// Normalize folds full-width alphanumerics and symbols to their half-width
// forms and rewrites enclosed broadcast marks as bracketed text.
func Normalize(s string) string {
	s = width.Fold.String(s)
	if !strings.ContainsFunc(s, func(r rune) bool { _, ok := enclosed[r]; return ok }) {
		return s
	}
	var sb strings.Builder
	sb.Grow(len(s))
	for _, r := range s {
		if rep, ok := enclosed[r]; ok {
			sb.WriteString(rep)
		} else {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
