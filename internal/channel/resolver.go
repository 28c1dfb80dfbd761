// Package channel normalizes user-supplied channel identifiers into the
// canonical reference stored with each subscription.
package channel

import (
	"regexp"
	"strings"
)

// Ref identifies a target channel either by public handle or by numeric
// chat reference. Exactly one field is non-empty.
type Ref struct {
	Name   string
	ChatID string
}

// Label returns whichever identifier is populated.
func (r Ref) Label() string {
	if r.Name != "" {
		return r.Name
	}
	return r.ChatID
}

var (
	linkPrefixRegex  = regexp.MustCompile(`^https?://t\.me/`)
	privateLinkRegex = regexp.MustCompile(`^c/(\d+)`)
	numericRegex     = regexp.MustCompile(`^-?\d+$`)
)

// Resolve accepts @handles, public t.me links, bare numeric chat ids and
// private t.me/c/<id>/... links. Private links carry the bare channel
// id; Telegram addresses such channels with the id prefixed by -100.
func Resolve(input string) Ref {
	u := strings.TrimSpace(input)
	u = linkPrefixRegex.ReplaceAllString(u, "")
	u = strings.TrimPrefix(u, "@")

	if m := privateLinkRegex.FindStringSubmatch(u); m != nil {
		return Ref{ChatID: "-100" + m[1]}
	}
	if numericRegex.MatchString(u) {
		return Ref{ChatID: u}
	}
	return Ref{Name: u}
}
