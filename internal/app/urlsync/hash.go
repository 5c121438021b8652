// Package urlsync keeps the location hash and the application state in
// step, in both directions, without feedback loops.
package urlsync

import (
	"strconv"
	"strings"

	"github.com/solfeggio/quaver/internal/app/store"
)

// Parsed is the navigation target encoded in a location hash.
type Parsed struct {
	View     store.View
	DetailID string
	Page     int
}

// ParseHash decodes a location hash into a navigation target. The
// grammar is view-dependent: detail views read a detail id and then an
// optional page, list views read an optional page directly. Unknown
// views and an empty hash fall back to the dashboard.
func ParseHash(hash string) Parsed {
	hash = strings.TrimPrefix(hash, "#")
	parts := strings.Split(hash, "/")

	p := Parsed{View: store.ParseView(parts[0]), Page: 1}
	rest := parts[1:]

	if p.View.IsDetail() {
		if len(rest) == 0 || rest[0] == "" {
			// A detail view without an id is not navigable.
			return Parsed{View: store.ViewDashboard, Page: 1}
		}
		if n := len(rest); n > 1 {
			// A trailing numeric segment is the page; everything before
			// it belongs to the id, which may itself contain slashes.
			if page, err := strconv.Atoi(rest[n-1]); err == nil && page >= 1 {
				p.Page = page
				rest = rest[:n-1]
			}
		}
		p.DetailID = strings.Join(rest, "/")
		return p
	}

	if len(rest) > 0 {
		if page, err := strconv.Atoi(rest[0]); err == nil && page >= 1 {
			p.Page = page
		}
	}
	return p
}

// BuildHash encodes the navigation-relevant part of the state as a
// location hash. Page one is the default and is omitted.
func BuildHash(st store.State) string {
	var b strings.Builder
	b.WriteByte('#')
	b.WriteString(string(st.View))
	if st.View.IsDetail() && st.DetailID != "" {
		b.WriteByte('/')
		b.WriteString(st.DetailID)
	}
	if st.Page > 1 {
		b.WriteByte('/')
		b.WriteString(strconv.Itoa(st.Page))
	}
	return b.String()
}

// samePage compares pages treating zero and one as equal, since both
// mean "the first page" depending on whether the view paginates.
func samePage(a, b int) bool {
	if a < 1 {
		a = 1
	}
	if b < 1 {
		b = 1
	}
	return a == b
}
