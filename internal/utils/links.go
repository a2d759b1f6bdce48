package utils

import (
	"net/url"
	"strconv"
	"strings"
)

// BuildLinkHeader renders an RFC 8288 Link header with first, prev, next and
// last relations for a paginated list. query carries any filters that must
// survive into the linked pages; its page and pageSize values are replaced.
func BuildLinkHeader(baseURL string, query url.Values, p Page, total int64) string {
	last := p.LastPage(total)

	link := func(n int, rel string) string {
		q := url.Values{}
		for k, v := range query {
			q[k] = append([]string(nil), v...)
		}
		q.Set("page", strconv.Itoa(n))
		q.Set("pageSize", strconv.Itoa(p.Size))

		return "<" + baseURL + "?" + q.Encode() + `>; rel="` + rel + `"`
	}

	parts := []string{link(1, "first")}

	if p.Number > 1 {
		prev := p.Number - 1
		if prev > last {
			prev = last
		}
		parts = append(parts, link(prev, "prev"))
	}

	if p.Number < last {
		parts = append(parts, link(p.Number+1, "next"))
	}

	parts = append(parts, link(last, "last"))

	return strings.Join(parts, ", ")
}
