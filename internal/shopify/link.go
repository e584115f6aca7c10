package shopify

import (
	"net/url"
	"regexp"
	"strings"
)

var linkEntry = regexp.MustCompile(`<([^>]+)>\s*;\s*rel="?([^";]+)"?`)

// NextPageInfo extrae el cursor page_info de la entrada rel="next" del header Link.
// Devuelve "" si no hay página siguiente.
func NextPageInfo(link string) string {
	for _, part := range strings.Split(link, ",") {
		m := linkEntry.FindStringSubmatch(strings.TrimSpace(part))
		if m == nil || m[2] != "next" {
			continue
		}
		u, err := url.Parse(m[1])
		if err != nil {
			return ""
		}
		return u.Query().Get("page_info")
	}
	return ""
}
