package fourchan

import (
	"regexp"
	"strings"
)

// mediaLinkPattern matches media files hosted on the 4cdn/4chan image CDNs:
// protocol-relative locators with an optional numbered subdomain, a board
// path segment and a numeric file name with an allowed extension.
var mediaLinkPattern = regexp.MustCompile(`(//i(?:s)?\d*\.(?:4cdn|4chan)\.org/\w+/(\d+\.(?:jpg|png|gif|webm)))`)

// Link pairs a remote media locator with its bare local file name. Links are
// immutable values produced only by ExtractLinks.
type Link struct {
	RemoteURL string
	LocalName string
}

// ResolvedURL completes a protocol-relative locator with https:
func (l Link) ResolvedURL() string {
	if strings.HasPrefix(l.RemoteURL, "//") {
		return "https:" + l.RemoteURL
	}
	return l.RemoteURL
}

// ExtractLinks scans raw thread page text for media links. The page markup
// carries every media URL twice (the file anchor and its thumbnail link), so
// the raw scan yields each resource twice; matches are collapsed to one Link
// per distinct resource, in first-encountered order. Arbitrary or malformed
// input is fine: no match simply yields an empty result.
func ExtractLinks(pageText string) []Link {
	matches := mediaLinkPattern.FindAllStringSubmatch(pageText, -1)
	if len(matches) == 0 {
		return nil
	}

	seen := make(map[string]struct{}, len(matches)/2)
	links := make([]Link, 0, len(matches)/2)
	for _, m := range matches {
		remote, name := m[1], m[2]
		if _, ok := seen[remote]; ok {
			continue
		}
		seen[remote] = struct{}{}
		links = append(links, Link{RemoteURL: remote, LocalName: name})
	}

	return links
}
