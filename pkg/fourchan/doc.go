// Package fourchan knows how to talk to the imageboard: deriving a thread's
// identity from its page URL, scanning raw page text for media links hosted
// on the 4cdn/4chan CDNs, and fetching pages and media over HTTP.
//
// Link extraction is pure: ExtractLinks takes the page text as a string and
// returns one Link per distinct media resource in page order, collapsing the
// doubled matches produced by the raw scan (each media URL appears in both
// the file anchor and its thumbnail link).
//
// The Client is shared read-only across all download workers; per-request
// state lives in the request itself.
package fourchan
