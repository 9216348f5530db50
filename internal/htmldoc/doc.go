// Package htmldoc wraps goquery with a tolerant document model for static
// site pages. Parsing never fails on malformed markup; an absent document
// shell (html, head, or body tag) is surfaced as parse-time flags instead of
// an error, and every SEO-relevant field is reachable through a typed
// accessor rather than ad hoc tree searches.
package htmldoc
