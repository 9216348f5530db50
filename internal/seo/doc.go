// Package seo audits static site pages for missing or malformed search
// metadata and synthesizes best-effort defaults for the gaps. The per-field
// checks and generators live in an ordered, construction-validated rule
// table; the Auditor reports without mutating, the Autofiller mutates in a
// fixed topological order so that derived fields always copy finalized
// values, and the Service drives the batch pipeline with per-file error
// isolation.
package seo
