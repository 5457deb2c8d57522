// Package fetcher downloads remote feeds with a global cap on requests in
// flight. Downloads are written to a temporary file and renamed into place, so
// a partial response never replaces a good artifact.
package fetcher
