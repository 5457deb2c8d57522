// Package filestore is the load-or-fetch cache of feed artifacts.
//
// Every artifact is addressed by its logical element name ("cardinfo.json",
// "89631139.jpg", "LOB-EN.json"). The address table maps the name to a local
// path under the cache directory and to the remote URL it is fetched from. A
// file that exists locally and is not invalidated is served as-is; anything
// else is fetched once, concurrent requests for the same path sharing one
// download.
//
// Documents are normalized on read: a top-level JSON array is wrapped under a
// "data" key and .txt files are split into trimmed, non-empty lines.
//
//	store := filestore.New(table, fetcher, invalid, logger)
//	doc, err := store.Get(ctx, "cardinfo.json")
//	if errors.Is(err, filestore.ErrUnknownElement) {
//	    // not part of the registry
//	}
//
// FetchAll sweeps every literal element plus the per-passcode and per-set
// families of a resolved index. It is best effort and reports counts.
package filestore
