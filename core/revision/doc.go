// Package revision keeps the local cache in step with the upstream revision
// counter.
//
// The upstream publishes one manifest per revision at {manifest_url}/{k},
// listing the elements changed between k and k+1 three levels deep. Sync
// replays every manifest from the local revision up to the remote one, marks
// the listed elements stale, and persists the new revision only once every
// manifest was applied. A failed replay leaves the local revision unchanged so
// the next sync starts over from the same point.
//
// Syncs are serialized with an advisory file lock next to the cache, so two
// processes sharing a cache directory never replay concurrently.
package revision
