// Package mirror maintains the local cache as a whole: revision sync, bulk
// sweeps and publication of the cache directory to an S3-compatible bucket.
package mirror
