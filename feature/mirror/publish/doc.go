// Package publish copies cache files to a bucket and audits what is there.
package publish
