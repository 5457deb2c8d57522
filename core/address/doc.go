// Package address maps logical element names to local paths and remote URLs.
package address
