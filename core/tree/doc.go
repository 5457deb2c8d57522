// Package tree holds order-preserving JSON trees and a depth-first walker.
package tree
