// Package models defines the GORM rows the catalog exports.
package models
