// Package search ranks catalog entries against a query and slices ranked
// lists into pages. The scoring ladder is fixed; see Score.
package search
