// Package types defines the record source and hierarchy interfaces, the key
// and node entities, column descriptors, and the standard errors shared by
// the treegrid renderer and its storage backends.
package types
