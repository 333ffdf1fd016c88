package types

import "errors"

// Setup errors. ErrConfiguration is fatal and surfaces from grid construction.
var (
	ErrConfiguration = errors.New("invalid configuration")
	ErrInvalidColumn = errors.New("invalid column shorthand")
)

// ErrCapability is returned by a RecordSource that cannot narrow its results
// to the children of one node. The lazy-load coordinator recovers from it by
// rendering the full tree; it never reaches the caller.
var ErrCapability = errors.New("record source does not support scoping")

// Key errors.
var (
	ErrInvalidKey = errors.New("invalid key")
)

// Store and entity errors.
var (
	ErrNotFound        = errors.New("entity not found")
	ErrInvalidID       = errors.New("invalid entity ID")
	ErrInvalidData     = errors.New("invalid entity data")
	ErrInvalidName     = errors.New("invalid name")
	ErrInvalidParent   = errors.New("parent node does not exist")
	ErrParentCycle     = errors.New("parent would create a cycle")
	ErrStoreDetached   = errors.New("store is detached")
	ErrAlreadyAttached = errors.New("store is already attached")
)
