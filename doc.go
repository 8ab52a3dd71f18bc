// Package zarr implements the storage core of a chunked N-dimensional
// array format compatible with the Zarr v2 on-disk/on-wire conventions: a
// chunk grid and index algebra, a compressor codec registry, and a
// metadata/hierarchy layer over a pluggable byte-keyed Store.
//
// The package does not define a query language, cross-chunk transactions,
// or multi-writer coordination beyond the single-chunk read-modify-write
// described on Array.Write. Concrete Store backends live in the store/
// subdirectories; a CLI built on top of the package lives in cmd/zarrctl.
package zarr
