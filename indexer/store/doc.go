// Package store defines the packed buffer format shared by the index builder
// and the finished index, and the file-backed stores used to load it.
//
// The buffer consists of:
//   - Header (8 bytes): magic 0xfb, version/array type, node size (u16), item count (u32)
//   - Boxes: 4 float64 per node, leaves first, then each internal level bottom-up
//   - Indices: one uint16 (fewer than 16384 nodes) or uint32 per node
//
// All fields are little-endian and byte-compatible with the flatbush format.
package store
