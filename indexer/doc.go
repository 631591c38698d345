// Package indexer provides a static packed Hilbert R-tree over 2D boxes,
// byte-compatible with the flatbush format.
//
// Quick start:
//
//	b, err := indexer.NewBuilder(len(boxes), nil)
//	for _, bb := range boxes {
//		b.Add(bb)
//	}
//	idx, err := b.Finish()
//	ids := idx.Search(indexer.Box{MinX: 0, MinY: 0, MaxX: 10, MaxY: 10})
//
// A finished Index is read-only and safe for concurrent queries. Its buffer
// (Bytes) can be saved with SaveTo and mapped back with NewIndexFromFile.
package indexer
