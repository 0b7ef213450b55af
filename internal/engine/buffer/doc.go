// Package buffer provides the logical text of the editing surface.
//
// The buffer stores text as runes so that every offset it accepts or
// returns counts Unicode code points. That is the unit shared by the range
// re-anchorer, the segmenter, the caret translator and the sentence marker.
//
// The buffer package provides:
//
//   - Thread-safe read/write access via sync.RWMutex
//   - Replace-style discrete edits reporting the carets around them
//   - Conversion between rune offsets and line/column points
//   - Normalization of incoming text (line endings and Unicode NFC)
//   - Read-only snapshots for the generation pipeline
//   - Revision tracking for change management
//
// Basic usage:
//
//	buf := buffer.NewBufferFromString("Hello, World!")
//
//	// Insert text
//	res, _ := buf.Insert(7, "Beautiful ")  // "Hello, Beautiful World!"
//
//	// Delete text
//	buf.Delete(0, 7)  // "Beautiful World!"
//
//	// res.OldCaret and res.NewCaret feed ranges.Edit
package buffer
