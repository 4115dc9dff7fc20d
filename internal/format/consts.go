// Package format implements the persisted layout of theme caches: the
// rectangle table that indexes an atlas image by resource name, and the
// single-blob bundle used to embed a default theme in a binary.
//
// All integers are little-endian.
//
// Rectangle table:
//
//	Offset  Size  Description
//	------  ----  ----------------------------------------------
//	 0x00    4    'T' 'H' 'R' 'T'
//	 0x04    2    Version (1)
//	 0x06    2    Reserved, zero
//	 0x08    4    Atlas width in pixels
//	 0x0C    4    Atlas height in pixels
//	 0x10    4    Entry count
//	 0x14    -    Entries
//
// Entry:
//
//	Offset  Size  Description
//	------  ----  ----------------------------------------------
//	 0x00    1    Kind (0 image, 1 colour)
//	 0x01    1    Resource flags at build time
//	 0x02    2    Name length N
//	 0x04    N    Name (UTF-8)
//	 4+N    16    X, Y, Width, Height (u32 each)
//
// Bundle:
//
//	Offset  Size  Description
//	------  ----  ----------------------------------------------
//	 0x00    4    'T' 'H' 'M' 'B'
//	 0x04    2    Version (1)
//	 0x06    2    Flags (bit 0: table is zstd compressed)
//	 0x08    4    Table length T
//	 0x0C    T    Table bytes
//	 0x0C+T  4    PNG length P
//	 0x10+T  P    Atlas image (PNG)
package format

var (
	// TableSignature is the magic at the start of a rectangle table.
	TableSignature = []byte("THRT")
	// BundleSignature is the magic at the start of a theme bundle.
	BundleSignature = []byte("THMB")
)

const (
	SignatureSize = 4

	TableVersion      = 1
	TableHeaderSize   = 0x14
	TableVersionOff   = 0x04
	TableWidthOff     = 0x08
	TableHeightOff    = 0x0C
	TableCountOff     = 0x10
	EntryFixedSize    = 4 + 16
	EntryKindOff      = 0x00
	EntryFlagsOff     = 0x01
	EntryNameLenOff   = 0x02
	EntryNameOff      = 0x04
	EntryRectSize     = 16
	MaxNameLen        = 0xFFFF
	BundleVersion     = 1
	BundleHeaderSize  = 0x0C
	BundleVersionOff  = 0x04
	BundleFlagsOff    = 0x06
	BundleTableLenOff = 0x08

	// BundleFlagZstd marks a zstd-compressed table.
	BundleFlagZstd uint16 = 1 << 0
)

// EntryKind distinguishes image and colour rows of a table.
type EntryKind uint8

const (
	KindImage  EntryKind = 0
	KindColour EntryKind = 1
)

func (k EntryKind) String() string {
	switch k {
	case KindImage:
		return "image"
	case KindColour:
		return "colour"
	default:
		return "unknown"
	}
}
