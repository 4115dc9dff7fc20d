package format

import (
	"bytes"
	"fmt"
	"image"
)

// Entry is one row of a rectangle table.
type Entry struct {
	Kind  EntryKind
	Flags uint8
	Name  string
	Rect  image.Rectangle
}

// Table maps resource names to rectangles inside an atlas of the given size.
type Table struct {
	Width   int
	Height  int
	Entries []Entry
}

// Bounds returns the atlas rectangle the table was built against.
func (t *Table) Bounds() image.Rectangle {
	return image.Rect(0, 0, t.Width, t.Height)
}

// Index returns the entries of one kind keyed by name. When a name occurs
// twice the last row wins.
func (t *Table) Index(kind EntryKind) map[string]Entry {
	out := make(map[string]Entry, len(t.Entries))
	for _, e := range t.Entries {
		if e.Kind == kind {
			out[e.Name] = e
		}
	}
	return out
}

// Check reports whether the rectangle of e is non-empty and lies inside
// bounds.
func (e Entry) Check(bounds image.Rectangle) error {
	if e.Rect.Empty() {
		return fmt.Errorf("%s %q: empty rectangle %v: %w", e.Kind, e.Name, e.Rect, ErrOutOfBounds)
	}
	if !e.Rect.In(bounds) {
		return fmt.Errorf("%s %q: %v outside %v: %w", e.Kind, e.Name, e.Rect, bounds, ErrOutOfBounds)
	}
	return nil
}

// Validate checks every entry with Check. bounds is normally the decoded
// atlas image bounds, which may be larger than the size recorded in the
// header.
func (t *Table) Validate(bounds image.Rectangle) error {
	for _, e := range t.Entries {
		if err := e.Check(bounds); err != nil {
			return err
		}
	}
	return nil
}

// EncodeTable serializes t.
func EncodeTable(t *Table) ([]byte, error) {
	if t.Width < 0 || t.Height < 0 {
		return nil, fmt.Errorf("table: negative atlas size %dx%d", t.Width, t.Height)
	}
	size := TableHeaderSize
	for _, e := range t.Entries {
		if len(e.Name) > MaxNameLen {
			return nil, fmt.Errorf("table entry %.32q...: %w", e.Name, ErrNameTooLong)
		}
		if e.Rect.Min.X < 0 || e.Rect.Min.Y < 0 || e.Rect.Dx() < 0 || e.Rect.Dy() < 0 {
			return nil, fmt.Errorf("table entry %q: negative rectangle %v", e.Name, e.Rect)
		}
		size += EntryFixedSize + len(e.Name)
	}

	b := make([]byte, size)
	copy(b, TableSignature)
	PutU16(b, TableVersionOff, TableVersion)
	PutU32(b, TableWidthOff, uint32(t.Width))
	PutU32(b, TableHeightOff, uint32(t.Height))
	PutU32(b, TableCountOff, uint32(len(t.Entries)))

	off := TableHeaderSize
	for _, e := range t.Entries {
		b[off+EntryKindOff] = byte(e.Kind)
		b[off+EntryFlagsOff] = e.Flags
		PutU16(b, off+EntryNameLenOff, uint16(len(e.Name)))
		off += EntryNameOff
		off += copy(b[off:], e.Name)
		PutU32(b, off, uint32(e.Rect.Min.X))
		PutU32(b, off+4, uint32(e.Rect.Min.Y))
		PutU32(b, off+8, uint32(e.Rect.Dx()))
		PutU32(b, off+12, uint32(e.Rect.Dy()))
		off += EntryRectSize
	}
	return b, nil
}

// DecodeTable parses a rectangle table. Unknown entry kinds are kept so a
// caller can ignore them; rectangle bounds are not checked here (see
// Entry.Check).
func DecodeTable(b []byte) (*Table, error) {
	if len(b) < TableHeaderSize {
		return nil, fmt.Errorf("table header: %w", ErrTruncated)
	}
	if !bytes.Equal(b[:SignatureSize], TableSignature) {
		return nil, fmt.Errorf("table header: %w", ErrSignatureMismatch)
	}
	if v := ReadU16(b, TableVersionOff); v != TableVersion {
		return nil, fmt.Errorf("table version %d: %w", v, ErrUnsupported)
	}
	t := &Table{
		Width:  int(ReadU32(b, TableWidthOff)),
		Height: int(ReadU32(b, TableHeightOff)),
	}
	count := int(ReadU32(b, TableCountOff))
	// Every entry needs at least EntryFixedSize bytes, so a count larger
	// than that bound is corrupt and must not drive the allocation.
	if count > (len(b)-TableHeaderSize)/EntryFixedSize {
		return nil, fmt.Errorf("table count %d: %w", count, ErrTruncated)
	}
	t.Entries = make([]Entry, 0, count)

	off := TableHeaderSize
	for i := range count {
		if len(b)-off < EntryFixedSize {
			return nil, fmt.Errorf("table entry %d: %w", i, ErrTruncated)
		}
		kind := EntryKind(b[off+EntryKindOff])
		flags := b[off+EntryFlagsOff]
		n := int(ReadU16(b, off+EntryNameLenOff))
		off += EntryNameOff
		if len(b)-off < n+EntryRectSize {
			return nil, fmt.Errorf("table entry %d: %w", i, ErrTruncated)
		}
		name := string(b[off : off+n])
		off += n
		x := int(ReadU32(b, off))
		y := int(ReadU32(b, off+4))
		w := int(ReadU32(b, off+8))
		h := int(ReadU32(b, off+12))
		off += EntryRectSize
		t.Entries = append(t.Entries, Entry{
			Kind:  kind,
			Flags: flags,
			Name:  name,
			Rect:  image.Rect(x, y, x+w, y+h),
		})
	}
	return t, nil
}
