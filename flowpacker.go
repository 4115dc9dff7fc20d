package themeatlas

import "image"

const (
	DefaultAtlasWidth  = 440
	DefaultBorderWidth = 1
	DefaultSwatchSize  = 10
)

// FlowPacker places rectangles left to right in rows of a fixed-width atlas.
// Items are never reordered: the sequence of GetNextPosition calls is the
// packing order. Consecutive FlagPaired items, and the members of a group
// opened with SetNewGroup, are stacked in one column so image/mask pairs and
// icon strips stay aligned.
//
// Every placed rectangle keeps BorderWidth pixels of clear space to its
// neighbours and to the atlas edges.
//
// A FlowPacker is used for one atlas build and then discarded.
type FlowPacker struct {
	// Flags of the item about to be placed.
	Flags ResourceFlags

	width  int
	border int

	x, y      int // insertion point in the current row
	rowHeight int // extent of the current row below y
	bottom    int // lowest edge placed so far

	groupSize  int
	groupIndex int
	explicit   bool // group opened by SetNewGroup rather than FlagPaired
	nextGroup  int
	colours    bool

	cur image.Rectangle
}

// NewFlowPacker returns a packer for an atlas width pixels wide.
func NewFlowPacker(width, borderWidth int) *FlowPacker {
	if borderWidth < 0 {
		borderWidth = 0
	}
	return &FlowPacker{
		width:     width,
		border:    borderWidth,
		x:         borderWidth,
		y:         borderWidth,
		groupSize: 1,
	}
}

// Width returns the fixed atlas width.
func (p *FlowPacker) Width() int { return p.width }

// BorderWidth returns the clear space kept around each item.
func (p *FlowPacker) BorderWidth() int { return p.border }

// Height returns the atlas height needed for everything placed so far.
func (p *FlowPacker) Height() int {
	if p.bottom == 0 {
		return 0
	}
	return p.bottom + p.border
}

// SetNewGroup ends the current group; the next size items are stacked in a
// single column regardless of their flags.
func (p *FlowPacker) SetNewGroup(size int) {
	p.nextGroup = max(size, 1)
	p.groupIndex = p.groupSize
}

// SetColourGroup starts the colour swatch block on a fresh row. Flags are
// ignored from here on and every item is placed on its own.
func (p *FlowPacker) SetColourGroup() {
	p.newRow()
	p.colours = true
	p.nextGroup = 0
	p.groupSize = 1
	p.groupIndex = 0
}

// GetNextPosition computes the placement of a width x height item. The
// result is available from Rect, RectInner and RectMid. Zero-sized items
// and items wider than the atlas panic with a *ConfigError.
func (p *FlowPacker) GetNextPosition(width, height int) {
	if width <= 0 || height <= 0 {
		configPanic(ZeroSize, "", "cannot pack %dx%d", width, height)
	}
	b := p.border
	if width+2*b > p.width {
		configPanic(TooWide, "", "%d pixels plus border %d exceeds atlas width %d", width, b, p.width)
	}

	flags := p.Flags.Normalize()
	if p.colours {
		flags = FlagNone
	}

	if p.continuesGroup(flags) && p.cur.Min.X+width+b <= p.width {
		p.groupIndex++
		p.place(p.cur.Min.X, p.cur.Max.Y+b, width, height)
		p.x = max(p.x, p.cur.Max.X+b)
		return
	}

	if flags.Has(FlagNewLine) || p.x+width+b > p.width {
		p.newRow()
	}
	p.startGroup(flags)
	p.place(p.x, p.y, width, height)
	p.x = p.cur.Max.X + b
}

func (p *FlowPacker) continuesGroup(flags ResourceFlags) bool {
	if p.groupIndex+1 >= p.groupSize || flags.Has(FlagNewLine) {
		return false
	}
	return p.explicit || flags.Has(FlagPaired)
}

func (p *FlowPacker) startGroup(flags ResourceFlags) {
	switch {
	case p.nextGroup > 0:
		p.groupSize, p.explicit = p.nextGroup, true
		p.nextGroup = 0
	case flags.Has(FlagPaired):
		p.groupSize, p.explicit = 2, false
	default:
		p.groupSize, p.explicit = 1, false
	}
	p.groupIndex = 0
}

func (p *FlowPacker) newRow() {
	if p.rowHeight > 0 {
		p.y += p.rowHeight + p.border
	}
	p.x = p.border
	p.rowHeight = 0
	p.groupIndex = p.groupSize
}

func (p *FlowPacker) place(x, y, w, h int) {
	p.cur = image.Rect(x, y, x+w, y+h)
	p.rowHeight = max(p.rowHeight, p.cur.Max.Y-p.y)
	p.bottom = max(p.bottom, p.cur.Max.Y)
}

// Rect returns the last placement including its border.
func (p *FlowPacker) Rect() image.Rectangle {
	return p.cur.Inset(-p.border)
}

// RectInner returns the last placement without border. Its size equals the
// requested size.
func (p *FlowPacker) RectInner() image.Rectangle {
	return p.cur
}

// RectMid returns the centre pixel of the last placement.
func (p *FlowPacker) RectMid() image.Point {
	return image.Pt((p.cur.Min.X+p.cur.Max.X)/2, (p.cur.Min.Y+p.cur.Max.Y)/2)
}
