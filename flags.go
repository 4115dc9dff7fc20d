package themeatlas

import "strings"

// ResourceFlags describes how an image resource is packed and recoloured.
type ResourceFlags uint8

const (
	FlagNone ResourceFlags = 0
	// FlagPaired stacks the resource under its predecessor in one column.
	FlagPaired ResourceFlags = 1 << 0
	// FlagCursor marks an image + mask pair. Implies FlagPaired.
	FlagCursor ResourceFlags = 1 << 1
	// FlagNewLine starts a new atlas row before the resource is placed.
	FlagNewLine ResourceFlags = 1 << 2
	// FlagInternal marks derived images that are never saved or loaded.
	FlagInternal ResourceFlags = 1 << 3
	// FlagSkip excludes the resource from RecolourTheme.
	FlagSkip ResourceFlags = 1 << 4
)

var flagNames = []struct {
	f    ResourceFlags
	name string
}{
	{FlagPaired, "paired"},
	{FlagCursor, "cursor"},
	{FlagNewLine, "newline"},
	{FlagInternal, "internal"},
	{FlagSkip, "skip"},
}

// Has reports whether all bits of o are set in f.
func (f ResourceFlags) Has(o ResourceFlags) bool {
	return f&o == o
}

// Normalize returns f with implied bits added.
func (f ResourceFlags) Normalize() ResourceFlags {
	if f.Has(FlagCursor) {
		f |= FlagPaired
	}
	return f
}

func (f ResourceFlags) String() string {
	if f == FlagNone {
		return "none"
	}
	var parts []string
	for _, n := range flagNames {
		if f.Has(n.f) {
			parts = append(parts, n.name)
		}
	}
	return strings.Join(parts, "|")
}

// ParseFlag maps a lower-case flag name as printed by String back to its bit.
func ParseFlag(name string) (ResourceFlags, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, n := range flagNames {
		if n.name == name {
			return n.f, true
		}
	}
	if name == "none" {
		return FlagNone, true
	}
	return FlagNone, false
}
