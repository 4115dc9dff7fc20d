package themeatlas

import (
	"errors"
	"fmt"
)

var (
	// ErrCacheMissing indicates no cache exists for the requested theme.
	ErrCacheMissing = errors.New("themeatlas: theme cache not found")

	// ErrCacheCorrupt indicates the cache exists but cannot be used: the atlas
	// is truncated or undecodable, or the rectangle table is malformed or
	// points outside the atlas.
	ErrCacheCorrupt = errors.New("themeatlas: theme cache corrupt")

	// ErrUnknownTheme indicates a theme id that was never registered.
	ErrUnknownTheme = errors.New("themeatlas: unknown theme")
)

// ConfigErrorKind classifies programming mistakes in resource registration.
type ConfigErrorKind int

const (
	DuplicateName ConfigErrorKind = iota
	ZeroSize
	BadIndex
	BadImageData
	TooWide
)

func (k ConfigErrorKind) String() string {
	switch k {
	case DuplicateName:
		return "duplicate name"
	case ZeroSize:
		return "zero-sized image"
	case BadIndex:
		return "index out of range"
	case BadImageData:
		return "undecodable image data"
	case TooWide:
		return "image wider than atlas"
	default:
		return "configuration error"
	}
}

// ConfigError is the panic value for registration and lookup mistakes.
// These indicate a bug in the calling program, not a runtime condition.
type ConfigError struct {
	Kind   ConfigErrorKind
	Name   string
	Detail string
}

func (e *ConfigError) Error() string {
	msg := "themeatlas: " + e.Kind.String()
	if e.Name != "" {
		msg += fmt.Sprintf(" %q", e.Name)
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

func configPanic(kind ConfigErrorKind, name, format string, args ...any) {
	panic(&ConfigError{Kind: kind, Name: name, Detail: fmt.Sprintf(format, args...)})
}
