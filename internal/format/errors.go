package format

import "errors"

var (
	// ErrSignatureMismatch indicates a structure had an unexpected magic.
	ErrSignatureMismatch = errors.New("format: signature mismatch")
	// ErrTruncated indicates the buffer lacked the bytes required for a structure.
	ErrTruncated = errors.New("format: truncated buffer")
	// ErrUnsupported indicates a version or flag this package cannot read.
	ErrUnsupported = errors.New("format: unsupported version")
	// ErrOutOfBounds indicates a rectangle extends past the atlas.
	ErrOutOfBounds = errors.New("format: rectangle out of atlas bounds")
	// ErrNameTooLong indicates a resource name does not fit the u16 length field.
	ErrNameTooLong = errors.New("format: resource name too long")
)
