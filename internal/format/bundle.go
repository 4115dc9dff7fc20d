package format

import (
	"bytes"
	"fmt"
	"sync"

	"github.com/klauspost/compress/zstd"
)

// EncodeBundle joins an encoded rectangle table and an atlas PNG into one
// blob. When compress is set the table is stored zstd compressed.
func EncodeBundle(table, png []byte, compress bool) ([]byte, error) {
	var flags uint16
	if compress {
		table = compressZstd(table)
		flags |= BundleFlagZstd
	}

	b := make([]byte, BundleHeaderSize+len(table)+4+len(png))
	copy(b, BundleSignature)
	PutU16(b, BundleVersionOff, BundleVersion)
	PutU16(b, BundleFlagsOff, flags)
	PutU32(b, BundleTableLenOff, uint32(len(table)))
	off := BundleHeaderSize
	off += copy(b[off:], table)
	PutU32(b, off, uint32(len(png)))
	off += 4
	copy(b[off:], png)
	return b, nil
}

// DecodeBundle splits a bundle into the decoded table bytes and the atlas
// PNG. The returned slices alias b unless the table was compressed.
func DecodeBundle(b []byte) (table, png []byte, err error) {
	if len(b) < BundleHeaderSize {
		return nil, nil, fmt.Errorf("bundle header: %w", ErrTruncated)
	}
	if !bytes.Equal(b[:SignatureSize], BundleSignature) {
		return nil, nil, fmt.Errorf("bundle header: %w", ErrSignatureMismatch)
	}
	if v := ReadU16(b, BundleVersionOff); v != BundleVersion {
		return nil, nil, fmt.Errorf("bundle version %d: %w", v, ErrUnsupported)
	}
	flags := ReadU16(b, BundleFlagsOff)
	if flags&^BundleFlagZstd != 0 {
		return nil, nil, fmt.Errorf("bundle flags %#x: %w", flags, ErrUnsupported)
	}

	tableLen := int(ReadU32(b, BundleTableLenOff))
	off := BundleHeaderSize
	if tableLen < 0 || len(b)-off < tableLen+4 {
		return nil, nil, fmt.Errorf("bundle table: %w", ErrTruncated)
	}
	table = b[off : off+tableLen]
	off += tableLen
	pngLen := int(ReadU32(b, off))
	off += 4
	if pngLen < 0 || len(b)-off < pngLen {
		return nil, nil, fmt.Errorf("bundle image: %w", ErrTruncated)
	}
	png = b[off : off+pngLen]

	if flags&BundleFlagZstd != 0 {
		table, err = decompressZstd(table)
		if err != nil {
			return nil, nil, fmt.Errorf("zstd decode: %w", err)
		}
	}
	return table, png, nil
}

var zstdEncPool = sync.Pool{
	New: func() any {
		enc, _ := zstd.NewWriter(nil)
		return enc
	},
}

var zstdDecPool = sync.Pool{
	New: func() any {
		dec, _ := zstd.NewReader(nil)
		return dec
	},
}

func compressZstd(data []byte) []byte {
	enc := zstdEncPool.Get().(*zstd.Encoder)
	defer zstdEncPool.Put(enc)
	return enc.EncodeAll(data, nil)
}

func decompressZstd(data []byte) ([]byte, error) {
	dec := zstdDecPool.Get().(*zstd.Decoder)
	defer zstdDecPool.Put(dec)
	return dec.DecodeAll(data, nil)
}
