// Copyright 2025 CloudWeGo Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package gzipsource decodes a gzip (RFC 1952) byte stream as a
// iostream.Source, exposing the decompressed body and validating both the
// optional header checksum and the trailing CRC-32/ISIZE.
package gzipsource

import (
	"fmt"
	"hash/crc32"
	"io"

	"github.com/wirepath/transportio/buf"
	"github.com/wirepath/transportio/inflate"
	"github.com/wirepath/transportio/iostream"
)

const (
	flagFHCRC    = 1 << 1
	flagFEXTRA   = 1 << 2
	flagFNAME    = 1 << 3
	flagFCOMMENT = 1 << 4

	gzipMagic = 0x1f8b
)

type section int

const (
	sectionHeader section = iota
	sectionBody
	sectionTrailer
	sectionDone
)

var _ iostream.Source = (*GzipSource)(nil)

// GzipSource decodes a gzip stream read from an upstream Source.
type GzipSource struct {
	source iostream.Source

	// buffer is shared with inflater: GzipSource may read ahead past the
	// 10-byte-plus-extras header into the compressed body, and inflater
	// may read ahead past the compressed body into the trailer. Sharing
	// one Buffer means whichever side reads too far, the other still sees
	// those bytes.
	buffer   *buf.Buffer
	inflater *inflate.InflaterSource

	crc     uint32
	section section

	totalOut int64
}

// New returns a GzipSource decoding source.
func New(source iostream.Source) *GzipSource {
	g := &GzipSource{source: source, buffer: buf.New()}
	g.inflater = inflate.NewSharingWindow(source, g.buffer)
	return g
}

// Read decompresses gzip-framed data into dst.
func (g *GzipSource) Read(dst *buf.Buffer, maxBytes int64, deadline iostream.Deadline) (int64, error) {
	if maxBytes < 0 {
		return 0, &iostream.CoreError{Kind: iostream.KindMalformedInput, Msg: "gzip: negative byteCount"}
	}
	if maxBytes == 0 {
		return 0, nil
	}

	if g.section == sectionHeader {
		if err := g.consumeHeader(deadline); err != nil {
			return 0, err
		}
		g.section = sectionBody
	}

	if g.section == sectionBody {
		offset := dst.Len()
		n, err := g.inflater.Read(dst, maxBytes, deadline)
		if n > 0 {
			g.updateCrc(dst, offset, n)
			g.totalOut += n
		}
		if err != nil && err != io.EOF {
			return n, err
		}
		if n > 0 {
			return n, nil
		}
		// Body exhausted: fall through to the trailer below. Reading the
		// trailer before reporting EOF guarantees that by the time a
		// caller sees io.EOF, the CRC has already been checked.
		g.section = sectionTrailer
	}

	if g.section == sectionTrailer {
		if err := g.consumeTrailer(deadline); err != nil {
			return 0, err
		}
		g.section = sectionDone
	}

	return 0, io.EOF
}

// Close closes the underlying decompressor and Source.
func (g *GzipSource) Close() error { return g.inflater.Close() }

func (g *GzipSource) require(n int64, deadline iostream.Deadline) error {
	return iostream.Require(g.source, g.buffer, n, deadline)
}

func (g *GzipSource) consumeHeader(deadline iostream.Deadline) error {
	// +---+---+---+---+---+---+---+---+---+---+
	// |ID1|ID2|CM |FLG|     MTIME     |XFL|OS | (more-->)
	// +---+---+---+---+---+---+---+---+---+---+
	if err := g.require(10, deadline); err != nil {
		return err
	}
	flagByte, err := g.buffer.GetByte(3)
	if err != nil {
		return malformed(err, "gzip: reading FLG")
	}
	fhcrc := flagByte&flagFHCRC != 0
	if fhcrc {
		g.updateCrc(g.buffer, 0, 10)
	}

	id, err := g.buffer.ReadShort()
	if err != nil {
		return malformed(err, "gzip: reading magic")
	}
	if uint16(id) != gzipMagic {
		return badMagic(uint16(id))
	}
	if err := g.buffer.Skip(8); err != nil {
		return malformed(err, "gzip: skipping CM/FLG/MTIME/XFL/OS")
	}

	// +---+---+=================================+
	// | XLEN  |...XLEN bytes of "extra field"...| (more-->)
	// +---+---+=================================+
	if flagByte&flagFEXTRA != 0 {
		if err := g.require(2, deadline); err != nil {
			return err
		}
		if fhcrc {
			g.updateCrc(g.buffer, 0, 2)
		}
		xlenShort, err := g.buffer.ReadShortLE()
		if err != nil {
			return malformed(err, "gzip: reading XLEN")
		}
		xlen := int64(uint16(xlenShort))
		if err := g.require(xlen, deadline); err != nil {
			return err
		}
		if fhcrc {
			g.updateCrc(g.buffer, 0, xlen)
		}
		if err := g.buffer.Skip(xlen); err != nil {
			return malformed(err, "gzip: skipping extra field")
		}
	}

	// +=========================================+
	// |...original file name, zero-terminated...| (more-->)
	// +=========================================+
	if flagByte&flagFNAME != 0 {
		idx, err := iostream.Seek(g.buffer, 0, g.source, deadline)
		if err != nil {
			return err
		}
		if fhcrc {
			g.updateCrc(g.buffer, 0, idx+1)
		}
		if err := g.buffer.Skip(idx + 1); err != nil {
			return malformed(err, "gzip: skipping FNAME")
		}
	}

	// +===================================+
	// |...file comment, zero-terminated...| (more-->)
	// +===================================+
	if flagByte&flagFCOMMENT != 0 {
		idx, err := iostream.Seek(g.buffer, 0, g.source, deadline)
		if err != nil {
			return err
		}
		if fhcrc {
			g.updateCrc(g.buffer, 0, idx+1)
		}
		if err := g.buffer.Skip(idx + 1); err != nil {
			return malformed(err, "gzip: skipping FCOMMENT")
		}
	}

	// +---+---+
	// | CRC16 |
	// +---+---+
	if fhcrc {
		if err := g.require(2, deadline); err != nil {
			return err
		}
		want, err := g.buffer.ReadShortLE()
		if err != nil {
			return malformed(err, "gzip: reading FHCRC")
		}
		if uint16(want) != uint16(g.crc) {
			return checksumMismatch("FHCRC", uint32(uint16(want)), g.crc&0xffff)
		}
		g.crc = 0
	}
	return nil
}

func (g *GzipSource) consumeTrailer(deadline iostream.Deadline) error {
	// +---+---+---+---+---+---+---+---+
	// |     CRC32     |     ISIZE     |
	// +---+---+---+---+---+---+---+---+
	if err := g.require(8, deadline); err != nil {
		return err
	}
	wantCRC, err := g.buffer.ReadIntLE()
	if err != nil {
		return malformed(err, "gzip: reading CRC32")
	}
	if uint32(wantCRC) != g.crc {
		return checksumMismatch("CRC", uint32(wantCRC), g.crc)
	}
	wantSize, err := g.buffer.ReadIntLE()
	if err != nil {
		return malformed(err, "gzip: reading ISIZE")
	}
	if uint32(wantSize) != uint32(g.totalOut) {
		return checksumMismatch("ISIZE", uint32(wantSize), uint32(g.totalOut))
	}
	return nil
}

func (g *GzipSource) updateCrc(b *buf.Buffer, offset, n int64) {
	b.VisitBytes(offset, n, func(p []byte) {
		g.crc = crc32.Update(g.crc, crc32.IEEETable, p)
	})
}

func malformed(err error, msg string) error {
	return &iostream.CoreError{Kind: iostream.KindMalformedInput, Msg: msg, Err: err}
}

func badMagic(got uint16) error {
	return &iostream.CoreError{
		Kind: iostream.KindMalformedInput,
		Msg:  fmt.Sprintf("gzip: bad magic bytes 0x%04x, want 0x%04x", got, gzipMagic),
	}
}

func checksumMismatch(name string, want, got uint32) error {
	return &iostream.CoreError{
		Kind: iostream.KindChecksumMismatch,
		Msg:  fmt.Sprintf("%s mismatch: actual 0x%08x != expected 0x%08x", name, got, want),
	}
}
