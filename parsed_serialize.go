/*
 * MinIO Cloud Storage, (C) 2020 MinIO, Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package simdjson

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/klauspost/compress/s2"
	"github.com/klauspost/compress/zstd"
)

// serializedVersion is bumped when the stored layout changes.
const serializedVersion = 2

var serializedMagic = [4]byte{'s', 'j', 't', serializedVersion}

// CompressMode is the compression used for serialized output.
type CompressMode uint8

const (
	// CompressNone stores the tape and string arena uncompressed.
	CompressNone CompressMode = iota

	// CompressFast will apply light compression,
	// but will not deduplicate strings which may affect deserialization speed.
	CompressFast

	// CompressBest will apply best effort compression,
	// this is the slowest but most compact representation.
	CompressBest

	// CompressDefault is the default compression.
	CompressDefault = CompressFast
)

// Serializer allows to serialize parsed json and read it back.
// A Serializer can be reused, but not used concurrently.
type Serializer struct {
	comp CompressMode

	zstdEnc *zstd.Encoder
	zstdDec *zstd.Decoder

	// scratch buffers, reused between calls
	tapeBuf []byte
	compBuf []byte
}

// NewSerializer will create and initialize a Serializer.
func NewSerializer() *Serializer {
	var s Serializer
	s.CompressMode(CompressDefault)
	return &s
}

// CompressMode updates the compression mode of the Serializer.
func (s *Serializer) CompressMode(c CompressMode) {
	switch c {
	case CompressNone, CompressFast:
	case CompressBest:
		if s.zstdEnc == nil {
			s.zstdEnc, _ = zstd.NewWriter(nil,
				zstd.WithEncoderLevel(zstd.SpeedBetterCompression),
				zstd.WithEncoderConcurrency(1))
		}
	default:
		panic("unknown compression mode")
	}
	s.comp = c
}

// Serialize the tape and string arena of pj.
// An optional destination can be provided; output is appended to it.
// The serialized data can be read back with Deserialize.
func (s *Serializer) Serialize(dst []byte, pj ParsedJson) []byte {
	if cap(s.tapeBuf) < len(pj.Tape)*8 {
		s.tapeBuf = make([]byte, len(pj.Tape)*8)
	}
	s.tapeBuf = s.tapeBuf[:len(pj.Tape)*8]
	for i, v := range pj.Tape {
		binary.LittleEndian.PutUint64(s.tapeBuf[i*8:], v)
	}

	dst = append(dst, serializedMagic[:]...)
	dst = append(dst, byte(s.comp))
	var tmp [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(tmp[:], uint64(len(pj.Tape)))
	dst = append(dst, tmp[:n]...)
	n = binary.PutUvarint(tmp[:], uint64(len(pj.Strings)))
	dst = append(dst, tmp[:n]...)

	dst = s.appendBlock(dst, s.tapeBuf)
	dst = s.appendBlock(dst, pj.Strings)
	return dst
}

func (s *Serializer) appendBlock(dst, raw []byte) []byte {
	var block []byte
	switch s.comp {
	case CompressNone:
		block = raw
	case CompressFast:
		if cap(s.compBuf) < s2.MaxEncodedLen(len(raw)) {
			s.compBuf = make([]byte, s2.MaxEncodedLen(len(raw)))
		}
		block = s2.Encode(s.compBuf[:cap(s.compBuf)], raw)
	case CompressBest:
		block = s.zstdEnc.EncodeAll(raw, s.compBuf[:0])
		s.compBuf = block
	}
	var tmp [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(tmp[:], uint64(len(block)))
	dst = append(dst, tmp[:n]...)
	return append(dst, block...)
}

// Deserialize the content in src.
// Only basic sanity checks will be performed.
// Slight corruption will likely go through unnoticed.
// An optional destination can be provided.
func (s *Serializer) Deserialize(src []byte, dst *ParsedJson) (*ParsedJson, error) {
	if len(src) < len(serializedMagic)+1 {
		return nil, errors.New("serialized data too short")
	}
	for i, m := range serializedMagic {
		if src[i] != m {
			return nil, fmt.Errorf("unexpected magic or version: %q", src[:4])
		}
	}
	comp := CompressMode(src[4])
	src = src[5:]

	// Cap claimed sizes so corrupt input cannot trigger huge allocations.
	maxSize := uint64(len(src)) << 14

	tapeLen, n := binary.Uvarint(src)
	if n <= 0 || tapeLen > maxSize/8 {
		return nil, errors.New("reading tape length")
	}
	src = src[n:]
	stringsLen, n := binary.Uvarint(src)
	if n <= 0 || stringsLen > maxSize {
		return nil, errors.New("reading string arena length")
	}
	src = src[n:]

	tapeBytes, src, err := s.readBlock(src, comp, tapeLen*8)
	if err != nil {
		return nil, fmt.Errorf("reading tape: %w", err)
	}
	if uint64(len(tapeBytes)) != tapeLen*8 {
		return nil, errors.New("unexpected tape block size")
	}

	if dst == nil {
		dst = &ParsedJson{}
	}
	if cap(dst.Tape) < int(tapeLen) {
		dst.Tape = make([]uint64, tapeLen)
	}
	dst.Tape = dst.Tape[:tapeLen]
	for i := range dst.Tape {
		dst.Tape[i] = binary.LittleEndian.Uint64(tapeBytes[i*8:])
	}

	strBytes, _, err := s.readBlock(src, comp, stringsLen)
	if err != nil {
		return nil, fmt.Errorf("reading string arena: %w", err)
	}
	if uint64(len(strBytes)) != stringsLen {
		return nil, errors.New("unexpected string arena size")
	}
	if cap(dst.Strings) < len(strBytes) {
		dst.Strings = make([]byte, len(strBytes))
	}
	dst.Strings = dst.Strings[:len(strBytes)]
	copy(dst.Strings, strBytes)

	// The deserialized document is readable, so mark it valid.
	if dst.internal == nil {
		dst.internal = &internalParsedJson{maxDepth: DefaultMaxDepth}
	}
	dst.internal.isvalid = true
	dst.internal.err = Success
	dst.internal.ParsedJson = *dst

	return dst, nil
}

func (s *Serializer) readBlock(src []byte, comp CompressMode, rawSize uint64) (block, rest []byte, err error) {
	blockLen, n := binary.Uvarint(src)
	if n <= 0 || blockLen > uint64(len(src)-n) {
		return nil, nil, errors.New("block length out of range")
	}
	src = src[n:]
	raw := src[:blockLen]
	rest = src[blockLen:]

	switch comp {
	case CompressNone:
		return raw, rest, nil
	case CompressFast:
		if cap(s.compBuf) < int(rawSize) {
			s.compBuf = make([]byte, rawSize)
		}
		block, err = s2.Decode(s.compBuf[:rawSize], raw)
		return block, rest, err
	case CompressBest:
		if s.zstdDec == nil {
			s.zstdDec, err = zstd.NewReader(nil, zstd.WithDecoderConcurrency(1))
			if err != nil {
				return nil, nil, err
			}
		}
		block, err = s.zstdDec.DecodeAll(raw, nil)
		return block, rest, err
	default:
		return nil, nil, fmt.Errorf("unknown compression mode: %d", comp)
	}
}
