package util

import (
	"bytes"
	"encoding/binary"
	"io"

	"github.com/pkg/errors"
)

// The helpers below work on a *bytes.Buffer cursor and are used by the
// state-function parsers, which consume a section front to back.

// DecodeULEB128 decodes an unsigned LEB128 value from buf, returning the
// value and the number of bytes read.
func DecodeULEB128(buf *bytes.Buffer) (uint64, uint32) {
	var v uint64
	n := ReadULEB128(buf.Bytes(), 0, &v)
	buf.Next(n)
	return v, uint32(n)
}

// DecodeSLEB128 decodes a signed LEB128 value from buf.
func DecodeSLEB128(buf *bytes.Buffer) (int64, uint32) {
	var v int64
	n := ReadSLEB128(buf.Bytes(), 0, &v)
	buf.Next(n)
	return v, uint32(n)
}

// ParseString reads a NUL terminated string from buf.
func ParseString(buf *bytes.Buffer) (string, uint32) {
	str, err := buf.ReadString(0x0)
	if err != nil {
		return str, uint32(len(str))
	}
	return str[:len(str)-1], uint32(len(str))
}

// ReadUintRaw reads an unsigned integer of ptrSize bytes from reader.
func ReadUintRaw(reader io.Reader, order binary.ByteOrder, ptrSize int) (uint64, error) {
	switch ptrSize {
	case 2:
		var n uint16
		if err := binary.Read(reader, order, &n); err != nil {
			return 0, err
		}
		return uint64(n), nil
	case 4:
		var n uint32
		if err := binary.Read(reader, order, &n); err != nil {
			return 0, err
		}
		return uint64(n), nil
	case 8:
		var n uint64
		if err := binary.Read(reader, order, &n); err != nil {
			return 0, err
		}
		return n, nil
	}
	return 0, errors.Errorf("pointer size %d not supported", ptrSize)
}
