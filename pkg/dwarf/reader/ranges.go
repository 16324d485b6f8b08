package reader

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/hitzhangjie/dwunwind/pkg/dwarf/godwarf"
	"github.com/hitzhangjie/dwunwind/pkg/dwarf/util"
)

// Range is the half open address interval [Lo, Hi).
type Range struct {
	Lo, Hi uint64
}

// Contains reports whether pc is in the range.
func (r Range) Contains(pc uint64) bool {
	return pc >= r.Lo && pc < r.Hi
}

func (r Range) String() string {
	return fmt.Sprintf("[%#x, %#x)", r.Lo, r.Hi)
}

func allOnes(size int) uint64 {
	if size >= 8 {
		return ^uint64(0)
	}
	return 1<<(uint(size)*8) - 1
}

// listReader walks one range or location list in a section.
type listReader struct {
	u    *Unit
	kind godwarf.SectionKind
	data []byte
	off  uint64
	base uint64
}

func (u *Unit) newListReader(kind godwarf.SectionKind, off uint64) (*listReader, error) {
	data := u.sections().Data(kind)
	if len(data) == 0 {
		return nil, errors.Wrap(godwarf.ErrNoDebugSection, kind.Name())
	}
	if off >= uint64(len(data)) {
		return nil, errors.Wrapf(ErrShortRead, "%s offset %#x beyond section", kind, off)
	}
	return &listReader{u: u, kind: kind, data: data, off: off, base: u.Base}, nil
}

func (r *listReader) addr() (uint64, error) {
	var v uint64
	if util.ReadUint(r.data, r.off, r.u.AddrSize, &v) == 0 {
		return 0, shortRead(r.kind.String()+" address", r.off)
	}
	r.off += uint64(r.u.AddrSize)
	return v, nil
}

func (r *listReader) uleb() (uint64, error) {
	var v uint64
	n := util.ReadULEB128(r.data, r.off, &v)
	if n == 0 {
		return 0, shortRead(r.kind.String()+" operand", r.off)
	}
	r.off += uint64(n)
	return v, nil
}

func (r *listReader) addrx() (uint64, error) {
	i, err := r.uleb()
	if err != nil {
		return 0, err
	}
	return r.u.addrx(i)
}

// entryShape is the operand layout of a range or location list entry. The
// RLE and LLE encodings share the layouts but not the kind numbers.
type entryShape uint8

const (
	shapeNone entryShape = iota
	shapeBaseAddrx
	shapeBaseAddr
	shapeStartxEndx
	shapeStartxLength
	shapeOffsetPair
	shapeStartEnd
	shapeStartLength
)

var rleShapes = [...]entryShape{
	RLEBaseAddressx: shapeBaseAddrx,
	RLEStartxEndx:   shapeStartxEndx,
	RLEStartxLength: shapeStartxLength,
	RLEOffsetPair:   shapeOffsetPair,
	RLEBaseAddress:  shapeBaseAddr,
	RLEStartEnd:     shapeStartEnd,
	RLEStartLength:  shapeStartLength,
}

// entry reads the operands of one entry and returns the range it describes.
// Base address entries update the reader and report ok false.
func (r *listReader) entry(shape entryShape) (rng Range, ok bool, err error) {
	var a, b uint64
	switch shape {
	case shapeBaseAddrx:
		r.base, err = r.addrx()
		return Range{}, false, err
	case shapeBaseAddr:
		r.base, err = r.addr()
		return Range{}, false, err
	case shapeStartxEndx:
		if a, err = r.addrx(); err == nil {
			b, err = r.addrx()
		}
		return Range{a, b}, true, err
	case shapeStartxLength:
		if a, err = r.addrx(); err == nil {
			b, err = r.uleb()
		}
		return Range{a, a + b}, true, err
	case shapeOffsetPair:
		if a, err = r.uleb(); err == nil {
			b, err = r.uleb()
		}
		return Range{r.base + a, r.base + b}, true, err
	case shapeStartEnd:
		if a, err = r.addr(); err == nil {
			b, err = r.addr()
		}
		return Range{a, b}, true, err
	case shapeStartLength:
		if a, err = r.addr(); err == nil {
			b, err = r.uleb()
		}
		return Range{a, a + b}, true, err
	}
	return Range{}, false, errors.Errorf("no operand layout for %s entry at %#x", r.kind, r.off)
}

// rangesV4 decodes a .debug_ranges list.
func (u *Unit) rangesV4(off uint64) ([]Range, error) {
	r, err := u.newListReader(godwarf.SectionRanges, off)
	if err != nil {
		return nil, err
	}
	var out []Range
	for {
		lo, err := r.addr()
		if err != nil {
			return out, err
		}
		hi, err := r.addr()
		if err != nil {
			return out, err
		}
		switch {
		case lo == 0 && hi == 0:
			return out, nil
		case lo == allOnes(u.AddrSize):
			r.base = hi
		case lo < hi:
			out = append(out, Range{r.base + lo, r.base + hi})
		}
	}
}

// rngLists decodes a .debug_rnglists list starting at the section offset off.
func (u *Unit) rngLists(off uint64) ([]Range, error) {
	r, err := u.newListReader(godwarf.SectionRngLists, off)
	if err != nil {
		return nil, err
	}
	var out []Range
	for {
		var k uint8
		if util.ReadU8(r.data, r.off, &k) == 0 {
			return out, shortRead("rnglists entry kind", r.off)
		}
		r.off++
		kind := RLE(k)
		if kind == RLEEndOfList {
			return out, nil
		}
		if int(kind) >= len(rleShapes) {
			return out, errors.Errorf("unknown %s entry kind %#x at %#x", r.kind, k, r.off-1)
		}
		rng, ok, err := r.entry(rleShapes[kind])
		if err != nil {
			return out, errors.Wrap(err, kind.String())
		}
		if ok && rng.Lo < rng.Hi {
			out = append(out, rng)
		}
	}
}
