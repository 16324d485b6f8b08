package reader

import (
	"github.com/pkg/errors"

	"github.com/hitzhangjie/dwunwind/pkg/dwarf/godwarf"
	"github.com/hitzhangjie/dwunwind/pkg/dwarf/util"
)

// LocListEntry is one location description of a location list. Default
// entries apply wherever no other entry does and have an empty Range.
type LocListEntry struct {
	Range
	Default bool
	Expr    []byte
}

var lleShapes = [...]entryShape{
	LLEBaseAddressx: shapeBaseAddrx,
	LLEStartxEndx:   shapeStartxEndx,
	LLEStartxLength: shapeStartxLength,
	LLEOffsetPair:   shapeOffsetPair,
	LLEBaseAddress:  shapeBaseAddr,
	LLEStartEnd:     shapeStartEnd,
	LLEStartLength:  shapeStartLength,
}

func (r *listReader) expr(size uint64) ([]byte, error) {
	b, ok := util.Slice(r.data, r.off, size)
	if !ok {
		return nil, shortRead(r.kind.String()+" expression", r.off)
	}
	r.off += size
	return b, nil
}

// locV4 decodes a .debug_loc list.
func (u *Unit) locV4(off uint64) ([]LocListEntry, error) {
	r, err := u.newListReader(godwarf.SectionLoc, off)
	if err != nil {
		return nil, err
	}
	var out []LocListEntry
	for {
		lo, err := r.addr()
		if err != nil {
			return out, err
		}
		hi, err := r.addr()
		if err != nil {
			return out, err
		}
		if lo == 0 && hi == 0 {
			return out, nil
		}
		if lo == allOnes(u.AddrSize) {
			r.base = hi
			continue
		}
		var size uint16
		if util.ReadU16(r.data, r.off, &size) == 0 {
			return out, shortRead("debug_loc expression length", r.off)
		}
		r.off += 2
		e, err := r.expr(uint64(size))
		if err != nil {
			return out, err
		}
		out = append(out, LocListEntry{Range: Range{r.base + lo, r.base + hi}, Expr: e})
	}
}

// locLists decodes a .debug_loclists list starting at the section offset off.
func (u *Unit) locLists(off uint64) ([]LocListEntry, error) {
	r, err := u.newListReader(godwarf.SectionLocLists, off)
	if err != nil {
		return nil, err
	}
	var out []LocListEntry
	for {
		var k uint8
		if util.ReadU8(r.data, r.off, &k) == 0 {
			return out, shortRead("loclists entry kind", r.off)
		}
		r.off++

		var ent LocListEntry
		switch kind := LLE(k); kind {
		case LLEEndOfList:
			return out, nil
		case LLEGNUViewPair:
			// view numbers only order entries at the same address
			if _, err := r.uleb(); err != nil {
				return out, err
			}
			if _, err := r.uleb(); err != nil {
				return out, err
			}
			continue
		case LLEDefaultLocation:
			ent.Default = true
		default:
			if int(kind) >= len(lleShapes) {
				return out, errors.Errorf("unknown %s entry kind %#x at %#x", r.kind, k, r.off-1)
			}
			rng, ok, err := r.entry(lleShapes[kind])
			if err != nil {
				return out, errors.Wrap(err, kind.String())
			}
			if !ok {
				continue
			}
			ent.Range = rng
		}

		size, err := r.uleb()
		if err != nil {
			return out, err
		}
		if ent.Expr, err = r.expr(size); err != nil {
			return out, err
		}
		out = append(out, ent)
	}
}

// FindLocation returns the expression of the entry covering pc, falling back
// to the default entry.
func FindLocation(entries []LocListEntry, pc uint64) ([]byte, bool) {
	var def []byte
	hasDef := false
	for _, e := range entries {
		if e.Default {
			def, hasDef = e.Expr, true
			continue
		}
		if e.Contains(pc) {
			return e.Expr, true
		}
	}
	return def, hasDef
}
