// Package reader decodes .debug_info and the sections hanging off it:
// abbreviations, attribute forms, tag trees, range and location lists,
// pubnames and line programs.
//
// Tags refer to each other by section offset only. A Unit decodes tags on
// demand and caches them by offset, so a lookup never needs the whole tree.
package reader

import (
	"sort"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/hitzhangjie/dwunwind/pkg/dwarf/godwarf"
	"github.com/hitzhangjie/dwunwind/pkg/dwarf/util"
	"github.com/hitzhangjie/dwunwind/pkg/log"
)

// Options tune how tolerant the reader is of producer quirks.
type Options struct {
	// Relaxed retries class lookups against the newest DWARF version and lets
	// accessors fall back to the form when the class is undefined.
	Relaxed bool
	// Ext enables vendor attribute tables.
	Ext Ext
	// AbbrevCacheSize bounds the number of parsed abbreviation tables kept.
	AbbrevCacheSize int
}

// DefaultOptions returns relaxed decoding with every vendor table enabled.
func DefaultOptions() Options {
	return Options{Relaxed: true, Ext: ExtAll, AbbrevCacheSize: defaultAbbrevCacheSize}
}

// Info is the parsed unit set of one section table.
type Info struct {
	Sections    *godwarf.Sections
	Units       []*Unit
	Diagnostics Diagnostics

	opts    Options
	abbrevs *AbbrevCache
}

// ParseUnits walks every unit header in .debug_info and decodes each unit's
// root tag. Malformed units are reported through Diagnostics, a unit length
// that cannot be read ends the walk.
func ParseUnits(secs *godwarf.Sections, opts Options) (*Info, error) {
	data := secs.Data(godwarf.SectionInfo)
	if len(data) == 0 {
		return nil, errors.Wrap(godwarf.ErrNoDebugSection, godwarf.SectionInfo.Name())
	}
	abbrevs, err := NewAbbrevCache(secs.Data(godwarf.SectionAbbrev), opts.AbbrevCacheSize)
	if err != nil {
		return nil, err
	}
	info := &Info{Sections: secs, opts: opts, abbrevs: abbrevs}

	for off := uint64(0); off < uint64(len(data)); {
		u, next, err := info.parseUnit(off)
		if err != nil {
			info.Diagnostics.Add(errors.Wrapf(err, "unit at %#x", off))
		}
		if u != nil {
			info.Units = append(info.Units, u)
		}
		if next <= off {
			break
		}
		off = next
	}
	log.L().Debug("parsed units", zap.Int("count", len(info.Units)), zap.Int("diagnostics", info.Diagnostics.Len()))
	return info, nil
}

// UnitAt returns the unit whose byte range holds the section offset off.
func (info *Info) UnitAt(off uint64) *Unit {
	i := sort.Search(len(info.Units), func(i int) bool { return info.Units[i].End() > off })
	if i < len(info.Units) && info.Units[i].Offset <= off {
		return info.Units[i]
	}
	return nil
}

// TagAt decodes the tag at a .debug_info offset, in whatever unit holds it.
func (info *Info) TagAt(off uint64) (*Tag, error) {
	u := info.UnitAt(off)
	if u == nil {
		return nil, errors.Errorf("no unit contains offset %#x", off)
	}
	return u.TagAt(off)
}

// UnitForPC returns the first unit whose ranges contain pc.
func (info *Info) UnitForPC(pc uint64) *Unit {
	for _, u := range info.Units {
		rngs, err := u.Ranges()
		if err != nil {
			continue
		}
		for _, r := range rngs {
			if r.Contains(pc) {
				return u
			}
		}
	}
	return nil
}

// Unit is one unit header plus the cached attributes of its root tag.
type Unit struct {
	Offset       uint64
	Length       uint64
	Format       util.Format
	Version      Version
	Kind         UnitKind
	AddrSize     int
	AbbrevOffset uint64

	DwoID         uint64
	TypeSignature uint64
	TypeOffset    uint64

	Name           string
	Producer       string
	CompDir        string
	DwoName        string
	Language       Language
	IdentifierCase uint64
	UseUTF8        bool
	LowPC          uint64
	HighPC         uint64
	// Base is the address offset pairs in range and location lists are
	// relative to, DW_AT_low_pc of the root.
	Base        uint64
	StmtList    uint64
	HasStmtList bool

	// header offsets of this unit's list contributions
	addrBase, strOffsetsBase, rngListsBase, locListsBase uint64
	hasAddrBase, hasStrOffsetsBase, hasRngListsBase, hasLocListsBase bool

	listUnits map[godwarf.SectionKind]*ListUnit

	info    *Info
	abbrevs *AbbrevTable
	tagsOff uint64
	root    *Tag
	ranges  *Attrib
	hasPC   bool
	tags    map[uint64]*Tag
}

// End returns the section offset just past the unit.
func (u *Unit) End() uint64 {
	return u.Offset + uint64(u.headerLenSize()) + u.Length
}

func (u *Unit) headerLenSize() int {
	if u.Format == util.Format64 {
		return 12
	}
	return 4
}

// Root returns the unit's compile, partial, type or skeleton tag.
func (u *Unit) Root() *Tag {
	return u.root
}

// Info returns the unit set the unit belongs to.
func (u *Unit) Info() *Info {
	return u.info
}

// Contains reports whether off lies in the unit's tag range.
func (u *Unit) Contains(off uint64) bool {
	return off >= u.tagsOff && off < u.End()
}

func (u *Unit) sections() *godwarf.Sections {
	return u.info.Sections
}

func (u *Unit) formCtx() formCtx {
	return formCtx{version: u.Version, format: u.Format, addrSize: u.AddrSize}
}

func (info *Info) parseUnit(off uint64) (*Unit, uint64, error) {
	data := info.Sections.Data(godwarf.SectionInfo)
	u := &Unit{Offset: off, info: info, tags: map[uint64]*Tag{}}

	n := util.ReadUnitLength(data, off, &u.Length, &u.Format)
	if n == 0 {
		return nil, off, shortRead("unit length", off)
	}
	end := u.End()
	if end > uint64(len(data)) || end < off {
		return nil, off, errors.Wrapf(ErrShortRead, "unit length %#x runs past .debug_info", u.Length)
	}
	cur := off + uint64(n)

	var ver uint16
	if util.ReadU16(data, cur, &ver) == 0 {
		return nil, end, shortRead("unit version", cur)
	}
	cur += 2
	u.Version = Version(ver)

	var addrSize uint8
	switch u.Version {
	case Version2:
		var abbrev uint32
		if util.ReadU32(data, cur, &abbrev) == 0 || util.ReadU8(data, cur+4, &addrSize) == 0 {
			return nil, end, shortRead("v2 unit header", cur)
		}
		u.AbbrevOffset = uint64(abbrev)
		u.Kind = UnitCompile
		cur += 5
	case Version3, Version4:
		n := util.ReadOffset(data, cur, u.Format, &u.AbbrevOffset)
		if n == 0 || util.ReadU8(data, cur+uint64(n), &addrSize) == 0 {
			return nil, end, shortRead("unit header", cur)
		}
		u.Kind = UnitCompile
		cur += uint64(n) + 1
	case Version5:
		var kind uint8
		if util.ReadU8(data, cur, &kind) == 0 || util.ReadU8(data, cur+1, &addrSize) == 0 {
			return nil, end, shortRead("v5 unit header", cur)
		}
		cur += 2
		u.Kind = UnitKind(kind)
		n := util.ReadOffset(data, cur, u.Format, &u.AbbrevOffset)
		if n == 0 {
			return nil, end, shortRead("abbrev offset", cur)
		}
		cur += uint64(n)

		switch u.Kind {
		case UnitSkeleton, UnitSplitCompile:
			if util.ReadU64(data, cur, &u.DwoID) == 0 {
				return nil, end, shortRead("dwo id", cur)
			}
			cur += 8
		case UnitType, UnitSplitType:
			if util.ReadU64(data, cur, &u.TypeSignature) == 0 {
				return nil, end, shortRead("type signature", cur)
			}
			cur += 8
			n := util.ReadOffset(data, cur, u.Format, &u.TypeOffset)
			if n == 0 {
				return nil, end, shortRead("type offset", cur)
			}
			cur += uint64(n)
		case UnitCompile, UnitPartial:
			if info.Sections.IsDWO() {
				if util.ReadU64(data, cur, &u.DwoID) == 0 {
					return nil, end, shortRead("dwo id", cur)
				}
				cur += 8
			}
		default:
			return nil, end, errors.Errorf("unknown unit kind %s", u.Kind)
		}
	default:
		return nil, end, errors.Errorf("unsupported DWARF version %d", ver)
	}
	u.AddrSize = int(addrSize)
	u.tagsOff = cur
	if cur > end {
		return nil, end, errors.Errorf("unit header overruns unit length")
	}

	abbrevs, err := info.abbrevs.Get(u.AbbrevOffset)
	if err != nil {
		return nil, end, errors.Wrap(err, "abbrev table")
	}
	u.abbrevs = abbrevs

	if cur == end {
		info.Diagnostics.Addf("unit at %#x has no tags", off)
		return u, end, nil
	}
	root, err := u.TagAt(cur)
	if err != nil {
		return u, end, errors.Wrap(err, "root tag")
	}
	u.root = root
	switch root.Kind {
	case TagCompileUnit, TagPartialUnit, TagTypeUnit, TagSkeletonUnit:
	default:
		info.Diagnostics.Addf("unit at %#x: root tag is %s, want a unit tag", off, root.Kind)
	}
	u.loadRoot(root)
	return u, end, nil
}

// loadRoot caches the root attributes. The *_base attributes come first
// since indexed forms of the other attributes resolve through them.
func (u *Unit) loadRoot(root *Tag) {
	secs := u.sections()
	bases := []struct {
		attr Attr
		kind godwarf.SectionKind
		base *uint64
		has  *bool
	}{
		{AttrAddrBase, godwarf.SectionAddr, &u.addrBase, &u.hasAddrBase},
		{AttrGNUAddrBase, godwarf.SectionAddr, &u.addrBase, &u.hasAddrBase},
		{AttrStrOffsetsBase, godwarf.SectionStrOffsets, &u.strOffsetsBase, &u.hasStrOffsetsBase},
		{AttrRngListsBase, godwarf.SectionRngLists, &u.rngListsBase, &u.hasRngListsBase},
		{AttrLocListsBase, godwarf.SectionLocLists, &u.locListsBase, &u.hasLocListsBase},
	}
	for _, b := range bases {
		a := root.Attr(b.attr)
		if a == nil {
			continue
		}
		base := a.val
		if u.Version >= Version5 {
			hdr, ok := HeaderOffset(b.kind, secs.Data(b.kind), base)
			if !ok {
				u.info.Diagnostics.Addf("unit at %#x: %s %#x precedes any %s header", u.Offset, b.attr, base, b.kind)
				continue
			}
			base = hdr
		}
		*b.base, *b.has = base, true
	}

	highRelative := false
	for i := range root.Attribs {
		a := &root.Attribs[i]
		var err error
		switch a.Attr {
		case AttrName:
			u.Name, err = a.Str()
		case AttrProducer:
			u.Producer, err = a.Str()
		case AttrCompDir:
			u.CompDir, err = a.Str()
		case AttrDwoName, AttrGNUDwoName:
			if u.DwoName == "" {
				u.DwoName, err = a.Str()
			}
		case AttrGNUDwoId:
			if u.DwoID == 0 {
				u.DwoID, err = a.Const()
			}
		case AttrLanguage:
			var v uint64
			v, err = a.Const()
			u.Language = Language(v)
		case AttrIdentifierCase:
			u.IdentifierCase, err = a.Const()
		case AttrUseUtf8:
			u.UseUTF8, err = a.Flag()
		case AttrLowPc:
			u.LowPC, err = a.Address()
			u.hasPC = err == nil
		case AttrHighPc:
			if a.Class == ClassAddress {
				u.HighPC, err = a.Address()
			} else {
				u.HighPC, err = a.Const()
				highRelative = true
			}
		case AttrRanges:
			u.ranges = a
		case AttrStmtList:
			u.StmtList, err = a.SectionOffset()
			u.HasStmtList = err == nil
		}
		if err != nil {
			u.info.Diagnostics.Addf("unit at %#x: %s: %v", u.Offset, a.Attr, err)
		}
	}
	if highRelative {
		u.HighPC += u.LowPC
	}
	u.Base = u.LowPC
}

// listUnit returns the unit's contribution to a list section, parsing the
// header on first use. Without a base attribute the contribution at offset
// zero is used, as split units do.
func (u *Unit) listUnit(kind godwarf.SectionKind) (*ListUnit, error) {
	if lu, ok := u.listUnits[kind]; ok {
		return lu, nil
	}
	var off uint64
	switch kind {
	case godwarf.SectionAddr:
		off = u.addrBase
	case godwarf.SectionStrOffsets:
		off = u.strOffsetsBase
	case godwarf.SectionRngLists:
		off = u.rngListsBase
	case godwarf.SectionLocLists:
		off = u.locListsBase
	}
	data := u.sections().Data(kind)
	if len(data) == 0 {
		return nil, errors.Wrap(godwarf.ErrNoDebugSection, kind.Name())
	}
	var (
		lu  *ListUnit
		err error
	)
	if kind == godwarf.SectionAddr && u.Version < Version5 {
		// GNU split DWARF 4 has no .debug_addr header, the base points
		// straight at the first slot.
		lu = &ListUnit{Kind: kind, Offset: off, AddrSize: uint8(u.AddrSize), EntriesOffset: off}
		if off <= uint64(len(data)) {
			lu.entries = data[off:]
		}
	} else if lu, err = ParseListUnit(kind, data, off); err != nil {
		return nil, err
	}
	if u.listUnits == nil {
		u.listUnits = map[godwarf.SectionKind]*ListUnit{}
	}
	u.listUnits[kind] = lu
	return lu, nil
}

// addrx resolves a .debug_addr index.
func (u *Unit) addrx(i uint64) (uint64, error) {
	lu, err := u.listUnit(godwarf.SectionAddr)
	if err != nil {
		return 0, err
	}
	return lu.Addr(i)
}

// strx resolves a .debug_str_offsets index to a string.
func (u *Unit) strx(i uint64) (string, error) {
	lu, err := u.listUnit(godwarf.SectionStrOffsets)
	if err != nil {
		return "", err
	}
	off, err := lu.StrOffset(i)
	if err != nil {
		return "", err
	}
	return u.cstring(godwarf.SectionStr, off)
}

func (u *Unit) cstring(kind godwarf.SectionKind, off uint64) (string, error) {
	var s string
	if util.ReadCString(u.sections().Data(kind), off, &s) == 0 {
		return "", shortRead(kind.Name()+" string", off)
	}
	return s, nil
}

// Ranges returns the address ranges covered by the unit, from DW_AT_ranges
// when present and from the low/high pc pair otherwise.
func (u *Unit) Ranges() ([]Range, error) {
	if u.ranges != nil {
		return u.ranges.Ranges()
	}
	if u.hasPC && u.HighPC > u.LowPC {
		return []Range{{Lo: u.LowPC, Hi: u.HighPC}}, nil
	}
	return nil, nil
}
