package reader

import (
	"sort"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/pkg/errors"

	"github.com/hitzhangjie/dwunwind/pkg/dwarf/util"
)

// AttrSpec is one (attribute, form) pair of an abbreviation.
type AttrSpec struct {
	Attr Attr
	Form Form
	// ImplicitConst is the value of a DW_FORM_implicit_const attribute,
	// stored in the abbreviation rather than in .debug_info.
	ImplicitConst int64
}

// Abbrev describes the layout shared by every tag using its id.
type Abbrev struct {
	ID          uint64
	Offset      uint64
	Kind        TagKind
	HasChildren bool
	Attrs       []AttrSpec
}

// AbbrevTable is one unit's abbreviation set, sorted by id.
type AbbrevTable struct {
	Offset  uint64
	entries []Abbrev
}

// ParseAbbrevTable decodes the table starting at off in .debug_abbrev. The
// table ends at a zero id or at the end of the section.
func ParseAbbrevTable(data []byte, off uint64) (*AbbrevTable, error) {
	if off > uint64(len(data)) {
		return nil, errors.Wrapf(ErrShortRead, "abbrev offset %#x beyond section", off)
	}
	t := &AbbrevTable{Offset: off}
	sorted := true
	for off < uint64(len(data)) {
		start := off
		var id uint64
		n := util.ReadULEB128(data, off, &id)
		if n == 0 {
			return nil, shortRead("abbrev id", off)
		}
		off += uint64(n)
		if id == 0 {
			break
		}

		var kind uint64
		if n = util.ReadULEB128(data, off, &kind); n == 0 {
			return nil, shortRead("abbrev tag", off)
		}
		off += uint64(n)
		var children uint8
		if util.ReadU8(data, off, &children) == 0 {
			return nil, shortRead("abbrev children flag", off)
		}
		off++

		a := Abbrev{ID: id, Offset: start, Kind: TagKind(kind), HasChildren: children != 0}
		for {
			var attr, form uint64
			if n = util.ReadULEB128(data, off, &attr); n == 0 {
				return nil, shortRead("abbrev attribute", off)
			}
			off += uint64(n)
			if n = util.ReadULEB128(data, off, &form); n == 0 {
				return nil, shortRead("abbrev form", off)
			}
			off += uint64(n)
			if attr == 0 && form == 0 {
				break
			}
			spec := AttrSpec{Attr: Attr(attr), Form: Form(form)}
			if spec.Form == FormImplicitConst {
				if n = util.ReadSLEB128(data, off, &spec.ImplicitConst); n == 0 {
					return nil, shortRead("implicit const", off)
				}
				off += uint64(n)
			}
			a.Attrs = append(a.Attrs, spec)
		}
		if len(t.entries) > 0 && t.entries[len(t.entries)-1].ID >= id {
			sorted = false
		}
		t.entries = append(t.entries, a)
	}
	if !sorted {
		sort.SliceStable(t.entries, func(i, j int) bool { return t.entries[i].ID < t.entries[j].ID })
	}
	return t, nil
}

// Lookup finds the abbreviation with the given id.
func (t *AbbrevTable) Lookup(id uint64) (*Abbrev, bool) {
	i := sort.Search(len(t.entries), func(i int) bool { return t.entries[i].ID >= id })
	if i < len(t.entries) && t.entries[i].ID == id {
		return &t.entries[i], true
	}
	return nil, false
}

// Len returns the number of abbreviations.
func (t *AbbrevTable) Len() int {
	return len(t.entries)
}

// AbbrevCache shares parsed tables between units pointing at the same
// .debug_abbrev offset, which is the norm after LTO and for type units.
type AbbrevCache struct {
	data   []byte
	tables *lru.Cache[uint64, *AbbrevTable]
}

const defaultAbbrevCacheSize = 256

// NewAbbrevCache creates a cache over the .debug_abbrev bytes.
func NewAbbrevCache(data []byte, size int) (*AbbrevCache, error) {
	if size <= 0 {
		size = defaultAbbrevCacheSize
	}
	tables, err := lru.New[uint64, *AbbrevTable](size)
	if err != nil {
		return nil, errors.Wrap(err, "create abbrev cache")
	}
	return &AbbrevCache{data: data, tables: tables}, nil
}

// Get returns the table at off, parsing it on first use.
func (c *AbbrevCache) Get(off uint64) (*AbbrevTable, error) {
	if t, ok := c.tables.Get(off); ok {
		return t, nil
	}
	t, err := ParseAbbrevTable(c.data, off)
	if err != nil {
		return nil, err
	}
	c.tables.Add(off, t)
	return t, nil
}
