package reader

import (
	"github.com/pkg/errors"

	"github.com/hitzhangjie/dwunwind/pkg/dwarf/godwarf"
	"github.com/hitzhangjie/dwunwind/pkg/dwarf/util"
)

// Tag is one debugging information entry. A null entry, which closes a
// sibling list, has AbbrevID 0 and no attributes.
type Tag struct {
	Offset      uint64
	AbbrevID    uint64
	Kind        TagKind
	HasChildren bool
	Attribs     []Attrib
	// Next is the offset of the entry that follows this one in the section.
	Next uint64

	Unit *Unit
}

// IsNull reports whether t is a null entry.
func (t *Tag) IsNull() bool {
	return t.AbbrevID == 0
}

// Attr returns the attribute of kind a, nil when absent.
func (t *Tag) Attr(a Attr) *Attrib {
	for i := range t.Attribs {
		if t.Attribs[i].Attr == a {
			return &t.Attribs[i]
		}
	}
	return nil
}

// Name is shorthand for the DW_AT_name string, "" when absent.
func (t *Tag) Name() string {
	if a := t.Attr(AttrName); a != nil {
		if s, err := a.Str(); err == nil {
			return s
		}
	}
	return ""
}

// ReadTag decodes the entry at the .debug_info offset off and returns it
// with the offset of the following entry.
func (u *Unit) ReadTag(off uint64) (*Tag, uint64, error) {
	if !u.Contains(off) {
		return nil, 0, errors.Errorf("offset %#x outside unit at %#x", off, u.Offset)
	}
	data := u.sections().Data(godwarf.SectionInfo)[:u.End()]

	t := &Tag{Offset: off, Unit: u}
	n := util.ReadULEB128(data, off, &t.AbbrevID)
	if n == 0 {
		return nil, 0, shortRead("abbrev id", off)
	}
	cur := off + uint64(n)
	if t.AbbrevID == 0 {
		t.Next = cur
		return t, cur, nil
	}

	ab, ok := u.abbrevs.Lookup(t.AbbrevID)
	if !ok {
		return nil, 0, errors.Wrapf(ErrUnknownAbbrev, "id %d at %#x", t.AbbrevID, off)
	}
	t.Kind = ab.Kind
	t.HasChildren = ab.HasChildren
	t.Attribs = make([]Attrib, len(ab.Attrs))

	ctx := u.formCtx()
	relaxed := u.info.opts.Relaxed
	for i, spec := range ab.Attrs {
		a := &t.Attribs[i]
		a.Attr = spec.Attr
		a.unit = u
		next, err := ctx.decodeForm(data, cur, spec.Form, spec.ImplicitConst, a)
		if err != nil {
			return nil, 0, errors.Wrapf(err, "%s of %s at %#x", spec.Attr, t.Kind, off)
		}
		// the class follows the form actually read, after DW_FORM_indirect
		a.Class = PickClass(u.Version, u.info.opts.Ext, a.Attr, a.Form, relaxed)
		cur = next
	}
	t.Next = cur
	return t, cur, nil
}

// TagAt returns the tag at off, decoding it once and caching it by offset.
func (u *Unit) TagAt(off uint64) (*Tag, error) {
	if t, ok := u.tags[off]; ok {
		return t, nil
	}
	t, _, err := u.ReadTag(off)
	if err != nil {
		return nil, err
	}
	u.tags[off] = t
	return t, nil
}

// RefKind says what a reference offset is relative to.
type RefKind uint8

const (
	// RefUnit offsets are relative to the owning unit header.
	RefUnit RefKind = iota
	// RefInfo offsets are .debug_info section offsets.
	RefInfo
	// RefSig8 is a type unit signature.
	RefSig8
	// RefSup points into a supplementary object file.
	RefSup
)

// Ref is a decoded reference attribute.
type Ref struct {
	Kind   RefKind
	Offset uint64
}

// Resolve returns the tag a reference attribute points at.
func (u *Unit) Resolve(ref Ref) (*Tag, error) {
	switch ref.Kind {
	case RefUnit:
		return u.TagAt(u.Offset + ref.Offset)
	case RefInfo:
		return u.info.TagAt(ref.Offset)
	case RefSig8:
		for _, tu := range u.info.Units {
			if (tu.Kind == UnitType || tu.Kind == UnitSplitType) && tu.TypeSignature == ref.Offset {
				return tu.TagAt(tu.Offset + tu.TypeOffset)
			}
		}
		return nil, errors.Wrapf(ErrNotSupported, "type signature %#x not found", ref.Offset)
	}
	return nil, errors.Wrap(ErrNotSupported, "supplementary object reference")
}

// TagIter walks a unit's tags in section order, tracking nesting depth.
type TagIter struct {
	u     *Unit
	off   uint64
	depth int
	tag   *Tag
	err   error
}

// Tags returns an iterator positioned before the root tag.
func (u *Unit) Tags() *TagIter {
	return &TagIter{u: u, off: u.tagsOff}
}

// Next advances to the next non-null tag.
func (it *TagIter) Next() bool {
	if it.err != nil {
		return false
	}
	if it.tag != nil && it.tag.HasChildren {
		it.depth++
	}
	for it.off < it.u.End() {
		t, next, err := it.u.ReadTag(it.off)
		if err != nil {
			it.err = err
			return false
		}
		it.off = next
		if t.IsNull() {
			it.depth--
			if it.depth < 0 {
				it.u.info.Diagnostics.Addf("unit at %#x: unbalanced null entry at %#x", it.u.Offset, t.Offset)
				it.depth = 0
			}
			continue
		}
		it.tag = t
		return true
	}
	it.tag = nil
	return false
}

// Tag returns the current tag.
func (it *TagIter) Tag() *Tag {
	return it.tag
}

// Depth returns the nesting depth of the current tag, the root is 0.
func (it *TagIter) Depth() int {
	return it.depth
}

// Err returns the error that stopped the walk, if any.
func (it *TagIter) Err() error {
	return it.err
}

// SkipChildren moves past the children of the current tag. DW_AT_sibling is
// used when present, otherwise the subtree is walked.
func (it *TagIter) SkipChildren() {
	t := it.tag
	if t == nil || !t.HasChildren {
		return
	}
	if sib := t.Attr(AttrSibling); sib != nil {
		if ref, err := sib.Reference(); err == nil && ref.Kind == RefUnit {
			if off := it.u.Offset + ref.Offset; off > t.Offset && off <= it.u.End() {
				it.off = off
				it.tag = nil
				return
			}
		}
	}
	depth := it.depth
	for it.Next() {
		if it.depth <= depth {
			// went one too far, step back so Next returns it again
			it.off = it.tag.Offset
			it.tag = nil
			return
		}
	}
}
