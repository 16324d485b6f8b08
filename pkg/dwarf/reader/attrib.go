package reader

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/hitzhangjie/dwunwind/pkg/dwarf/godwarf"
	"github.com/hitzhangjie/dwunwind/pkg/dwarf/util"
)

// accepts reports whether the attribute may be read as one of want. A
// relaxed unit lets an unresolved class through and leaves the form switch
// of the accessor to decide.
func (a *Attrib) accepts(want Class) bool {
	if a.Class&want != 0 {
		return true
	}
	return (a.Class == ClassUndefined || a.Class == ClassNull) && a.unit != nil && a.unit.info.opts.Relaxed
}

func (a *Attrib) mismatch(what string) error {
	return errors.Wrapf(ErrClassMismatch, "%s as %s: class %s, form %s", a.Attr, what, a.Class, a.Form)
}

// Address returns the value of an address class attribute, resolving
// .debug_addr indexes.
func (a *Attrib) Address() (uint64, error) {
	if !a.accepts(ClassAddress) {
		return 0, a.mismatch("address")
	}
	switch a.Form {
	case FormAddr:
		return a.val, nil
	case FormAddrx, FormAddrx1, FormAddrx2, FormAddrx3, FormAddrx4, FormGNUAddrIndex:
		return a.unit.addrx(a.val)
	}
	return 0, a.mismatch("address")
}

// Const returns a constant class attribute as an unsigned value. SData is
// returned in two's complement, data16 yields its low half.
func (a *Attrib) Const() (uint64, error) {
	if !a.accepts(ClassConst) {
		return 0, a.mismatch("constant")
	}
	switch a.Form {
	case FormData1, FormData2, FormData4, FormData8, FormData16, FormUData, FormSData, FormImplicitConst:
		return a.val, nil
	}
	return 0, a.mismatch("constant")
}

// SConst returns a constant class attribute sign-extended from its width.
func (a *Attrib) SConst() (int64, error) {
	if !a.accepts(ClassConst) {
		return 0, a.mismatch("signed constant")
	}
	switch a.Form {
	case FormData1:
		return int64(util.SignExtend(a.val, 1)), nil
	case FormData2:
		return int64(util.SignExtend(a.val, 2)), nil
	case FormData4:
		return int64(util.SignExtend(a.val, 4)), nil
	case FormData8, FormSData, FormImplicitConst, FormUData:
		return int64(a.val), nil
	}
	return 0, a.mismatch("signed constant")
}

// Flag returns a flag class attribute.
func (a *Attrib) Flag() (bool, error) {
	if !a.accepts(ClassFlag) {
		return false, a.mismatch("flag")
	}
	switch a.Form {
	case FormFlag:
		return a.val != 0, nil
	case FormFlagPresent:
		return true, nil
	}
	return false, a.mismatch("flag")
}

// Str returns a string class attribute from wherever the form keeps it.
func (a *Attrib) Str() (string, error) {
	if !a.accepts(ClassString) {
		return "", a.mismatch("string")
	}
	switch a.Form {
	case FormString:
		return string(a.data), nil
	case FormStrp:
		return a.unit.cstring(godwarf.SectionStr, a.val)
	case FormLineStrp:
		return a.unit.cstring(godwarf.SectionLineStr, a.val)
	case FormStrx, FormStrx1, FormStrx2, FormStrx3, FormStrx4, FormGNUStrIndex:
		return a.unit.strx(a.val)
	case FormStrpSup, FormGNUStrpAlt:
		return "", errors.Wrapf(ErrNotSupported, "%s string in supplementary file", a.Form)
	}
	return "", a.mismatch("string")
}

// Block returns the bytes of a block or exprloc attribute.
func (a *Attrib) Block() ([]byte, error) {
	if !a.accepts(ClassBlock | ClassExprLoc) {
		return nil, a.mismatch("block")
	}
	switch a.Form {
	case FormBlock, FormBlock1, FormBlock2, FormBlock4, FormExprLoc:
		return a.data, nil
	}
	return nil, a.mismatch("block")
}

// Reference decodes a reference class attribute.
func (a *Attrib) Reference() (Ref, error) {
	if !a.accepts(ClassReference) {
		return Ref{}, a.mismatch("reference")
	}
	switch a.Form {
	case FormRef1, FormRef2, FormRef4, FormRef8, FormRefUData:
		return Ref{Kind: RefUnit, Offset: a.val}, nil
	case FormRefAddr:
		return Ref{Kind: RefInfo, Offset: a.val}, nil
	case FormRefSig8:
		return Ref{Kind: RefSig8, Offset: a.val}, nil
	case FormRefSup4, FormRefSup8, FormGNURefAlt:
		return Ref{Kind: RefSup, Offset: a.val}, nil
	}
	return Ref{}, a.mismatch("reference")
}

const sectionPtrClasses = ClassLinePtr | ClassLocListPtr | ClassMacPtr | ClassRngListPtr |
	ClassStrOffsetsPtr | ClassAddrPtr | ClassLocList | ClassRngList

// SectionOffset returns the raw offset of a section pointer attribute such
// as DW_AT_stmt_list. DWARF 2 producers encode these as plain constants.
func (a *Attrib) SectionOffset() (uint64, error) {
	want := sectionPtrClasses
	if a.unit != nil && a.unit.Version <= Version2 {
		want |= ClassConst
	}
	if !a.accepts(want) {
		return 0, a.mismatch("section offset")
	}
	switch a.Form {
	case FormSecOffset, FormData4, FormData8:
		return a.val, nil
	}
	return 0, a.mismatch("section offset")
}

// Ranges decodes the range list an attribute points at: .debug_ranges
// before DWARF 5, .debug_rnglists from 5 on.
func (a *Attrib) Ranges() ([]Range, error) {
	if !a.accepts(ClassRngList | ClassRngListPtr) {
		return nil, a.mismatch("range list")
	}
	u := a.unit
	switch {
	case a.Form == FormRngListx:
		lu, err := u.listUnit(godwarf.SectionRngLists)
		if err != nil {
			return nil, err
		}
		off, err := lu.ListOffset(a.val)
		if err != nil {
			return nil, err
		}
		return u.rngLists(off)
	case a.Form == FormSecOffset || a.Form == FormData4 || a.Form == FormData8:
		if u.Version >= Version5 {
			return u.rngLists(a.val)
		}
		off := a.val
		// GNU split units add DW_AT_GNU_ranges_base
		if u.root != nil && a != u.ranges {
			if base := u.root.Attr(AttrGNURangesBase); base != nil {
				off += base.val
			}
		}
		return u.rangesV4(off)
	}
	return nil, a.mismatch("range list")
}

// LocList decodes the location list an attribute points at.
func (a *Attrib) LocList() ([]LocListEntry, error) {
	if !a.accepts(ClassLocList | ClassLocListPtr) {
		return nil, a.mismatch("location list")
	}
	u := a.unit
	switch {
	case a.Form == FormLocListx:
		lu, err := u.listUnit(godwarf.SectionLocLists)
		if err != nil {
			return nil, err
		}
		off, err := lu.ListOffset(a.val)
		if err != nil {
			return nil, err
		}
		return u.locLists(off)
	case a.Form == FormSecOffset || a.Form == FormData4 || a.Form == FormData8:
		if u.Version >= Version5 {
			return u.locLists(a.val)
		}
		return u.locV4(a.val)
	}
	return nil, a.mismatch("location list")
}

// IsLocList reports whether a location attribute holds a list rather than
// a single expression.
func (a *Attrib) IsLocList() bool {
	return a.Class == ClassLocList || a.Class == ClassLocListPtr
}

// ValueString renders the decoded value for dumps. Errors are rendered in
// place so one bad attribute does not hide the rest of a tag.
func (a *Attrib) ValueString() string {
	var (
		v   interface{}
		err error
	)
	switch a.Class {
	case ClassAddress:
		var x uint64
		x, err = a.Address()
		v = fmt.Sprintf("%#x", x)
	case ClassString:
		v, err = a.Str()
	case ClassFlag:
		v, err = a.Flag()
	case ClassConst:
		if a.Form == FormSData || a.Form == FormImplicitConst {
			v, err = a.SConst()
		} else {
			v, err = a.Const()
		}
	case ClassReference:
		var r Ref
		r, err = a.Reference()
		v = fmt.Sprintf("<%#x>", r.Offset)
	case ClassBlock, ClassExprLoc:
		v, err = a.Block()
		v = fmt.Sprintf("% x", v)
	default:
		v = fmt.Sprintf("%#x", a.val)
	}
	if err != nil {
		return fmt.Sprintf("<error: %v>", err)
	}
	return fmt.Sprint(v)
}
