package reader

import (
	"github.com/pkg/errors"

	"github.com/hitzhangjie/dwunwind/pkg/dwarf/util"
)

// Attrib is one decoded attribute. The raw form value is decoded eagerly,
// its meaning is applied by the typed accessors in attrib.go.
type Attrib struct {
	// Offset is the section offset of the encoded value.
	Offset uint64
	Attr   Attr
	Form   Form
	Class  Class

	val  uint64 // integers, offsets, indexes, flags
	val2 uint64 // high half of data16
	data []byte // blocks, exprloc and inline strings

	unit *Unit
}

// Raw returns the undecoded integer payload of the form.
func (a *Attrib) Raw() uint64 {
	return a.val
}

// formCtx carries the unit properties form sizes depend on.
type formCtx struct {
	version  Version
	format   util.Format
	addrSize int
}

// fixedFormSize returns the byte width of fixed size forms, 0 otherwise.
func (c formCtx) fixedFormSize(form Form) int {
	switch form {
	case FormRef1, FormData1, FormFlag, FormStrx1, FormAddrx1:
		return 1
	case FormRef2, FormData2, FormStrx2, FormAddrx2:
		return 2
	case FormStrx3, FormAddrx3:
		return 3
	case FormData4, FormRef4, FormRefSup4, FormStrx4, FormAddrx4:
		return 4
	case FormData8, FormRef8, FormRefSig8, FormRefSup8:
		return 8
	case FormAddr:
		return c.addrSize
	case FormRefAddr:
		// DWARF 2 sized ref_addr like an address
		if c.version <= Version2 {
			return c.addrSize
		}
		return c.format.OffsetSize()
	case FormSecOffset, FormLineStrp, FormStrp, FormStrpSup, FormGNURefAlt, FormGNUStrpAlt:
		return c.format.OffsetSize()
	}
	return 0
}

const maxIndirect = 4

// decodeForm reads one value of form at off. implicit is the abbreviation's
// DW_FORM_implicit_const value. It returns the offset past the value.
func (c formCtx) decodeForm(data []byte, off uint64, form Form, implicit int64, a *Attrib) (uint64, error) {
	for i := 0; form == FormIndirect; i++ {
		if i == maxIndirect {
			return 0, errors.Wrapf(ErrUnsupportedForm, "indirect chain at %#x", off)
		}
		var f uint64
		n := util.ReadULEB128(data, off, &f)
		if n == 0 {
			return 0, shortRead("indirect form", off)
		}
		off += uint64(n)
		form = Form(f)
	}
	a.Form = form
	a.Offset = off

	if size := c.fixedFormSize(form); size != 0 {
		if util.ReadUint(data, off, size, &a.val) == 0 {
			return 0, shortRead(form.String(), off)
		}
		return off + uint64(size), nil
	}

	switch form {
	case FormUData, FormRefUData, FormStrx, FormAddrx, FormLocListx, FormRngListx,
		FormGNUAddrIndex, FormGNUStrIndex:
		n := util.ReadULEB128(data, off, &a.val)
		if n == 0 {
			return 0, shortRead(form.String(), off)
		}
		return off + uint64(n), nil

	case FormSData:
		var v int64
		n := util.ReadSLEB128(data, off, &v)
		if n == 0 {
			return 0, shortRead(form.String(), off)
		}
		a.val = uint64(v)
		return off + uint64(n), nil

	case FormBlock1, FormBlock2, FormBlock4, FormBlock, FormExprLoc:
		var size uint64
		var n int
		switch form {
		case FormBlock1:
			n = util.ReadUint(data, off, 1, &size)
		case FormBlock2:
			n = util.ReadUint(data, off, 2, &size)
		case FormBlock4:
			n = util.ReadUint(data, off, 4, &size)
		default:
			n = util.ReadULEB128(data, off, &size)
		}
		if n == 0 {
			return 0, shortRead(form.String()+" length", off)
		}
		off += uint64(n)
		block, ok := util.Slice(data, off, size)
		if !ok {
			return 0, shortRead(form.String(), off)
		}
		a.val = size
		a.data = block
		return off + size, nil

	case FormData16:
		if util.ReadU64(data, off, &a.val) == 0 || util.ReadU64(data, off+8, &a.val2) == 0 {
			return 0, shortRead(form.String(), off)
		}
		return off + 16, nil

	case FormString:
		var s string
		n := util.ReadCString(data, off, &s)
		if n == 0 {
			return 0, shortRead("inline string", off)
		}
		a.data = data[off : off+uint64(n)-1]
		return off + uint64(n), nil

	case FormImplicitConst:
		a.val = uint64(implicit)
		return off, nil

	case FormFlagPresent:
		a.val = 1
		return off, nil
	}
	return 0, errors.Wrapf(ErrUnsupportedForm, "%s at %#x", form, off)
}
