package reader

import (
	"math/bits"
	"strings"
)

// Class is a set of attribute value classes. Attribute and form tables map
// to a set, PickClass narrows the pair down to a single bit.
type Class uint32

const (
	ClassNull Class = 1 << iota
	ClassUndefined
	ClassAddress
	ClassBlock
	ClassConst
	ClassExprLoc
	ClassFlag
	ClassLinePtr
	ClassLocListPtr
	ClassMacPtr
	ClassRngListPtr
	ClassReference
	ClassString
	ClassLocList
	ClassRngList
	ClassStrOffsetsPtr
	ClassAddrPtr
)

var classNames = [...]string{
	"Null", "Undefined", "Address", "Block", "Const", "ExprLoc", "Flag", "LinePtr",
	"LocListPtr", "MacPtr", "RngListPtr", "Reference", "String", "LocList", "RngList",
	"StrOffsetsPtr", "AddrPtr",
}

func (c Class) String() string {
	if c == 0 {
		return "None"
	}
	var parts []string
	for c != 0 {
		i := bits.TrailingZeros32(uint32(c))
		c &^= 1 << i
		if i < len(classNames) {
			parts = append(parts, classNames[i])
		} else {
			parts = append(parts, "?")
		}
	}
	return strings.Join(parts, "|")
}

// empty reports whether a table lookup produced nothing usable. Tables map
// DW_FORM_indirect to ClassNull, a missing entry is 0.
func (c Class) empty() bool {
	return c == 0 || c == ClassNull
}

var extTables = [...]struct {
	ext   Ext
	attrs map[Attr]Class
}{
	{ExtGNU, attrClassGNU},
	{ExtLLVM, attrClassLLVM},
	{ExtAPPLE, attrClassAPPLE},
	{ExtMIPS, attrClassMIPS},
}

// AttrClass returns the classes attr may take in the given version. Enabled
// vendor tables are consulted first, lowest extension bit first.
func AttrClass(ver Version, ext Ext, attr Attr) Class {
	for _, t := range extTables {
		if ext&t.ext == 0 {
			continue
		}
		if c, ok := t.attrs[attr]; ok && !c.empty() {
			return c
		}
	}
	switch ver {
	case Version2:
		return attrClassV2[attr]
	case Version3:
		return attrClassV3[attr]
	case Version4:
		return attrClassV4[attr]
	case Version5:
		return attrClassV5[attr]
	}
	return 0
}

// DWARF 3 data4 and data8 double as section offsets.
const v3SectionPtr = ClassLinePtr | ClassLocListPtr | ClassMacPtr | ClassRngListPtr

// FormClass returns the classes a value of form may belong to.
func FormClass(ver Version, form Form) Class {
	if c, ok := formClassGNU[form]; ok {
		return c
	}
	switch ver {
	case Version2:
		return formClassV2[form]
	case Version3:
		c := formClassV2[form]
		if form == FormData4 || form == FormData8 {
			c |= v3SectionPtr
		}
		return c
	case Version4:
		return formClassV4[form]
	case Version5:
		return formClassV5[form]
	}
	return 0
}

// PickClass resolves the class of an (attribute, form) pair to the lowest
// bit both tables allow. It returns ClassNull when either table has no
// entry and ClassUndefined when the entries do not intersect. In relaxed
// mode an empty lookup is retried against the newest version, producers
// routinely emit newer forms under an older unit version.
func PickClass(ver Version, ext Ext, attr Attr, form Form, relaxed bool) Class {
	ac := AttrClass(ver, ext, attr)
	fc := FormClass(ver, form)
	if relaxed && (ac.empty() || fc.empty()) {
		ac = AttrClass(VersionLast, ext, attr)
		fc = FormClass(VersionLast, form)
	}
	if ac.empty() || fc.empty() {
		return ClassNull
	}
	both := ac & fc
	if both == 0 {
		return ClassUndefined
	}
	return both & -both
}
