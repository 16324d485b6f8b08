package reader

import (
	"fmt"
	"strings"
)

// Version is the DWARF version found in a unit header.
type Version uint16

const (
	VersionNull Version = 0
	Version2    Version = 2
	Version3    Version = 3
	Version4    Version = 4
	Version5    Version = 5

	VersionLast = Version5
)

func (v Version) String() string {
	return fmt.Sprintf("v%d", uint16(v))
}

// Ext selects vendor extension attribute tables.
type Ext uint8

const (
	ExtNull  Ext = 0
	ExtGNU   Ext = 1 << 0
	ExtLLVM  Ext = 1 << 1
	ExtAPPLE Ext = 1 << 2
	ExtMIPS  Ext = 1 << 3

	ExtAll = ExtGNU | ExtLLVM | ExtAPPLE | ExtMIPS
)

func (e Ext) String() string {
	if e == ExtNull {
		return "none"
	}
	var parts []string
	for _, x := range []struct {
		bit  Ext
		name string
	}{{ExtGNU, "gnu"}, {ExtLLVM, "llvm"}, {ExtAPPLE, "apple"}, {ExtMIPS, "mips"}} {
		if e&x.bit != 0 {
			parts = append(parts, x.name)
		}
	}
	return strings.Join(parts, "|")
}

// UnitKind is the DW_UT value of a unit header.
type UnitKind uint8

const (
	UnitReserved     UnitKind = 0
	UnitCompile      UnitKind = 1
	UnitType         UnitKind = 2
	UnitPartial      UnitKind = 3
	UnitSkeleton     UnitKind = 4
	UnitSplitCompile UnitKind = 5
	UnitSplitType    UnitKind = 6
)

var unitKindNames = [...]string{"Reserved", "Compile", "Type", "Partial", "Skeleton", "SplitCompile", "SplitType"}

func (k UnitKind) String() string {
	if int(k) < len(unitKindNames) {
		return unitKindNames[k]
	}
	return fmt.Sprintf("UnitKind(%d)", uint8(k))
}

// LNCT is a line table content type code used by DWARF 5 entry formats.
type LNCT uint64

const (
	LNCTPath           LNCT = 0x1
	LNCTDirectoryIndex LNCT = 0x2
	LNCTTimeStamp      LNCT = 0x3
	LNCTSize           LNCT = 0x4
	LNCTMD5            LNCT = 0x5
	LNCTLLVMSource     LNCT = 0x2001

	LNCTUserLo LNCT = 0x2000
	LNCTUserHi LNCT = 0x3fff
)

var lnctNames = map[LNCT]string{
	LNCTPath:           "Path",
	LNCTDirectoryIndex: "DirectoryIndex",
	LNCTTimeStamp:      "TimeStamp",
	LNCTSize:           "Size",
	LNCTMD5:            "MD5",
	LNCTLLVMSource:     "LLVM_Source",
}

func (c LNCT) String() string {
	return enumName(lnctNames, c, "LNCT")
}

// LNS is a standard line number opcode.
type LNS uint8

const (
	LNSExtended         LNS = 0x00
	LNSCopy             LNS = 0x01
	LNSAdvancePc        LNS = 0x02
	LNSAdvanceLine      LNS = 0x03
	LNSSetFile          LNS = 0x04
	LNSSetColumn        LNS = 0x05
	LNSNegateStmt       LNS = 0x06
	LNSSetBasicBlock    LNS = 0x07
	LNSConstAddPc       LNS = 0x08
	LNSFixedAdvancePc   LNS = 0x09
	LNSSetPrologueEnd   LNS = 0x0a
	LNSSetEpilogueBegin LNS = 0x0b
	LNSSetIsa           LNS = 0x0c
)

var lnsNames = map[LNS]string{
	LNSExtended:         "ExtendedOpcode",
	LNSCopy:             "Copy",
	LNSAdvancePc:        "AdvancePc",
	LNSAdvanceLine:      "AdvanceLine",
	LNSSetFile:          "SetFile",
	LNSSetColumn:        "SetColumn",
	LNSNegateStmt:       "NegateStmt",
	LNSSetBasicBlock:    "SetBasicBlock",
	LNSConstAddPc:       "ConstAddPc",
	LNSFixedAdvancePc:   "FixedAdvancePc",
	LNSSetPrologueEnd:   "SetPrologueEnd",
	LNSSetEpilogueBegin: "SetEpilogueBegin",
	LNSSetIsa:           "SetIsa",
}

func (o LNS) String() string {
	return enumName(lnsNames, o, "LNS")
}

// LNE is an extended line number opcode.
type LNE uint8

const (
	LNEEndSequence      LNE = 0x01
	LNESetAddress       LNE = 0x02
	LNEDefineFile       LNE = 0x03
	LNESetDiscriminator LNE = 0x04
	LNEUserLo           LNE = 0x80
)

var lneNames = map[LNE]string{
	LNEEndSequence:      "EndSequence",
	LNESetAddress:       "SetAddress",
	LNEDefineFile:       "DefineFile",
	LNESetDiscriminator: "SetDiscriminator",
}

func (o LNE) String() string {
	return enumName(lneNames, o, "LNE")
}

// RLE is a DWARF 5 range list entry kind.
type RLE uint8

const (
	RLEEndOfList    RLE = 0x00
	RLEBaseAddressx RLE = 0x01
	RLEStartxEndx   RLE = 0x02
	RLEStartxLength RLE = 0x03
	RLEOffsetPair   RLE = 0x04
	RLEBaseAddress  RLE = 0x05
	RLEStartEnd     RLE = 0x06
	RLEStartLength  RLE = 0x07
)

var rleNames = [...]string{"EndOfList", "BaseAddressx", "StartxEndx", "StartxLength", "OffsetPair", "BaseAddress", "StartEnd", "StartLength"}

func (k RLE) String() string {
	if int(k) < len(rleNames) {
		return rleNames[k]
	}
	return fmt.Sprintf("RLE(%#x)", uint8(k))
}

// LLE is a DWARF 5 location list entry kind.
type LLE uint8

const (
	LLEEndOfList       LLE = 0x00
	LLEBaseAddressx    LLE = 0x01
	LLEStartxEndx      LLE = 0x02
	LLEStartxLength    LLE = 0x03
	LLEOffsetPair      LLE = 0x04
	LLEDefaultLocation LLE = 0x05
	LLEBaseAddress     LLE = 0x06
	LLEStartEnd        LLE = 0x07
	LLEStartLength     LLE = 0x08
	LLEGNUViewPair     LLE = 0x09
)

var lleNames = [...]string{"EndOfList", "BaseAddressx", "StartxEndx", "StartxLength", "OffsetPair", "DefaultLocation", "BaseAddress", "StartEnd", "StartLength", "GNU_ViewPair"}

func (k LLE) String() string {
	if int(k) < len(lleNames) {
		return lleNames[k]
	}
	return fmt.Sprintf("LLE(%#x)", uint8(k))
}

func (t TagKind) String() string {
	if t >= TagUserLo && t <= TagUserHi {
		return fmt.Sprintf("User(%#x)", uint64(t))
	}
	return enumName(tagNames, t, "Tag")
}

func (a Attr) String() string {
	return enumName(attrNames, a, "Attr")
}

func (f Form) String() string {
	return enumName(formNames, f, "Form")
}

func (l Language) String() string {
	return enumName(langNames, l, "Language")
}

func enumName[K ~uint8 | ~uint16 | ~uint64](names map[K]string, k K, kind string) string {
	if n, ok := names[k]; ok {
		return n
	}
	return fmt.Sprintf("%s(%#x)", kind, uint64(k))
}
