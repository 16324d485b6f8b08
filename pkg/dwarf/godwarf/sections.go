// Package godwarf extracts DWARF and CFI sections from executable
// containers and hands them to the decoders as a flat section table.
package godwarf

import (
	"strings"

	"github.com/hitzhangjie/dwunwind/pkg/dwarf/regnum"
)

// SectionKind identifies one debug section.
type SectionKind uint8

const (
	SectionNull SectionKind = iota
	SectionAbbrev
	SectionARanges
	SectionFrame
	SectionInfo
	SectionLine
	SectionLoc
	SectionMacInfo
	SectionPubNames
	SectionPubTypes
	SectionRanges
	SectionStr
	SectionAddr
	SectionLocLists
	SectionRngLists
	SectionStrOffsets
	SectionLineStr
	SectionNames
	SectionEhFrame
	SectionEhFrameHdr

	SectionCount
)

type sectionNames struct {
	elf, mach, dwo string
}

// COFF images produced by mingw and clang use the ELF spelling, long names
// are resolved through the string table by debug/pe.
var names = [SectionCount]sectionNames{
	SectionAbbrev:     {".debug_abbrev", "__debug_abbrev", ".debug_abbrev.dwo"},
	SectionARanges:    {".debug_aranges", "__debug_aranges", ".debug_aranges.dwo"},
	SectionFrame:      {".debug_frame", "__debug_frame", ".debug_frame.dwo"},
	SectionInfo:       {".debug_info", "__debug_info", ".debug_info.dwo"},
	SectionLine:       {".debug_line", "__debug_line", ".debug_line.dwo"},
	SectionLoc:        {".debug_loc", "__debug_loc", ".debug_loc.dwo"},
	SectionMacInfo:    {".debug_macinfo", "__debug_macinfo", ".debug_macinfo.dwo"},
	SectionPubNames:   {".debug_pubnames", "__debug_pubnames", ".debug_pubnames.dwo"},
	SectionPubTypes:   {".debug_pubtypes", "__debug_pubtypes", ".debug_pubtypes.dwo"},
	SectionRanges:     {".debug_ranges", "__debug_ranges", ".debug_ranges.dwo"},
	SectionStr:        {".debug_str", "__debug_str", ".debug_str.dwo"},
	SectionAddr:       {".debug_addr", "__debug_addr", ".debug_addr.dwo"},
	SectionLocLists:   {".debug_loclists", "__debug_loclists", ".debug_loclists.dwo"},
	SectionRngLists:   {".debug_rnglists", "__debug_rnglists", ".debug_rnglists.dwo"},
	SectionStrOffsets: {".debug_str_offsets", "__debug_str_offsets", ".debug_str_offsets.dwo"},
	SectionLineStr:    {".debug_line_str", "__debug_line_str", ".debug_line_str.dwo"},
	SectionNames:      {".debug_names", "__debug_names", ".debug_names.dwo"},
	SectionEhFrame:    {".eh_frame", "__eh_frame", ""},
	SectionEhFrameHdr: {".eh_frame_hdr", "", ""},
}

// Name returns the ELF (and COFF) name of the section.
func (k SectionKind) Name() string {
	if k >= SectionCount {
		return ""
	}
	return names[k].elf
}

// MachName returns the Mach-O name of the section.
func (k SectionKind) MachName() string {
	if k >= SectionCount {
		return ""
	}
	return names[k].mach
}

// DWOName returns the split DWARF object name of the section.
func (k SectionKind) DWOName() string {
	if k >= SectionCount {
		return ""
	}
	return names[k].dwo
}

func (k SectionKind) String() string {
	if n := k.Name(); n != "" {
		return n
	}
	return "null"
}

// Mach-O section names are truncated to 16 bytes, "__debug_str_offs".
const machNameLen = 16

// SectionKindFromName accepts any known spelling, including the legacy
// ".zdebug_" and "__zdebug_" prefixes. It reports whether the name was a DWO
// section.
func SectionKindFromName(name string) (kind SectionKind, dwo bool, ok bool) {
	switch {
	case strings.HasPrefix(name, ".zdebug_"):
		name = ".debug_" + strings.TrimPrefix(name, ".zdebug_")
	case strings.HasPrefix(name, "__zdebug_"):
		name = "__debug_" + strings.TrimPrefix(name, "__zdebug_")
	}
	for k := SectionAbbrev; k < SectionCount; k++ {
		n := names[k]
		switch {
		case name == n.elf:
			return k, false, true
		case n.dwo != "" && name == n.dwo:
			return k, true, true
		case n.mach != "" && (name == n.mach || len(name) == machNameLen && strings.HasPrefix(n.mach, name)):
			return k, false, true
		}
	}
	return SectionNull, false, false
}

// Section is the bytes of one section plus the address it is loaded at.
type Section struct {
	Name  string
	Data  []byte
	Addr  uint64
	IsDWO bool
}

// Sections is the input table the decoders borrow for the lifetime of a parse.
type Sections struct {
	sec [SectionCount]Section

	Arch regnum.Arch
	// Text and Got are the base addresses used by text- and data-relative
	// pointer encodings.
	Text uint64
	Got  uint64
}

// Get returns the section of kind k, an empty section if absent.
func (s *Sections) Get(k SectionKind) Section {
	if s == nil || k >= SectionCount {
		return Section{}
	}
	return s.sec[k]
}

// Data is shorthand for Get(k).Data.
func (s *Sections) Data(k SectionKind) []byte {
	return s.Get(k).Data
}

// Set installs a section, used by the loaders and by tests building
// synthetic inputs.
func (s *Sections) Set(k SectionKind, sec Section) {
	if k == SectionNull || k >= SectionCount {
		return
	}
	if sec.Name == "" {
		sec.Name = k.Name()
	}
	s.sec[k] = sec
}

// Has reports whether section k holds any bytes.
func (s *Sections) Has(k SectionKind) bool {
	return len(s.Get(k).Data) != 0
}

// IsDWO reports whether the info section came from a split DWARF object.
func (s *Sections) IsDWO() bool {
	return s.Get(SectionInfo).IsDWO
}
