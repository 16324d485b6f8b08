package symbol

import (
	"github.com/pkg/errors"

	"github.com/hitzhangjie/dwunwind/pkg/dwarf/reader"
)

// Function function
//
// see DWARFv4 3.3 subroutine and entry point entries
type Function struct {
	name      string
	lowpc     uint64
	highpc    uint64
	ranges    []reader.Range
	frameBase []byte
	// frameBaseList is set instead of frameBase for location lists.
	frameBaseList []reader.LocListEntry
	declFile      uint64
	declLine      uint64
	external      bool

	tag       *reader.Tag
	variables []*reader.Tag
	cu        *CompileUnit
}

func (f *Function) Name() string {
	return f.name
}

// LowPC returns the entry address.
func (f *Function) LowPC() uint64 {
	return f.lowpc
}

// HighPC returns the first address past the function.
func (f *Function) HighPC() uint64 {
	return f.highpc
}

func (f *Function) Variables() []*reader.Tag {
	return f.variables
}

// CompileUnit returns the unit defining f.
func (f *Function) CompileUnit() *CompileUnit {
	return f.cu
}

// DeclFile returns the declaring source file, "" when unknown.
func (f *Function) DeclFile() string {
	if f.cu == nil || f.cu.lines == nil {
		return ""
	}
	return f.cu.lines.FileName(f.declFile)
}

// DeclLine returns the declaring source line.
func (f *Function) DeclLine() int {
	return int(f.declLine)
}

// HasRange reports whether the function has code.
func (f *Function) HasRange() bool {
	return f.highpc > f.lowpc || len(f.ranges) != 0
}

// Contains reports whether pc is inside the function.
func (f *Function) Contains(pc uint64) bool {
	if len(f.ranges) != 0 {
		for _, r := range f.ranges {
			if r.Contains(pc) {
				return true
			}
		}
		return false
	}
	return f.lowpc <= pc && pc < f.highpc
}

// FrameBaseExpr returns the DW_AT_frame_base expression in effect at pc.
func (f *Function) FrameBaseExpr(pc uint64) ([]byte, bool) {
	if f.frameBaseList != nil {
		return reader.FindLocation(f.frameBaseList, pc)
	}
	return f.frameBase, f.frameBase != nil
}

func (f *Function) parseFrom(tag *reader.Tag) error {
	f.tag = tag
	highRelative := false

	for i := range tag.Attribs {
		a := &tag.Attribs[i]
		var err error
		switch a.Attr {
		case reader.AttrName:
			f.name, err = a.Str()
		case reader.AttrLowPc:
			f.lowpc, err = a.Address()
		case reader.AttrHighPc:
			if a.Class == reader.ClassAddress {
				f.highpc, err = a.Address()
			} else {
				f.highpc, err = a.Const()
				highRelative = true
			}
		case reader.AttrRanges:
			f.ranges, err = a.Ranges()
		case reader.AttrFrameBase:
			if a.IsLocList() {
				f.frameBaseList, err = a.LocList()
			} else {
				f.frameBase, err = a.Block()
			}
		case reader.AttrDeclFile:
			f.declFile, err = a.Const()
		case reader.AttrDeclLine:
			f.declLine, err = a.Const()
		case reader.AttrExternal:
			f.external, err = a.Flag()
		}
		if err != nil {
			return errors.Wrapf(err, "subprogram at %#x", tag.Offset)
		}
	}
	if highRelative {
		f.highpc += f.lowpc
	}
	if f.lowpc == 0 && len(f.ranges) != 0 {
		f.lowpc = f.ranges[0].Lo
	}

	if f.name == "" {
		f.name = originName(tag)
	}
	return nil
}

// originName follows DW_AT_abstract_origin and DW_AT_specification to the
// tag that carries the name. Chains are bounded to catch cycles.
func originName(tag *reader.Tag) string {
	for i := 0; i < 8 && tag != nil; i++ {
		a := tag.Attr(reader.AttrAbstractOrigin)
		if a == nil {
			a = tag.Attr(reader.AttrSpecification)
		}
		if a == nil {
			return ""
		}
		ref, err := a.Reference()
		if err != nil {
			return ""
		}
		if tag, err = tag.Unit.Resolve(ref); err != nil {
			return ""
		}
		if name := tag.Name(); name != "" {
			return name
		}
	}
	return ""
}
