package symbol

import (
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/atomic"
	"go.uber.org/zap"

	"github.com/hitzhangjie/dwunwind/pkg/dwarf/frame"
	"github.com/hitzhangjie/dwunwind/pkg/dwarf/godwarf"
	"github.com/hitzhangjie/dwunwind/pkg/dwarf/reader"
	"github.com/hitzhangjie/dwunwind/pkg/dwarf/regnum"
	"github.com/hitzhangjie/dwunwind/pkg/log"
)

// ErrNotFound is returned by the lookups when nothing matches.
var ErrNotFound = errors.New("not found")

// Options tune Analyze.
type Options struct {
	Reader reader.Options
	// VerifyHdr cross checks every .eh_frame_hdr hit with a linear scan.
	VerifyHdr bool
}

// DefaultOptions returns relaxed reader options without hdr verification.
func DefaultOptions() Options {
	return Options{Reader: reader.DefaultOptions()}
}

// BinaryInfo binary info
type BinaryInfo struct {
	Sections *godwarf.Sections
	Info     *reader.Info
	Arch     regnum.Arch

	Sources      map[string]map[int][]reader.LineRow // key=filename, val=map[lineno]rows
	Functions    []*Function                         // sorted by low pc
	CompileUnits []*CompileUnit

	// FdeEntries holds the .debug_frame entries, or the .eh_frame ones
	// when the binary ships no .eh_frame_hdr.
	FdeEntries frame.FrameDescriptionEntries
	EhFrameHdr *frame.EhFrameHdr
	// FrameDiagnostics records malformed call frame entries.
	FrameDiagnostics reader.Diagnostics

	opts  Options
	ehCtx frame.PtrContext
	steps atomic.Uint64
}

// Analyze Analyze executable `execFile` and return the binary info
func Analyze(execFile string, opts Options) (*BinaryInfo, error) {
	secs, err := godwarf.Open(execFile)
	if err != nil {
		return nil, err
	}
	return AnalyzeSections(secs, opts)
}

// AnalyzeSections builds the binary info from an already loaded section
// table.
func AnalyzeSections(secs *godwarf.Sections, opts Options) (*BinaryInfo, error) {
	bi := &BinaryInfo{
		Sections: secs,
		Arch:     secs.Arch,
		Sources:  make(map[string]map[int][]reader.LineRow),
		opts:     opts,
	}
	if bi.Arch == regnum.ArchNull {
		bi.Arch = regnum.ArchX64
	}

	// parse .(z)debug_info and .(z)debug_line
	if secs.Has(godwarf.SectionInfo) {
		info, err := reader.ParseUnits(secs, opts.Reader)
		if err != nil {
			return nil, err
		}
		bi.Info = info
		if err := bi.ParseLineAndInfo(); err != nil {
			return nil, err
		}
	}

	// parse .(z)debug_frame and .eh_frame
	if err := bi.ParseFrame(); err != nil {
		return nil, err
	}
	if bi.Info == nil && len(bi.FdeEntries) == 0 && bi.EhFrameHdr == nil {
		return nil, errors.Wrap(godwarf.ErrNoDebugSection, "neither debug info nor call frame information")
	}
	return bi, nil
}

// ParseLineAndInfo walks every unit: its line table feeds Sources, its
// subprograms become Functions.
//
// unit entries: see DWARF v4 chapter 3.1.1 normal and partial compilation unit entries
func (bi *BinaryInfo) ParseLineAndInfo() error {
	for _, u := range bi.Info.Units {
		cu := &CompileUnit{unit: u, bi: bi}
		bi.CompileUnits = append(bi.CompileUnits, cu)

		if u.HasStmtList {
			if err := cu.parseLineSection(); err != nil {
				bi.Info.Diagnostics.Add(errors.Wrapf(err, "unit %s", cu.Name()))
			}
		}
		if err := cu.parseFunctions(); err != nil {
			bi.Info.Diagnostics.Add(errors.Wrapf(err, "unit %s", cu.Name()))
		}
	}
	sort.SliceStable(bi.Functions, func(i, j int) bool {
		return bi.Functions[i].lowpc < bi.Functions[j].lowpc
	})
	log.L().Debug("analyzed debug info",
		zap.Int("units", len(bi.CompileUnits)),
		zap.Int("functions", len(bi.Functions)),
		zap.Int("files", len(bi.Sources)))
	return nil
}

// PCToFunction returns the function whose range covers PC
//
// note: not considered inline function
func (bi *BinaryInfo) PCToFunction(pc uint64) (*Function, error) {
	for _, f := range bi.Functions {
		if f.Contains(pc) {
			return f, nil
		}
	}
	return nil, errors.Wrapf(ErrNotFound, "function for pc %#x", pc)
}

// FunctionByName returns the first function called name.
func (bi *BinaryInfo) FunctionByName(name string) (*Function, error) {
	for _, f := range bi.Functions {
		if f.name == name {
			return f, nil
		}
	}
	return nil, errors.Wrapf(ErrNotFound, "function %s", name)
}

// parseLoc parse location `loc` to file:lineno
func parseLoc(loc string) (string, int, error) {
	idx := strings.LastIndex(loc, ":")
	if idx <= 0 {
		return "", 0, errors.New("wrong loc should be like filename:lineno")
	}
	filename, linenostr := loc[:idx], loc[idx+1:]
	lineno, err := strconv.Atoi(linenostr)
	if err != nil {
		return "", 0, errors.New("wrong loc should be like filename:lineno")
	}
	return filename, lineno, nil
}

// LocToPC convert location `loc` to PC. loc is either filename:lineno or
// a function name.
func (bi *BinaryInfo) LocToPC(loc string) (uint64, error) {
	filename, lineno, err := parseLoc(loc)
	if err != nil {
		fn, ferr := bi.FunctionByName(loc)
		if ferr != nil {
			return 0, err
		}
		return fn.lowpc, nil
	}
	return bi.FileLineToPC(filename, lineno)
}

// lineRows returns the rows of filename:lineno. A filename matches a
// source path exactly or as its trailing path elements.
func (bi *BinaryInfo) lineRows(filename string, lineno int) []reader.LineRow {
	if rows := bi.Sources[filename][lineno]; len(rows) != 0 {
		return rows
	}
	for file, lines := range bi.Sources {
		if strings.HasSuffix(file, "/"+filename) && len(lines[lineno]) != 0 {
			return lines[lineno]
		}
	}
	return nil
}

// FileLineToPC convert location `filename:lineno` to PC
func (bi *BinaryInfo) FileLineToPC(filename string, lineno int) (uint64, error) {
	rows := bi.lineRows(filename, lineno)
	if len(rows) == 0 {
		return 0, errors.Wrapf(ErrNotFound, "%s:%d", filename, lineno)
	}
	return rows[0].Address, nil
}

// FileLineToPCForBreakpoint convert location `filename:lineno` to PC, used for breakpoint address
func (bi *BinaryInfo) FileLineToPCForBreakpoint(filename string, lineno int) (uint64, error) {
	rows := bi.lineRows(filename, lineno)
	if len(rows) == 0 {
		return 0, errors.Wrapf(ErrNotFound, "%s:%d", filename, lineno)
	}
	// skip prologue
	for _, v := range rows {
		if v.PrologueEnd {
			return v.Address, nil
		}
	}
	// otherwise the lowest statement of the line
	addr := rows[0].Address
	for _, v := range rows[1:] {
		if v.Address < addr {
			addr = v.Address
		}
	}
	return addr, nil
}

// PCToFileLine returns the source position of pc, using the line table of
// the unit covering it.
func (bi *BinaryInfo) PCToFileLine(pc uint64) (string, int, error) {
	if bi.Info != nil {
		if u := bi.Info.UnitForPC(pc); u != nil {
			for _, cu := range bi.CompileUnits {
				if cu.unit == u {
					if file, line, ok := cu.pcToLine(pc); ok {
						return file, line, nil
					}
				}
			}
		}
	}
	// units without ranges
	for _, cu := range bi.CompileUnits {
		if file, line, ok := cu.pcToLine(pc); ok {
			return file, line, nil
		}
	}
	return "", 0, errors.Wrapf(ErrNotFound, "line for pc %#x", pc)
}
