package reader

import (
	"path"
	"sort"

	"github.com/pkg/errors"

	"github.com/hitzhangjie/dwunwind/pkg/dwarf/godwarf"
	"github.com/hitzhangjie/dwunwind/pkg/dwarf/util"
)

// LineFile is one entry of a line program's file table.
type LineFile struct {
	Name     string
	DirIndex uint64
	MTime    uint64
	Size     uint64
	MD5      [16]byte
	HasMD5   bool
}

// LineHeader is a decoded line program header. Dirs and Files are indexed
// the same way for every version: index 0 is the unit's directory and
// primary source file, DWARF 5 encodes them explicitly and older versions
// get them from the unit root.
type LineHeader struct {
	Offset        uint64
	Format        util.Format
	Version       Version
	AddrSize      int
	SegSelSize    int
	MinInstLen    uint8
	MaxOpsPerInst uint8
	DefaultIsStmt bool
	LineBase      int8
	LineRange     uint8
	OpcodeBase    uint8
	OpcodeLengths []uint8
	Dirs          []string
	Files         []LineFile

	// ProgramOffset and End delimit the opcodes in .debug_line.
	ProgramOffset uint64
	End           uint64
}

// LineRow is one row of the line number matrix.
type LineRow struct {
	Address       uint64
	OpIndex       uint64
	File          uint64
	Line          uint64
	Column        uint64
	IsStmt        bool
	BasicBlock    bool
	EndSequence   bool
	PrologueEnd   bool
	EpilogueBegin bool
	ISA           uint64
	Discriminator uint64
}

// LineSequence is a run of rows with increasing addresses closed by an
// end_sequence row. Hi is the address of that closing row.
type LineSequence struct {
	Lo, Hi uint64
	Rows   []LineRow
}

// LineTable is the decoded line program of one unit.
type LineTable struct {
	Header    LineHeader
	Sequences []LineSequence
}

// LineTable decodes the unit's line program from DW_AT_stmt_list.
func (u *Unit) LineTable() (*LineTable, error) {
	if !u.HasStmtList {
		return nil, errors.Errorf("unit at %#x has no line program", u.Offset)
	}
	data := u.sections().Data(godwarf.SectionLine)
	if len(data) == 0 {
		return nil, errors.Wrap(godwarf.ErrNoDebugSection, godwarf.SectionLine.Name())
	}
	hdr, err := u.parseLineHeader(data, u.StmtList)
	if err != nil {
		return nil, errors.Wrapf(err, "line header at %#x", u.StmtList)
	}
	lt := &LineTable{Header: *hdr}
	if err := lt.run(data, u); err != nil {
		return lt, errors.Wrapf(err, "line program at %#x", u.StmtList)
	}
	return lt, nil
}

func (u *Unit) parseLineHeader(data []byte, off uint64) (*LineHeader, error) {
	h := &LineHeader{Offset: off, AddrSize: u.AddrSize}
	var length uint64
	n := util.ReadUnitLength(data, off, &length, &h.Format)
	if n == 0 {
		return nil, shortRead("unit length", off)
	}
	cur := off + uint64(n)
	h.End = cur + length
	if h.End > uint64(len(data)) || h.End < cur {
		return nil, errors.Wrapf(ErrShortRead, "line program length %#x runs past section", length)
	}
	data = data[:h.End]

	var ver uint16
	if util.ReadU16(data, cur, &ver) == 0 {
		return nil, shortRead("version", cur)
	}
	cur += 2
	h.Version = Version(ver)
	if h.Version < Version2 || h.Version > Version5 {
		return nil, errors.Errorf("unsupported line table version %d", ver)
	}
	if h.Version >= Version5 {
		var as, ss uint8
		if util.ReadU8(data, cur, &as) == 0 || util.ReadU8(data, cur+1, &ss) == 0 {
			return nil, shortRead("address size", cur)
		}
		h.AddrSize, h.SegSelSize = int(as), int(ss)
		cur += 2
	}

	var hdrLen uint64
	n = util.ReadOffset(data, cur, h.Format, &hdrLen)
	if n == 0 {
		return nil, shortRead("header length", cur)
	}
	cur += uint64(n)
	h.ProgramOffset = cur + hdrLen
	if h.ProgramOffset > h.End || h.ProgramOffset < cur {
		return nil, errors.Errorf("header length %#x runs past program", hdrLen)
	}

	var isStmt, lineBase uint8
	h.MaxOpsPerInst = 1
	if util.ReadU8(data, cur, &h.MinInstLen) == 0 {
		return nil, shortRead("minimum instruction length", cur)
	}
	cur++
	if h.Version >= Version4 {
		if util.ReadU8(data, cur, &h.MaxOpsPerInst) == 0 {
			return nil, shortRead("maximum operations per instruction", cur)
		}
		cur++
	}
	if util.ReadU8(data, cur, &isStmt) == 0 || util.ReadU8(data, cur+1, &lineBase) == 0 ||
		util.ReadU8(data, cur+2, &h.LineRange) == 0 || util.ReadU8(data, cur+3, &h.OpcodeBase) == 0 {
		return nil, shortRead("opcode parameters", cur)
	}
	cur += 4
	h.DefaultIsStmt = isStmt != 0
	h.LineBase = int8(lineBase)
	if h.LineRange == 0 {
		return nil, errors.New("line_range is zero")
	}
	if h.OpcodeBase == 0 {
		return nil, errors.New("opcode_base is zero")
	}
	if h.MaxOpsPerInst == 0 {
		h.MaxOpsPerInst = 1
	}
	lengths, ok := util.Slice(data, cur, uint64(h.OpcodeBase-1))
	if !ok {
		return nil, shortRead("standard opcode lengths", cur)
	}
	h.OpcodeLengths = lengths
	cur += uint64(len(lengths))

	var err error
	if h.Version >= Version5 {
		cur, err = u.readLineEntriesV5(data, cur, h)
	} else {
		cur, err = u.readLineEntriesV4(data, cur, h)
	}
	if err != nil {
		return nil, err
	}
	if cur != h.ProgramOffset {
		u.info.Diagnostics.Addf("line header at %#x: tables end at %#x, header length says %#x", off, cur, h.ProgramOffset)
	}
	return h, nil
}

func (u *Unit) readLineEntriesV4(data []byte, cur uint64, h *LineHeader) (uint64, error) {
	h.Dirs = append(h.Dirs, u.CompDir)
	for {
		var dir string
		n := util.ReadCString(data, cur, &dir)
		if n == 0 {
			return cur, shortRead("include directory", cur)
		}
		cur += uint64(n)
		if dir == "" {
			break
		}
		h.Dirs = append(h.Dirs, dir)
	}

	h.Files = append(h.Files, LineFile{Name: u.Name})
	for {
		var f LineFile
		n := util.ReadCString(data, cur, &f.Name)
		if n == 0 {
			return cur, shortRead("file name", cur)
		}
		cur += uint64(n)
		if f.Name == "" {
			break
		}
		for _, v := range []*uint64{&f.DirIndex, &f.MTime, &f.Size} {
			n := util.ReadULEB128(data, cur, v)
			if n == 0 {
				return cur, shortRead("file entry", cur)
			}
			cur += uint64(n)
		}
		h.Files = append(h.Files, f)
	}
	return cur, nil
}

type lineEntryFormat struct {
	content LNCT
	form    Form
}

func (u *Unit) readLineEntriesV5(data []byte, cur uint64, h *LineHeader) (uint64, error) {
	ctx := formCtx{version: h.Version, format: h.Format, addrSize: h.AddrSize}

	table := func(what string, each func(*LineFile)) (uint64, error) {
		var count uint8
		if util.ReadU8(data, cur, &count) == 0 {
			return cur, shortRead(what+" format count", cur)
		}
		cur++
		formats := make([]lineEntryFormat, count)
		for i := range formats {
			var c, f uint64
			n := util.ReadULEB128(data, cur, &c)
			if n == 0 {
				return cur, shortRead(what+" format", cur)
			}
			cur += uint64(n)
			if n = util.ReadULEB128(data, cur, &f); n == 0 {
				return cur, shortRead(what+" format", cur)
			}
			cur += uint64(n)
			formats[i] = lineEntryFormat{LNCT(c), Form(f)}
		}

		var entries uint64
		n := util.ReadULEB128(data, cur, &entries)
		if n == 0 {
			return cur, shortRead(what+" count", cur)
		}
		cur += uint64(n)
		for i := uint64(0); i < entries; i++ {
			var f LineFile
			for _, fm := range formats {
				a := Attrib{unit: u}
				next, err := ctx.decodeForm(data, cur, fm.form, 0, &a)
				if err != nil {
					return cur, errors.Wrapf(err, "%s %d %s", what, i, fm.content)
				}
				cur = next
				if err := f.set(fm.content, &a); err != nil {
					return cur, errors.Wrapf(err, "%s %d", what, i)
				}
			}
			each(&f)
		}
		return cur, nil
	}

	var err error
	if cur, err = table("directory", func(f *LineFile) { h.Dirs = append(h.Dirs, f.Name) }); err != nil {
		return cur, err
	}
	return table("file", func(f *LineFile) { h.Files = append(h.Files, *f) })
}

// set stores one LNCT field. Unknown content types are skipped, their
// value is already consumed.
func (f *LineFile) set(content LNCT, a *Attrib) error {
	var err error
	switch content {
	case LNCTPath:
		a.Class = ClassString
		f.Name, err = a.Str()
	case LNCTDirectoryIndex:
		a.Class = ClassConst
		f.DirIndex, err = a.Const()
	case LNCTTimeStamp:
		if a.Form == FormBlock {
			return nil
		}
		a.Class = ClassConst
		f.MTime, err = a.Const()
	case LNCTSize:
		a.Class = ClassConst
		f.Size, err = a.Const()
	case LNCTMD5:
		if a.Form != FormData16 {
			return errors.Wrapf(ErrUnsupportedForm, "MD5 in %s", a.Form)
		}
		for i := 0; i < 8; i++ {
			f.MD5[i] = byte(a.val >> (8 * i))
			f.MD5[8+i] = byte(a.val2 >> (8 * i))
		}
		f.HasMD5 = true
	}
	return err
}

type lineState struct {
	LineRow
	h *LineHeader
}

func (s *lineState) reset() {
	s.LineRow = LineRow{File: 1, Line: 1, IsStmt: s.h.DefaultIsStmt}
}

// advance applies an operation advance in VLIW-aware form.
func (s *lineState) advance(adv uint64) {
	ops := uint64(s.h.MaxOpsPerInst)
	s.Address += uint64(s.h.MinInstLen) * ((s.OpIndex + adv) / ops)
	s.OpIndex = (s.OpIndex + adv) % ops
}

func (lt *LineTable) run(data []byte, u *Unit) error {
	h := &lt.Header
	data = data[:h.End]
	s := &lineState{h: h}
	s.reset()

	var rows []LineRow
	emit := func() {
		rows = append(rows, s.LineRow)
		s.BasicBlock = false
		s.PrologueEnd = false
		s.EpilogueBegin = false
		s.Discriminator = 0
	}
	endSequence := func() {
		s.EndSequence = true
		emit()
		lt.addSequence(rows, u)
		rows = nil
		s.reset()
	}

	uleb := func(cur *uint64, out *uint64) error {
		n := util.ReadULEB128(data, *cur, out)
		if n == 0 {
			return shortRead("operand", *cur)
		}
		*cur += uint64(n)
		return nil
	}

	for cur := h.ProgramOffset; cur < h.End; {
		var op uint8
		util.ReadU8(data, cur, &op)
		cur++

		if op >= h.OpcodeBase {
			adj := uint64(op - h.OpcodeBase)
			s.advance(adj / uint64(h.LineRange))
			s.Line += uint64(int64(h.LineBase) + int64(adj%uint64(h.LineRange)))
			emit()
			continue
		}

		var v uint64
		switch LNS(op) {
		case LNSExtended:
			var size uint64
			if err := uleb(&cur, &size); err != nil {
				return err
			}
			start := cur
			if size == 0 || start+size > h.End || start+size < start {
				return errors.Wrapf(ErrShortRead, "extended opcode of length %d at %#x", size, start)
			}
			var sub uint8
			util.ReadU8(data, cur, &sub)
			cur++
			switch LNE(sub) {
			case LNEEndSequence:
				endSequence()
			case LNESetAddress:
				if util.ReadUint(data, cur, int(size-1), &s.Address) == 0 {
					return shortRead("set_address operand", cur)
				}
				s.OpIndex = 0
			case LNEDefineFile:
				var f LineFile
				n := util.ReadCString(data, cur, &f.Name)
				if n == 0 {
					return shortRead("define_file name", cur)
				}
				cur += uint64(n)
				for _, p := range []*uint64{&f.DirIndex, &f.MTime, &f.Size} {
					if err := uleb(&cur, p); err != nil {
						return err
					}
				}
				h.Files = append(h.Files, f)
			case LNESetDiscriminator:
				if err := uleb(&cur, &s.Discriminator); err != nil {
					return err
				}
			default:
				u.info.Diagnostics.Addf("line program at %#x: skipped extended opcode %s", h.Offset, LNE(sub))
			}
			cur = start + size
		case LNSCopy:
			emit()
		case LNSAdvancePc:
			if err := uleb(&cur, &v); err != nil {
				return err
			}
			s.advance(v)
		case LNSAdvanceLine:
			var d int64
			n := util.ReadSLEB128(data, cur, &d)
			if n == 0 {
				return shortRead("advance_line operand", cur)
			}
			cur += uint64(n)
			s.Line = uint64(int64(s.Line) + d)
		case LNSSetFile:
			if err := uleb(&cur, &s.File); err != nil {
				return err
			}
		case LNSSetColumn:
			if err := uleb(&cur, &s.Column); err != nil {
				return err
			}
		case LNSNegateStmt:
			s.IsStmt = !s.IsStmt
		case LNSSetBasicBlock:
			s.BasicBlock = true
		case LNSConstAddPc:
			s.advance(uint64(255-h.OpcodeBase) / uint64(h.LineRange))
		case LNSFixedAdvancePc:
			var d uint16
			if util.ReadU16(data, cur, &d) == 0 {
				return shortRead("fixed_advance_pc operand", cur)
			}
			cur += 2
			s.Address += uint64(d)
			s.OpIndex = 0
		case LNSSetPrologueEnd:
			s.PrologueEnd = true
		case LNSSetEpilogueBegin:
			s.EpilogueBegin = true
		case LNSSetIsa:
			if err := uleb(&cur, &s.ISA); err != nil {
				return err
			}
		default:
			// opcodes newer than this decoder are skipped by their declared
			// ULEB operand count
			for i := uint8(0); i < h.OpcodeLengths[op-1]; i++ {
				if err := uleb(&cur, &v); err != nil {
					return err
				}
			}
		}
	}
	if len(rows) > 0 {
		u.info.Diagnostics.Addf("line program at %#x: %d rows after the last end_sequence", h.Offset, len(rows))
	}
	sort.Slice(lt.Sequences, func(i, j int) bool { return lt.Sequences[i].Lo < lt.Sequences[j].Lo })
	return nil
}

// addSequence keeps a closed sequence unless it starts at a tombstone
// address left by the linker for discarded code.
func (lt *LineTable) addSequence(rows []LineRow, u *Unit) {
	if len(rows) < 2 {
		return
	}
	lo, hi := rows[0].Address, rows[len(rows)-1].Address
	if lo == allOnes(lt.Header.AddrSize) || lo == 0 && u.LowPC != 0 {
		return
	}
	lt.Sequences = append(lt.Sequences, LineSequence{Lo: lo, Hi: hi, Rows: rows})
}

// PCToLine returns the row describing pc: the last row of the covering
// sequence whose address is not above pc.
func (lt *LineTable) PCToLine(pc uint64) (LineRow, bool) {
	i := sort.Search(len(lt.Sequences), func(i int) bool { return lt.Sequences[i].Hi > pc })
	if i == len(lt.Sequences) || lt.Sequences[i].Lo > pc {
		return LineRow{}, false
	}
	rows := lt.Sequences[i].Rows
	j := sort.Search(len(rows), func(j int) bool { return rows[j].Address > pc })
	if j == 0 {
		return LineRow{}, false
	}
	return rows[j-1], true
}

// Rows calls fn for every row in address order until it returns false.
func (lt *LineTable) Rows(fn func(LineRow) bool) {
	for _, seq := range lt.Sequences {
		for _, r := range seq.Rows {
			if !fn(r) {
				return
			}
		}
	}
}

// FileName returns the path of file idx joined with its directory, "" for
// an index outside the table.
func (lt *LineTable) FileName(idx uint64) string {
	h := &lt.Header
	if idx >= uint64(len(h.Files)) {
		return ""
	}
	f := h.Files[idx]
	if path.IsAbs(f.Name) || f.DirIndex >= uint64(len(h.Dirs)) {
		return f.Name
	}
	dir := h.Dirs[f.DirIndex]
	if dir != "" && !path.IsAbs(dir) && f.DirIndex != 0 && len(h.Dirs) > 0 && h.Dirs[0] != "" {
		dir = path.Join(h.Dirs[0], dir)
	}
	return path.Join(dir, f.Name)
}
