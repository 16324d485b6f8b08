package symbol

import (
	"github.com/hitzhangjie/dwunwind/pkg/dwarf/reader"
)

// CompileUnit compilation unit
//
// see DWARFv4 3.1.1 normal and partial compilation unit entries
type CompileUnit struct {
	functions []*Function
	unit      *reader.Unit
	lines     *reader.LineTable
	bi        *BinaryInfo
}

// Name returns DW_AT_name of the unit root.
func (c *CompileUnit) Name() string {
	if c.unit.Name == "" {
		return "<unnamed>"
	}
	return c.unit.Name
}

// Unit returns the decoded unit.
func (c *CompileUnit) Unit() *reader.Unit {
	return c.unit
}

// Functions returns the subprograms defined in the unit.
func (c *CompileUnit) Functions() []*Function {
	return c.functions
}

// parseLineSection parse .(z)debug_line into bi.Sources
//
// note: one compile unit may contains more than one source files.
func (c *CompileUnit) parseLineSection() error {
	lt, err := c.unit.LineTable()
	if lt != nil {
		c.lines = lt
		lt.Rows(func(row reader.LineRow) bool {
			if row.EndSequence {
				return true
			}
			file := lt.FileName(row.File)
			if file == "" {
				return true
			}
			entries, ok := c.bi.Sources[file]
			if !ok {
				entries = make(map[int][]reader.LineRow)
				c.bi.Sources[file] = entries
			}
			entries[int(row.Line)] = append(entries[int(row.Line)], row)
			return true
		})
	}
	return err
}

func (c *CompileUnit) pcToLine(pc uint64) (string, int, bool) {
	if c.lines == nil {
		return "", 0, false
	}
	row, ok := c.lines.PCToLine(pc)
	if !ok {
		return "", 0, false
	}
	return c.lines.FileName(row.File), int(row.Line), true
}

// parseFunctions collects the subprograms of the unit together with the
// variables and parameters nested in them.
func (c *CompileUnit) parseFunctions() error {
	var (
		cur      *Function
		curDepth int
	)
	it := c.unit.Tags()
	for it.Next() {
		tag, depth := it.Tag(), it.Depth()
		if cur != nil && depth <= curDepth {
			cur = nil
		}

		switch tag.Kind {
		case reader.TagSubProgram:
			fn := &Function{cu: c}
			if err := fn.parseFrom(tag); err != nil {
				c.bi.Info.Diagnostics.Add(err)
				continue
			}
			if !fn.HasRange() {
				// declarations and abstract instances
				continue
			}
			c.functions = append(c.functions, fn)
			c.bi.Functions = append(c.bi.Functions, fn)
			cur, curDepth = fn, depth
		case reader.TagVariable, reader.TagFormalParameter:
			if cur != nil {
				cur.variables = append(cur.variables, tag)
			}
		case reader.TagInlinedSubroutine:
			// inlined bodies are not tracked
			it.SkipChildren()
		}
	}
	return it.Err()
}
