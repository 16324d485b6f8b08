package symbol

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/samber/lo"

	"github.com/hitzhangjie/dwunwind/pkg/dwarf/godwarf"
	"github.com/hitzhangjie/dwunwind/pkg/dwarf/reader"
)

// DumpOptions selects the optional parts of Dump.
type DumpOptions struct {
	Tags     bool
	Lines    bool
	PubNames bool
	Frames   bool
}

// Dump writes a human readable summary of the binary to w.
func (bi *BinaryInfo) Dump(w io.Writer, opts DumpOptions) error {
	fmt.Fprint(w, bi.Sections.Summary())

	for _, cu := range bi.CompileUnits {
		u := cu.unit
		fmt.Fprintf(w, "unit %#x: %s version %d %s addr_size %d lang %s\n",
			u.Offset, cu.Name(), u.Version, u.Kind, u.AddrSize, u.Language)
		if u.Producer != "" {
			fmt.Fprintf(w, "  producer %s\n", u.Producer)
		}
		if rngs, err := u.Ranges(); err == nil && len(rngs) != 0 {
			parts := lo.Map(rngs, func(r reader.Range, _ int) string {
				return fmt.Sprintf("[%#x, %#x)", r.Lo, r.Hi)
			})
			fmt.Fprintf(w, "  ranges %s\n", strings.Join(parts, " "))
		}
		for _, fn := range cu.functions {
			fmt.Fprintf(w, "  func %-32s [%#x, %#x)", fn.Name(), fn.lowpc, fn.highpc)
			if file := fn.DeclFile(); file != "" {
				fmt.Fprintf(w, " %s:%d", file, fn.DeclLine())
			}
			fmt.Fprintf(w, " vars %d\n", len(fn.variables))
		}
		if opts.Tags {
			if err := dumpTags(w, u); err != nil {
				return err
			}
		}
	}

	if opts.Lines {
		files := lo.Keys(bi.Sources)
		sort.Strings(files)
		for _, file := range files {
			lines := lo.Keys(bi.Sources[file])
			sort.Ints(lines)
			for _, line := range lines {
				addrs := lo.Uniq(lo.Map(bi.Sources[file][line], func(r reader.LineRow, _ int) uint64 {
					return r.Address
				}))
				for _, addr := range addrs {
					fmt.Fprintf(w, "line %s:%d addr %#x\n", file, line, addr)
				}
			}
		}
	}

	if opts.PubNames {
		for _, kind := range []godwarf.SectionKind{godwarf.SectionPubNames, godwarf.SectionPubTypes} {
			data := bi.Sections.Data(kind)
			if len(data) == 0 {
				continue
			}
			names, err := reader.ParsePubNames(data)
			if err != nil {
				fmt.Fprintf(w, "%s: %v\n", kind.Name(), err)
			}
			for _, n := range names {
				fmt.Fprintf(w, "%s %s unit %#x die %#x\n", kind.Name(), n.Name, n.UnitOffset, n.UnitOffset+n.Offset)
			}
		}
	}

	if opts.Frames {
		fdes, err := bi.AllFDEs()
		if err != nil {
			fmt.Fprintf(w, "frames: %v\n", err)
		}
		for i, fde := range fdes {
			fmt.Fprintf(w, "fde %d at %#x: [%#x, %#x) cie %#x %q\n",
				i, fde.Offset, fde.Begin(), fde.End(), fde.CIE.Offset, fde.CIE.Augmentation)
		}
	}

	var diags []error
	if bi.Info != nil {
		diags = append(diags, bi.Info.Diagnostics.Errors()...)
	}
	diags = append(diags, bi.FrameDiagnostics.Errors()...)
	for _, err := range diags {
		fmt.Fprintf(w, "diagnostic: %v\n", err)
	}
	return nil
}

func dumpTags(w io.Writer, u *reader.Unit) error {
	it := u.Tags()
	for it.Next() {
		t := it.Tag()
		indent := strings.Repeat("  ", it.Depth()+1)
		fmt.Fprintf(w, "%s<%#x> %s\n", indent, t.Offset, t.Kind)
		for i := range t.Attribs {
			a := &t.Attribs[i]
			fmt.Fprintf(w, "%s  %s %s\n", indent, a.Attr, a.ValueString())
		}
	}
	return it.Err()
}
