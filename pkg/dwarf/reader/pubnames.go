package reader

import (
	"github.com/pkg/errors"

	"github.com/hitzhangjie/dwunwind/pkg/dwarf/util"
)

// PubName is one .debug_pubnames or .debug_pubtypes entry.
type PubName struct {
	Name string
	// UnitOffset is the .debug_info offset of the owning unit header.
	UnitOffset uint64
	// Offset is the tag offset relative to the unit header.
	Offset uint64
}

// ParsePubNames decodes every name set of a pubnames or pubtypes section.
// Entries decoded before a malformed set are returned with the error.
func ParsePubNames(data []byte) ([]PubName, error) {
	var out []PubName
	for off := uint64(0); off < uint64(len(data)); {
		var (
			length uint64
			format util.Format
		)
		n := util.ReadUnitLength(data, off, &length, &format)
		if n == 0 {
			return out, shortRead("pubnames set length", off)
		}
		cur := off + uint64(n)
		end := cur + length
		if end > uint64(len(data)) || end < cur {
			return out, errors.Wrapf(ErrShortRead, "pubnames set at %#x runs past section", off)
		}

		var ver uint16
		var unitOff, unitLen uint64
		if util.ReadU16(data, cur, &ver) == 0 {
			return out, shortRead("pubnames version", cur)
		}
		cur += 2
		size := uint64(format.OffsetSize())
		if util.ReadOffset(data, cur, format, &unitOff) == 0 || util.ReadOffset(data, cur+size, format, &unitLen) == 0 {
			return out, shortRead("pubnames header", cur)
		}
		cur += 2 * size

		set := data[:end]
		for cur < end {
			var die uint64
			if util.ReadOffset(set, cur, format, &die) == 0 {
				return out, shortRead("pubnames entry", cur)
			}
			cur += size
			if die == 0 {
				break
			}
			var name string
			n := util.ReadCString(set, cur, &name)
			if n == 0 {
				return out, shortRead("pubnames name", cur)
			}
			cur += uint64(n)
			out = append(out, PubName{Name: name, UnitOffset: unitOff, Offset: die})
		}
		off = end
	}
	return out, nil
}
