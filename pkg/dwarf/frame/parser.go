// Package frame contains data structures and
// related functions for parsing and searching
// through Dwarf .debug_frame and .eh_frame data.
package frame

import (
	"strings"

	"go.uber.org/zap"

	"github.com/hitzhangjie/dwunwind/pkg/dwarf/util"
	"github.com/hitzhangjie/dwunwind/pkg/log"
)

type parsefunc func(*parseContext) parsefunc

type sectionKind uint8

const (
	debugFrame sectionKind = iota
	ehFrame
)

// parseContext context which helps parsing the CIE and FDEs stored in
// .debug_frame or .eh_frame
type parseContext struct {
	kind       sectionKind
	data       []byte
	staticBase uint64
	ptrCtx     *PtrContext
	ptrSize    int

	entries FrameDescriptionEntries
	cies    map[uint64]*CommonInformationEntry

	// current entry
	off    uint64
	length uint64
	format util.Format
	idOff  uint64
	id     uint64
	end    uint64

	err error
}

func newParseContext(kind sectionKind, data []byte, ptrCtx *PtrContext, ptrSize int) *parseContext {
	if ptrSize <= 0 || ptrSize > 8 {
		ptrSize = 8
	}
	if ptrCtx == nil {
		ptrCtx = &PtrContext{}
	}
	return &parseContext{
		kind:    kind,
		data:    data,
		ptrCtx:  ptrCtx,
		ptrSize: ptrSize,
		entries: newFrameIndex(),
		cies:    map[uint64]*CommonInformationEntry{},
	}
}

// Parse takes in .debug_frame data and returns FrameDescriptionEntries,
// sorted by address. Each FrameDescriptionEntry has a pointer to its
// CommonInformationEntry. Parsing stops at the first malformed entry; the
// entries before it are returned along with the error.
func Parse(data []byte, staticBase uint64, ptrSize int) (FrameDescriptionEntries, error) {
	pctx := newParseContext(debugFrame, data, nil, ptrSize)
	pctx.staticBase = staticBase
	return pctx.run()
}

// ParseEhFrame is Parse for .eh_frame. ctx.PC must be the address .eh_frame
// is loaded at so pc-relative pointers resolve.
func ParseEhFrame(data []byte, ctx *PtrContext, ptrSize int) (FrameDescriptionEntries, error) {
	return newParseContext(ehFrame, data, ctx, ptrSize).run()
}

// ParseFDEAt parses the single .eh_frame FDE starting at off together with
// its CIE.
func ParseFDEAt(data []byte, off uint64, ctx *PtrContext, ptrSize int) (*FrameDescriptionEntry, error) {
	pctx := newParseContext(ehFrame, data, ctx, ptrSize)
	pctx.off = off
	if !pctx.header() {
		if pctx.err == nil {
			pctx.err = badEntry(off, "no entry")
		}
		return nil, pctx.err
	}
	if pctx.length == 0 || pctx.isCIE() {
		return nil, badEntry(off, "not an fde")
	}
	if parseFDE(pctx); pctx.err != nil {
		return nil, pctx.err
	}
	return pctx.entries[len(pctx.entries)-1], nil
}

func (ctx *parseContext) run() (FrameDescriptionEntries, error) {
	for fn := parselength; fn != nil; {
		fn = fn(ctx)
	}
	if ctx.err != nil {
		log.L().Warn("cfi parse stopped", zap.Error(ctx.err), zap.Int("fdes", len(ctx.entries)))
	}
	ctx.entries.sort()
	return ctx.entries, ctx.err
}

// header reads the length and id fields of the entry at ctx.off. It
// returns false at the end of the section or on an error.
func (ctx *parseContext) header() bool {
	if ctx.off >= uint64(len(ctx.data)) {
		return false
	}
	n := util.ReadUnitLength(ctx.data, ctx.off, &ctx.length, &ctx.format)
	if n == 0 {
		ctx.err = badEntry(ctx.off, "short length")
		return false
	}
	ctx.idOff = ctx.off + uint64(n)
	if ctx.length == 0 {
		ctx.end = ctx.idOff
		return true
	}
	if ctx.length > uint64(len(ctx.data))-ctx.idOff {
		ctx.err = badEntry(ctx.off, "length %#x past end of section", ctx.length)
		return false
	}
	ctx.end = ctx.idOff + ctx.length
	if util.ReadOffset(ctx.data[:ctx.end], ctx.idOff, ctx.format, &ctx.id) == 0 {
		ctx.err = badEntry(ctx.off, "short cie id")
		return false
	}
	return true
}

// isCIE determines if the current id field marks a CIE
func (ctx *parseContext) isCIE() bool {
	if ctx.kind == ehFrame {
		return ctx.id == 0
	}
	if ctx.format == util.Format64 {
		return ctx.id == ^uint64(0)
	}
	return ctx.id == 0xffffffff
}

// parselength parse the length of CIE or FDE
func parselength(ctx *parseContext) parsefunc {
	if !ctx.header() {
		return nil
	}
	if ctx.length == 0 {
		if ctx.kind == ehFrame {
			// zero terminator
			return nil
		}
		ctx.off = ctx.end
		return parselength
	}
	if ctx.isCIE() {
		return parseCIE
	}
	return parseFDE
}

// parseCIE parse CIE entry
func parseCIE(ctx *parseContext) parsefunc {
	if _, ok := ctx.cies[ctx.off]; !ok {
		cie := ctx.decodeCIE()
		if cie == nil {
			return nil
		}
		ctx.cies[ctx.off] = cie
	}
	ctx.off = ctx.end
	return parselength
}

// decodeCIE decodes the CIE whose header was just read.
func (ctx *parseContext) decodeCIE() *CommonInformationEntry {
	data := ctx.data[:ctx.end]
	cur := ctx.idOff + uint64(ctx.format.OffsetSize())
	cie := &CommonInformationEntry{
		Length:          ctx.length,
		Offset:          ctx.off,
		Format:          ctx.format,
		LSDAEncoding:    PtrEncOmit,
		AddrEncoding:    PtrEncAbs,
		HandlerEncoding: PtrEncOmit,
	}
	fail := func(what string) *CommonInformationEntry {
		ctx.err = badEntry(ctx.off, "cie: short %s", what)
		return nil
	}

	// parse version
	n := util.ReadU8(data, cur, &cie.Version)
	if n == 0 {
		return fail("version")
	}
	cur += uint64(n)

	// parse augmentation
	if n = util.ReadCString(data, cur, &cie.Augmentation); n == 0 {
		return fail("augmentation")
	}
	cur += uint64(n)
	if strings.HasPrefix(cie.Augmentation, "eh") {
		// legacy GCC data word
		cur += uint64(ctx.ptrSize)
	}

	cie.AddressSize = uint8(ctx.ptrSize)
	if cie.Version >= 4 {
		if n = util.ReadU8(data, cur, &cie.AddressSize); n == 0 {
			return fail("address size")
		}
		cur += uint64(n)
		if n = util.ReadU8(data, cur, &cie.SegmentSize); n == 0 {
			return fail("segment size")
		}
		cur += uint64(n)
	}

	// parse code alignment factor
	if n = util.ReadULEB128(data, cur, &cie.CodeAlignmentFactor); n == 0 {
		return fail("code alignment factor")
	}
	cur += uint64(n)

	// parse data alignment factor
	if n = util.ReadSLEB128(data, cur, &cie.DataAlignmentFactor); n == 0 {
		return fail("data alignment factor")
	}
	cur += uint64(n)

	// parse return address register
	if cie.Version == 1 {
		var r uint8
		n = util.ReadU8(data, cur, &r)
		cie.ReturnAddressRegister = uint64(r)
	} else {
		n = util.ReadULEB128(data, cur, &cie.ReturnAddressRegister)
	}
	if n == 0 {
		return fail("return address register")
	}
	cur += uint64(n)

	if cie.hasAugData() {
		var size uint64
		if n = util.ReadULEB128(data, cur, &size); n == 0 {
			return fail("augmentation size")
		}
		cur += uint64(n)
		aug, ok := util.Slice(data, cur, size)
		if !ok {
			return fail("augmentation data")
		}
		cie.AugmentationData = aug
		if !ctx.augmentation(cie, cur, cur+size) {
			return nil
		}
		// the declared size wins over what the letters consumed
		cur += size
	} else if cie.Augmentation != "" && cie.Augmentation != "eh" {
		ctx.err = badEntry(ctx.off, "cie: unknown augmentation %q", cie.Augmentation)
		return nil
	}

	// The rest of this entry consists of the instructions.
	cie.InitialInstructions = data[cur:ctx.end]
	cie.ptrCtx = *ctx.ptrCtx
	cie.staticBase = ctx.staticBase
	cie.instrOff = cur
	return cie
}

// augmentation decodes the z augmentation letters in the order they appear.
func (ctx *parseContext) augmentation(cie *CommonInformationEntry, cur, end uint64) bool {
	data := ctx.data[:end]
	for _, c := range cie.Augmentation[1:] {
		var n int
		switch c {
		case 'L':
			var enc uint8
			n = util.ReadU8(data, cur, &enc)
			cie.LSDAEncoding = PtrEnc(enc)
		case 'P':
			var enc uint8
			if util.ReadU8(data, cur, &enc) == 0 {
				break
			}
			cie.HandlerEncoding = PtrEnc(enc)
			if m := ReadEncodedPointer(data, cur+1, cie.HandlerEncoding, ctx.ptrCtx, ctx.ptrSize, &cie.HandlerIP); m != 0 {
				n = 1 + m
			}
		case 'R':
			var enc uint8
			n = util.ReadU8(data, cur, &enc)
			cie.AddrEncoding = PtrEnc(enc)
		case 'S':
			cie.SignalFrame = true
			continue
		case 'B', 'G':
			// aarch64 branch protection and memory tagging, no data
			continue
		default:
			log.L().Warn("unknown cie augmentation letter",
				zap.Uint64("cie", cie.Offset), zap.String("augmentation", cie.Augmentation))
			return true
		}
		if n == 0 {
			ctx.err = badEntry(ctx.off, "cie: short augmentation %q", c)
			return false
		}
		cur += uint64(n)
	}
	return true
}

// cieAt returns the CIE at off, decoding it on first use.
func (ctx *parseContext) cieAt(off uint64) *CommonInformationEntry {
	if cie, ok := ctx.cies[off]; ok {
		return cie
	}
	cur, length, format, idOff, id, end := ctx.off, ctx.length, ctx.format, ctx.idOff, ctx.id, ctx.end
	defer func() {
		ctx.off, ctx.length, ctx.format, ctx.idOff, ctx.id, ctx.end = cur, length, format, idOff, id, end
	}()

	ctx.off = off
	if !ctx.header() || ctx.length == 0 || !ctx.isCIE() {
		return nil
	}
	cie := ctx.decodeCIE()
	if cie != nil {
		ctx.cies[off] = cie
	}
	return cie
}

// parseFDE parse FDE entry
func parseFDE(ctx *parseContext) parsefunc {
	data := ctx.data[:ctx.end]
	cur := ctx.idOff + uint64(ctx.format.OffsetSize())

	cieOff := ctx.id
	if ctx.kind == ehFrame {
		if ctx.id > ctx.idOff {
			ctx.err = badEntry(ctx.off, "fde: cie pointer %#x out of range", ctx.id)
			return nil
		}
		// relative to the CIE pointer field
		cieOff = ctx.idOff - ctx.id
	}
	cie := ctx.cieAt(cieOff)
	if cie == nil {
		if ctx.err == nil {
			ctx.err = badEntry(ctx.off, "fde: no cie at %#x", cieOff)
		}
		return nil
	}

	fde := &FrameDescriptionEntry{Length: ctx.length, Offset: ctx.off, CIE: cie}
	fail := func(what string) parsefunc {
		ctx.err = badEntry(ctx.off, "fde: short %s", what)
		return nil
	}

	var n int
	if ctx.kind == ehFrame {
		// parsing initial_location of FDE
		if n = ReadEncodedPointer(data, cur, cie.AddrEncoding, ctx.ptrCtx, ctx.ptrSize, &fde.begin); n == 0 {
			return fail("initial location")
		}
		cur += uint64(n)
		// parsing address_range of FDE, never relocated
		if n = ReadEncodedPointer(data, cur, cie.AddrEncoding.Type(), ctx.ptrCtx, ctx.ptrSize, &fde.size); n == 0 {
			return fail("address range")
		}
		cur += uint64(n)
	} else {
		cur += uint64(cie.SegmentSize)
		addrSize := int(cie.AddressSize)
		if n = util.ReadUint(data, cur, addrSize, &fde.begin); n == 0 {
			return fail("initial location")
		}
		cur += uint64(n)
		fde.begin += ctx.staticBase
		if n = util.ReadUint(data, cur, addrSize, &fde.size); n == 0 {
			return fail("address range")
		}
		cur += uint64(n)
	}

	if cie.hasAugData() {
		var size uint64
		if n = util.ReadULEB128(data, cur, &size); n == 0 {
			return fail("augmentation size")
		}
		cur += uint64(n)
		if size > uint64(len(data))-cur {
			return fail("augmentation data")
		}
		if cie.LSDAEncoding != PtrEncOmit && size > 0 {
			pctx := *ctx.ptrCtx
			pctx.Func = fde.begin
			ReadEncodedPointer(data[:cur+size], cur, cie.LSDAEncoding, &pctx, ctx.ptrSize, &fde.LSDA)
		}
		cur += size
	}

	// parsing instructions of FDE
	fde.Instructions = data[cur:]
	fde.instrOff = cur

	// Insert into the tree after setting address range begin
	// otherwise compares won't work.
	ctx.entries = append(ctx.entries, fde)

	// prepare to parse next FDE or CIE
	ctx.off = ctx.end
	return parselength
}
