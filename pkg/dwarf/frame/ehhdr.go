package frame

import (
	"encoding/binary"
	"sort"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/hitzhangjie/dwunwind/pkg/dwarf/util"
	"github.com/hitzhangjie/dwunwind/pkg/log"
)

// EhFrameHdr is a decoded .eh_frame_hdr section.
type EhFrameHdr struct {
	Version       uint8
	EhFramePtrEnc PtrEnc
	FDECountEnc   PtrEnc
	TableEnc      PtrEnc
	EhFramePtr    uint64
	FDECount      uint64

	data      []byte
	tableOff  uint64
	fieldSize int
	addrSize  int
	ctx       PtrContext
	sorted    bool
}

// HdrEntry is one row of the search table.
type HdrEntry struct {
	InitialLoc uint64
	FDEAddr    uint64
}

// ParseEhFrameHdr decodes the header of .eh_frame_hdr and checks once that
// the search table is ordered. ctx.PC and ctx.Data are normally both the
// address of the section.
func ParseEhFrameHdr(data []byte, ctx *PtrContext, addrSize int) (*EhFrameHdr, error) {
	if addrSize <= 0 || addrSize > 8 {
		addrSize = 8
	}
	if ctx == nil {
		ctx = &PtrContext{}
	}
	h := &EhFrameHdr{data: data, addrSize: addrSize, ctx: *ctx}

	var enc [3]uint8
	cur := uint64(0)
	if util.ReadU8(data, cur, &h.Version) == 0 {
		return nil, errors.New("eh_frame_hdr: short version")
	}
	cur++
	if h.Version != 1 {
		return nil, errors.Errorf("eh_frame_hdr: unknown version %d", h.Version)
	}
	for i := range enc {
		if util.ReadU8(data, cur, &enc[i]) == 0 {
			return nil, errors.New("eh_frame_hdr: short encodings")
		}
		cur++
	}
	h.EhFramePtrEnc, h.FDECountEnc, h.TableEnc = PtrEnc(enc[0]), PtrEnc(enc[1]), PtrEnc(enc[2])

	if h.EhFramePtrEnc != PtrEncOmit {
		n := ReadEncodedPointer(data, cur, h.EhFramePtrEnc, &h.ctx, addrSize, &h.EhFramePtr)
		if n == 0 {
			return nil, errors.New("eh_frame_hdr: short eh_frame_ptr")
		}
		cur += uint64(n)
	}
	if h.FDECountEnc == PtrEncOmit || h.TableEnc == PtrEncOmit {
		h.sorted = true
		return h, nil
	}
	n := ReadEncodedPointer(data, cur, h.FDECountEnc.Type(), &h.ctx, addrSize, &h.FDECount)
	if n == 0 {
		return nil, errors.New("eh_frame_hdr: short fde_count")
	}
	cur += uint64(n)

	h.fieldSize = h.TableEnc.fixedSize(addrSize)
	if h.fieldSize == 0 {
		return nil, errors.Errorf("eh_frame_hdr: variable size table encoding %s", h.TableEnc)
	}
	h.tableOff = cur
	if h.FDECount > (uint64(len(data))-cur)/uint64(2*h.fieldSize) {
		return nil, errors.Errorf("eh_frame_hdr: table of %d entries past end of section", h.FDECount)
	}
	h.sorted = h.checkSorted()
	if !h.sorted {
		log.L().Warn("eh_frame_hdr table is not sorted", zap.Uint64("fdes", h.FDECount))
	}
	return h, nil
}

// Entry returns the i-th row of the search table.
func (h *EhFrameHdr) Entry(i uint64) (HdrEntry, bool) {
	var e HdrEntry
	if i >= h.FDECount {
		return e, false
	}
	off := h.tableOff + i*uint64(2*h.fieldSize)
	if ReadEncodedPointer(h.data, off, h.TableEnc, &h.ctx, h.addrSize, &e.InitialLoc) == 0 {
		return e, false
	}
	off += uint64(h.fieldSize)
	if ReadEncodedPointer(h.data, off, h.TableEnc, &h.ctx, h.addrSize, &e.FDEAddr) == 0 {
		return e, false
	}
	return e, true
}

func (h *EhFrameHdr) checkSorted() bool {
	var prev uint64
	for i := uint64(0); i < h.FDECount; i++ {
		e, ok := h.Entry(i)
		if !ok || (i > 0 && e.InitialLoc < prev) {
			return false
		}
		prev = e.InitialLoc
	}
	return true
}

// Lookup binary searches the table for the last entry starting at or
// before pc and returns its FDE address. The FDE may still not cover pc.
func (h *EhFrameHdr) Lookup(pc uint64) (uint64, error) {
	if !h.sorted {
		return 0, ErrUnsortedTable
	}
	var bad bool
	idx := sort.Search(int(h.FDECount), func(i int) bool {
		e, ok := h.Entry(uint64(i))
		if !ok {
			bad = true
			return true
		}
		return e.InitialLoc > pc
	})
	if bad {
		return 0, errors.New("eh_frame_hdr: bad table entry")
	}
	if idx == 0 {
		return 0, &ErrNoFDEForPC{pc}
	}
	e, _ := h.Entry(uint64(idx - 1))
	return e.FDEAddr, nil
}

// BuildEhFrameHdrIndex synthesizes a version 1 .eh_frame_hdr for sections
// that ship without one. Table entries hold absolute addresses: FDEs are
// placed at ehFrameAddr plus their section offset.
func BuildEhFrameHdrIndex(fdes FrameDescriptionEntries, ehFrameAddr uint64) []byte {
	sorted := make(FrameDescriptionEntries, len(fdes))
	copy(sorted, fdes)
	sorted.sort()

	buf := make([]byte, 0, 12+16*len(sorted))
	buf = append(buf, 1, byte(PtrEncOmit), byte(PtrEncUdata8), byte(PtrEncUdata8))
	buf = binary.LittleEndian.AppendUint64(buf, uint64(len(sorted)))
	for _, fde := range sorted {
		buf = binary.LittleEndian.AppendUint64(buf, fde.Begin())
		buf = binary.LittleEndian.AppendUint64(buf, ehFrameAddr+fde.Offset)
	}
	return buf
}

// LookupOptions tunes FindFDE.
type LookupOptions struct {
	// Verify checks every hdr hit against a linear scan of .eh_frame.
	Verify bool
}

// FindFDE finds the FDE covering pc in .eh_frame. The hdr table is tried
// first when present; any failure there, including a miss, falls back to a
// linear scan of the section. ctx.PC is the address of .eh_frame.
func FindFDE(ehFrame []byte, ctx *PtrContext, hdr *EhFrameHdr, pc uint64, ptrSize int, opts LookupOptions) (*FrameDescriptionEntry, error) {
	if ctx == nil {
		ctx = &PtrContext{}
	}
	if hdr != nil {
		fde, err := findFDEFast(ehFrame, ctx, hdr, pc, ptrSize)
		if err == nil && !opts.Verify {
			return fde, nil
		}
		if err != nil {
			log.L().Debug("eh_frame_hdr lookup failed, scanning", zap.Uint64("pc", pc), zap.Error(err))
		} else {
			slow, serr := findFDESlow(ehFrame, ctx, pc, ptrSize)
			if serr != nil || slow.Offset != fde.Offset {
				log.L().Warn("eh_frame_hdr lookup disagrees with scan",
					zap.Uint64("pc", pc), zap.Uint64("hdr_fde", fde.Offset), zap.Error(serr))
			}
			return slow, serr
		}
	}
	return findFDESlow(ehFrame, ctx, pc, ptrSize)
}

func findFDEFast(ehFrame []byte, ctx *PtrContext, hdr *EhFrameHdr, pc uint64, ptrSize int) (*FrameDescriptionEntry, error) {
	addr, err := hdr.Lookup(pc)
	if err != nil {
		return nil, err
	}
	if addr < ctx.PC || addr-ctx.PC >= uint64(len(ehFrame)) {
		return nil, errors.Errorf("eh_frame_hdr: fde address %#x outside eh_frame", addr)
	}
	fde, err := ParseFDEAt(ehFrame, addr-ctx.PC, ctx, ptrSize)
	if err != nil {
		return nil, err
	}
	if !fde.Cover(pc) {
		return nil, &ErrNoFDEForPC{pc}
	}
	return fde, nil
}

// findFDESlow parses every entry, without relying on any ordering.
func findFDESlow(ehFrame []byte, ctx *PtrContext, pc uint64, ptrSize int) (*FrameDescriptionEntry, error) {
	fdes, err := ParseEhFrame(ehFrame, ctx, ptrSize)
	for _, fde := range fdes {
		if fde.Cover(pc) {
			return fde, nil
		}
	}
	if err != nil {
		return nil, errors.Wrapf(err, "scan eh_frame for pc %#x", pc)
	}
	return nil, &ErrNoFDEForPC{pc}
}
