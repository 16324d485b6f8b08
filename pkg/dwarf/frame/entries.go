package frame

import (
	"sort"

	"github.com/hitzhangjie/dwunwind/pkg/dwarf/util"
)

// CommonInformationEntry represents a Common Information Entry in
// the Dwarf .debug_frame or .eh_frame section.
type CommonInformationEntry struct {
	Length                uint64
	Offset                uint64
	Format                util.Format
	Version               uint8
	Augmentation          string
	AddressSize           uint8
	SegmentSize           uint8
	CodeAlignmentFactor   uint64
	DataAlignmentFactor   int64
	ReturnAddressRegister uint64

	// Set from the z augmentation. Encodings default to PtrEncOmit except
	// AddrEncoding, which defaults to PtrEncAbs.
	LSDAEncoding     PtrEnc
	AddrEncoding     PtrEnc
	HandlerEncoding  PtrEnc
	HandlerIP        uint64
	AugmentationData []byte
	SignalFrame      bool

	InitialInstructions []byte

	// set_loc operands are decoded with these
	ptrCtx     PtrContext
	staticBase uint64
	instrOff   uint64
}

// AddrDecoder reads a target address operand at off and returns the bytes
// consumed, 0 on failure.
type AddrDecoder func(data []byte, off uint64, out *uint64) int

// addrDecoder decodes addresses in an instruction stream that starts at
// section offset streamOff.
func (cie *CommonInformationEntry) addrDecoder(streamOff uint64) AddrDecoder {
	return func(data []byte, off uint64, out *uint64) int {
		ctx := cie.ptrCtx
		ctx.PC += streamOff
		n := ReadEncodedPointer(data, off, cie.AddrEncoding, &ctx, int(cie.AddressSize), out)
		if n != 0 {
			*out += cie.staticBase
		}
		return n
	}
}

// hasAugData reports whether FDEs of this CIE carry a sized augmentation block.
func (cie *CommonInformationEntry) hasAugData() bool {
	return len(cie.Augmentation) > 0 && cie.Augmentation[0] == 'z'
}

// FrameDescriptionEntry represents a Frame Description Entry in the
// Dwarf .debug_frame or .eh_frame section.
type FrameDescriptionEntry struct {
	Length       uint64
	Offset       uint64
	CIE          *CommonInformationEntry
	LSDA         uint64
	Instructions []byte
	begin, size  uint64
	instrOff     uint64
}

// Cover returns whether or not the given address is within the
// bounds of this frame.
func (fde *FrameDescriptionEntry) Cover(addr uint64) bool {
	return (addr - fde.begin) < fde.size
}

// Begin returns address of first location for this frame.
func (fde *FrameDescriptionEntry) Begin() uint64 {
	return fde.begin
}

// End returns address of last location for this frame.
func (fde *FrameDescriptionEntry) End() uint64 {
	return fde.begin + fde.size
}

// Translate moves the beginning of fde forward by delta.
func (fde *FrameDescriptionEntry) Translate(delta uint64) {
	fde.begin += delta
}

// FrameDescriptionEntries a list of FDEs
type FrameDescriptionEntries []*FrameDescriptionEntry

func newFrameIndex() FrameDescriptionEntries {
	return make(FrameDescriptionEntries, 0, 1000)
}

// FDEForPC returns the Frame Description Entry for the given PC. The
// entries must be sorted by Begin, as Parse and Append leave them.
func (fdes FrameDescriptionEntries) FDEForPC(pc uint64) (*FrameDescriptionEntry, error) {
	idx := sort.Search(len(fdes), func(i int) bool {
		return fdes[i].Cover(pc) || fdes[i].Begin() >= pc
	})
	if idx == len(fdes) || !fdes[idx].Cover(pc) {
		return nil, &ErrNoFDEForPC{pc}
	}
	return fdes[idx], nil
}

// Append appends otherFDEs to fdes and returns the result, sorted by
// Begin with duplicates removed.
func (fdes FrameDescriptionEntries) Append(otherFDEs FrameDescriptionEntries) FrameDescriptionEntries {
	r := make(FrameDescriptionEntries, 0, len(fdes)+len(otherFDEs))
	r = append(append(r, fdes...), otherFDEs...)
	sort.SliceStable(r, func(i, j int) bool {
		return r[i].Begin() < r[j].Begin()
	})
	// remove duplicates
	uniqFDEs := r[:0]
	for _, fde := range r {
		if len(uniqFDEs) > 0 {
			last := uniqFDEs[len(uniqFDEs)-1]
			if last.Begin() == fde.Begin() && last.End() == fde.End() {
				continue
			}
		}
		uniqFDEs = append(uniqFDEs, fde)
	}
	return uniqFDEs
}

func (fdes FrameDescriptionEntries) sort() {
	sort.SliceStable(fdes, func(i, j int) bool {
		return fdes[i].Begin() < fdes[j].Begin()
	})
}
