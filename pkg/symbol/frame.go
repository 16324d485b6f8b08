package symbol

import (
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/hitzhangjie/dwunwind/pkg/dwarf/frame"
	"github.com/hitzhangjie/dwunwind/pkg/dwarf/godwarf"
	"github.com/hitzhangjie/dwunwind/pkg/log"
)

func (bi *BinaryInfo) ptrSize() int {
	if n := bi.Arch.AddrSize(); n != 0 {
		return n
	}
	return 8
}

// ParseFrame parse .(z)debug_frame and .eh_frame to build the Call Frame Information.
// .eh_frame is indexed through .eh_frame_hdr; binaries without one get a
// synthesized table from a linear parse.
//
// see DWARFv4 6.4 Call Frame Information.
func (bi *BinaryInfo) ParseFrame() error {
	secs := bi.Sections

	if data := secs.Data(godwarf.SectionFrame); len(data) != 0 {
		fdes, err := frame.Parse(data, 0, bi.ptrSize())
		if err != nil {
			bi.addDiagnostic(errors.Wrap(err, "debug_frame"))
		}
		bi.FdeEntries = fdes
	}

	eh := secs.Get(godwarf.SectionEhFrame)
	if len(eh.Data) == 0 {
		return nil
	}
	bi.ehCtx = frame.PtrContext{PC: eh.Addr, Text: secs.Text, Data: secs.Got}

	if hdr := secs.Get(godwarf.SectionEhFrameHdr); len(hdr.Data) != 0 {
		h, err := frame.ParseEhFrameHdr(hdr.Data, &frame.PtrContext{PC: hdr.Addr, Data: hdr.Addr}, bi.ptrSize())
		if err == nil {
			bi.EhFrameHdr = h
			return nil
		}
		bi.addDiagnostic(errors.Wrap(err, "eh_frame_hdr"))
	}

	fdes, err := frame.ParseEhFrame(eh.Data, &bi.ehCtx, bi.ptrSize())
	if err != nil {
		bi.addDiagnostic(errors.Wrap(err, "eh_frame"))
	}
	if len(bi.FdeEntries) == 0 {
		bi.FdeEntries = fdes
	}
	h, err := frame.ParseEhFrameHdr(frame.BuildEhFrameHdrIndex(fdes, eh.Addr), nil, 8)
	if err != nil {
		return errors.Wrap(err, "synthesize eh_frame_hdr")
	}
	bi.EhFrameHdr = h
	log.L().Debug("synthesized eh_frame_hdr", zap.Uint64("fdes", h.FDECount))
	return nil
}

// FDEForPC returns the FDE covering pc, from .debug_frame first and
// .eh_frame second.
func (bi *BinaryInfo) FDEForPC(pc uint64) (*frame.FrameDescriptionEntry, error) {
	fde, err := bi.FdeEntries.FDEForPC(pc)
	if err == nil || bi.EhFrameHdr == nil {
		return fde, err
	}
	return frame.FindFDE(bi.Sections.Data(godwarf.SectionEhFrame), &bi.ehCtx, bi.EhFrameHdr, pc,
		bi.ptrSize(), frame.LookupOptions{Verify: bi.opts.VerifyHdr})
}

// PCToFDE returns the frame whose range covers PC
func (bi *BinaryInfo) PCToFDE(pc uint64) (*frame.FrameDescriptionEntry, error) {
	return bi.FDEForPC(pc)
}

// AllFDEs returns every FDE of the binary, .debug_frame entries first.
// .eh_frame is parsed again on each call.
func (bi *BinaryInfo) AllFDEs() (frame.FrameDescriptionEntries, error) {
	eh := bi.Sections.Data(godwarf.SectionEhFrame)
	if len(eh) == 0 {
		return bi.FdeEntries, nil
	}
	fdes, err := frame.ParseEhFrame(eh, &bi.ehCtx, bi.ptrSize())
	if !bi.Sections.Has(godwarf.SectionFrame) {
		return fdes, err
	}
	return bi.FdeEntries.Append(fdes), err
}

func (bi *BinaryInfo) addDiagnostic(err error) {
	bi.FrameDiagnostics.Add(err)
}
