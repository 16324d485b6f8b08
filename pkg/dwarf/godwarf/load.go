package godwarf

import (
	"bytes"
	"debug/elf"
	"debug/macho"
	"debug/pe"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/hitzhangjie/dwunwind/pkg/dwarf/regnum"
	"github.com/hitzhangjie/dwunwind/pkg/log"
)

// ErrNoDebugSection is returned when a requested section is missing.
var ErrNoDebugSection = errors.New("debug section not found")

// GetDebugSection returns the named section of f ("info", "frame", ...),
// looking at both ".debug_" and ".zdebug_" spellings and inflating as needed.
func GetDebugSection(f *elf.File, name string) ([]byte, error) {
	for _, prefix := range []string{".debug_", ".zdebug_"} {
		sec := f.Section(prefix + name)
		if sec == nil {
			continue
		}
		data, err := sec.Data()
		if err != nil {
			return nil, errors.Wrapf(err, "read section %s", sec.Name)
		}
		if prefix == ".zdebug_" {
			return decompressZDebug(data)
		}
		return data, nil
	}
	return nil, errors.Wrapf(ErrNoDebugSection, "%s", name)
}

// LoadELF collects every known section of f. raw, when non-nil, is the
// underlying file and is used to read SHF_COMPRESSED sections verbatim so
// they can be inflated here.
func LoadELF(f *elf.File, raw io.ReaderAt) (*Sections, error) {
	s := &Sections{Arch: regnum.ArchFromELF(f.Machine)}
	if text := f.Section(".text"); text != nil {
		s.Text = text.Addr
	}
	if got := f.Section(".got"); got != nil {
		s.Got = got.Addr
	}

	for _, sec := range f.Sections {
		kind, dwo, ok := SectionKindFromName(sec.Name)
		if !ok || sec.Type == elf.SHT_NOBITS {
			continue
		}
		data, err := readELFSection(f, sec, raw)
		if err != nil {
			return nil, err
		}
		if strings.HasPrefix(sec.Name, ".zdebug_") {
			if data, err = decompressZDebug(data); err != nil {
				return nil, errors.Wrapf(err, "section %s", sec.Name)
			}
		}
		log.L().Debug("load section", zap.String("name", sec.Name), zap.Int("size", len(data)))
		s.Set(kind, Section{Name: sec.Name, Data: data, Addr: sec.Addr, IsDWO: dwo})
	}
	return s, nil
}

func readELFSection(f *elf.File, sec *elf.Section, raw io.ReaderAt) ([]byte, error) {
	if sec.Flags&elf.SHF_COMPRESSED == 0 || raw == nil {
		data, err := sec.Data()
		if err != nil {
			return nil, errors.Wrapf(err, "read section %s", sec.Name)
		}
		return data, nil
	}
	buf := make([]byte, sec.FileSize)
	if _, err := raw.ReadAt(buf, int64(sec.Offset)); err != nil && err != io.EOF {
		return nil, errors.Wrapf(err, "read section %s", sec.Name)
	}
	data, err := decompressChdr(buf, f.Class, f.ByteOrder)
	if err != nil {
		return nil, errors.Wrapf(err, "section %s", sec.Name)
	}
	return data, nil
}

// LoadMachO collects the DWARF sections of a Mach-O image, they live in the
// __DWARF segment while __eh_frame lives in __TEXT.
func LoadMachO(f *macho.File) (*Sections, error) {
	s := &Sections{}
	switch f.Cpu {
	case macho.Cpu386:
		s.Arch = regnum.ArchX86
	case macho.CpuAmd64:
		s.Arch = regnum.ArchX64
	case macho.CpuArm64:
		s.Arch = regnum.ArchARM64
	}
	for _, sec := range f.Sections {
		if sec.Name == "__text" {
			s.Text = sec.Addr
		}
		kind, dwo, ok := SectionKindFromName(sec.Name)
		if !ok {
			continue
		}
		data, err := sec.Data()
		if err != nil {
			return nil, errors.Wrapf(err, "read section %s", sec.Name)
		}
		if strings.HasPrefix(sec.Name, "__zdebug_") {
			if data, err = decompressZDebug(data); err != nil {
				return nil, errors.Wrapf(err, "section %s", sec.Name)
			}
		}
		s.Set(kind, Section{Name: sec.Name, Data: data, Addr: sec.Addr, IsDWO: dwo})
	}
	return s, nil
}

// LoadPE collects the DWARF sections of a COFF/PE image.
func LoadPE(f *pe.File) (*Sections, error) {
	s := &Sections{}
	var imageBase uint64
	switch oh := f.OptionalHeader.(type) {
	case *pe.OptionalHeader32:
		imageBase = uint64(oh.ImageBase)
	case *pe.OptionalHeader64:
		imageBase = oh.ImageBase
	}
	switch f.Machine {
	case pe.IMAGE_FILE_MACHINE_I386:
		s.Arch = regnum.ArchX86
	case pe.IMAGE_FILE_MACHINE_AMD64:
		s.Arch = regnum.ArchX64
	case pe.IMAGE_FILE_MACHINE_ARM64:
		s.Arch = regnum.ArchARM64
	}
	for _, sec := range f.Sections {
		if sec.Name == ".text" {
			s.Text = imageBase + uint64(sec.VirtualAddress)
		}
		kind, dwo, ok := SectionKindFromName(sec.Name)
		if !ok {
			continue
		}
		data, err := sec.Data()
		if err != nil {
			return nil, errors.Wrapf(err, "read section %s", sec.Name)
		}
		// raw data is padded to the file alignment
		if sec.VirtualSize != 0 && uint64(sec.VirtualSize) < uint64(len(data)) {
			data = data[:sec.VirtualSize]
		}
		s.Set(kind, Section{Name: sec.Name, Data: data, Addr: imageBase + uint64(sec.VirtualAddress), IsDWO: dwo})
	}
	return s, nil
}

var (
	elfMagic    = []byte("\x7fELF")
	mzMagic     = []byte("MZ")
	machMagic32 = []byte{0xce, 0xfa, 0xed, 0xfe}
	machMagic64 = []byte{0xcf, 0xfa, 0xed, 0xfe}
)

// Open sniffs the container format of path and loads its sections.
func Open(path string) (*Sections, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", path)
	}
	defer f.Close()

	var magic [4]byte
	if _, err := io.ReadFull(f, magic[:]); err != nil {
		return nil, errors.Wrapf(err, "read magic of %s", path)
	}

	switch {
	case bytes.Equal(magic[:], elfMagic):
		ef, err := elf.NewFile(f)
		if err != nil {
			return nil, errors.Wrapf(err, "parse ELF %s", path)
		}
		return LoadELF(ef, f)
	case bytes.Equal(magic[:2], mzMagic):
		pf, err := pe.NewFile(f)
		if err != nil {
			return nil, errors.Wrapf(err, "parse PE %s", path)
		}
		return LoadPE(pf)
	case bytes.Equal(magic[:], machMagic32), bytes.Equal(magic[:], machMagic64):
		mf, err := macho.NewFile(f)
		if err != nil {
			return nil, errors.Wrapf(err, "parse Mach-O %s", path)
		}
		return LoadMachO(mf)
	}
	return nil, errors.Errorf("%s: unknown executable format (magic % x)", path, magic)
}

// Summary renders the loaded sections, one per line.
func (s *Sections) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "arch %s text %#x\n", s.Arch, s.Text)
	for k := SectionAbbrev; k < SectionCount; k++ {
		sec := s.Get(k)
		if len(sec.Data) == 0 {
			continue
		}
		fmt.Fprintf(&b, "  %-20s addr %#-12x size %d", sec.Name, sec.Addr, len(sec.Data))
		if sec.IsDWO {
			b.WriteString(" (dwo)")
		}
		b.WriteString("\n")
	}
	return b.String()
}
