package godwarf

import (
	"bytes"
	"debug/elf"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/zlib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSectionKindFromName(t *testing.T) {
	type arg struct {
		name string
		kind SectionKind
		dwo  bool
		ok   bool
	}
	args := []arg{
		{".debug_info", SectionInfo, false, true},
		{".zdebug_line", SectionLine, false, true},
		{"__debug_abbrev", SectionAbbrev, false, true},
		{"__debug_str_offs", SectionStrOffsets, false, true},
		{".debug_str_offsets.dwo", SectionStrOffsets, true, true},
		{".debug_loclists.dwo", SectionLocLists, true, true},
		{".eh_frame", SectionEhFrame, false, true},
		{".eh_frame_hdr", SectionEhFrameHdr, false, true},
		{".text", SectionNull, false, false},
		{"", SectionNull, false, false},
	}
	for _, a := range args {
		kind, dwo, ok := SectionKindFromName(a.name)
		assert.Equal(t, a.ok, ok, a.name)
		assert.Equal(t, a.kind, kind, a.name)
		assert.Equal(t, a.dwo, dwo, a.name)
	}
}

func TestNameTables(t *testing.T) {
	assert.Equal(t, ".debug_rnglists", SectionRngLists.Name())
	assert.Equal(t, "__debug_rnglists", SectionRngLists.MachName())
	assert.Equal(t, ".debug_rnglists.dwo", SectionRngLists.DWOName())
	assert.Equal(t, "null", SectionNull.String())
}

func deflate(t *testing.T, payload []byte) []byte {
	var buf bytes.Buffer
	w := zlib.NewWriter(&buf)
	_, err := w.Write(payload)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func TestDecompressZDebug(t *testing.T) {
	payload := bytes.Repeat([]byte("debug_info"), 64)
	data := []byte(zdebugMagic)
	var size [8]byte
	binary.BigEndian.PutUint64(size[:], uint64(len(payload)))
	data = append(data, size[:]...)
	data = append(data, deflate(t, payload)...)

	out, err := decompressZDebug(data)
	require.NoError(t, err)
	assert.Equal(t, payload, out)

	// size mismatch is reported
	binary.BigEndian.PutUint64(data[4:12], uint64(len(payload)+1))
	_, err = decompressZDebug(data)
	assert.Error(t, err)

	_, err = decompressZDebug([]byte("ZLI"))
	assert.Error(t, err)
}

func TestDecompressChdr(t *testing.T) {
	payload := bytes.Repeat([]byte{1, 2, 3, 4}, 100)

	hdr := make([]byte, 24)
	binary.LittleEndian.PutUint32(hdr[0:4], uint32(elf.COMPRESS_ZLIB))
	binary.LittleEndian.PutUint64(hdr[8:16], uint64(len(payload)))
	binary.LittleEndian.PutUint64(hdr[16:24], 1)
	data := append(hdr, deflate(t, payload)...)

	out, err := decompressChdr(data, elf.ELFCLASS64, binary.LittleEndian)
	require.NoError(t, err)
	assert.Equal(t, payload, out)

	hdr32 := make([]byte, 12)
	binary.LittleEndian.PutUint32(hdr32[0:4], uint32(elf.COMPRESS_ZLIB))
	binary.LittleEndian.PutUint32(hdr32[4:8], uint32(len(payload)))
	out, err = decompressChdr(append(hdr32, deflate(t, payload)...), elf.ELFCLASS32, binary.LittleEndian)
	require.NoError(t, err)
	assert.Equal(t, payload, out)

	binary.LittleEndian.PutUint32(data[0:4], 2)
	_, err = decompressChdr(data, elf.ELFCLASS64, binary.LittleEndian)
	assert.Error(t, err)
}

func TestSectionsSet(t *testing.T) {
	var s Sections
	s.Set(SectionInfo, Section{Data: []byte{1}, IsDWO: true})
	s.Set(SectionNull, Section{Data: []byte{1}})

	assert.True(t, s.Has(SectionInfo))
	assert.True(t, s.IsDWO())
	assert.Equal(t, ".debug_info", s.Get(SectionInfo).Name)
	assert.False(t, s.Has(SectionNull))
	assert.Nil(t, s.Data(SectionCount))
	assert.Contains(t, s.Summary(), ".debug_info")
}

func TestOpenUnknownFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "blob")
	require.NoError(t, os.WriteFile(path, []byte("not an executable"), 0o644))
	_, err := Open(path)
	assert.Error(t, err)

	_, err = Open(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}

func TestOpenSelf(t *testing.T) {
	exe, err := os.Executable()
	require.NoError(t, err)
	s, err := Open(exe)
	require.NoError(t, err)
	// go test binaries carry DWARF unless built with -w
	assert.NotNil(t, s)
}
