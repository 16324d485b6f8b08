package cmd

import (
	"bytes"
	"encoding/binary"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hitzhangjie/dwunwind/pkg/dwarf/frame"
	"github.com/hitzhangjie/dwunwind/pkg/dwarf/regnum"
)

func TestParseHexExpr(t *testing.T) {
	type arg struct {
		in   string
		want []byte
		err  bool
	}
	args := []arg{
		{"9168", []byte{0x91, 0x68}, false},
		{"0x91 68", []byte{0x91, 0x68}, false},
		{"9C,06", []byte{0x9c, 0x06}, false},
		{"916", nil, true},
		{"zz", nil, true},
	}
	for _, a := range args {
		got, err := parseHexExpr(a.in)
		if a.err {
			assert.Error(t, err, a.in)
			continue
		}
		require.NoError(t, err, a.in)
		assert.Equal(t, a.want, got, a.in)
	}
}

func TestParseArch(t *testing.T) {
	arch, err := parseArch("amd64")
	require.NoError(t, err)
	assert.Equal(t, regnum.ArchX64, arch)

	arch, err = parseArch("AArch64")
	require.NoError(t, err)
	assert.Equal(t, regnum.ArchARM64, arch)

	_, err = parseArch("mips")
	assert.Error(t, err)
}

func TestParseRegs(t *testing.T) {
	regs, err := parseRegs(regnum.ArchX64, []string{"rsp=0x7fe0", "6=16"})
	require.NoError(t, err)

	v, ok := regs.Get(regnum.X64Rsp)
	assert.True(t, ok)
	assert.Equal(t, uint64(0x7fe0), v)
	v, ok = regs.Get(regnum.X64Rbp)
	assert.True(t, ok)
	assert.Equal(t, uint64(16), v)
	_, ok = regs.Get(regnum.X64Rax)
	assert.False(t, ok)

	for _, bad := range []string{"rsp", "=1", "nosuch=1", "rsp=zz", "100000=1"} {
		_, err := parseRegs(regnum.ArchX64, []string{bad})
		assert.Error(t, err, bad)
	}
}

// ehFrame holds one CIE (cfa rsp+8, rip at cfa-8) and one FDE covering
// [0x2000, 0x2010) that pushes rbp at 0x2001.
func ehFrame(t *testing.T, addr uint64) *frame.FrameDescriptionEntry {
	le := binary.LittleEndian
	cie := []byte{
		0, 0, 0, 0,
		1,
		'z', 'R', 0,
		1, 0x78, 16,
		1, 0x14,
		0x0c, 7, 8,
		0x90, 1,
	}
	var b []byte
	b = le.AppendUint32(b, uint32(len(cie)))
	b = append(b, cie...)

	fdeStart := uint64(len(b))
	body := le.AppendUint32(nil, uint32(fdeStart+4))
	body = le.AppendUint64(body, 0x2000-(addr+fdeStart+8))
	body = le.AppendUint64(body, 0x10)
	body = append(body, 0, 0x41, 0x0e, 16, 0x86, 2)
	b = le.AppendUint32(b, uint32(len(body)))
	b = append(b, body...)
	b = le.AppendUint32(b, 0)

	fdes, err := frame.ParseEhFrame(b, &frame.PtrContext{PC: addr}, 8)
	require.NoError(t, err)
	require.Len(t, fdes, 1)
	return fdes[0]
}

func TestPrintFDE(t *testing.T) {
	fde := ehFrame(t, 0x800)
	require.Equal(t, uint64(0x2000), fde.Begin())

	var buf bytes.Buffer
	require.NoError(t, printFDE(&buf, fde, 0x2004, 17))
	out := buf.String()
	assert.Contains(t, out, `augmentation "zR"`)
	assert.Contains(t, out, "fde at 0x16: [0x2000, 0x2010)")

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 4)
	assert.True(t, strings.HasPrefix(lines[2], "   [0x2000, 0x2001)"), lines[2])
	assert.True(t, strings.HasPrefix(lines[3], "=> [0x2001, 0x2010)"), lines[3])
	assert.Contains(t, lines[3], "cfa=r7+16")
}
