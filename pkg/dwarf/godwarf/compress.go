package godwarf

import (
	"bytes"
	"debug/elf"
	"encoding/binary"
	"io"

	"github.com/klauspost/compress/zlib"
	"github.com/pkg/errors"
)

const zdebugMagic = "ZLIB"

// isZDebug reports whether data carries the legacy ".zdebug" header: the
// magic "ZLIB" followed by the uncompressed size as a big-endian uint64.
func isZDebug(data []byte) bool {
	return len(data) >= 12 && string(data[:4]) == zdebugMagic
}

// decompressZDebug inflates a legacy ".zdebug_*" section.
func decompressZDebug(data []byte) ([]byte, error) {
	if !isZDebug(data) {
		return nil, errors.New("missing ZLIB header")
	}
	size := binary.BigEndian.Uint64(data[4:12])
	return inflate(data[12:], size)
}

// decompressChdr inflates a SHF_COMPRESSED section whose payload starts
// with an Elf32_Chdr or Elf64_Chdr.
func decompressChdr(data []byte, class elf.Class, order binary.ByteOrder) ([]byte, error) {
	var (
		typ  elf.CompressionType
		size uint64
		hdr  int
	)
	switch class {
	case elf.ELFCLASS64:
		if len(data) < 24 {
			return nil, errors.New("short Elf64_Chdr")
		}
		typ = elf.CompressionType(order.Uint32(data[0:4]))
		size = order.Uint64(data[8:16])
		hdr = 24
	case elf.ELFCLASS32:
		if len(data) < 12 {
			return nil, errors.New("short Elf32_Chdr")
		}
		typ = elf.CompressionType(order.Uint32(data[0:4]))
		size = uint64(order.Uint32(data[4:8]))
		hdr = 12
	default:
		return nil, errors.Errorf("unknown ELF class %v", class)
	}
	if typ != elf.COMPRESS_ZLIB {
		return nil, errors.Errorf("unsupported compression type %v", typ)
	}
	return inflate(data[hdr:], size)
}

func inflate(data []byte, size uint64) ([]byte, error) {
	r, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrap(err, "open zlib stream")
	}
	defer r.Close()

	// cap the preallocation, the size field is untrusted
	hint := size
	if hint > 1<<26 {
		hint = 1 << 26
	}
	buf := bytes.NewBuffer(make([]byte, 0, hint))
	if _, err := io.Copy(buf, io.LimitReader(r, int64(size))); err != nil {
		return nil, errors.Wrap(err, "inflate section")
	}
	if uint64(buf.Len()) != size {
		return nil, errors.Errorf("inflated %d bytes, header says %d", buf.Len(), size)
	}
	return buf.Bytes(), nil
}
