package ndpack

import (
	"archive/zip"
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"io/fs"
	"testing"

	"github.com/andybalholm/brotli"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

func zipWith(t *testing.T, build func(zw *zip.Writer)) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	build(zw)
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestZIPDecompressErrors(t *testing.T) {
	// Multi-entry
	multi := zipWith(t, func(zw *zip.Writer) {
		_, _ = zw.Create(zipEntryName)
		_, _ = zw.Create("extra")
	})
	if _, err := zipDecompress(multi, 0); !errors.Is(err, ErrInvalidPayload) {
		t.Fatalf("multi entry: got %v", err)
	}

	// Wrong name
	named := zipWith(t, func(zw *zip.Writer) {
		w, _ := zw.Create("nope")
		_, _ = w.Write([]byte("abc"))
	})
	if _, err := zipDecompress(named, 3); !errors.Is(err, ErrInvalidPayload) {
		t.Fatalf("wrong name: got %v", err)
	}

	// Size mismatch
	sized := zipWith(t, func(zw *zip.Writer) {
		w, _ := zw.Create(zipEntryName)
		_, _ = w.Write([]byte("abcd"))
	})
	if _, err := zipDecompress(sized, 3); !errors.Is(err, ErrInvalidPayload) {
		t.Fatalf("size mismatch: got %v", err)
	}

	// Entry is a directory
	dir := zipWith(t, func(zw *zip.Writer) {
		h := &zip.FileHeader{Name: zipEntryName}
		h.SetMode(fs.ModeDir | 0o755)
		_, _ = zw.CreateHeader(h)
	})
	if _, err := zipDecompress(dir, 0); !errors.Is(err, ErrInvalidPayload) {
		t.Fatalf("directory entry: got %v", err)
	}

	// Not an archive
	if _, err := zipDecompress([]byte("not a zip"), 9); err == nil {
		t.Fatal("expected error")
	}
}

func TestCompressRoundTrip(t *testing.T) {
	in := bytes.Repeat([]byte{0x84, 0xc4, 0x02, 'n', 'd', 0xc3}, 500)
	for comp, cp := range compressors {
		t.Run(comp.String(), func(t *testing.T) {
			c, err := cp.compress(in)
			if err != nil {
				t.Fatal(err)
			}
			out, err := cp.decompress(c, uint64(len(in)))
			if err != nil {
				t.Fatal(err)
			}
			if !bytes.Equal(out, in) {
				t.Fatal("round trip mismatch")
			}
		})
	}
}

func TestDecompressionExpansionGuards(t *testing.T) {
	in := []byte("hello world")

	zst, err := zstdCompress(in)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := zstdDecompress(zst, 1); !errors.Is(err, ErrInvalidPayload) {
		t.Fatalf("zstd: got %v", err)
	}

	lz, err := lz4Compress(in)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := lz4Decompress(lz, 1); !errors.Is(err, ErrInvalidPayload) {
		t.Fatalf("lz4: got %v", err)
	}

	br, err := brotliCompress(in)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := brotliDecompress(br, 1); !errors.Is(err, ErrInvalidPayload) {
		t.Fatalf("brotli: got %v", err)
	}
}

func TestCompressionWrappers_ReturnErrors(t *testing.T) {
	origCreate := zipCreate
	zipCreate = func(_ *zip.Writer, _ string) (io.Writer, error) { return nil, io.ErrClosedPipe }
	_, err := zipCompress([]byte("x"))
	zipCreate = origCreate
	if err == nil {
		t.Fatal("zip create: expected error")
	}

	origZipClose := zipClose
	zipClose = func(_ *zip.Writer) error { return io.ErrClosedPipe }
	_, err = zipCompress([]byte("x"))
	zipClose = origZipClose
	if err == nil {
		t.Fatal("zip close: expected error")
	}

	origLZ4Close := lz4Close
	lz4Close = func(_ *lz4.Writer) error { return io.ErrClosedPipe }
	_, err = lz4Compress([]byte("x"))
	lz4Close = origLZ4Close
	if err == nil {
		t.Fatal("lz4 close: expected error")
	}

	origBrotliClose := brotliClose
	brotliClose = func(_ *brotli.Writer) error { return io.ErrClosedPipe }
	_, err = brotliCompress([]byte("x"))
	brotliClose = origBrotliClose
	if err == nil {
		t.Fatal("brotli close: expected error")
	}
}

func TestZstdConstructorInjection(t *testing.T) {
	origW, origR := newZstdWriter, newZstdReader
	defer func() { newZstdWriter, newZstdReader = origW, origR }()

	newZstdWriter = func() (*zstd.Encoder, error) { return nil, io.ErrClosedPipe }
	if _, err := zstdCompress([]byte("x")); !errors.Is(err, io.ErrClosedPipe) {
		t.Fatalf("writer: got %v", err)
	}
	newZstdReader = func() (*zstd.Decoder, error) { return nil, io.ErrClosedPipe }
	if _, err := zstdDecompress([]byte("x"), 1); !errors.Is(err, io.ErrClosedPipe) {
		t.Fatalf("reader: got %v", err)
	}
}

func TestDecompressionCorruptStreams(t *testing.T) {
	if _, err := zstdDecompress([]byte("notzstd"), 100); err == nil {
		t.Fatal("zstd: expected error")
	}
	if _, err := lz4Decompress([]byte("notlz4"), 100); err == nil {
		t.Fatal("lz4: expected error")
	}
	if _, err := brotliDecompress([]byte("notbr"), 100); err == nil {
		t.Fatal("brotli: expected error")
	}
}

func TestCompressPayload(t *testing.T) {
	raw := []byte("payload bytes")

	flags, payload, err := compressPayload(CompNone, raw)
	if err != nil {
		t.Fatal(err)
	}
	if flags != 0 || !bytes.Equal(payload, raw) {
		t.Fatalf("none: flags=%#x payload=%q", flags, payload)
	}

	flags, payload, err = compressPayload(CompLZ4, raw)
	if err != nil {
		t.Fatal(err)
	}
	if flags != uint16(CompLZ4)|flagHasUncompressedLen {
		t.Fatalf("lz4: flags=%#x", flags)
	}
	if got := binary.LittleEndian.Uint64(payload[:8]); got != uint64(len(raw)) {
		t.Fatalf("length prefix %d", got)
	}

	if _, _, err := compressPayload(Compression(9), raw); !errors.Is(err, ErrInvalidPayload) {
		t.Fatalf("unknown: got %v", err)
	}
}

func TestDecompressPayloadErrors(t *testing.T) {
	h := envelopeHeaderV1{Flags: uint16(CompZSTD) | flagHasUncompressedLen}

	if _, err := decompressPayload(h, []byte{1, 2, 3}, 100); !errors.Is(err, ErrInvalidPayload) {
		t.Fatalf("short: got %v", err)
	}

	_, payload, err := compressPayload(CompZSTD, []byte("abc"))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := decompressPayload(h, payload, 2); !errors.Is(err, ErrLimitExceeded) {
		t.Fatalf("limit: got %v", err)
	}

	// Declared length larger than the stream.
	binary.LittleEndian.PutUint64(payload[:8], 10)
	if _, err := decompressPayload(h, payload, 100); !errors.Is(err, ErrInvalidPayload) {
		t.Fatalf("mismatch: got %v", err)
	}

	bad := envelopeHeaderV1{Flags: 0x7 | flagHasUncompressedLen}
	if _, err := decompressPayload(bad, make([]byte, 16), 100); !errors.Is(err, ErrInvalidPayload) {
		t.Fatalf("unknown compression: got %v", err)
	}
}
