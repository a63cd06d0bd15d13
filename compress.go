package ndpack

import (
	"archive/zip"
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/andybalholm/brotli"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// zipEntryName is the single entry of a ZIP-compressed payload.
const zipEntryName = "payload.msgpack"

// Function variables for testing injection.
var (
	newZstdWriter = func() (*zstd.Encoder, error) { return zstd.NewWriter(nil) }
	newZstdReader = func() (*zstd.Decoder, error) { return zstd.NewReader(nil) }
	zipCreate     = func(zw *zip.Writer, name string) (io.Writer, error) { return zw.Create(name) }
	zipClose      = func(zw *zip.Writer) error { return zw.Close() }
	lz4Close      = func(w *lz4.Writer) error { return w.Close() }
	brotliClose   = func(w *brotli.Writer) error { return w.Close() }
)

type compressor struct {
	compress   func(in []byte) ([]byte, error)
	decompress func(in []byte, expected uint64) ([]byte, error)
}

var compressors = map[Compression]compressor{
	CompZIP:  {zipCompress, zipDecompress},
	CompZSTD: {zstdCompress, zstdDecompress},
	CompLZ4:  {lz4Compress, lz4Decompress},
	CompBR:   {brotliCompress, brotliDecompress},
}

// compressPayload returns the envelope flags and stored payload for raw.
// Compressed payloads start with the 8-byte little-endian length of raw.
func compressPayload(comp Compression, raw []byte) (flags uint16, payload []byte, err error) {
	if comp == CompNone {
		return uint16(CompNone), raw, nil
	}
	cp, ok := compressors[comp]
	if !ok {
		return 0, nil, fmt.Errorf("%w: unknown compression %d", ErrInvalidPayload, comp)
	}
	compressed, err := cp.compress(raw)
	if err != nil {
		return 0, nil, err
	}
	payload = make([]byte, 8, 8+len(compressed))
	binary.LittleEndian.PutUint64(payload, uint64(len(raw)))
	payload = append(payload, compressed...)
	return uint16(comp) | flagHasUncompressedLen, payload, nil
}

// decompressPayload reverses compressPayload, refusing to produce more than
// maxUncompressed bytes.
func decompressPayload(h envelopeHeaderV1, payload []byte, maxUncompressed uint64) ([]byte, error) {
	comp := h.compression()
	if comp == CompNone {
		return payload, nil
	}
	cp, ok := compressors[comp]
	if !ok {
		return nil, fmt.Errorf("%w: unknown compression %d", ErrInvalidPayload, comp)
	}
	if len(payload) < 8 {
		return nil, fmt.Errorf("%w: payload too short for uncompressed length", ErrInvalidPayload)
	}
	want := binary.LittleEndian.Uint64(payload[:8])
	if want > maxUncompressed {
		return nil, fmt.Errorf("%w: uncompressed length %d", ErrLimitExceeded, want)
	}
	out, err := cp.decompress(payload[8:], want)
	if err != nil {
		return nil, err
	}
	if uint64(len(out)) != want {
		return nil, fmt.Errorf("%w: decompressed %d bytes, header says %d", ErrInvalidPayload, len(out), want)
	}
	return out, nil
}

func zipCompress(in []byte) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	entry, err := zipCreate(zw, zipEntryName)
	if err != nil {
		_ = zipClose(zw)
		return nil, err
	}
	if _, err := entry.Write(in); err != nil {
		_ = zipClose(zw)
		return nil, err
	}
	if err := zipClose(zw); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// zipDecompress requires exactly one regular entry named zipEntryName whose
// recorded size is expected.
func zipDecompress(in []byte, expected uint64) ([]byte, error) {
	zr, err := zip.NewReader(bytes.NewReader(in), int64(len(in)))
	if err != nil {
		return nil, err
	}
	if len(zr.File) != 1 {
		return nil, fmt.Errorf("%w: zip must contain exactly one entry", ErrInvalidPayload)
	}
	zf := zr.File[0]
	if zf.Name != zipEntryName || zf.FileInfo().IsDir() {
		return nil, fmt.Errorf("%w: zip entry must be a file named %s", ErrInvalidPayload, zipEntryName)
	}
	if zf.UncompressedSize64 != expected {
		return nil, fmt.Errorf("%w: zip entry size %d, header says %d", ErrInvalidPayload, zf.UncompressedSize64, expected)
	}
	rc, err := zf.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(io.LimitReader(rc, int64(expected)))
}

func zstdCompress(in []byte) ([]byte, error) {
	enc, err := newZstdWriter()
	if err != nil {
		return nil, err
	}
	defer enc.Close()
	return enc.EncodeAll(in, nil), nil
}

func zstdDecompress(in []byte, expected uint64) ([]byte, error) {
	dec, err := newZstdReader()
	if err != nil {
		return nil, err
	}
	defer dec.Close()
	out, err := dec.DecodeAll(in, nil)
	if err != nil {
		return nil, err
	}
	if uint64(len(out)) > expected {
		return nil, fmt.Errorf("%w: zstd expanded beyond expected size", ErrInvalidPayload)
	}
	return out, nil
}

func lz4Compress(in []byte) ([]byte, error) {
	var buf bytes.Buffer
	zw := lz4.NewWriter(&buf)
	if _, err := zw.Write(in); err != nil {
		_ = lz4Close(zw)
		return nil, err
	}
	if err := lz4Close(zw); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func lz4Decompress(in []byte, expected uint64) ([]byte, error) {
	return readLimited(lz4.NewReader(bytes.NewReader(in)), expected, "lz4")
}

func brotliCompress(in []byte) ([]byte, error) {
	var buf bytes.Buffer
	bw := brotli.NewWriter(&buf)
	if _, err := bw.Write(in); err != nil {
		_ = brotliClose(bw)
		return nil, err
	}
	if err := brotliClose(bw); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func brotliDecompress(in []byte, expected uint64) ([]byte, error) {
	return readLimited(brotli.NewReader(bytes.NewReader(in)), expected, "brotli")
}

// readLimited reads at most expected+1 bytes so that a stream expanding past
// its declared size is detected without reading it all.
func readLimited(r io.Reader, expected uint64, name string) ([]byte, error) {
	b, err := io.ReadAll(io.LimitReader(r, int64(expected)+1))
	if err != nil {
		return nil, err
	}
	if uint64(len(b)) > expected {
		return nil, fmt.Errorf("%w: %s expanded beyond expected size", ErrInvalidPayload, name)
	}
	return b, nil
}
