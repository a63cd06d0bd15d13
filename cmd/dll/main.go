// Package main provides C-compatible exports for the ndpack library.
// Build with: go build -buildmode=c-shared -o ndpack.dll
package main

/*
#include <stdlib.h>
#include <stdint.h>

// Result structure for operations that return data
typedef struct {
    char* data;
    int   data_len;
    char* error;
} NdpackResult;
*/
import "C"

import (
	"bytes"
	"encoding/json"
	"unsafe"

	"github.com/logicossoftware/go-ndpack"
	"github.com/logicossoftware/go-ndpack/internal/summary"
)

func main() {}

// NdpackVersion returns the envelope format version supported by this library.
//
//export NdpackVersion
func NdpackVersion() C.uint16_t {
	return C.uint16_t(ndpack.VersionV1)
}

// NdpackFreeResult frees memory allocated by other Ndpack functions.
// Must be called to avoid memory leaks.
//
//export NdpackFreeResult
func NdpackFreeResult(result C.NdpackResult) {
	if result.data != nil {
		C.free(unsafe.Pointer(result.data))
	}
	if result.error != nil {
		C.free(unsafe.Pointer(result.error))
	}
}

// NdpackFreeString frees a C string allocated by Go.
//
//export NdpackFreeString
func NdpackFreeString(s *C.char) {
	if s != nil {
		C.free(unsafe.Pointer(s))
	}
}

func makeResult(data []byte) C.NdpackResult {
	var result C.NdpackResult
	if len(data) > 0 {
		result.data = (*C.char)(C.CBytes(data))
		result.data_len = C.int(len(data))
	}
	return result
}

func makeError(err error) C.NdpackResult {
	var result C.NdpackResult
	result.error = C.CString(err.Error())
	return result
}

// decodeInput reads either an envelope or bare msgpack.
func decodeInput(data *C.char, dataLen C.int, envelope C.int) (ndpack.Value, error) {
	goData := C.GoBytes(unsafe.Pointer(data), dataLen)
	if envelope != 0 {
		return ndpack.Decode(bytes.NewReader(goData))
	}
	return ndpack.Unpack(goData)
}

// NdpackInspect decodes a document and returns a JSON report listing every
// array with its dtype, shape, byte size and BLAKE3 digest, plus the decoded
// tree with arrays summarised.
// Parameters:
//   - data: pointer to the document bytes
//   - dataLen: length of the data
//   - envelope: non-zero if the bytes are an envelope, zero for bare msgpack
//
// Returns NdpackResult with the JSON report or error. Call NdpackFreeResult when done.
//
//export NdpackInspect
func NdpackInspect(data *C.char, dataLen C.int, envelope C.int) C.NdpackResult {
	var warnings []string
	c := ndpack.New(ndpack.WithWarningHandler(func(w ndpack.Warning) {
		warnings = append(warnings, w.String())
	}))
	goData := C.GoBytes(unsafe.Pointer(data), dataLen)

	var v ndpack.Value
	var err error
	if envelope != 0 {
		v, err = ndpack.Decode(bytes.NewReader(goData), ndpack.WithReadCodec(c))
	} else {
		v, err = c.Unpack(goData)
	}
	if err != nil {
		return makeError(err)
	}

	arrays, err := summary.Arrays(c, v)
	if err != nil {
		return makeError(err)
	}
	report := summary.Report{Arrays: arrays, Warnings: warnings, Tree: summary.Plain(v)}
	jsonBytes, err := json.Marshal(report)
	if err != nil {
		return makeError(err)
	}
	return makeResult(jsonBytes)
}

// NdpackWrap packs bare msgpack into an envelope.
// Parameters:
//   - data: pointer to msgpack bytes
//   - dataLen: length of the data
//   - compression: compression algorithm (0=None, 1=ZIP, 2=ZSTD, 3=LZ4, 4=Brotli)
//
// Returns NdpackResult with the envelope or error. Call NdpackFreeResult when done.
//
//export NdpackWrap
func NdpackWrap(data *C.char, dataLen C.int, compression C.uint16_t) C.NdpackResult {
	v, err := decodeInput(data, dataLen, 0)
	if err != nil {
		return makeError(err)
	}
	var buf bytes.Buffer
	if err := ndpack.Encode(&buf, v, ndpack.WithCompression(ndpack.Compression(compression))); err != nil {
		return makeError(err)
	}
	return makeResult(buf.Bytes())
}

// NdpackUnwrap extracts the bare msgpack document from an envelope.
//
// Returns NdpackResult with msgpack bytes or error. Call NdpackFreeResult when done.
//
//export NdpackUnwrap
func NdpackUnwrap(data *C.char, dataLen C.int) C.NdpackResult {
	v, err := decodeInput(data, dataLen, 1)
	if err != nil {
		return makeError(err)
	}
	out, err := ndpack.Pack(v)
	if err != nil {
		return makeError(err)
	}
	return makeResult(out)
}

// NdpackValidate fully decodes a document, checking every array.
// Returns NULL on success, or an error message string on failure.
// Call NdpackFreeString on the result if non-NULL.
//
//export NdpackValidate
func NdpackValidate(data *C.char, dataLen C.int, envelope C.int) *C.char {
	if _, err := decodeInput(data, dataLen, envelope); err != nil {
		return C.CString(err.Error())
	}
	return nil
}

// NdpackArrayCount returns the number of arrays in a document.
// Returns -1 on error.
//
//export NdpackArrayCount
func NdpackArrayCount(data *C.char, dataLen C.int, envelope C.int) C.int {
	v, err := decodeInput(data, dataLen, envelope)
	if err != nil {
		return -1
	}
	arrays, err := summary.Arrays(ndpack.New(), v)
	if err != nil {
		return -1
	}
	return C.int(len(arrays))
}
