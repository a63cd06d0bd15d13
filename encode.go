package ndpack

import (
	"fmt"
	"io"
)

// Encode packs v and writes it to w as an envelope: a 24-byte header
// followed by the msgpack payload, optionally compressed.
//
// By default the payload is Zstandard-compressed and packed with a Codec
// for the native byte order. Use WithCompression and WithWriteCodec to
// change that.
func Encode(w io.Writer, v Value, opts ...WriteOption) error {
	cfg := writeConfig{compression: CompZSTD}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.codec == nil {
		cfg.codec = New()
	}

	raw, err := cfg.codec.Pack(v)
	if err != nil {
		return err
	}
	flags, payload, err := compressPayload(cfg.compression, raw)
	if err != nil {
		return err
	}
	if uint64(len(raw)) > cfg.codec.limits.MaxUncompressed || uint64(len(payload)) > cfg.codec.limits.MaxPayloadLen {
		return fmt.Errorf("%w: payload of %d bytes", ErrLimitExceeded, len(raw))
	}

	h := envelopeHeaderV1{
		Magic:      Magic,
		Version:    VersionV1,
		Flags:      flags,
		PayloadLen: uint64(len(payload)),
	}
	if err := writeEnvelopeHeader(w, h); err != nil {
		return err
	}
	_, err = w.Write(payload)
	return err
}
