package ndpack

const (
	VersionV1 uint16 = 1

	envelopeHeaderSizeV1 = 24
)

// Magic is the 8-byte envelope signature.
var Magic = [8]byte{'N', 'D', 'M', 'P', '\r', '\n', 0x1A, '\n'}

type Compression uint16

const (
	CompNone Compression = 0x0
	CompZIP  Compression = 0x1
	CompZSTD Compression = 0x2
	CompLZ4  Compression = 0x3
	CompBR   Compression = 0x4
)

func (c Compression) String() string {
	switch c {
	case CompNone:
		return "none"
	case CompZIP:
		return "zip"
	case CompZSTD:
		return "zstd"
	case CompLZ4:
		return "lz4"
	case CompBR:
		return "brotli"
	default:
		return "unknown"
	}
}

// ParseCompression is the inverse of Compression.String.
func ParseCompression(s string) (Compression, bool) {
	for _, c := range []Compression{CompNone, CompZIP, CompZSTD, CompLZ4, CompBR} {
		if c.String() == s {
			return c, true
		}
	}
	return 0, false
}

const (
	flagCompressionMask    uint16 = 0x000F
	flagHasUncompressedLen uint16 = 0x0010
)
