package ndpack

// Option configures a Codec.
type Option func(*Codec)

// WithHostEndianness makes the codec behave as if running on a host with
// the given byte order. Only LittleEndian and BigEndian are meaningful.
func WithHostEndianness(e Endianness) Option {
	return func(c *Codec) { c.host = e }
}

func WithLimits(l Limits) Option {
	return func(c *Codec) { c.limits = l }
}

func WithLogger(l Logger) Option {
	return func(c *Codec) { c.logger = l }
}

// WithWarningHandler registers fn to receive every Warning produced while
// unpacking, in addition to it being logged.
func WithWarningHandler(fn func(Warning)) Option {
	return func(c *Codec) { c.onWarning = fn }
}

func WithRegistry(r *Registry) Option {
	return func(c *Codec) { c.registry = r }
}

type readConfig struct {
	codec  *Codec
	limits *Limits
}

type ReadOption func(*readConfig)

// WithReadCodec decodes the envelope payload with c instead of a default
// codec.
func WithReadCodec(c *Codec) ReadOption {
	return func(rc *readConfig) { rc.codec = c }
}

// WithReadLimits overrides the limits of the codec used for decoding.
func WithReadLimits(l Limits) ReadOption {
	return func(rc *readConfig) { rc.limits = &l }
}

type writeConfig struct {
	codec       *Codec
	compression Compression
}

type WriteOption func(*writeConfig)

func WithWriteCodec(c *Codec) WriteOption {
	return func(wc *writeConfig) { wc.codec = c }
}

func WithCompression(comp Compression) WriteOption {
	return func(wc *writeConfig) { wc.compression = comp }
}
