package huffzip

import (
	"fmt"
	"io"
	"log/slog"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultCacheSize is the number of CodeTables a Codec keeps by default.
const DefaultCacheSize = 16

// Config holds configuration for a Codec.
type Config struct {
	Logger    *slog.Logger // Progress logging (nil = discard)
	CacheSize int          // CodeTables cached by fingerprint (0 = no cache)
}

// Option is a functional option for configuring a Codec.
type Option func(*Config)

// WithLogger sets the logger that receives progress messages at Debug
// level.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Config) {
		c.Logger = logger
	}
}

// WithCacheSize sets how many CodeTables DecompressFile keeps, keyed by
// fingerprint.  A size of 0 or less disables the cache.
func WithCacheSize(size int) Option {
	return func(c *Config) {
		c.CacheSize = size
	}
}

// Codec compresses and decompresses byte buffers.  Every call builds its own
// FrequencyTable, Tree and CodeTable; the only state a Codec keeps between
// calls is its CodeTable cache.  A Codec is safe for concurrent use.
type Codec struct {
	logger *slog.Logger
	cache  *lru.Cache[uint64, *CodeTable]
}

// New returns a Codec configured by opts.
func New(opts ...Option) *Codec {
	cfg := Config{CacheSize: DefaultCacheSize}
	for _, opt := range opts {
		opt(&cfg)
	}

	c := &Codec{logger: cfg.Logger}
	if c.logger == nil {
		c.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if cfg.CacheSize > 0 {
		cache, err := lru.New[uint64, *CodeTable](cfg.CacheSize)
		if err != nil {
			panic(err)
		}
		c.cache = cache
	}
	return c
}

// Compress compresses data into a packed artifact:
//
//     [1 byte: padding count p, 0..7] [packed code bits, MSB first, last p bits zero]
//
// It also returns the CodeTable that Decompress needs, since the artifact
// does not carry one.  Empty input yields the single byte 0x00 and an empty
// CodeTable.
//
func (c *Codec) Compress(data []byte) ([]byte, *CodeTable, error) {
	ft := CountFrequencies(data)
	c.logger.Debug("frequency table built", "length", ft.Total(), "distinct", ft.Len())

	ct, err := c.codeTable(ft)
	if err != nil {
		return nil, nil, err
	}

	bs, err := Encode(data, ct)
	if err != nil {
		return nil, nil, err
	}
	c.logger.Debug("input encoded", "bits", bs.Len())

	padded, err := Pad(bs)
	if err != nil {
		return nil, nil, err
	}
	c.logger.Debug("encoded bits padded", "bits", padded.Len(), "padding", Padding(bs.Len()))

	return Pack(padded), ct, nil
}

// Decompress reverses Compress.  ct must be the CodeTable Compress returned
// for the same data.  Decompress returns a CorruptStreamError if the
// artifact is malformed, truncated, or does not decode to exactly the
// number of symbols ct was built from.
func (c *Codec) Decompress(packed []byte, ct *CodeTable) ([]byte, error) {
	if ct == nil {
		return nil, ErrNoCodeTable
	}

	bs := Unpack(packed)
	c.logger.Debug("packed artifact read", "bits", bs.Len())

	encoded, err := RemovePadding(bs)
	if err != nil {
		return nil, err
	}

	out, err := Decode(encoded, ct)
	if err != nil {
		return nil, err
	}

	if expect := ct.Frequencies().Total(); uint64(len(out)) != expect {
		return nil, CorruptStreamError{
			Offset: encoded.Len(),
			Reason: fmt.Sprintf("decoded %d symbols, expected %d", len(out), expect),
		}
	}
	c.logger.Debug("stream decoded", "length", len(out))
	return out, nil
}

func (c *Codec) codeTable(ft FrequencyTable) (*CodeTable, error) {
	ct, err := NewCodeTable(ft)
	if err != nil {
		return nil, err
	}
	c.logger.Debug("huffman codes generated", "codes", ct.Len(), "minSize", ct.MinSize(), "maxSize", ct.MaxSize())
	if c.cache != nil {
		c.cache.Add(ct.Fingerprint(), ct)
	}
	return ct, nil
}

var defaultCodec = New(WithCacheSize(0))

// Compress compresses data with a default Codec.  See Codec.Compress.
func Compress(data []byte) ([]byte, *CodeTable, error) {
	return defaultCodec.Compress(data)
}

// Decompress decompresses packed with a default Codec.  See
// Codec.Decompress.
func Decompress(packed []byte, ct *CodeTable) ([]byte, error) {
	return defaultCodec.Decompress(packed, ct)
}
