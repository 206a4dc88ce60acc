package beanio

import (
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

// charsetRegistry maps a StreamConfig.Encoding name to a golang.org/x/text
// encoding.Encoding (§4.4's charset transcoding hook, grounded on
// joshuapare-hivekit's use of golang.org/x/text/encoding/charmap for legacy
// partner-feed text encodings).
var charsetRegistry = map[string]encoding.Encoding{
	"":            unicode.UTF8,
	"UTF-8":       unicode.UTF8,
	"ISO-8859-1":  charmap.ISO8859_1,
	"windows-1252": charmap.Windows1252,
	"windows-1251": charmap.Windows1251,
	"IBM037":      charmap.CodePage037,
	"IBM437":      charmap.CodePage437,
}

func resolveEncoding(name string) (encoding.Encoding, error) {
	enc, ok := charsetRegistry[name]
	if !ok {
		return nil, ErrMalformedMapping.New("unknown encoding: " + name)
	}
	return enc, nil
}

// decodeCharset transcodes raw bytes in enc into a UTF-8 Go string. A nil enc
// (or UTF-8) is treated as already UTF-8.
func decodeCharset(enc encoding.Encoding, raw []byte) (string, error) {
	if enc == nil {
		return string(raw), nil
	}
	out, err := enc.NewDecoder().Bytes(raw)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// encodeCharset is the write-side symmetric transcoding from a UTF-8 Go
// string back into enc's byte representation.
func encodeCharset(enc encoding.Encoding, text string) ([]byte, error) {
	if enc == nil {
		return []byte(text), nil
	}
	return enc.NewEncoder().Bytes([]byte(text))
}
