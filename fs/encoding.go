package fs

import (
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"

	"github.com/input-output-hk/catalyst-forge-libs/gitshim/errors"
)

// Encoding names a text encoding for ReadFile and WriteFile.
type Encoding string

// Supported encodings. Common aliases ("utf-8", "binary", "ucs2", ...) are
// accepted and normalized.
const (
	EncodingUTF8    Encoding = "utf8"
	EncodingLatin1  Encoding = "latin1"
	EncodingUTF16LE Encoding = "utf16le"
	EncodingHex     Encoding = "hex"
	EncodingBase64  Encoding = "base64"
)

// Normalize returns the canonical name, or "" for raw bytes.
func (e Encoding) Normalize() (Encoding, error) {
	switch strings.ToLower(string(e)) {
	case "", "buffer":
		return "", nil
	case "utf8", "utf-8":
		return EncodingUTF8, nil
	case "latin1", "binary", "iso-8859-1":
		return EncodingLatin1, nil
	case "utf16le", "utf-16le", "ucs2", "ucs-2":
		return EncodingUTF16LE, nil
	case "hex":
		return EncodingHex, nil
	case "base64":
		return EncodingBase64, nil
	default:
		return "", fmt.Errorf("%w: unknown encoding %q", errors.ErrInvalidArgument, string(e))
	}
}

func textEncoding(e Encoding) encoding.Encoding {
	switch e {
	case EncodingLatin1:
		return charmap.ISO8859_1
	case EncodingUTF16LE:
		return unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)
	default:
		return unicode.UTF8
	}
}

// decode turns raw file bytes into text. Invalid input is replaced, never rejected.
func decode(data []byte, e Encoding) (string, error) {
	switch e {
	case EncodingHex:
		return hex.EncodeToString(data), nil
	case EncodingBase64:
		return base64.StdEncoding.EncodeToString(data), nil
	}
	out, err := textEncoding(e).NewDecoder().Bytes(data)
	if err != nil {
		return "", fmt.Errorf("decode %s: %w", e, err)
	}
	return string(out), nil
}

// encode turns text into the bytes written to disk.
func encode(s string, e Encoding) ([]byte, error) {
	switch e {
	case EncodingHex:
		b, err := hex.DecodeString(s)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid hex data: %v", errors.ErrInvalidArgument, err)
		}
		return b, nil
	case EncodingBase64:
		b, err := base64.StdEncoding.DecodeString(s)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid base64 data: %v", errors.ErrInvalidArgument, err)
		}
		return b, nil
	case "", EncodingUTF8:
		return []byte(s), nil
	}
	out, err := encoding.ReplaceUnsupported(textEncoding(e).NewEncoder()).Bytes([]byte(s))
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", e, err)
	}
	return out, nil
}

// Content is the result of ReadFile: the raw bytes, plus decoded text when an
// encoding was requested.
type Content struct {
	data     []byte
	text     string
	encoding Encoding
}

// Bytes returns the raw file bytes.
func (c Content) Bytes() []byte {
	return c.data
}

// Text returns the decoded text and whether an encoding was applied.
func (c Content) Text() (string, bool) {
	return c.text, c.encoding != ""
}

// Encoding returns the encoding that was applied, or "" for raw bytes.
func (c Content) Encoding() Encoding {
	return c.encoding
}

// String returns the decoded text, or the raw bytes as a string.
func (c Content) String() string {
	if c.encoding != "" {
		return c.text
	}
	return string(c.data)
}

func newContent(data []byte, enc Encoding) (Content, error) {
	enc, err := enc.Normalize()
	if err != nil {
		return Content{}, err
	}
	if enc == "" {
		return Content{data: data}, nil
	}
	text, err := decode(data, enc)
	if err != nil {
		return Content{}, err
	}
	return Content{data: data, text: text, encoding: enc}, nil
}

// payload converts WriteFile data into bytes. Strings follow the encoding;
// binary data is written verbatim.
func payload(data any, enc Encoding) ([]byte, error) {
	enc, err := enc.Normalize()
	if err != nil {
		return nil, err
	}
	switch d := data.(type) {
	case []byte:
		return d, nil
	case string:
		return encode(d, enc)
	case Content:
		return d.Bytes(), nil
	case nil:
		return nil, nil
	default:
		return nil, fmt.Errorf("%w: data has unsupported type %T", errors.ErrInvalidArgument, data)
	}
}
