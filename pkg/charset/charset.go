// Package charset resolves IANA character set names and provides strict
// decoding: input bytes that are not valid in the configured encoding are
// rejected rather than replaced.
package charset

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/transform"
)

// ErrUnknown is returned by Lookup for names the IANA registry does not
// resolve to a usable encoding.
var ErrUnknown = errors.New("unknown encoding")

// Encoding pairs a resolved character encoding with its canonical name.
type Encoding struct {
	Name string

	enc    encoding.Encoding
	isUTF8 bool
}

// Lookup resolves an IANA character set name, accepting the registry's
// aliases in any case.
func Lookup(name string) (*Encoding, error) {
	trimmed := strings.TrimSpace(name)

	enc, err := ianaindex.IANA.Encoding(trimmed)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknown, name)
	}
	if enc == nil {
		// Registered by IANA but carries no decoder in x/text.
		return nil, fmt.Errorf("%w: %q is not supported", ErrUnknown, name)
	}

	canonical, err := ianaindex.IANA.Name(enc)
	if err != nil {
		canonical = trimmed
	}

	return &Encoding{
		Name:   canonical,
		enc:    enc,
		isUTF8: isUTF8Name(trimmed) || canonical == "UTF-8",
	}, nil
}

// isUTF8Name matches the registry's names for UTF-8 so its strict
// validation path is chosen regardless of how the index spells the
// resolved encoding.
func isUTF8Name(name string) bool {
	n := strings.ToLower(name)
	n = strings.ReplaceAll(n, "-", "")
	n = strings.ReplaceAll(n, "_", "")
	return n == "utf8" || n == "csutf8"
}

// Decode converts raw bytes to UTF-8, failing when the bytes are not a
// valid sequence in this encoding.
//
// The x/text decoders substitute U+FFFD for undecodable input instead of
// reporting an error, so strictness is enforced here: UTF-8 input is
// checked with utf8.Valid, and for other encodings a replacement rune in
// the decoded stream marks bytes outside the character set unless the
// decoded text re-encodes to exactly the input, as a replacement rune
// that was literal source content does.
func (e *Encoding) Decode(raw []byte) ([]byte, error) {
	if e.isUTF8 {
		if !utf8.Valid(raw) {
			return nil, fmt.Errorf("invalid UTF-8 byte sequence")
		}
		return raw, nil
	}

	decoded, _, err := transform.Bytes(e.enc.NewDecoder(), raw)
	if err != nil {
		return nil, fmt.Errorf("failed to decode as %s: %w", e.Name, err)
	}
	if bytes.ContainsRune(decoded, utf8.RuneError) && !e.encodesBackTo(decoded, raw) {
		return nil, fmt.Errorf("byte sequence not valid in %s", e.Name)
	}
	return decoded, nil
}

// encodesBackTo reports whether decoded re-encodes byte for byte to raw.
// A substituted replacement rune cannot reproduce the undecodable input
// it replaced, while one read from the source re-encodes to itself.
func (e *Encoding) encodesBackTo(decoded, raw []byte) bool {
	reencoded, _, err := transform.Bytes(e.enc.NewEncoder(), decoded)
	return err == nil && bytes.Equal(reencoded, raw)
}

// NewWriter wraps w so that UTF-8 text written to it is emitted in this
// encoding. The returned writer must be closed to flush transformer state.
func (e *Encoding) NewWriter(w io.Writer) io.WriteCloser {
	if e.isUTF8 {
		return nopWriteCloser{w}
	}
	return transform.NewWriter(w, e.enc.NewEncoder())
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }
