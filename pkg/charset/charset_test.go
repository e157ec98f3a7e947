package charset

import (
	"bytes"
	"errors"
	"testing"
)

func TestLookup(t *testing.T) {
	for _, name := range []string{"utf-8", "UTF-8", "ISO-8859-1", "windows-1252"} {
		if _, err := Lookup(name); err != nil {
			t.Errorf("Lookup(%q): %v", name, err)
		}
	}

	enc, err := Lookup("utf-8")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if enc.Name != "UTF-8" {
		t.Fatalf("canonical name=%q, want UTF-8", enc.Name)
	}
}

func TestLookup_UnknownName(t *testing.T) {
	_, err := Lookup("no-such-charset")
	if err == nil {
		t.Fatal("expected an error")
	}
	if !errors.Is(err, ErrUnknown) {
		t.Fatalf("error should wrap ErrUnknown, got %v", err)
	}
}

func TestDecode_UTF8(t *testing.T) {
	enc, err := Lookup("utf-8")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}

	valid := []byte("héllo, 世界")
	got, err := enc.Decode(valid)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !bytes.Equal(got, valid) {
		t.Fatalf("got %q, want %q", got, valid)
	}

	if _, err := enc.Decode([]byte{0x68, 0xff, 0x69}); err == nil {
		t.Fatal("invalid UTF-8 must not decode")
	}
}

func TestDecode_Latin1AcceptsAnyByte(t *testing.T) {
	enc, err := Lookup("ISO-8859-1")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	raw := []byte{0x41, 0xe9, 0xff, 0x0a}
	if _, err := enc.Decode(raw); err != nil {
		t.Fatalf("ISO-8859-1 maps every byte, Decode failed: %v", err)
	}
}

func TestDecode_Windows1252RejectsUndefinedBytes(t *testing.T) {
	enc, err := Lookup("windows-1252")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	// 0x81 has no assignment in windows-1252.
	if _, err := enc.Decode([]byte{0x41, 0x81}); err == nil {
		t.Fatal("undefined byte must not decode")
	}
}

func TestDecode_UTF16LiteralReplacementRune(t *testing.T) {
	enc, err := Lookup("utf-16le")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}

	// "A�B" in UTF-16LE; the replacement rune is source content
	// here, not a substitution for bad bytes.
	raw := []byte{0x41, 0x00, 0xfd, 0xff, 0x42, 0x00}
	got, err := enc.Decode(raw)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if string(got) != "A�B" {
		t.Fatalf("got %q, want %q", got, "A�B")
	}
}

func TestDecode_UTF16RejectsLoneSurrogate(t *testing.T) {
	enc, err := Lookup("utf-16le")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if _, err := enc.Decode([]byte{0x41, 0x00, 0x00, 0xd8}); err == nil {
		t.Fatal("a lone surrogate must not decode")
	}
}

func TestNewWriter_RoundTrip(t *testing.T) {
	enc, err := Lookup("ISO-8859-1")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}

	raw := []byte{0x63, 0xe9, 0x20, 0x41}
	decoded, err := enc.Decode(raw)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	var buf bytes.Buffer
	w := enc.NewWriter(&buf)
	if _, err := w.Write(decoded); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if !bytes.Equal(buf.Bytes(), raw) {
		t.Fatalf("round trip changed bytes: got %v, want %v", buf.Bytes(), raw)
	}
}

func TestNewWriter_UTF8Passthrough(t *testing.T) {
	enc, err := Lookup("utf-8")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}

	var buf bytes.Buffer
	w := enc.NewWriter(&buf)
	text := []byte("héllo, 世界\n")
	if _, err := w.Write(text); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if !bytes.Equal(buf.Bytes(), text) {
		t.Fatalf("got %q, want %q", buf.Bytes(), text)
	}
}
