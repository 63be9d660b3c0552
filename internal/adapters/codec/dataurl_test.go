package codec

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/kamal-hamza/pixelshare/internal/core/domain"
)

var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

func encode(t *testing.T, data []byte, mime string) domain.EncodedImage {
	t.Helper()
	c := NewDataURLCodec()
	text, err := c.Encode(context.Background(), domain.ImageAsset{
		FileName: "img",
		MimeType: mime,
		Source:   bytes.NewReader(data),
	})
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	return text
}

func TestDataURLCodec_RoundTrip(t *testing.T) {
	large := make([]byte, 3*1024*1024+7)
	for i := range large {
		large[i] = byte(i * 31)
	}

	tests := []struct {
		name string
		data []byte
		mime string
	}{
		{"png header", pngHeader, "image/png"},
		{"empty", []byte{}, "image/gif"},
		{"single byte", []byte{0}, "image/jpeg"},
		{"all byte values", func() []byte {
			b := make([]byte, 256)
			for i := range b {
				b[i] = byte(i)
			}
			return b
		}(), "image/webp"},
		{"large", large, "image/png"},
	}

	c := NewDataURLCodec()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text := encode(t, tt.data, tt.mime)

			decoded, err := c.Decode(text)
			if err != nil {
				t.Fatalf("Decode failed: %v", err)
			}
			if decoded.MimeType != tt.mime {
				t.Errorf("mime: expected %q, got %q", tt.mime, decoded.MimeType)
			}
			if !bytes.Equal(decoded.Data, tt.data) {
				t.Errorf("data mismatch: expected %d bytes, got %d", len(tt.data), len(decoded.Data))
			}
		})
	}
}

func TestDataURLCodec_EncodeFormat(t *testing.T) {
	text := encode(t, []byte("hi"), "image/png")
	if string(text) != "data:image/png;base64,aGk=" {
		t.Errorf("unexpected encoding: %s", text)
	}
}

func TestDataURLCodec_EncodeIsDeterministic(t *testing.T) {
	a := encode(t, pngHeader, "image/png")
	b := encode(t, pngHeader, "image/png")
	if a != b {
		t.Error("expected identical encodings for identical input")
	}
}

type brokenReader struct{}

func (brokenReader) Read(p []byte) (int, error) { return 0, errors.New("device gone") }

func TestDataURLCodec_EncodeBrokenSource(t *testing.T) {
	c := NewDataURLCodec()
	_, err := c.Encode(context.Background(), domain.ImageAsset{MimeType: "image/png", Source: brokenReader{}})

	var encErr *domain.EncodeError
	if !errors.As(err, &encErr) {
		t.Fatalf("expected EncodeError, got %v", err)
	}
}

func TestDataURLCodec_EncodeNilSource(t *testing.T) {
	c := NewDataURLCodec()
	_, err := c.Encode(context.Background(), domain.ImageAsset{MimeType: "image/png"})

	var encErr *domain.EncodeError
	if !errors.As(err, &encErr) {
		t.Fatalf("expected EncodeError, got %v", err)
	}
}

func TestDataURLCodec_EncodeCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := NewDataURLCodec()
	_, err := c.Encode(ctx, domain.ImageAsset{MimeType: "image/png", Source: bytes.NewReader(pngHeader)})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestDataURLCodec_DecodeMalformed(t *testing.T) {
	inputs := []string{
		"",
		"not a data url",
		"data:image/png,aGk=",
		"data:;base64,aGk=",
		"data:image/png;base64,***",
		strings.Repeat("x", 64),
	}

	c := NewDataURLCodec()
	for _, in := range inputs {
		_, err := c.Decode(domain.EncodedImage(in))
		var decErr *domain.DecodeError
		if !errors.As(err, &decErr) {
			t.Errorf("Decode(%q): expected DecodeError, got %v", in, err)
		}
	}
}
