package codec

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/kamal-hamza/pixelshare/internal/core/domain"
)

const (
	dataScheme   = "data:"
	base64Marker = ";base64,"
)

// DataURLCodec encodes images as base64 data URLs (data:<mime>;base64,<payload>).
// The mime type travels inside the text so decoding needs no side channel.
type DataURLCodec struct{}

func NewDataURLCodec() *DataURLCodec {
	return &DataURLCodec{}
}

// Encode streams the asset source through a base64 encoder.
// It never fails on content; only a broken source produces an EncodeError.
func (c *DataURLCodec) Encode(ctx context.Context, asset domain.ImageAsset) (domain.EncodedImage, error) {
	if asset.Source == nil {
		return "", &domain.EncodeError{Err: errors.New("image has no byte source")}
	}

	mimeType := asset.MimeType
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}

	var sb strings.Builder
	sb.WriteString(dataScheme)
	sb.WriteString(mimeType)
	sb.WriteString(base64Marker)

	enc := base64.NewEncoder(base64.StdEncoding, &sb)
	if _, err := io.Copy(enc, &ctxReader{ctx: ctx, r: asset.Source}); err != nil {
		return "", &domain.EncodeError{Err: fmt.Errorf("failed to read image: %w", err)}
	}
	if err := enc.Close(); err != nil {
		return "", &domain.EncodeError{Err: err}
	}

	return domain.EncodedImage(sb.String()), nil
}

// Decode parses a data URL produced by Encode
func (c *DataURLCodec) Decode(text domain.EncodedImage) (domain.DecodedImage, error) {
	s := string(text)
	if !strings.HasPrefix(s, dataScheme) {
		return domain.DecodedImage{}, &domain.DecodeError{Reason: "missing data: scheme"}
	}

	idx := strings.Index(s, base64Marker)
	if idx < 0 {
		return domain.DecodedImage{}, &domain.DecodeError{Reason: "missing base64 marker"}
	}

	mimeType := s[len(dataScheme):idx]
	if mimeType == "" {
		return domain.DecodedImage{}, &domain.DecodeError{Reason: "missing mime type"}
	}

	data, err := base64.StdEncoding.DecodeString(s[idx+len(base64Marker):])
	if err != nil {
		return domain.DecodedImage{}, &domain.DecodeError{Reason: "invalid base64 payload", Err: err}
	}

	return domain.DecodedImage{MimeType: mimeType, Data: data}, nil
}

// ctxReader stops a long copy once the context is done
type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (c *ctxReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}
