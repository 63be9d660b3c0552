package domain

import (
	"io"
	"strings"
)

// FileCandidate is what an external file picker hands to the share flow
type FileCandidate struct {
	Name        string    // Original file name (e.g. holiday.png)
	ContentType string    // Declared content type (e.g. image/png)
	Source      io.Reader // Readable byte source, consumed once on share
}

// IsImage reports whether the declared content type is an image type
func (c FileCandidate) IsImage() bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(c.ContentType)), "image/")
}

// ImageAsset is a captured image selection.
// It is never mutated after capture; the source is read exactly once by the codec.
type ImageAsset struct {
	FileName string
	MimeType string
	Source   io.Reader
}

// NewImageAsset captures a validated candidate
func NewImageAsset(c FileCandidate) ImageAsset {
	return ImageAsset{
		FileName: c.Name,
		MimeType: strings.ToLower(strings.TrimSpace(c.ContentType)),
		Source:   c.Source,
	}
}

// EncodedImage is the textual, storage-safe form of an image
type EncodedImage string

// DecodedImage is a payload that can be displayed directly
type DecodedImage struct {
	MimeType string
	Data     []byte
}

// Size returns the decoded payload size in bytes
func (d DecodedImage) Size() int {
	return len(d.Data)
}

// ShareKey is the opaque identifier handed out on share
type ShareKey string

func (k ShareKey) String() string {
	return string(k)
}
