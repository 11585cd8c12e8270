package image

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"pixelsage-server/internal/platform/logging"
)

// Validator checks uploaded files by extension and container signature.
type Validator struct {
	allowed     map[string]struct{}
	maxFileSize int64
	logger      *logging.Logger
}

// NewValidator constructs a validator for the given extension allow-set.
func NewValidator(formats []string, maxFileSize int64, logger *logging.Logger) *Validator {
	allowed := make(map[string]struct{}, len(formats))
	for _, f := range formats {
		allowed[strings.ToLower(f)] = struct{}{}
	}
	return &Validator{
		allowed:     allowed,
		maxFileSize: maxFileSize,
		logger:      logger,
	}
}

var imageSignatures = []struct {
	format    string
	offset    int
	signature []byte
}{
	{"png", 0, []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}},
	{"jpg", 0, []byte{0xFF, 0xD8}},
	{"gif", 0, []byte{0x47, 0x49, 0x46, 0x38}},
	{"tiff", 0, []byte{0x49, 0x49, 0x2A, 0x00}},
	{"tiff", 0, []byte{0x4D, 0x4D, 0x00, 0x2A}},
	{"webp", 0, []byte{0x52, 0x49, 0x46, 0x46}},
	{"dcm", 128, []byte{0x44, 0x49, 0x43, 0x4D}},
}

// AllowedFile reports whether the filename carries an extension in the
// allow-set. The name must contain a dot; matching is case-insensitive.
func (v *Validator) AllowedFile(filename string) bool {
	if !strings.Contains(filename, ".") {
		return false
	}
	ext := strings.ToLower(filename[strings.LastIndex(filename, ".")+1:])
	_, ok := v.allowed[ext]
	return ok
}

// SniffFormat inspects the first 512 bytes of the reader and returns the
// normalized container format. The reader position is restored afterwards.
func (v *Validator) SniffFormat(r io.ReadSeeker) (string, error) {
	header := make([]byte, 512)
	n, err := io.ReadFull(r, header)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return "", fmt.Errorf("read header: %w", err)
	}
	header = header[:n]

	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return "", fmt.Errorf("rewind after sniff: %w", err)
	}

	for _, sig := range imageSignatures {
		end := sig.offset + len(sig.signature)
		if len(header) < end {
			continue
		}
		if bytes.Equal(header[sig.offset:end], sig.signature) {
			return sig.format, nil
		}
	}
	return "", nil
}

// Validate runs the full upload check: filename, extension, size, signature.
func (v *Validator) Validate(filename string, r io.ReadSeeker, size int64) ValidationResult {
	result := ValidationResult{FileSize: size}

	if r == nil {
		result.Reason = RejectNoFile
		result.Error = fmt.Errorf("no file provided")
		return result
	}
	if strings.TrimSpace(filename) == "" {
		result.Reason = RejectEmptyFilename
		result.Error = fmt.Errorf("empty filename")
		return result
	}
	if !v.AllowedFile(filename) {
		result.Reason = RejectUnsupportedExtension
		result.Error = fmt.Errorf("unsupported file extension: %s", filename)
		return result
	}
	if v.maxFileSize > 0 && size > v.maxFileSize {
		result.Reason = RejectFileTooLarge
		result.Error = fmt.Errorf("file size %d exceeds limit %d", size, v.maxFileSize)
		v.logger.WarnTag("HTTP", "rejected oversized upload: size=%d max=%d name=%s",
			size, v.maxFileSize, filename)
		return result
	}

	format, err := v.SniffFormat(r)
	if err != nil {
		result.Reason = RejectUnrecognizedFormat
		result.Error = err
		return result
	}
	if format == "" {
		result.Reason = RejectUnrecognizedFormat
		result.Error = fmt.Errorf("unrecognized or corrupt image data: %s", filename)
		return result
	}

	result.IsValid = true
	result.Format = format
	result.Reason = RejectNone
	return result
}
