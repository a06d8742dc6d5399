package processor

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rwcarlsen/goexif/exif"
	"go.uber.org/zap"
)

// DateLayout is the layout of the watermark text.
const DateLayout = "2006-01-02"

const exifTimeLayout = "2006:01:02 15:04:05"

// maxExifChunk bounds the metadata chunk read from PNG and WebP containers.
const maxExifChunk = 16 << 20

var (
	errNoExifChunk = errors.New("no EXIF chunk")
	pngSignature   = []byte("\x89PNG\r\n\x1a\n")
)

// ExifDate returns the capture date of the image at path as YYYY-MM-DD.
// The second value is false when no usable timestamp exists; the cause is logged.
func (p *ImageProcessor) ExifDate(path string) (string, bool) {
	t, err := readExifTime(path)
	if err != nil {
		p.logger.Warn("Could not read EXIF data",
			zap.String("path", path),
			zap.Error(err),
		)
		return "", false
	}
	return t.Format(DateLayout), true
}

func readExifTime(path string) (time.Time, error) {
	f, err := os.Open(path)
	if err != nil {
		return time.Time{}, fmt.Errorf("problem opening file: %w", err)
	}
	defer f.Close()

	r, err := exifSource(f)
	if err != nil {
		return time.Time{}, err
	}
	return parseExif(r)
}

// exifSource returns a reader goexif can decode. JPEG and TIFF files are
// passed through; PNG and WebP files yield the payload of their EXIF chunk.
func exifSource(f io.ReadSeeker) (io.Reader, error) {
	head := make([]byte, 12)
	n, _ := io.ReadFull(f, head)
	head = head[:n]
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}

	var (
		payload []byte
		err     error
	)
	switch {
	case bytes.HasPrefix(head, pngSignature):
		payload, err = pngChunk(f, "eXIf")
	case n == 12 && string(head[:4]) == "RIFF" && string(head[8:]) == "WEBP":
		payload, err = riffChunk(f, "EXIF")
	default:
		return f, nil
	}
	if err != nil {
		return nil, err
	}
	// goexif accepts both a bare TIFF header and the "Exif\0\0" prefixed form.
	return bytes.NewReader(payload), nil
}

// pngChunk walks the chunks after the signature until name or IEND.
func pngChunk(r io.ReadSeeker, name string) ([]byte, error) {
	if _, err := r.Seek(int64(len(pngSignature)), io.SeekStart); err != nil {
		return nil, err
	}
	var hdr [8]byte
	for {
		if _, err := io.ReadFull(r, hdr[:]); err != nil {
			return nil, errNoExifChunk
		}
		length := binary.BigEndian.Uint32(hdr[:4])
		switch string(hdr[4:]) {
		case name:
			return readChunk(r, length)
		case "IEND":
			return nil, errNoExifChunk
		}
		// data plus the trailing CRC
		if _, err := r.Seek(int64(length)+4, io.SeekCurrent); err != nil {
			return nil, err
		}
	}
}

// riffChunk walks the chunks after the RIFF/WEBP header. Chunk data is
// padded to an even length.
func riffChunk(r io.ReadSeeker, name string) ([]byte, error) {
	if _, err := r.Seek(12, io.SeekStart); err != nil {
		return nil, err
	}
	var hdr [8]byte
	for {
		if _, err := io.ReadFull(r, hdr[:]); err != nil {
			return nil, errNoExifChunk
		}
		length := binary.LittleEndian.Uint32(hdr[4:])
		if string(hdr[:4]) == name {
			return readChunk(r, length)
		}
		if _, err := r.Seek(int64(length)+int64(length&1), io.SeekCurrent); err != nil {
			return nil, err
		}
	}
}

func readChunk(r io.Reader, length uint32) ([]byte, error) {
	if length > maxExifChunk {
		return nil, fmt.Errorf("EXIF chunk too large: %d bytes", length)
	}
	data := make([]byte, length)
	if _, err := io.ReadFull(r, data); err != nil {
		return nil, fmt.Errorf("truncated EXIF chunk: %w", err)
	}
	return data, nil
}

// parseExif decodes EXIF and returns its capture time. Errors in optional
// sub-directories are ignored as long as IFD0 decoded.
func parseExif(r io.Reader) (time.Time, error) {
	x, err := exif.Decode(r)
	if err != nil && (x == nil || exif.IsCriticalError(err)) {
		return time.Time{}, err
	}
	return captureTime(x)
}

// captureTime tries DateTimeOriginal, then DateTime. A blank or malformed
// DateTimeOriginal does not hide a valid DateTime.
func captureTime(x *exif.Exif) (time.Time, error) {
	var lastErr error
	for _, name := range []exif.FieldName{exif.DateTimeOriginal, exif.DateTime} {
		tag, err := x.Get(name)
		if err != nil {
			lastErr = err
			continue
		}
		s, err := tag.StringVal()
		if err != nil {
			lastErr = fmt.Errorf("%s: %w", name, err)
			continue
		}
		tm, err := time.ParseInLocation(exifTimeLayout, strings.TrimSpace(s), time.Local)
		if err != nil {
			lastErr = fmt.Errorf("%s: %w", name, err)
			continue
		}
		return tm, nil
	}
	return time.Time{}, fmt.Errorf("no datetime in an ostensibly valid exif: %w", lastErr)
}
