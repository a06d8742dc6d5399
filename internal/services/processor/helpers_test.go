package processor

import (
	"bytes"
	"encoding/binary"
	"hash/crc32"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"testing"

	"github.com/HugoSmits86/nativewebp"
	"github.com/disintegration/imaging"
	"github.com/phambaophuc/datemark/internal/models"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/goregular"
)

var gray = color.NRGBA{R: 128, G: 128, B: 128, A: 255}

func defaultRequest() models.WatermarkRequest {
	return models.WatermarkRequest{
		FontSize: 36,
		Color:    models.ColorWhite,
		Position: models.PositionBottomRight,
		Quality:  DefaultQuality,
	}
}

func newTestProcessor(t *testing.T, req models.WatermarkRequest) (*ImageProcessor, *observer.ObservedLogs) {
	t.Helper()
	face, err := parseFace(goregular.TTF, float64(req.FontSize))
	if err != nil {
		t.Fatalf("failed to load embedded font: %v", err)
	}
	return newTestProcessorWithFace(req, face)
}

func newTestProcessorWithFace(req models.WatermarkRequest, face font.Face) (*ImageProcessor, *observer.ObservedLogs) {
	core, logs := observer.New(zap.DebugLevel)
	return NewImageProcessor(req, face, zap.New(core)), logs
}

func newBasicProcessor(req models.WatermarkRequest) (*ImageProcessor, *observer.ObservedLogs) {
	return newTestProcessorWithFace(req, basicfont.Face7x13)
}

func solidImage(width, height int, c color.NRGBA) *image.NRGBA {
	return imaging.New(width, height, c)
}

// writeImage saves a solid gray image; the format follows the extension.
func writeImage(t *testing.T, path string, width, height int) {
	t.Helper()
	if err := imaging.Save(solidImage(width, height, gray), path); err != nil {
		t.Fatalf("failed to write test image %s: %v", path, err)
	}
}

type exifEntry struct {
	tag   uint16
	value string
}

const (
	tagDateTime         = 0x0132
	tagDateTimeOriginal = 0x9003
)

// tiffBlock builds a little-endian TIFF block whose IFD0 holds the given
// ASCII entries. Values must be longer than 3 bytes so they live out of line.
func tiffBlock(entries ...exifEntry) []byte {
	le := binary.LittleEndian
	offset := 8 + 2 + 12*len(entries) + 4

	var tiff, values bytes.Buffer
	tiff.WriteString("II")
	binary.Write(&tiff, le, uint16(42))
	binary.Write(&tiff, le, uint32(8))
	binary.Write(&tiff, le, uint16(len(entries)))
	for _, e := range entries {
		value := append([]byte(e.value), 0)
		binary.Write(&tiff, le, e.tag)
		binary.Write(&tiff, le, uint16(2))
		binary.Write(&tiff, le, uint32(len(value)))
		binary.Write(&tiff, le, uint32(offset+values.Len()))
		values.Write(value)
	}
	binary.Write(&tiff, le, uint32(0))
	tiff.Write(values.Bytes())
	return tiff.Bytes()
}

// exifSegment builds a JPEG APP1 segment carrying only a DateTime entry.
func exifSegment(dateTime string) []byte {
	return app1Segment(tiffBlock(exifEntry{tagDateTime, dateTime}))
}

func app1Segment(tiff []byte) []byte {
	payload := append([]byte("Exif\x00\x00"), tiff...)
	segment := []byte{0xFF, 0xE1, 0, 0}
	binary.BigEndian.PutUint16(segment[2:], uint16(len(payload)+2))
	return append(segment, payload...)
}

// jpegWithExif encodes a gray JPEG and splices an EXIF segment after SOI.
func jpegWithExif(t *testing.T, width, height int, dateTime string) []byte {
	t.Helper()
	return jpegWithSegment(t, width, height, exifSegment(dateTime))
}

func jpegWithSegment(t *testing.T, width, height int, segment []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, solidImage(width, height, gray), &jpeg.Options{Quality: 90}); err != nil {
		t.Fatalf("failed to encode jpeg: %v", err)
	}
	data := buf.Bytes()

	out := make([]byte, 0, len(data)+len(segment))
	out = append(out, data[:2]...)
	out = append(out, segment...)
	out = append(out, data[2:]...)
	return out
}

// pngWithExif encodes a gray PNG and inserts an eXIf chunk after IHDR.
func pngWithExif(t *testing.T, width, height int, tiff []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, solidImage(width, height, gray)); err != nil {
		t.Fatalf("failed to encode png: %v", err)
	}
	data := buf.Bytes()

	// signature (8) + IHDR length, type, data (13) and CRC
	ihdrEnd := 8 + 4 + 4 + 13 + 4
	chunk := make([]byte, 8, 12+len(tiff))
	binary.BigEndian.PutUint32(chunk[:4], uint32(len(tiff)))
	copy(chunk[4:], "eXIf")
	chunk = append(chunk, tiff...)
	chunk = binary.BigEndian.AppendUint32(chunk, crc32.ChecksumIEEE(chunk[4:]))

	out := make([]byte, 0, len(data)+len(chunk))
	out = append(out, data[:ihdrEnd]...)
	out = append(out, chunk...)
	out = append(out, data[ihdrEnd:]...)
	return out
}

// webpWithExif builds an extended WebP: VP8X, the lossless bitstream of a
// gray image, then an EXIF chunk holding payload.
func webpWithExif(t *testing.T, width, height int, payload []byte) []byte {
	t.Helper()
	var simple bytes.Buffer
	if err := nativewebp.Encode(&simple, solidImage(width, height, gray), nil); err != nil {
		t.Fatalf("failed to encode webp: %v", err)
	}
	// drop the 12 byte RIFF header, keeping the VP8L chunk
	bitstream := simple.Bytes()[12:]

	vp8x := make([]byte, 10)
	vp8x[0] = 0x08 // EXIF present
	putUint24(vp8x[4:], uint32(width-1))
	putUint24(vp8x[7:], uint32(height-1))

	var body bytes.Buffer
	body.WriteString("WEBP")
	body.Write(riffChunkBytes("VP8X", vp8x))
	body.Write(bitstream)
	body.Write(riffChunkBytes("EXIF", payload))

	out := []byte("RIFF")
	out = binary.LittleEndian.AppendUint32(out, uint32(body.Len()))
	return append(out, body.Bytes()...)
}

func riffChunkBytes(name string, data []byte) []byte {
	out := []byte(name)
	out = binary.LittleEndian.AppendUint32(out, uint32(len(data)))
	out = append(out, data...)
	if len(data)%2 == 1 {
		out = append(out, 0)
	}
	return out
}

func putUint24(b []byte, v uint32) {
	b[0] = byte(v)
	b[1] = byte(v >> 8)
	b[2] = byte(v >> 16)
}

func writeJPEGWithExif(t *testing.T, path string, width, height int, dateTime string) {
	t.Helper()
	if err := os.WriteFile(path, jpegWithExif(t, width, height, dateTime), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
}

func countPixels(img image.Image, match func(r, g, b, a uint32) bool) int {
	n := 0
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if match(img.At(x, y).RGBA()) {
				n++
			}
		}
	}
	return n
}
