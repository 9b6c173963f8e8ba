package engine

import (
	"bufio"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"

	"github.com/gen2brain/webp"

	"github.com/ivlev/reelmotion/internal/config"
)

// FrameWriter encodes one rendered frame.
type FrameWriter interface {
	Ext() string
	Encode(w io.Writer, img image.Image) error
}

// NewFrameWriter returns the writer for a config.Format* value.
func NewFrameWriter(format string, quality int) (FrameWriter, error) {
	switch format {
	case config.FormatPNG:
		return pngWriter{enc: &png.Encoder{CompressionLevel: png.BestSpeed}}, nil
	case config.FormatWebP:
		return webpWriter{opts: webp.Options{Quality: quality}}, nil
	default:
		return nil, fmt.Errorf("неизвестный формат кадров %q", format)
	}
}

type pngWriter struct {
	enc *png.Encoder
}

func (pngWriter) Ext() string { return ".png" }

func (p pngWriter) Encode(w io.Writer, img image.Image) error {
	return p.enc.Encode(w, img)
}

type webpWriter struct {
	opts webp.Options
}

func (webpWriter) Ext() string { return ".webp" }

func (p webpWriter) Encode(w io.Writer, img image.Image) error {
	return webp.Encode(w, img, p.opts)
}

// FrameName is the file name of a frame inside the session directory.
func FrameName(frame int, ext string) string {
	return fmt.Sprintf("frame_%05d%s", frame, ext)
}

func writeFrame(fw FrameWriter, dir string, frame int, img image.Image) (string, error) {
	path := filepath.Join(dir, FrameName(frame, fw.Ext()))
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}

	bw := bufio.NewWriter(f)
	if err := fw.Encode(bw, img); err != nil {
		f.Close()
		return "", fmt.Errorf("кодирование кадра %d: %w", frame, err)
	}
	if err := bw.Flush(); err != nil {
		f.Close()
		return "", err
	}
	return path, f.Close()
}
