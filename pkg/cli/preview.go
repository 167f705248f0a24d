package cli

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"io"
	"math"
	"os"
	"os/exec"
	"strings"

	"github.com/Fepozopo/artwall/pkg/imageio"
	"github.com/Fepozopo/artwall/pkg/resample"
)

// Terminal preview of a finished wallpaper.
//
// Backends, in order of preference:
//   - the iTerm2 OSC 1337 inline file sequence (iTerm2, WezTerm, VSCode, Warp...)
//   - the kitty graphics protocol (kitty, ghostty)
//   - chafa on PATH, rendering block symbols anywhere
//
// ARTWALL_PREVIEW_BACKEND=inline|kitty|chafa forces one.

// previewOut receives the escape sequences.
var previewOut io.Writer = os.Stdout

const (
	cellW       = 8
	cellH       = 16
	maxCols     = 80
	maxRows     = 40
	kittyChunk  = 4096
	previewJPEG = 85
)

// previewSize is the cell area and pixel size a preview is rendered at.
type previewSize struct {
	Cols, Rows  int
	PixelWidth  int
	PixelHeight int
}

// computePreviewSize fits the image into maxCols x maxRows cells keeping the
// aspect ratio. Images are never enlarged.
func computePreviewSize(b image.Rectangle) previewSize {
	w, h := b.Dx(), b.Dy()
	if w <= 0 || h <= 0 {
		return previewSize{Cols: 1, Rows: 1, PixelWidth: cellW, PixelHeight: cellH}
	}
	scale := math.Min(1, math.Min(float64(maxCols*cellW)/float64(w), float64(maxRows*cellH)/float64(h)))
	pw := max(1, int(math.Round(float64(w)*scale)))
	ph := max(1, int(math.Round(float64(h)*scale)))
	cols := min(maxCols, max(1, int(math.Round(float64(pw)/cellW))))
	rows := min(maxRows, max(1, int(math.Round(float64(ph)/cellH))))
	return previewSize{Cols: cols, Rows: rows, PixelWidth: pw, PixelHeight: ph}
}

func previewBackend() string {
	if b := strings.ToLower(os.Getenv("ARTWALL_PREVIEW_BACKEND")); b != "" {
		return b
	}
	switch {
	case isInlineCapable():
		return "inline"
	case isKitty():
		return "kitty"
	case hasChafa():
		return "chafa"
	}
	return ""
}

func isInlineCapable() bool {
	switch os.Getenv("TERM_PROGRAM") {
	case "iTerm.app", "WezTerm", "Warp", "Hyper", "vscode", "Tabby", "Bobcat":
		return true
	}
	return os.Getenv("ITERM_SESSION_ID") != ""
}

func isKitty() bool {
	if os.Getenv("KITTY_WINDOW_ID") != "" {
		return true
	}
	term := strings.ToLower(os.Getenv("TERM"))
	return strings.Contains(term, "kitty") || strings.Contains(term, "ghostty")
}

func hasChafa() bool {
	_, err := exec.LookPath("chafa")
	return err == nil
}

// PreviewImage shows img in the terminal. It is scaled down to the preview
// area first so the escape payload stays small. format picks the payload
// encoding (jpeg or png); kitty always gets png.
func PreviewImage(img image.Image, format string) error {
	if img == nil {
		return fmt.Errorf("nil image")
	}
	backend := previewBackend()
	if backend == "" {
		return fmt.Errorf("no preview protocol matched")
	}
	size := computePreviewSize(img.Bounds())
	small, err := resample.Default().Resize(img, image.Pt(size.PixelWidth, size.PixelHeight))
	if err != nil {
		return err
	}
	format = strings.ToLower(format)
	if format != "jpeg" && format != "jpg" || backend == "kitty" {
		format = "png"
	}
	var buf bytes.Buffer
	if err := imageio.EncodeTo(&buf, format, small, previewJPEG); err != nil {
		return fmt.Errorf("preview encode failed: %w", err)
	}
	switch backend {
	case "inline", "iterm", "wezterm":
		return sendInline(buf.Bytes(), format, size)
	case "kitty":
		return sendKitty(buf.Bytes(), size)
	case "chafa":
		return sendChafa(buf.Bytes(), size)
	}
	return fmt.Errorf("unknown preview backend %q", backend)
}

// sendInline writes the iTerm2 inline file sequence.
func sendInline(data []byte, format string, size previewSize) error {
	name := "preview.png"
	if format != "png" {
		name = "preview.jpg"
	}
	_, err := fmt.Fprintf(previewOut, "\x1b]1337;File=name=%s;inline=1;size=%d;width=%dpx;height=%dpx:%s\a\n",
		base64.StdEncoding.EncodeToString([]byte(name)), len(data), size.PixelWidth, size.PixelHeight,
		base64.StdEncoding.EncodeToString(data))
	return err
}

// sendKitty transmits a png in base64 chunks of at most 4096 bytes; only the
// first chunk carries the control keys.
func sendKitty(data []byte, size previewSize) error {
	enc := base64.StdEncoding.EncodeToString(data)
	for pos := 0; pos < len(enc); pos += kittyChunk {
		end := min(pos+kittyChunk, len(enc))
		more := 0
		if end < len(enc) {
			more = 1
		}
		var err error
		if pos == 0 {
			_, err = fmt.Fprintf(previewOut, "\x1b_Ga=T,f=100,t=d,q=2,c=%d,r=%d,m=%d;%s\x1b\\", size.Cols, size.Rows, more, enc[pos:end])
		} else {
			_, err = fmt.Fprintf(previewOut, "\x1b_Gm=%d;%s\x1b\\", more, enc[pos:end])
		}
		if err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(previewOut)
	return err
}

func sendChafa(data []byte, size previewSize) error {
	cmd := exec.Command("chafa", "--fill=block", "--symbols=block", "-s", fmt.Sprintf("%dx%d", size.Cols, size.Rows), "-")
	cmd.Stdin = bytes.NewReader(data)
	cmd.Stdout = previewOut
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("chafa failed: %w", err)
	}
	return nil
}
