package cli

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image/png"
	"io"
	"math"
	"os"
	"os/exec"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/Fepozopo/upscale/pkg/codec"
	"github.com/Fepozopo/upscale/pkg/resample"
)

// Terminal previews use, in order of preference: the iTerm2 inline image
// sequence (OSC 1337), the kitty graphics protocol, an external sixel
// renderer, and chafa. PREVIEW_BACKEND forces one of "inline", "kitty",
// "sixel" or "chafa".

var errNoPreview = errors.New("no preview protocol matched")

func isKitty() bool {
	if os.Getenv("KITTY_WINDOW_ID") != "" || os.Getenv("KONSOLE_VERSION") != "" {
		return true
	}
	term := strings.ToLower(os.Getenv("TERM"))
	return strings.Contains(term, "kitty") || strings.Contains(term, "ghost")
}

func isInlineImageCapable() bool {
	switch os.Getenv("TERM_PROGRAM") {
	case "iTerm.app", "WezTerm", "Warp", "Hyper", "vscode", "VSCode", "Tabby", "Bobcat":
		return true
	}
	if os.Getenv("ITERM_SESSION_ID") != "" {
		return true
	}
	term := strings.ToLower(os.Getenv("TERM"))
	return strings.Contains(term, "wez") || strings.Contains(term, "warp") ||
		strings.Contains(term, "tabby") || strings.Contains(term, "vscode")
}

// isSixelCapable is a heuristic; SIXEL_PREVIEW=1 forces it.
func isSixelCapable() bool {
	if os.Getenv("SIXEL_PREVIEW") == "1" || os.Getenv("WT_SESSION") != "" {
		return true
	}
	term := strings.ToLower(os.Getenv("TERM"))
	return strings.Contains(term, "foot") || term == "st" || strings.HasPrefix(term, "st-")
}

func hasChafa() bool {
	if os.Getenv("NO_CHAFA") == "1" {
		return false
	}
	_, err := exec.LookPath("chafa")
	return err == nil
}

// PreviewSupported reports whether the terminal likely shows previews.
func PreviewSupported() bool {
	return isKitty() || isInlineImageCapable() || isSixelCapable() || hasChafa()
}

// PreviewSize is a placement in character cells with its approximate
// pixel extent.
type PreviewSize struct {
	Cols, Rows  int
	PixelWidth  int
	PixelHeight int
}

const (
	cellWidth  = 8
	cellHeight = 16
	minCols    = 6
	minRows    = 3
	maxCols    = 80
	maxRows    = 40
)

// computePreviewSize fits a w×h image into at most maxCols×maxRows cells
// keeping its aspect ratio. Images are never enlarged.
func computePreviewSize(w, h int) PreviewSize {
	scale := math.Min(1, math.Min(
		float64(maxCols*cellWidth)/float64(w),
		float64(maxRows*cellHeight)/float64(h)))
	cols := int(math.Round(float64(w) * scale / cellWidth))
	rows := int(math.Round(float64(h) * scale / cellHeight))
	cols = min(max(cols, minCols), maxCols)
	rows = min(max(rows, minRows), maxRows)
	return PreviewSize{
		Cols:        cols,
		Rows:        rows,
		PixelWidth:  cols * cellWidth,
		PixelHeight: rows * cellHeight,
	}
}

// Previewer renders images into a terminal.
type Previewer struct {
	Out io.Writer
	Log logrus.FieldLogger
}

// Show writes a thumbnail of img to the terminal.
func (p *Previewer) Show(img *resample.Image) error {
	if err := img.Validate(); err != nil {
		return err
	}
	size := computePreviewSize(img.Width, img.Height)
	thumb, err := thumbnail(img, size)
	if err != nil {
		return err
	}
	m, err := codec.ToImage(thumb)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, m); err != nil {
		return fmt.Errorf("png encode failed: %w", err)
	}
	return p.send(buf.Bytes(), size)
}

// thumbnail shrinks img so it fits the pixel extent of size.
func thumbnail(img *resample.Image, size PreviewSize) (*resample.Image, error) {
	s := math.Min(
		float64(size.PixelWidth)/float64(img.Width),
		float64(size.PixelHeight)/float64(img.Height))
	if s >= 1 {
		return img, nil
	}
	w := max(1, int(math.Round(float64(img.Width)*s)))
	h := max(1, int(math.Round(float64(img.Height)*s)))
	return resample.UpscaleBicubic(img, w, h)
}

func (p *Previewer) send(blob []byte, size PreviewSize) error {
	type sender struct {
		name string
		ok   func() bool
		send func([]byte, PreviewSize) error
	}
	senders := []sender{
		{"inline", isInlineImageCapable, p.sendInline},
		{"kitty", isKitty, p.sendKitty},
		{"sixel", isSixelCapable, p.sendSixel},
		{"chafa", hasChafa, p.sendChafa},
	}
	if forced := strings.ToLower(os.Getenv("PREVIEW_BACKEND")); forced != "" {
		for _, s := range senders {
			if s.name != forced {
				continue
			}
			err := s.send(blob, size)
			if err == nil {
				return nil
			}
			p.Log.WithError(err).WithField("backend", forced).Debug("Forced preview backend failed")
		}
	}
	var errs []error
	for _, s := range senders {
		if !s.ok() {
			continue
		}
		err := s.send(blob, size)
		if err == nil {
			return nil
		}
		p.Log.WithError(err).WithField("backend", s.name).Debug("Preview backend failed")
		errs = append(errs, fmt.Errorf("%s: %w", s.name, err))
	}
	if len(errs) == 0 {
		return errNoPreview
	}
	return errors.Join(errs...)
}

// sendInline emits the iTerm2 OSC 1337 inline file sequence.
func (p *Previewer) sendInline(data []byte, size PreviewSize) error {
	seq := fmt.Sprintf("\x1b]1337;File=name=preview.png;inline=1;size=%d;width=%dpx;height=%dpx:%s\a\n",
		len(data), size.PixelWidth, size.PixelHeight, base64.StdEncoding.EncodeToString(data))
	_, err := io.WriteString(p.Out, seq)
	return err
}

// sendKitty transmits the PNG with the kitty graphics protocol in base64
// chunks of at most 4096 bytes. Only the first chunk carries the control
// keys.
func (p *Previewer) sendKitty(data []byte, size PreviewSize) error {
	const chunkSize = 4096
	enc := base64.StdEncoding.EncodeToString(data)
	for pos := 0; pos < len(enc); pos += chunkSize {
		end := min(pos+chunkSize, len(enc))
		more := 0
		if end < len(enc) {
			more = 1
		}
		var seq string
		if pos == 0 {
			seq = fmt.Sprintf("\x1b_Ga=T,f=100,t=d,q=2,c=%d,r=%d,m=%d;%s\x1b\\", size.Cols, size.Rows, more, enc[pos:end])
		} else {
			seq = fmt.Sprintf("\x1b_Gm=%d;%s\x1b\\", more, enc[pos:end])
		}
		if _, err := io.WriteString(p.Out, seq); err != nil {
			return err
		}
	}
	_, err := io.WriteString(p.Out, strings.Repeat("\n", postImageNewlines(size.Rows)))
	return err
}

func (p *Previewer) sendSixel(data []byte, _ PreviewSize) error {
	return p.pipe("img2sixel", data, "-")
}

func (p *Previewer) sendChafa(data []byte, size PreviewSize) error {
	return p.pipe("chafa", data, "--fill=block", "--symbols=block", "-s", fmt.Sprintf("%dx%d", size.Cols, size.Rows), "-")
}

func (p *Previewer) pipe(tool string, data []byte, args ...string) error {
	if _, err := exec.LookPath(tool); err != nil {
		return err
	}
	cmd := exec.Command(tool, args...)
	cmd.Stdin = bytes.NewReader(data)
	cmd.Stdout = p.Out
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s failed: %w", tool, err)
	}
	_, err := io.WriteString(p.Out, "\n")
	return err
}

// postImageNewlines is the number of blank lines that keep the next prompt
// below an image placed over rows cells.
func postImageNewlines(rows int) int {
	switch {
	case rows <= 2:
		return 1
	case rows <= 6:
		return 2
	case rows <= 20:
		return 3
	}
	return 4
}
