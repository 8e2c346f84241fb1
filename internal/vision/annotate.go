package vision

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"deskpilot/internal/model"
	"deskpilot/pkg/logging"
)

// Annotate draws the located element's bounding box, a center crosshair and
// a label onto the screenshot. Coordinates in loc are image-relative, so no
// scaling is needed.
func Annotate(pngData []byte, loc model.VisionLocate, label string) ([]byte, error) {
	src, err := png.Decode(bytes.NewReader(pngData))
	if err != nil {
		return nil, fmt.Errorf("decoding screenshot: %w", err)
	}
	rgba := image.NewRGBA(src.Bounds())
	draw.Draw(rgba, src.Bounds(), src, src.Bounds().Min, draw.Src)

	boxColor := color.RGBA{R: 255, A: 255}
	textColor := color.RGBA{R: 255, G: 255, B: 255, A: 255}
	outlineColor := color.RGBA{A: 255}

	drawBox(rgba, loc.XTopLeft, loc.YTopLeft, loc.XTopLeft+loc.Width, loc.YTopLeft+loc.Height, boxColor)
	drawCrosshair(rgba, loc.XCenter, loc.YCenter, boxColor)
	drawLabel(rgba, label, loc.XCenter, loc.YTopLeft-8, textColor, outlineColor)

	var out bytes.Buffer
	if err := png.Encode(&out, rgba); err != nil {
		return nil, fmt.Errorf("encoding annotated image: %w", err)
	}
	return out.Bytes(), nil
}

// saveDebugImage writes the annotated locate result into the debug
// directory. Failures only log; debugging must never fail a step.
func (l *Locator) saveDebugImage(pngData []byte, loc model.VisionLocate, label string) {
	if l.debugDir == "" {
		return
	}
	annotated, err := Annotate(pngData, loc, label)
	if err != nil {
		logging.Warn(subsystem, "could not annotate debug screenshot: %v", err)
		return
	}
	name := fmt.Sprintf("locate-%s.png", time.Now().Format("20060102-150405.000"))
	path := filepath.Join(l.debugDir, name)
	if err := os.WriteFile(path, annotated, 0o644); err != nil {
		logging.Warn(subsystem, "could not save debug screenshot: %v", err)
		return
	}
	logging.Debug(subsystem, "saved annotated locate to %s", path)
}

func inBounds(b image.Rectangle, x, y int) bool {
	return x >= b.Min.X && x < b.Max.X && y >= b.Min.Y && y < b.Max.Y
}

func drawBox(img *image.RGBA, x1, y1, x2, y2 int, c color.Color) {
	b := img.Bounds()
	for x := x1; x <= x2; x++ {
		if inBounds(b, x, y1) {
			img.Set(x, y1, c)
		}
		if inBounds(b, x, y2) {
			img.Set(x, y2, c)
		}
	}
	for y := y1; y <= y2; y++ {
		if inBounds(b, x1, y) {
			img.Set(x1, y, c)
		}
		if inBounds(b, x2, y) {
			img.Set(x2, y, c)
		}
	}
}

func drawCrosshair(img *image.RGBA, x, y int, c color.Color) {
	const arm = 6
	b := img.Bounds()
	for d := -arm; d <= arm; d++ {
		if inBounds(b, x+d, y) {
			img.Set(x+d, y, c)
		}
		if inBounds(b, x, y+d) {
			img.Set(x, y+d, c)
		}
	}
}

func drawLabel(img *image.RGBA, text string, cx, cy int, textColor, outlineColor color.Color) {
	if text == "" {
		return
	}
	// basicfont.Face7x13: 7px advance, 13px height
	offsetX := cx - len(text)*7/2
	offsetY := cy

	drawString := func(x, y int, c color.Color) {
		d := &font.Drawer{
			Dst:  img,
			Src:  image.NewUniform(c),
			Face: basicfont.Face7x13,
			Dot:  fixed.Point26_6{X: fixed.I(x), Y: fixed.I(y)},
		}
		d.DrawString(text)
	}
	for dx := -1; dx <= 1; dx++ {
		for dy := -1; dy <= 1; dy++ {
			if dx != 0 || dy != 0 {
				drawString(offsetX+dx, offsetY+dy, outlineColor)
			}
		}
	}
	drawString(offsetX, offsetY, textColor)
}
