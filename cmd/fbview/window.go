package main

import (
	"fmt"
	"image"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/gogpu/display"
	"github.com/gogpu/display/internal/demo"
)

type window struct {
	d      *demo.Display
	mirror *display.Bitmap
	frame  *ebiten.Image

	n      int
	cursor image.Point
}

func runWindow(d *demo.Display, mirror *display.Bitmap) error {
	w, h := mirror.Width(), mirror.Height()
	ebiten.SetWindowSize(w*2, h*2)
	ebiten.SetWindowTitle(fmt.Sprintf("fbview %dx%d %v", w, h, d.Space()))
	ebiten.SetCursorMode(ebiten.CursorModeHidden)
	return ebiten.RunGame(&window{d: d, mirror: mirror, cursor: image.Pt(-1, -1)})
}

func (v *window) Update() error {
	if ebiten.IsKeyPressed(ebiten.KeyEscape) || ebiten.IsKeyPressed(ebiten.KeyQ) {
		return ebiten.Termination
	}
	if p := image.Pt(ebiten.CursorPosition()); p != v.cursor {
		v.cursor = p
		_ = v.d.MoveCursorTo(p)
	}
	if err := demo.Draw(v.d, v.n); err != nil {
		return err
	}
	v.n++

	if v.frame == nil {
		v.frame = ebiten.NewImage(v.mirror.Width(), v.mirror.Height())
	}
	for _, r := range present(v.d, v.mirror) {
		sub := v.frame.SubImage(r).(*ebiten.Image)
		sub.WritePixels(v.pixels(r))
	}
	return nil
}

// pixels returns r of the mirror as premultiplied RGBA bytes.
func (v *window) pixels(r image.Rectangle) []byte {
	pix := make([]byte, 0, r.Dx()*r.Dy()*4)
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			cr, cg, cb, ca := v.mirror.ColorAt(x, y).RGBA()
			pix = append(pix, byte(cr>>8), byte(cg>>8), byte(cb>>8), byte(ca>>8))
		}
	}
	return pix
}

func (v *window) Draw(screen *ebiten.Image) {
	if v.frame != nil {
		screen.DrawImage(v.frame, nil)
	}
}

func (v *window) Layout(int, int) (int, int) {
	return v.mirror.Width(), v.mirror.Height()
}
