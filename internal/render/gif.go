package render

import (
	"image"
	"image/color/palette"
	"image/draw"
	"image/gif"
	"io"
	"os"
)

// EncodeGIF writes frames as a looping animated GIF. delay is in 100ths of
// a second (5 => 20 fps). Frames are dithered onto the Plan9 palette.
func EncodeGIF(w io.Writer, frames []image.Image, delay int) error {
	out := &gif.GIF{
		Image:     make([]*image.Paletted, 0, len(frames)),
		Delay:     make([]int, 0, len(frames)),
		LoopCount: 0,
	}
	for _, fr := range frames {
		pal := image.NewPaletted(fr.Bounds(), palette.Plan9)
		draw.FloydSteinberg.Draw(pal, fr.Bounds(), fr, image.Point{})
		out.Image = append(out.Image, pal)
		out.Delay = append(out.Delay, delay)
	}
	return gif.EncodeAll(w, out)
}

// SaveGIF writes an animated GIF to path.
func SaveGIF(path string, frames []image.Image, delay int) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := EncodeGIF(f, frames, delay); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
