// Command gguidemo renders a small widget mock-up with the software
// renderer and writes it to a PNG file.
package main

import (
	"flag"
	"image/png"
	"log"
	"log/slog"
	"os"

	"golang.org/x/image/font/gofont/goregular"

	"github.com/gogpu/ggui"
	"github.com/gogpu/ggui/drawbuf"
	"github.com/gogpu/ggui/geom"
	"github.com/gogpu/ggui/layout"
	"github.com/gogpu/ggui/render"
	"github.com/gogpu/ggui/text"
	"github.com/gogpu/ggui/texture"
)

func main() {
	var (
		width    = flag.Int("width", 480, "image width")
		height   = flag.Int("height", 320, "image height")
		output   = flag.String("output", "gguidemo.png", "output file")
		fontPath = flag.String("font", "", "TTF/OTF file (default: Go Regular)")
		size     = flag.Float64("size", 14, "font size in points")
		scale    = flag.Float64("scale", 1, "display scale factor")
		parser   = flag.String("parser", "sfnt", `font parser: "sfnt" or "gotext"`)
		label    = flag.String("text", "The quick brown fox jumps over the lazy dog.", "text box contents")
		verbose  = flag.Bool("v", false, "log renderer statistics")
	)
	flag.Parse()

	if *verbose {
		ggui.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	fontData := goregular.TTF
	if *fontPath != "" {
		data, err := os.ReadFile(*fontPath)
		if err != nil {
			log.Fatalf("Failed to read font: %v", err)
		}
		fontData = data
	}

	textures := texture.NewService()
	fonts := text.NewFontService(textures, text.WithParser(*parser))
	fh, err := fonts.RegisterFontShared(fontData)
	if err != nil {
		log.Fatalf("Failed to load font: %v", err)
	}
	body := fonts.Instance(fh, float32(*size), float32(*scale))
	title := fonts.Instance(fh, float32(*size)*1.5, float32(*scale))

	buf := drawbuf.New()
	w, h := float32(*width), float32(*height)

	window := geom.R(16, 16, w-16, h-16)
	rows := layout.VStack(
		layout.Length(title.Height()+20),
		layout.Length(body.Height()+8),
		layout.Length(16),
		layout.Fill(1),
	).Split(window.Inflate(geom.Splat(-16)))
	editRow := layout.HStack(layout.Fill(1), layout.Length(8), layout.Percent(0.2)).Split(rows[1])

	drawWindow(buf, title, window, rows[0])
	drawEdit(buf, body, editRow[0])
	drawButton(buf, body, editRow[2], "OK")
	drawBox(buf, body, rows[3], *label)

	r := render.NewSoftwareRenderer()
	if err := r.Sync(textures); err != nil {
		log.Fatalf("Failed to sync textures: %v", err)
	}
	target := render.NewPixmapTarget(*width, *height)
	target.Clear(geom.RGB(0x20, 0x24, 0x2c))
	if err := r.Render(target, buf.Layers()...); err != nil {
		log.Fatalf("Failed to render: %v", err)
	}
	fonts.EndFrame()

	f, err := os.Create(*output)
	if err != nil {
		log.Fatalf("Failed to create output: %v", err)
	}
	if err := png.Encode(f, target.Image()); err != nil {
		_ = f.Close()
		log.Fatalf("Failed to save: %v", err)
	}
	if err := f.Close(); err != nil {
		log.Fatalf("Failed to save: %v", err)
	}

	ggui.Logger().Info("demo stats", "render", r.Stats(), "fonts", fonts.Stats(), "textures", textures.Stats())
	log.Printf("Demo saved to %s (%dx%d)\n", *output, *width, *height)
}

func drawWindow(buf *drawbuf.Buffer, font drawbuf.Font, r, titleBar geom.Rect) {
	fill := drawbuf.SolidFill(geom.RGB(0x33, 0x38, 0x44))
	buf.PushShape(drawbuf.Shape{Rect: r, Fill: &fill, CornerRadius: 8})
	buf.DrawText(font, titleBar.Min, "ggui demo", geom.White)
}

func drawButton(buf *drawbuf.Buffer, font drawbuf.Font, r geom.Rect, label string) {
	buf.PushRoundedRectFilled(r, 4, drawbuf.SolidFill(geom.RGB(0x4c, 0x9a, 0xff)))
	w := drawbuf.MeasureText(font, label).X
	buf.DrawText(font, geom.V2(r.Center().X-w/2, r.Min.Y+4), label, geom.White)
}

func drawEdit(buf *drawbuf.Buffer, font drawbuf.Font, r geom.Rect) {
	buf.PushRectFilled(r, drawbuf.SolidFill(geom.RGB(0x18, 0x1b, 0x21)))
	buf.PushRectStroked(r, drawbuf.Stroke{Width: 1, Color: geom.RGB(0x4c, 0x9a, 0xff), Alignment: drawbuf.AlignInside})

	const value = "editable text"
	buf.WithClip(r.Inflate(geom.Splat(-4)), func() {
		buf.DrawTextEdit(font, r.Min.Add(geom.V2(4, 4)), value,
			drawbuf.Selection{Anchor: 0, Cursor: 8}, true,
			drawbuf.TextStyle{
				Color:          geom.White,
				SelectionColor: geom.RGBA8{R: 0x4c, G: 0x9a, B: 0xff, A: 0x80},
				CursorColor:    geom.White,
				CursorWidth:    2,
			})
	})
}

func drawBox(buf *drawbuf.Buffer, font drawbuf.Font, r geom.Rect, s string) {
	buf.PushRectStroked(r, drawbuf.Stroke{Width: 1, Color: geom.RGB(0x5a, 0x62, 0x75), Alignment: drawbuf.AlignOutside})
	buf.WithClip(r, func() {
		buf.DrawTextBox(font, r.Inflate(geom.Splat(-6)), s, drawbuf.TextStyle{Color: geom.RGB(0xd8, 0xdc, 0xe6)}, nil)
	})
}
