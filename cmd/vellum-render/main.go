package main

import (
	"fmt"
	"image/png"
	"os"

	"github.com/tdewolff/argp"

	"github.com/vellum-gfx/vellum/rasterizer"
	"github.com/vellum-gfx/vellum/svg"
)

type Render struct {
	Width     int     `short:"w" default:"0" desc:"Output width in pixels (0 takes the document width)"`
	Height    int     `short:"h" default:"0" desc:"Output height in pixels (0 takes the document height)"`
	AA        string  `default:"4x" desc:"Anti-aliasing mode: none, 4x, 8x, 16x, analytical"`
	Tolerance float64 `default:"0.5" desc:"Curve flatness tolerance in pixels"`
	Blur      float64 `default:"0" desc:"Gaussian blur sigma applied to the output"`
	Quiet     bool    `short:"q" desc:"Suppress parse diagnostics"`
	Output    string  `short:"o" desc:"Output PNG file"`
	Input     string  `index:"0" desc:"Input SVG file"`
}

func main() {
	root := argp.NewCmd(&Render{}, "SVG rasterizer")
	root.Parse()
	root.PrintHelp()
}

func (cmd *Render) Run() error {
	if cmd.Input == "" || cmd.Output == "" {
		return argp.ShowUsage
	}

	f, err := os.Open(cmd.Input)
	if err != nil {
		return err
	}
	defer f.Close()

	doc, diags, err := svg.Parse(f)
	if err != nil {
		return err
	}
	if !cmd.Quiet {
		for _, diag := range diags {
			fmt.Fprintln(os.Stderr, "diagnostic:", diag)
		}
	}

	opts := rasterizer.DefaultOptions()
	opts.FlatnessTolerance = cmd.Tolerance
	switch cmd.AA {
	case "none":
		opts.AntiAliasing = false
	case "4x":
		opts.AAMode = rasterizer.Coverage4x
	case "8x":
		opts.AAMode = rasterizer.Coverage8x
	case "16x":
		opts.AAMode = rasterizer.Coverage16x
	case "analytical":
		opts.AAMode = rasterizer.Analytical
	default:
		return fmt.Errorf("unknown anti-aliasing mode %q", cmd.AA)
	}

	width, height := cmd.Width, cmd.Height
	if width == 0 {
		width = int(doc.Width + 0.5)
	}
	if height == 0 {
		height = int(doc.Height + 0.5)
	}

	img, err := rasterizer.New(opts).Render(doc, width, height)
	if err != nil {
		return err
	}
	if 0.0 < cmd.Blur {
		rasterizer.Blur(img, cmd.Blur)
	}

	out, err := os.Create(cmd.Output)
	if err != nil {
		return err
	}
	defer out.Close()
	return png.Encode(out, img)
}
