package main

import (
	"fmt"
	"image"
	"os"
	"strconv"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/kovidgoyal/munsell/batch"
	"github.com/kovidgoyal/munsell/cie"
)

var _ = fmt.Print

func main() {
	var err error
	defer func() {
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}()
	if len(os.Args) == 1 || len(os.Args) > 3 {
		fmt.Fprintln(os.Stderr, "usage: go run ./cmd/munsellize input-image [top-n]")
		os.Exit(1)
	}
	topn := 10
	if len(os.Args) == 3 {
		if topn, err = strconv.Atoi(os.Args[2]); err != nil {
			return
		}
	}
	f, err := os.Open(os.Args[1])
	if err != nil {
		return
	}
	defer f.Close()
	img, format, err := image.Decode(f)
	if err != nil {
		return
	}
	conv, err := batch.NewConverter(cie.Bradford)
	if err != nil {
		return
	}
	hist, err := conv.ConvertImage(img)
	if err != nil {
		return
	}
	b := img.Bounds()
	fmt.Printf("%s: %s %dx%d, %d pixels counted, %d distinct colors solved\n",
		os.Args[1], format, b.Dx(), b.Dy(), hist.Total, conv.CacheSize())
	if hist.Unconverged > 0 {
		fmt.Printf("%d pixels beyond the renotation coverage, worst chromaticity miss %.3g\n",
			hist.Unconverged, hist.MaxResidual)
	}
	for _, bc := range hist.Top(topn) {
		fmt.Printf("%6.2f%%  %s\n", 100*hist.Share(bc.Count), bc.Spec)
	}
}
