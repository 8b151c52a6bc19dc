package facemasking

import (
	"image"
	"image/color"
	"math/rand"
	"testing"
)

func TestRasterizeSquare(t *testing.T) {
	sq := Polygon{{10, 10}, {20, 10}, {20, 20}, {10, 20}}
	mask := Rasterize(sq, image.Rect(0, 0, 30, 30))
	if n := maskArea(mask); n != 100 {
		t.Fatalf("square covers %d pixels, want 100", n)
	}
	for _, pt := range []image.Point{{10, 10}, {19, 19}, {15, 12}} {
		if mask.AlphaAt(pt.X, pt.Y).A == 0 {
			t.Errorf("pixel %v should be inside", pt)
		}
	}
	for _, pt := range []image.Point{{9, 10}, {20, 15}, {15, 20}, {0, 0}} {
		if mask.AlphaAt(pt.X, pt.Y).A != 0 {
			t.Errorf("pixel %v should be outside", pt)
		}
	}
}

func TestRasterizeClipsToBounds(t *testing.T) {
	big := Polygon{{-50, -50}, {500, -50}, {500, 500}, {-50, 500}}
	mask := Rasterize(big, image.Rect(0, 0, 8, 6))
	if n := maskArea(mask); n != 48 {
		t.Errorf("covers %d pixels, want all 48", n)
	}
}

func TestFillSolidQuadrilateral(t *testing.T) {
	buf := uniform(100, 100, white)
	Grayscale(buf)
	quad := Polygon{{10, 80}, {50, 95}, {90, 80}, {50, 60}}

	if !Fill(buf, quad, FillSpec{Kind: FillSolid, Tone: 200}) {
		t.Fatal("Fill reported nothing painted")
	}
	painted := 0
	for y := 0; y < 100; y++ {
		for x := 0; x < 100; x++ {
			got := buf.NRGBAAt(x, y)
			want := white
			if insidePolygon(quad, float64(x)+0.5, float64(y)+0.5) {
				want = color.NRGBA{200, 200, 200, 255}
				painted++
			}
			if got != want {
				t.Fatalf("pixel (%d,%d) = %v, want %v", x, y, got, want)
			}
		}
	}
	if painted == 0 {
		t.Fatal("no pixel center inside the quadrilateral")
	}
}

func TestFillDegenerate(t *testing.T) {
	tests := []struct {
		name string
		poly Polygon
	}{
		{"empty", nil},
		{"single point", Polygon{{5, 5}}},
		{"two points", Polygon{{1, 1}, {9, 9}}},
		{"collinear", Polygon{{0, 0}, {5, 5}, {9, 9}}},
		{"outside buffer", Polygon{{100, 100}, {120, 100}, {120, 120}}},
	}
	for _, tt := range tests {
		for _, kind := range []FillKind{FillSolid, FillScratch, FillBlur} {
			t.Run(tt.name+"/"+kind.String(), func(t *testing.T) {
				buf := uniform(10, 10, color.NRGBA{40, 40, 40, 255})
				before := append([]uint8(nil), buf.Pix...)
				if Fill(buf, tt.poly, FillSpec{Kind: kind, Tone: 200, Jitter: 7, Stride: 3}) {
					t.Error("Fill reported painting a degenerate polygon")
				}
				for i := range before {
					if buf.Pix[i] != before[i] {
						t.Fatalf("byte %d changed", i)
					}
				}
			})
		}
	}
}

func TestFillScratchDistribution(t *testing.T) {
	const size, tone, jitter = 60, 128, 7
	sq := Polygon{{0, 0}, {size, 0}, {size, size}, {0, size}}
	rnd := rand.New(rand.NewSource(42))

	total, written := 0, 0
	for run := 0; run < 5; run++ {
		buf := uniform(size, size, color.NRGBA{0, 0, 0, 255})
		Fill(buf, sq, FillSpec{Kind: FillScratch, Tone: tone, Jitter: jitter, Stride: 3, Rand: rnd})
		for y := 0; y < size; y++ {
			for x := 0; x < size; x++ {
				v := int(buf.NRGBAAt(x, y).R)
				if (x+y)%3 != 0 {
					if v != 0 {
						t.Fatalf("unselected pixel (%d,%d) written with %d", x, y, v)
					}
					continue
				}
				if v < tone-jitter || v > tone+jitter {
					t.Fatalf("pixel (%d,%d) = %d outside jitter bound", x, y, v)
				}
				total += v
				written++
			}
		}
	}

	if want := 5 * size * size / 3; written != want {
		t.Errorf("wrote %d pixels, want %d", written, want)
	}
	mean := float64(total) / float64(written)
	if mean < tone-1 || mean > tone+1 {
		t.Errorf("mean written tone = %.2f, want about %d", mean, tone)
	}
}

func TestFillScratchClampsTone(t *testing.T) {
	buf := uniform(9, 9, color.NRGBA{100, 100, 100, 255})
	sq := Polygon{{0, 0}, {9, 0}, {9, 9}, {0, 9}}
	Fill(buf, sq, FillSpec{Kind: FillScratch, Tone: 252, Jitter: 7, Rand: rand.New(rand.NewSource(1))})
	for y := 0; y < 9; y++ {
		for x := 0; x < 9; x++ {
			if (x+y)%DefaultStride == 0 && buf.NRGBAAt(x, y).R < 245 {
				t.Fatalf("pixel (%d,%d) = %d", x, y, buf.NRGBAAt(x, y).R)
			}
		}
	}
}

func TestFillBlurStaysInside(t *testing.T) {
	buf := image.NewNRGBA(image.Rect(0, 0, 40, 40))
	for y := 0; y < 40; y++ {
		for x := 0; x < 40; x++ {
			v := uint8(0)
			if x%2 == 0 {
				v = 255
			}
			buf.SetNRGBA(x, y, color.NRGBA{v, v, v, 255})
		}
	}
	orig := image.NewNRGBA(buf.Rect)
	copy(orig.Pix, buf.Pix)

	sq := Polygon{{10, 10}, {30, 10}, {30, 30}, {10, 30}}
	if !Fill(buf, sq, FillSpec{Kind: FillBlur, Sigma: 2}) {
		t.Fatal("blur fill painted nothing")
	}
	changed := 0
	for y := 0; y < 40; y++ {
		for x := 0; x < 40; x++ {
			inside := x >= 10 && x < 30 && y >= 10 && y < 30
			if buf.NRGBAAt(x, y) != orig.NRGBAAt(x, y) {
				if !inside {
					t.Fatalf("pixel (%d,%d) outside the region changed", x, y)
				}
				changed++
			}
		}
	}
	if changed == 0 {
		t.Error("no pixel inside the region was blurred")
	}
}

func TestParseFillKind(t *testing.T) {
	for _, k := range []FillKind{FillSolid, FillScratch, FillBlur} {
		got, ok := ParseFillKind(k.String())
		if !ok || got != k {
			t.Errorf("ParseFillKind(%q) = %v, %v", k.String(), got, ok)
		}
	}
	if _, ok := ParseFillKind("plaid"); ok {
		t.Error("unknown fill accepted")
	}
}
