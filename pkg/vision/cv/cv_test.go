package cv

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"
)

func checkerboard(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if (x/4+y/4)%2 == 0 {
				img.Set(x, y, color.RGBA{R: 255, G: 255, B: 255, A: 255})
			} else {
				img.Set(x, y, color.RGBA{R: 255, A: 255})
			}
		}
	}
	return img
}

func TestGrayscale(t *testing.T) {
	src := checkerboard(16, 8)

	gray, err := Grayscale(src)
	if err != nil {
		t.Fatalf("Grayscale 失败: %v", err)
	}
	if gray.Bounds().Dx() != 16 || gray.Bounds().Dy() != 8 {
		t.Fatalf("尺寸应保持 16x8, 实际 %v", gray.Bounds())
	}

	white := gray.GrayAt(0, 0).Y
	red := gray.GrayAt(4, 0).Y
	if white < 250 {
		t.Errorf("白色像素灰度应接近 255, 实际 %d", white)
	}
	if red >= white {
		t.Errorf("红色像素灰度应低于白色, 实际 %d", red)
	}
}

func TestGrayscalePassthrough(t *testing.T) {
	g := image.NewGray(image.Rect(0, 0, 3, 3))
	out, err := Grayscale(g)
	if err != nil {
		t.Fatal(err)
	}
	if out != g {
		t.Error("灰度图应直接返回")
	}
}

func TestEncodePNG(t *testing.T) {
	for name, img := range map[string]image.Image{
		"rgba": checkerboard(10, 6),
		"gray": image.NewGray(image.Rect(0, 0, 10, 6)),
	} {
		data, err := EncodePNG(img)
		if err != nil {
			t.Fatalf("%s: EncodePNG 失败: %v", name, err)
		}
		decoded, err := png.Decode(bytes.NewReader(data))
		if err != nil {
			t.Fatalf("%s: 输出不是合法 PNG: %v", name, err)
		}
		if decoded.Bounds().Dx() != 10 || decoded.Bounds().Dy() != 6 {
			t.Errorf("%s: 尺寸错误 %v", name, decoded.Bounds())
		}
	}
}

func TestToRGBA(t *testing.T) {
	g := image.NewGray(image.Rect(2, 2, 6, 5))
	rgba := ToRGBA(g)
	if rgba.Bounds() != image.Rect(0, 0, 4, 3) {
		t.Errorf("应平移到原点, 实际 %v", rgba.Bounds())
	}
}
