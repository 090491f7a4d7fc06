package cv

import (
	"fmt"
	"image"
	"image/draw"

	"gocv.io/x/gocv"
)

// ImageToMat 将 image.Image 转换为三通道 gocv.Mat（OpenCV 默认的 BGR 顺序）
func ImageToMat(img image.Image) (gocv.Mat, error) {
	if img == nil {
		return gocv.Mat{}, fmt.Errorf("图像为空")
	}
	mat, err := gocv.ImageToMatRGB(img)
	if err != nil {
		return gocv.Mat{}, fmt.Errorf("图像转换失败: %w", err)
	}
	return mat, nil
}

// MatToImage 将 gocv.Mat 转换为 image.Image
func MatToImage(mat gocv.Mat) (image.Image, error) {
	img, err := mat.ToImage()
	if err != nil {
		return nil, fmt.Errorf("Mat 转换失败: %w", err)
	}
	return img, nil
}

// ToGray 转换为灰度 Mat
func ToGray(src gocv.Mat) gocv.Mat {
	if src.Channels() == 1 {
		return src.Clone()
	}
	dst := gocv.NewMat()
	gocv.CvtColor(src, &dst, gocv.ColorBGRToGray)
	return dst
}

// Grayscale 将截图转换为单通道灰度图
func Grayscale(img image.Image) (*image.Gray, error) {
	if g, ok := img.(*image.Gray); ok {
		return g, nil
	}

	src, err := ImageToMat(img)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	gray := ToGray(src)
	defer gray.Close()

	out, err := MatToImage(gray)
	if err != nil {
		return nil, err
	}
	if g, ok := out.(*image.Gray); ok {
		return g, nil
	}
	// 正常情况下单通道 Mat 总是得到 *image.Gray
	g := image.NewGray(out.Bounds())
	draw.Draw(g, g.Bounds(), out, out.Bounds().Min, draw.Src)
	return g, nil
}

// EncodePNG 将图像编码为 PNG 字节
func EncodePNG(img image.Image) ([]byte, error) {
	if g, ok := img.(*image.Gray); ok {
		mat, err := gocv.ImageGrayToMatGray(g)
		if err != nil {
			return nil, fmt.Errorf("图像转换失败: %w", err)
		}
		defer mat.Close()
		return encodeMat(mat)
	}

	mat, err := ImageToMat(img)
	if err != nil {
		return nil, err
	}
	defer mat.Close()
	return encodeMat(mat)
}

func encodeMat(mat gocv.Mat) ([]byte, error) {
	buf, err := gocv.IMEncode(gocv.PNGFileExt, mat)
	if err != nil {
		return nil, fmt.Errorf("PNG 编码失败: %w", err)
	}
	defer buf.Close()

	data := buf.GetBytes()
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

// ToRGBA 将任意图像转换为 RGBA，供需要三通道输入的引擎使用
func ToRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok {
		return rgba
	}
	b := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
	return rgba
}
