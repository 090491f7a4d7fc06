package screen

import (
	"fmt"
	"math"

	"github.com/zoeyai/textclicker/pkg/auto"
)

// Scale 截图像素坐标与鼠标输入坐标之间的比例
//
// 截图可能是物理像素（HiDPI / Retina / Windows DPI 缩放），而鼠标输入使用逻辑坐标。
// Scale = 截图尺寸 / 输入坐标空间尺寸，输入坐标 = 截图坐标 / Scale。
type Scale struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// IdentityScale 截图与输入坐标一致
var IdentityScale = Scale{X: 1, Y: 1}

// ToInput 截图坐标 → 输入坐标
func (s Scale) ToInput(p auto.Point) auto.Point {
	return auto.Point{X: auto.ScaleCoord(p.X, s.X), Y: auto.ScaleCoord(p.Y, s.Y)}
}

// ToCapture 输入坐标 → 截图坐标
func (s Scale) ToCapture(p auto.Point) auto.Point {
	return auto.Point{
		X: int(math.Round(float64(p.X) * s.X)),
		Y: int(math.Round(float64(p.Y) * s.Y)),
	}
}

// IsIdentity 是否无需换算
func (s Scale) IsIdentity() bool {
	return s.X == 1 && s.Y == 1
}

func (s Scale) String() string {
	return fmt.Sprintf("%.2fx%.2f", s.X, s.Y)
}

// ScaleFor 由截图尺寸和输入坐标空间尺寸计算比例，任一尺寸非法时返回 IdentityScale
//
// 截图明显大于输入坐标空间时说明输入使用逻辑坐标，比例即 DPI 缩放；
// 两者接近时说明处于同一坐标空间，比例为 1。
func ScaleFor(captureW, captureH, inputW, inputH int) Scale {
	if captureW <= 0 || captureH <= 0 || inputW <= 0 || inputH <= 0 {
		return IdentityScale
	}
	return Scale{
		X: normalizeScale(float64(captureW) / float64(inputW)),
		Y: normalizeScale(float64(captureH) / float64(inputH)),
	}
}

// normalizeScale 超出 [0.5, 4] 的比例视为探测失败，与 1 相差不足 5% 的视为 1
func normalizeScale(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 1
	}
	if v < 0.5 || v > 4 {
		return 1
	}
	if math.Abs(v-1) < 0.05 {
		return 1
	}
	return v
}

// DetectScale 截取一次全屏并与 robotgo 屏幕尺寸对比，探测坐标比例
// 截图失败时返回系统 DPI 缩放比例和截图错误
func DetectScale(c Capturer) (Scale, error) {
	img, err := c.Capture(nil)
	if err != nil {
		dpi := SystemDPIScale()
		return Scale{X: dpi, Y: dpi}, err
	}
	b := img.Bounds()
	w, h := GetScreenSize()
	return ScaleFor(b.Dx(), b.Dy(), w, h), nil
}
