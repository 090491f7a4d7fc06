package ocr

import (
	"errors"
	"image"
	"image/color"
	"image/draw"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/golang/freetype"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"

	goocr "github.com/getcharzp/go-ocr"

	"github.com/zoeyai/textclicker/pkg/auto"
	"github.com/zoeyai/textclicker/pkg/auto/text"
)

// fakeEngine 记录输入并返回预设片段
type fakeEngine struct {
	fragments []auto.Fragment
	err       error
	lastImg   image.Image
	lastOpts  RecognizeOptions
	closed    bool
}

func (e *fakeEngine) Recognize(img image.Image, opts RecognizeOptions) ([]auto.Fragment, error) {
	e.lastImg = img
	e.lastOpts = opts
	return e.fragments, e.err
}

func (e *fakeEngine) Name() string { return "fake" }

func (e *fakeEngine) Close() error {
	e.closed = true
	return nil
}

func TestDetectorFiltersBlankFragments(t *testing.T) {
	engine := &fakeEngine{fragments: []auto.Fragment{
		{Text: "更改", X: 0, Y: 0, Width: 20, Height: 10, Confidence: 91},
		{Text: "  ", X: 30, Y: 0, Width: 5, Height: 10},
		{Text: "", X: 40, Y: 0, Width: 5, Height: 10},
		{Text: "奖励", X: 50, Y: 0, Width: 20, Height: 10, Confidence: 88},
	}}
	d := NewDetector(engine, RecognizeOptions{})

	got, err := d.Detect(image.NewRGBA(image.Rect(0, 0, 80, 20)))
	if err != nil {
		t.Fatalf("Detect 失败: %v", err)
	}
	if len(got) != 2 || got[0].Text != "更改" || got[1].Text != "奖励" {
		t.Errorf("应只保留非空片段, 实际 %+v", got)
	}
	if _, ok := engine.lastImg.(*image.Gray); !ok {
		t.Errorf("引擎应收到灰度图, 实际 %T", engine.lastImg)
	}
	if engine.lastOpts.Language != DefaultLanguage || engine.lastOpts.Mode != ModeSingleBlock {
		t.Errorf("未指定参数时应使用默认值, 实际 %+v", engine.lastOpts)
	}
}

func TestDetectorEmptyResult(t *testing.T) {
	d := NewDetector(&fakeEngine{}, DefaultRecognizeOptions())
	got, err := d.Detect(image.NewGray(image.Rect(0, 0, 10, 10)))
	if err != nil {
		t.Fatalf("没有文字不应返回错误: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Errorf("应返回空切片, 实际 %#v", got)
	}
}

func TestDetectorWrapsEngineError(t *testing.T) {
	d := NewDetector(&fakeEngine{err: errors.New("tessdata not found")}, DefaultRecognizeOptions())

	_, err := d.Detect(image.NewGray(image.Rect(0, 0, 10, 10)))
	var ocrErr *auto.OCRBackendError
	if !errors.As(err, &ocrErr) {
		t.Fatalf("应返回 OCRBackendError, 实际 %v", err)
	}
	if ocrErr.Engine != "fake" {
		t.Errorf("错误应标明引擎, 实际 %s", ocrErr.Engine)
	}
}

func TestDetectorClose(t *testing.T) {
	engine := &fakeEngine{}
	d := NewDetector(engine, DefaultRecognizeOptions())
	if err := d.Close(); err != nil {
		t.Fatal(err)
	}
	if !engine.closed {
		t.Error("Close 应关闭底层引擎")
	}
	if _, err := d.Detect(image.NewGray(image.Rect(0, 0, 1, 1))); !auto.IsOCRBackendError(err) {
		t.Errorf("关闭后识别应返回 OCRBackendError, 实际 %v", err)
	}
}

func TestConvertResult(t *testing.T) {
	f := convertResult(goocr.RecResult{Box: [4]int{10, 20, 50, 40}, Text: " 打开 ", Score: 0.93})
	if f.Text != "打开" {
		t.Errorf("文字应去除首尾空白, 实际 %q", f.Text)
	}
	if f.X != 10 || f.Y != 20 || f.Width != 40 || f.Height != 20 {
		t.Errorf("边界框转换错误: %+v", f)
	}
	if f.Confidence < 92.9 || f.Confidence > 93.1 {
		t.Errorf("置信度应换算为 0-100, 实际 %.2f", f.Confidence)
	}
	if c := f.Center(); c != (auto.Point{X: 30, Y: 30}) {
		t.Errorf("中心点错误: %s", c)
	}
}

func TestNewEngineUnknown(t *testing.T) {
	if _, err := NewEngine(Config{Engine: "easyocr"}); err == nil {
		t.Error("未知引擎应返回错误")
	}
}

func TestPaddleMissingModels(t *testing.T) {
	dir := t.TempDir()
	cfg := Config{
		Engine:             EnginePaddle,
		OnnxRuntimeLibPath: filepath.Join(dir, OnnxRuntimeFileName()),
		DetModelPath:       filepath.Join(dir, "det.onnx"),
		RecModelPath:       filepath.Join(dir, "rec.onnx"),
		DictPath:           filepath.Join(dir, "dict.txt"),
	}
	if IsAvailable(cfg) {
		t.Error("模型缺失时不应可用")
	}
	if _, err := NewEngine(cfg); err == nil {
		t.Error("模型缺失时创建引擎应失败")
	}
}

func TestConfigRecognizeOptions(t *testing.T) {
	opts := Config{Language: "eng"}.RecognizeOptions()
	if opts.Language != "eng" || opts.Mode != ModeSingleBlock {
		t.Errorf("期望 eng/PSM6, 实际 %+v", opts)
	}
}

// renderText 使用 freetype 在白底上绘制黑色文字
func renderText(t *testing.T, f *truetype.Font, lines []string, size float64, w, h int) *image.RGBA {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)

	c := freetype.NewContext()
	c.SetDPI(72)
	c.SetFont(f)
	c.SetFontSize(size)
	c.SetClip(img.Bounds())
	c.SetDst(img)
	c.SetSrc(image.NewUniform(color.Black))
	c.SetHinting(font.HintingFull)

	y := int(size) + 20
	for _, line := range lines {
		if _, err := c.DrawString(line, freetype.Pt(20, y)); err != nil {
			t.Fatalf("绘制文字失败: %v", err)
		}
		y += int(size * 2)
	}
	return img
}

// newTesseractOrSkip 创建 tesseract 引擎，语言包缺失时跳过测试
func newTesseractOrSkip(t *testing.T, lang string) *Detector {
	t.Helper()
	cfg := Config{Engine: EngineTesseract, Language: lang}
	if err := Probe(cfg); err != nil {
		t.Skipf("跳过测试：tesseract (%s) 不可用: %v", lang, err)
	}
	engine, err := NewEngine(cfg)
	if err != nil {
		t.Fatal(err)
	}
	d := NewDetector(engine, cfg.RecognizeOptions())
	t.Cleanup(func() { d.Close() })
	return d
}

func TestTesseractLocatesRenderedText(t *testing.T) {
	d := newTesseractOrSkip(t, "eng")
	t.Logf("tesseract 版本: %s", TesseractVersion())

	f, err := truetype.Parse(goregular.TTF)
	if err != nil {
		t.Fatalf("解析字体失败: %v", err)
	}
	img := renderText(t, f, []string{"Change Reward", "Open Chest"}, 32, 480, 160)

	fragments, err := d.Detect(img)
	if err != nil {
		t.Fatalf("Detect 失败: %v", err)
	}
	for _, fr := range fragments {
		t.Logf("片段: %q (%d, %d, %d, %d) %.1f", fr.Text, fr.X, fr.Y, fr.Width, fr.Height, fr.Confidence)
	}

	lines := text.Assemble(fragments, text.DefaultLineThreshold)
	if len(lines) != 2 {
		t.Errorf("应识别为 2 行, 实际 %d", len(lines))
	}
	anchor, lineText, ok := text.FindInLines("Open", lines)
	if !ok {
		t.Fatalf("未找到 Open, 共 %d 行", len(lines))
	}
	t.Logf("行 %q 锚点 %+v", lineText, anchor)
	if anchor.Y < 60 {
		t.Errorf("Open 应位于第二行, 锚点 y=%d", anchor.Y)
	}
}

// loadCJKFont 加载系统中文字体
func loadCJKFont() *truetype.Font {
	paths := []string{
		"/System/Library/Fonts/STHeiti Medium.ttc",
		"/Library/Fonts/Arial Unicode.ttf",
		"C:\\Windows\\Fonts\\simhei.ttf",
		"/usr/share/fonts/truetype/droid/DroidSansFallbackFull.ttf",
		"/usr/share/fonts/truetype/wqy/wqy-microhei.ttc",
	}
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			continue
		}
		if f, err := truetype.Parse(data); err == nil {
			return f
		}
	}
	return nil
}

func TestTesseractChineseRewardText(t *testing.T) {
	f := loadCJKFont()
	if f == nil {
		t.Skip("跳过测试：未找到中文字体")
	}
	d := newTesseractOrSkip(t, DefaultLanguage)

	img := renderText(t, f, []string{"更改奖励确认"}, 36, 360, 80)
	fragments, err := d.Detect(img)
	if err != nil {
		t.Fatalf("Detect 失败: %v", err)
	}

	lines := text.Assemble(fragments, text.DefaultLineThreshold)
	joined := make([]string, 0, len(lines))
	for _, l := range lines {
		joined = append(joined, l.Text())
	}
	t.Logf("识别行: %v", joined)

	if _, _, ok := text.FindInLines("更改奖励", lines); !ok {
		t.Logf("中文识别结果与字体相关，未找到目标: %s", strings.Join(joined, " | "))
	}
}
