// Package cv 提供 OCR 前的图像预处理
//
// 截图先转为单通道灰度图，再编码为 PNG 交给 OCR 引擎:
//
//	gray, err := cv.Grayscale(img)
//	if err != nil {
//	    return err
//	}
//	data, err := cv.EncodePNG(gray)
package cv
