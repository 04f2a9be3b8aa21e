package validator

import (
	"image"
	"io"
	"net/http"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// allowedImageMimeTypes Allowed image types
var allowedImageMimeTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
	"image/bmp":  ".bmp",
}

// SniffImage 检测文件内容的 MIME 类型，返回类型与是否为允许的图片
func SniffImage(file io.ReadSeeker) (string, bool, error) {
	buffer := make([]byte, 512)
	_, err := file.Read(buffer)
	if err != nil && err != io.EOF {
		return "", false, err
	}

	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return "", false, err
	}

	mimeType := http.DetectContentType(buffer)
	_, ok := allowedImageMimeTypes[mimeType]
	return mimeType, ok, nil
}

// ExtensionForMime 返回 MIME 类型对应的文件扩展名
func ExtensionForMime(mimeType string) string {
	return allowedImageMimeTypes[mimeType]
}

// DecodeDimensions 解码图片尺寸，读取后将 reader 复位
func DecodeDimensions(file io.ReadSeeker) (width, height int, err error) {
	cfg, _, err := image.DecodeConfig(file)
	if err != nil {
		// 无法解码尺寸不视为致命错误，复位后交由调用方决定
		if _, seekErr := file.Seek(0, io.SeekStart); seekErr != nil {
			return 0, 0, seekErr
		}
		return 0, 0, err
	}

	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return 0, 0, err
	}
	return cfg.Width, cfg.Height, nil
}
