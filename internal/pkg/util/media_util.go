package util

import (
	"errors"
	"io"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// GetSafeContentType 按文件头嗅探 MIME，读取后将 reader 复位
func GetSafeContentType(r io.ReadSeeker) (string, error) {
	if r == nil {
		return "", errors.New("nil reader")
	}
	mt, err := mimetype.DetectReader(r)
	if err != nil {
		return "", err
	}
	if _, err = r.Seek(0, io.SeekStart); err != nil {
		return "", err
	}
	return BaseMime(mt.String()), nil
}

// BaseMime 去掉参数部分并转小写，如 "image/png; charset=binary" -> "image/png"
func BaseMime(contentType string) string {
	if i := strings.IndexByte(contentType, ';'); i >= 0 {
		contentType = contentType[:i]
	}
	return strings.ToLower(strings.TrimSpace(contentType))
}
