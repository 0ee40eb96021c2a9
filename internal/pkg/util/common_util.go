package util

import (
	"fmt"
	"strings"
)

// PtrString 用于将 string 转换为 *string
func PtrString(s string) *string {
	return &s
}

// PtrBool 用于将 bool 转换为 *bool
func PtrBool(b bool) *bool {
	return &b
}

// TrimPtr 去除首尾空白，nil 保持 nil
func TrimPtr(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	return &t
}

// TotalPages 总页数，total 为 0 时返回 0
func TotalPages(total int64, limit int) int {
	if limit <= 0 || total <= 0 {
		return 0
	}
	return int((total + int64(limit) - 1) / int64(limit))
}

// FormatFileSize 人类可读的文件大小
func FormatFileSize(size int64) string {
	const unit = 1024
	if size < unit {
		return fmt.Sprintf("%d B", size)
	}
	div, exp := int64(unit), 0
	for n := size / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(size)/float64(div), "KMGTPE"[exp])
}
