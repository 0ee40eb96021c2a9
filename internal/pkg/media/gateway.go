package media

import (
	"context"
	"io"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Kind 远端存储的资源类别
type Kind string

const (
	KindImage Kind = "image"
	KindVideo Kind = "video"
)

// File 待上传的二进制文件
type File struct {
	Name        string
	ContentType string
	Size        int64
	Reader      io.Reader
}

// Ext 小写扩展名，不含点
func (f *File) Ext() string {
	return strings.TrimPrefix(strings.ToLower(path.Ext(f.Name)), ".")
}

// Gateway 媒体网关：上传要么返回引用要么什么都不留下；删除未知引用不报错
type Gateway interface {
	Upload(ctx context.Context, file *File, kind Kind) (string, error)
	Delete(ctx context.Context, ref string, kind Kind) error
	PublicURL(ref string, kind Kind) string
}

// ObjectName 按日期分目录生成唯一对象名，每次上传都是新的引用
func ObjectName(kind Kind, filename string) string {
	ext := strings.ToLower(path.Ext(filename))
	return string(kind) + "/" + time.Now().Format("2006/01/02/") + uuid.NewString() + ext
}
