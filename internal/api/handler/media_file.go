package handler

import (
	"Gazette/internal/pkg/media"
	"Gazette/internal/pkg/util"
	"Gazette/internal/service"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// MediaFileField multipart 中媒体文件的字段名
const MediaFileField = "mediaFile"

// readMediaFile 读取可选的媒体文件，按文件头嗅探真实类型。
// 未上传文件时返回 nil；调用方负责执行返回的 closer。
func readMediaFile(c *gin.Context) (*media.File, func(), error) {
	noop := func() {}
	header, err := c.FormFile(MediaFileField)
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return nil, noop, nil
	}
	if err != nil {
		return nil, noop, service.ErrParamInvalid
	}

	reader, err := header.Open()
	if err != nil {
		return nil, noop, service.ErrParamInvalid
	}
	closer := func() { _ = reader.Close() }

	contentType, err := util.GetSafeContentType(reader)
	if err != nil {
		closer()
		return nil, noop, service.ErrParamInvalid
	}

	return &media.File{
		Name:        header.Filename,
		ContentType: contentType,
		Size:        header.Size,
		Reader:      reader,
	}, closer, nil
}
