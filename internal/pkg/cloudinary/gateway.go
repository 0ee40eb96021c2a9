package cloudinary

import (
	"Gazette/internal/api/config"
	"Gazette/internal/pkg/media"
	"context"
	"errors"
	"fmt"
	log "log/slog"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

const (
	destroyOK       = "ok"
	destroyNotFound = "not found"
)

// Gateway 基于 Cloudinary 的媒体网关，引用即 public_id
type Gateway struct {
	cld    *cloudinary.Cloudinary
	folder string
}

// NewGateway 使用 Init 初始化后的全局客户端
func NewGateway() *Gateway {
	return &Gateway{cld: Client, folder: config.Cfg.Cloudinary.Folder}
}

func (s *Gateway) Upload(ctx context.Context, file *media.File, kind media.Kind) (string, error) {
	if s.cld == nil {
		return "", errors.New("cloudinary client is not initialized")
	}

	res, err := s.cld.Upload.Upload(ctx, file.Reader, uploader.UploadParams{
		PublicID:       s.publicID(kind),
		ResourceType:   string(kind),
		Overwrite:      api.Bool(false),
		UniqueFilename: api.Bool(false),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload file: %w", err)
	}
	if res.Error.Message != "" {
		return "", fmt.Errorf("failed to upload file: %s", res.Error.Message)
	}
	if res.PublicID == "" {
		return "", errors.New("failed to upload file: empty public id")
	}
	return res.PublicID, nil
}

// Delete 对不存在的 public_id 视为成功
func (s *Gateway) Delete(ctx context.Context, ref string, kind media.Kind) error {
	if s.cld == nil {
		return errors.New("cloudinary client is not initialized")
	}

	res, err := s.cld.Upload.Destroy(ctx, uploader.DestroyParams{
		PublicID:     ref,
		ResourceType: string(kind),
		Invalidate:   api.Bool(true),
	})
	if err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	if res.Error.Message != "" {
		return fmt.Errorf("failed to delete file: %s", res.Error.Message)
	}
	switch res.Result {
	case destroyOK:
		return nil
	case destroyNotFound:
		log.WarnContext(ctx, "cloudinary asset already gone", "ref", ref, "kind", kind)
		return nil
	default:
		return fmt.Errorf("failed to delete file: unexpected result %q", res.Result)
	}
}

func (s *Gateway) PublicURL(ref string, kind media.Kind) string {
	if ref == "" || s.cld == nil {
		return ""
	}

	var url string
	var err error
	if kind == media.KindVideo {
		video, vErr := s.cld.Video(ref)
		if vErr != nil {
			return ""
		}
		url, err = video.String()
	} else {
		image, iErr := s.cld.Image(ref)
		if iErr != nil {
			return ""
		}
		url, err = image.String()
	}
	if err != nil {
		return ""
	}
	return url
}

func (s *Gateway) publicID(kind media.Kind) string {
	name := media.ObjectName(kind, "")
	if s.folder == "" {
		return name
	}
	return strings.TrimSuffix(s.folder, "/") + "/" + name
}
