package cloudinary

import (
	"Gazette/internal/api/config"
	"fmt"

	"github.com/cloudinary/cloudinary-go/v2"
)

// Client 全局 Cloudinary 客户端实例
var Client *cloudinary.Cloudinary

// Init 初始化 Cloudinary 客户端
func Init() error {
	cfg := config.Cfg.Cloudinary
	cld, err := cloudinary.NewFromURL(cfg.URL)
	if err != nil {
		return fmt.Errorf("failed to initialize cloudinary client: %w", err)
	}
	cld.Config.URL.Secure = true
	Client = cld
	return nil
}
