package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Cfg 全局可访问的配置实例
var Cfg *Config

const (
	MiB = 1 << 20

	DefaultMaxImageSize = 15 * MiB
	DefaultMaxVideoSize = 100 * MiB
)

// LoadConfig 从文件加载配置并填充到 Cfg
func LoadConfig() error {
	cfg, err := Load(viper.New(), "./configs")
	if err != nil {
		return err
	}
	Cfg = cfg
	return nil
}

// Load 读取指定目录下的 config.yaml，环境变量 GAZETTE_* 优先
func Load(v *viper.Viper, paths ...string) (*Config, error) {
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	for _, p := range paths {
		v.AddConfigPath(p)
	}
	v.SetEnvPrefix("gazette")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("database.max_idle", 10)
	v.SetDefault("database.max_open", 50)
	v.SetDefault("database.max_lifetime", 30)
	v.SetDefault("redis.pool_size", 20)
	v.SetDefault("media.provider", "minio")
	v.SetDefault("media.max_image_size", DefaultMaxImageSize)
	v.SetDefault("media.max_video_size", DefaultMaxVideoSize)
	v.SetDefault("media.compensation_timeout", 10)
	v.SetDefault("media.pending_grace", 3600)
	v.SetDefault("media.cleanup_spec", "0 */10 * * * *")
	v.SetDefault("cloudinary.folder", "posts")
	v.SetDefault("kafka.post_topic", "gazette.post.events")
	v.SetDefault("jwt.issuer", "Gazette")
	v.SetDefault("logstash.index", "logstash-gazette")
}
