package config

// Config 配置主体
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	DB         DBConfig         `mapstructure:"database"`
	Redis      RedisConfig      `mapstructure:"redis"`
	Media      MediaConfig      `mapstructure:"media"`
	MinIO      MinIOConfig      `mapstructure:"minio"`
	Cloudinary CloudinaryConfig `mapstructure:"cloudinary"`
	Kafka      KafkaConfig      `mapstructure:"kafka"`
	JWT        JWTConfig        `mapstructure:"jwt"`
	Logstash   LogstashConfig   `mapstructure:"logstash"`
}

// ServerConfig Server配置
type ServerConfig struct {
	Port int `mapstructure:"port"`
}

// DBConfig 数据库配置
type DBConfig struct {
	DSN         string `mapstructure:"dsn"`
	MaxIdle     int    `mapstructure:"max_idle"`
	MaxOpen     int    `mapstructure:"max_open"`
	MaxLifetime int    `mapstructure:"max_lifetime"`
	AutoMigrate bool   `mapstructure:"auto_migrate"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	PoolSize int    `mapstructure:"pool_size"`
}

// MediaConfig 媒体策略配置
type MediaConfig struct {
	// Provider minio | cloudinary
	Provider            string `mapstructure:"provider"`
	MaxImageSize        int64  `mapstructure:"max_image_size"`
	MaxVideoSize        int64  `mapstructure:"max_video_size"`
	CompensationTimeout int    `mapstructure:"compensation_timeout"`
	PendingGrace        int    `mapstructure:"pending_grace"`
	CleanupSpec         string `mapstructure:"cleanup_spec"`
}

// MinIOConfig MinIO配置
type MinIOConfig struct {
	InternalEndpoint string `mapstructure:"internal_endpoint"`
	ExternalEndpoint string `mapstructure:"external_endpoint"`
	AccessKey        string `mapstructure:"access_key"`
	SecretKey        string `mapstructure:"secret_key"`
	MainBucket       string `mapstructure:"main_bucket"`
	InternalUseSSL   bool   `mapstructure:"internal_use_ssl"`
	ExternalUseSSL   bool   `mapstructure:"external_use_ssl"`
}

// CloudinaryConfig Cloudinary配置
type CloudinaryConfig struct {
	URL    string `mapstructure:"url"`
	Folder string `mapstructure:"folder"`
}

type KafkaConfig struct {
	Enable    bool       `mapstructure:"enable"`
	Brokers   []string   `mapstructure:"brokers"`
	Sasl      SaslConfig `mapstructure:"sasl"`
	PostTopic string     `mapstructure:"post_topic"`
}

type SaslConfig struct {
	Enable   bool   `mapstructure:"enable"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
}

// JWTConfig 鉴权配置
type JWTConfig struct {
	Secret string `mapstructure:"secret"`
	Issuer string `mapstructure:"issuer"`
}

// LogstashConfig 远程日志配置
type LogstashConfig struct {
	Address string `mapstructure:"address"`
	Index   string `mapstructure:"index"`
	Token   string `mapstructure:"token"`
}
