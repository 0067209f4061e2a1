package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// AppConfig 是应用配置（文件 + 环境变量，环境变量前缀 ADMITKIT）。
type AppConfig struct {
	Table      TableConfig      `yaml:"table" mapstructure:"table"`
	Store      StoreConfig      `yaml:"store" mapstructure:"store"`
	Classifier ClassifierConfig `yaml:"classifier" mapstructure:"classifier"`
	Encoders   EncodersConfig   `yaml:"encoders" mapstructure:"encoders"`
	Pipeline   PipelineConfig   `yaml:"pipeline" mapstructure:"pipeline"`
	Batch      BatchConfig      `yaml:"batch" mapstructure:"batch"`
	Log        LogConfig        `yaml:"log" mapstructure:"log"`
	Metrics    MetricsConfig    `yaml:"metrics" mapstructure:"metrics"`
}

// TableConfig 配置数据表来源。
type TableConfig struct {
	Source string `yaml:"source" mapstructure:"source"` // csv / xlsx / store；为空时按扩展名推断
	Path   string `yaml:"path" mapstructure:"path"`
	Sheet  string `yaml:"sheet" mapstructure:"sheet"`
	Key    string `yaml:"key" mapstructure:"key"` // 存储中的快照 key
}

// StoreConfig 配置快照存储。
type StoreConfig struct {
	Driver  string `yaml:"driver" mapstructure:"driver"` // memory / redis
	Addr    string `yaml:"addr" mapstructure:"addr"`
	DB      int    `yaml:"db" mapstructure:"db"`
	TTLSecs int    `yaml:"ttl_secs" mapstructure:"ttl_secs"`
}

// ClassifierConfig 配置录取概率分类器。
type ClassifierConfig struct {
	Kind        string `yaml:"kind" mapstructure:"kind"` // lr / rpc / kserve / none
	Name        string `yaml:"name" mapstructure:"name"`
	Path        string `yaml:"path" mapstructure:"path"`
	Endpoint    string `yaml:"endpoint" mapstructure:"endpoint"`
	TimeoutSecs int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	Serialize   bool   `yaml:"serialize" mapstructure:"serialize"`

	// 仅 kserve 使用
	Protocol string `yaml:"protocol" mapstructure:"protocol"` // v1 / v2
	Version  string `yaml:"version" mapstructure:"version"`
	Token    string `yaml:"token" mapstructure:"token"` // 非空时以 Bearer 认证
}

// EncodersConfig 配置类别编码器文件。
type EncodersConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// PipelineConfig 配置流水线；Path 为空时使用默认流水线。
type PipelineConfig struct {
	Path       string `yaml:"path" mapstructure:"path"`
	MaxResults int    `yaml:"max_results" mapstructure:"max_results"` // 全局结果上限，0 表示不限
}

// BatchConfig 配置批量查询。
type BatchConfig struct {
	Concurrency int `yaml:"concurrency" mapstructure:"concurrency"`
	TimeoutSecs int `yaml:"timeout_secs" mapstructure:"timeout_secs"`
}

// LogConfig 配置日志。
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// MetricsConfig 配置指标。
type MetricsConfig struct {
	Enabled bool `yaml:"enabled" mapstructure:"enabled"`
}

// Load 读取配置文件与环境变量。path 为空时在当前目录查找 admitkit.yaml（可选）。
func Load(path string) (*AppConfig, error) {
	v := viper.New()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("admitkit")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("ADMITKIT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("table.path", "eamcet_2024.csv")
	v.SetDefault("table.key", "admitkit:table")
	v.SetDefault("store.driver", "memory")
	v.SetDefault("store.addr", "localhost:6379")
	v.SetDefault("classifier.kind", "lr")
	v.SetDefault("classifier.path", "model.json")
	v.SetDefault("classifier.timeout_secs", 5)
	v.SetDefault("encoders.path", "encoders.yaml")
	v.SetDefault("batch.concurrency", 4)
	v.SetDefault("batch.timeout_secs", 30)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || path != "" {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg AppConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}
	return &cfg, nil
}

// InitLogger 初始化全局 zap logger。
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)
	return nil
}
