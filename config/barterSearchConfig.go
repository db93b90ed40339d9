package config

import "github.com/Xushengqwer/go-common/config"

// BarterSearchConfig 是物品搜索服务的聚合配置根，由 core.LoadConfig 从 YAML 填充。
type BarterSearchConfig struct {
	Server              config.ServerConfig `mapstructure:"server" json:"server" yaml:"server"`
	ZapConfig           config.ZapConfig    `mapstructure:"zapConfig" json:"zapConfig" yaml:"zapConfig"`
	TracerConfig        config.TracerConfig `mapstructure:"tracerConfig" json:"tracerConfig" yaml:"tracerConfig"`
	KafkaConfig         KafkaConfig         `mapstructure:"kafkaConfig" json:"kafkaConfig" yaml:"kafkaConfig"`
	ElasticsearchConfig ESConfig            `mapstructure:"elasticsearchConfig" json:"elasticsearchConfig" yaml:"elasticsearchConfig"`
}
