package config

import "time"

// IndexSpecificConfig 定义了单个 Elasticsearch 索引的特定配置，如分片和副本数。
// 物品索引和热门搜索词索引各自持有一份。
type IndexSpecificConfig struct {
	Name             string `mapstructure:"name" json:"name" yaml:"name"`                                     // 索引的名称
	NumberOfShards   int    `mapstructure:"numberOfShards" json:"numberOfShards" yaml:"numberOfShards"`       // 该索引的主分片数量
	NumberOfReplicas int    `mapstructure:"numberOfReplicas" json:"numberOfReplicas" yaml:"numberOfReplicas"` // 该索引的每个主分片的副本数量
}

// ESConfig 定义了 Elasticsearch 的连接和索引配置。
type ESConfig struct {
	Addresses []string `mapstructure:"addresses" json:"addresses" yaml:"addresses"`
	Username  string   `mapstructure:"username" json:"username" yaml:"username"`
	Password  string   `mapstructure:"password" json:"password" yaml:"password"`

	// 物品主索引的配置
	ItemsIndex IndexSpecificConfig `mapstructure:"itemsIndex" json:"itemsIndex" yaml:"itemsIndex"`

	// 热门搜索词索引的配置
	HotTermsIndex IndexSpecificConfig `mapstructure:"hotTermsIndex" json:"hotTermsIndex" yaml:"hotTermsIndex"`

	// GeoEnabled 控制物品索引是否在建索引时就包含 coordinates (geo_point) 映射。
	// 为 false 时地理能力视为未配置：附近搜索与 nearest 排序会返回配置错误，
	// 直到管理端通过 geo-index 接口补齐映射。这属于部署配置问题而非用户输入问题。
	GeoEnabled bool `mapstructure:"geoEnabled" json:"geoEnabled" yaml:"geoEnabled"`

	// QueryTimeout 限定单次 count/search 请求的最长等待时间。
	// 超时按致命请求错误处理，不做无限重试。零值时使用 5s 默认值。
	QueryTimeout time.Duration `mapstructure:"queryTimeout" json:"queryTimeout" yaml:"queryTimeout"`
}
