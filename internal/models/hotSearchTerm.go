package models

import "time"

// HotSearchTerm 定义 API 返回的热门搜索词的结构，市场首页的"大家都在找"模块消费它。
type HotSearchTerm struct {
	Term  string `json:"term"`            // 搜索词本身
	Count int64  `json:"count,omitempty"` // 搜索词的频率计数，为 0 时省略
}

// HotSearchTermES 定义在 Elasticsearch 中存储热门搜索词统计数据的结构。
type HotSearchTermES struct {
	Term           string    `json:"term"`             // 搜索词本身，同时作为文档 ID
	Count          int64     `json:"count"`            // 该搜索词被搜索的总次数
	LastSearchedAt time.Time `json:"last_searched_at"` // 该搜索词最后一次被搜索的时间，UTC
}
