package models

import (
	"time"

	"github.com/Xushengqwer/go-common/models/enums"
)

// GeoPoint 表示物品的经纬度坐标，与 Elasticsearch geo_point 的对象格式一致。
type GeoPoint struct {
	Lat float64 `json:"lat"` // 纬度
	Lon float64 `json:"lon"` // 经度
}

// EsItemDocument 表示存储在 Elasticsearch 中的易物物品文档结构。
//
// 物主信息（用户名、头像）在物品管理服务发布事件时就已冗余进文档，
// 搜索结果无需再跨服务补全关联数据。
type EsItemDocument struct {
	ID            uint64       `json:"id"`                                                 // 物品唯一标识符。使用 uint64 以兼容 ES 的 unsigned_long 类型。
	Title         string       `json:"title"`                                              // 物品标题。
	Description   string       `json:"description"`                                        // 物品描述。
	Category      string       `json:"category"`                                           // 物品类目（keyword 精确匹配）。
	Condition     string       `json:"condition"`                                          // 物品成色（keyword 精确匹配）。
	Location      string       `json:"location"`                                           // 位置描述文本，例如"北京市朝阳区"。
	Coordinates   *GeoPoint    `json:"coordinates,omitempty"`                              // 可选坐标，映射为 geo_point；物主未填写时缺省。
	Available     bool         `json:"available"`                                          // 是否可交换。false 的物品永远不出现在搜索结果里。
	Status        enums.Status `json:"status" swaggertype:"primitive,integer" example:"1"` // 审核状态，仅 1 (通过) 的物品可被搜索到。
	OwnerID       string       `json:"owner_id"`                                           // 物主的用户 ID。
	OwnerUsername string       `json:"owner_username"`                                     // 物主用户名（冗余字段）。
	OwnerAvatar   string       `json:"owner_avatar"`                                       // 物主头像 URL（冗余字段，不参与检索）。
	CreatedAt     time.Time    `json:"created_at"`                                         // 物品创建时间，recent/oldest 排序依据。
	UpdatedAt     time.Time    `json:"updated_at"`                                         // 文档在 Elasticsearch 中最后更新的时间戳。
}
