package models

import (
	"time"

	"github.com/Xushengqwer/go-common/models/enums"
)

// KafkaItemUpsertEvent 镜像了物品管理服务发送的物品创建/更新/审核通过事件的结构。
// 一条事件携带完整文档，消费侧整体覆盖索引（幂等 upsert）。
type KafkaItemUpsertEvent struct {
	EventID       string       `json:"event_id"`       // 事件唯一标识，用于日志追踪。
	ID            uint64       `json:"id"`             // 物品的唯一标识符。
	Title         string       `json:"title"`          // 物品标题。
	Description   string       `json:"description"`    // 物品描述。
	Category      string       `json:"category"`       // 物品类目。
	Condition     string       `json:"condition"`      // 物品成色。
	Location      string       `json:"location"`       // 位置描述文本。
	Coordinates   *GeoPoint    `json:"coordinates"`    // 可选坐标；物主未填写时为 null。
	Available     bool         `json:"available"`      // 是否可交换。下架/已成交时物品服务会推送 false。
	Status        enums.Status `json:"status"`         // 审核状态。
	OwnerID       string       `json:"owner_id"`       // 物主的用户 ID。
	OwnerUsername string       `json:"owner_username"` // 物主用户名。
	OwnerAvatar   string       `json:"owner_avatar"`   // 物主头像的 URL。
	CreatedAt     time.Time    `json:"created_at"`     // 物品创建时间。
}

// KafkaItemDeleteEvent 镜像了物品管理服务发送的物品删除事件的结构。
type KafkaItemDeleteEvent struct {
	EventID   string `json:"event_id"`  // 事件唯一标识。
	Operation string `json:"operation"` // 操作类型，期望值为 "delete"。
	ItemID    uint64 `json:"item_id"`   // 需要删除的物品的唯一标识符。
}
