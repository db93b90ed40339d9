package kafka

import (
	"context"
	"errors"
	"fmt"

	"github.com/Xushengqwer/go-common/core"
	"github.com/Xushengqwer/barter_search/internal/models"
	"github.com/Xushengqwer/barter_search/internal/repositories"

	"go.uber.org/zap"
)

// 包级别定义的哨兵错误 (sentinel errors)，用于表示特定的、可预期的错误条件。
// 上层调用者（Kafka 消息处理器）可以使用 errors.Is() 来检查这些错误类型，
// 并据此决定后续行为（例如，对于永久性错误，发送到死信队列而不是重试）。
var (
	ErrInvalidItemID      = errors.New("无效的物品ID")
	ErrEmptyTitle         = errors.New("物品标题不能为空")
	ErrMissingOwnerID     = errors.New("物品物主ID不能为空")
	ErrInvalidEventFormat = errors.New("无效的事件格式或缺少关键数据")
)

// EventService 封装了处理与物品相关的 Kafka 事件的业务逻辑。
// 它依赖于 ItemRepository 与 Elasticsearch 进行交互。
type EventService struct {
	itemRepo repositories.ItemRepository // itemRepo 存储了与物品数据持久化相关的操作接口。
	logger   *core.ZapLogger             // logger 用于结构化日志记录。
}

// NewEventService 创建 EventService 的新实例。
// 参数:
//   - itemRepo: 实现了 ItemRepository 接口的实例，用于与物品数据存储交互。
//   - logger: ZapLogger 实例，用于日志记录。
//
// 注意：如果关键依赖项 (itemRepo, logger) 为 nil，此函数会 panic，
// 这是一种快速失败的策略，防止服务以损坏状态启动。
func NewEventService(itemRepo repositories.ItemRepository, logger *core.ZapLogger) *EventService {
	if itemRepo == nil {
		panic("致命错误 [事件服务]: ItemRepository 依赖注入失败，实例不能为 nil")
	}
	if logger == nil {
		panic("致命错误 [事件服务]: ZapLogger 依赖注入失败，实例不能为 nil")
	}
	return &EventService{
		itemRepo: itemRepo,
		logger:   logger,
	}
}

// HandleItemUpsertEvent 处理物品创建/更新的 Kafka 事件。
// 它会验证事件数据，将其转换为 Elasticsearch 文档模型，然后调用仓库层进行索引。
// 参数:
//   - ctx: 上下文，用于控制超时和取消。
//   - event: 从 Kafka 消费到的物品 upsert 事件数据。
//
// 返回值:
//   - error: 如果处理过程中发生错误（如验证失败、索引失败），则返回错误。
//     返回的错误可能包装了预定义的哨兵错误（如 ErrInvalidItemID, ErrEmptyTitle），
//     以便上层调用者可以进行类型检查。
func (s *EventService) HandleItemUpsertEvent(ctx context.Context, event *models.KafkaItemUpsertEvent) error {
	s.logger.Info("开始处理物品 upsert 事件",
		zap.String("event_id", event.EventID),
		zap.Uint64("item_id", event.ID))

	// --- 输入数据验证 ---
	// 来自外部系统的事件数据必须符合基本要求，避免无效数据污染搜索索引。
	// 校验失败属于永久性错误：重试不会让一条坏事件变好。
	if event.ID <= 0 {
		s.logger.Error("处理物品 upsert 事件失败：事件中包含无效的物品 ID",
			zap.String("event_id", event.EventID),
			zap.Uint64("item_id", event.ID),
			zap.String("校验规则", "ID 必须大于 0"),
		)
		return fmt.Errorf("处理物品 upsert 事件失败，物品 ID '%d' 无效: %w", event.ID, ErrInvalidItemID)
	}
	if event.Title == "" {
		s.logger.Error("处理物品 upsert 事件失败：事件中的物品标题为空",
			zap.String("event_id", event.EventID),
			zap.Uint64("item_id", event.ID),
		)
		return fmt.Errorf("处理物品 upsert 事件失败，物品 ID '%d' 的标题为空: %w", event.ID, ErrEmptyTitle)
	}
	if event.OwnerID == "" {
		s.logger.Error("处理物品 upsert 事件失败：事件中的物主 ID 为空",
			zap.String("event_id", event.EventID),
			zap.Uint64("item_id", event.ID),
		)
		return fmt.Errorf("处理物品 upsert 事件失败，物品 ID '%d' 缺少物主 ID: %w", event.ID, ErrMissingOwnerID)
	}

	// --- 数据转换/映射 ---
	// 将 Kafka 事件模型转换为 Elasticsearch 文档模型，解耦事件格式和存储格式。
	// 物主信息随事件反规范化进文档，搜索时无需回源物品服务。
	itemDoc := models.EsItemDocument{
		ID:            event.ID,
		Title:         event.Title,
		Description:   event.Description,
		Category:      event.Category,
		Condition:     event.Condition,
		Location:      event.Location,
		Coordinates:   event.Coordinates,
		Available:     event.Available,
		Status:        event.Status,
		OwnerID:       event.OwnerID,
		OwnerUsername: event.OwnerUsername,
		OwnerAvatar:   event.OwnerAvatar,
		CreatedAt:     event.CreatedAt,
	}
	s.logger.Debug("已将 Kafka 事件数据映射到 EsItemDocument 模型",
		zap.String("event_id", event.EventID),
		zap.Uint64("item_id", event.ID))

	// --- 调用 Elasticsearch 仓库操作 ---
	err := s.itemRepo.IndexItem(ctx, itemDoc)
	if err != nil {
		s.logger.Error("调用 ItemRepository 的 IndexItem 操作失败",
			zap.String("event_id", event.EventID),
			zap.Uint64("item_id", event.ID),
			zap.Error(err),
		)
		// 将底层错误包装后向上传递。
		// 上层调用者（Kafka 消费者处理器）可以根据此错误决定是否重试或发送到 DLQ。
		return fmt.Errorf("索引物品 ID '%d' 到 Elasticsearch 失败: %w", event.ID, err)
	}

	s.logger.Info("成功处理并索引物品 upsert 事件",
		zap.String("event_id", event.EventID),
		zap.Uint64("item_id", event.ID))
	return nil
}

// HandleItemDeleteEvent 处理物品删除的 Kafka 事件。
// 它会验证事件数据，然后调用仓库层从 Elasticsearch 中删除相应的文档。
// 参数:
//   - ctx: 上下文，用于控制超时和取消。
//   - event: 从 Kafka 消费到的物品删除事件数据。
//
// 返回值:
//   - error: 如果处理过程中发生错误（如验证失败、删除失败），则返回错误。
func (s *EventService) HandleItemDeleteEvent(ctx context.Context, event *models.KafkaItemDeleteEvent) error {
	s.logger.Info("开始处理物品删除事件",
		zap.String("event_id", event.EventID),
		zap.Uint64("item_id", event.ItemID))

	// --- 输入数据验证 ---
	if event.ItemID <= 0 {
		s.logger.Error("处理物品删除事件失败：事件中包含无效的物品 ID",
			zap.String("event_id", event.EventID),
			zap.Uint64("item_id", event.ItemID),
			zap.String("校验规则", "ID 必须大于 0"),
		)
		return fmt.Errorf("处理物品删除事件失败，物品 ID '%d' 无效: %w", event.ItemID, ErrInvalidItemID)
	}

	// --- 调用 Elasticsearch 仓库操作 ---
	// DeleteItem 对文档不存在 (404) 的情况已做幂等处理，不会返回错误。
	err := s.itemRepo.DeleteItem(ctx, event.ItemID)
	if err != nil {
		s.logger.Error("调用 ItemRepository 的 DeleteItem 操作失败",
			zap.String("event_id", event.EventID),
			zap.Uint64("item_id", event.ItemID),
			zap.Error(err),
		)
		return fmt.Errorf("从 Elasticsearch 删除物品 ID '%d' 失败: %w", event.ItemID, err)
	}

	s.logger.Info("成功处理并删除物品事件",
		zap.String("event_id", event.EventID),
		zap.Uint64("item_id", event.ItemID))
	return nil
}
