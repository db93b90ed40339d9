package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/Xushengqwer/go-common/core"

	"github.com/Xushengqwer/barter_search/internal/models"
	"github.com/Xushengqwer/barter_search/internal/pager"
	"github.com/Xushengqwer/barter_search/internal/query"
	"github.com/Xushengqwer/barter_search/internal/repositories"

	"go.uber.org/zap"
)

// SearchService 封装了与物品搜索相关的业务逻辑。
// 它作为 API 处理层（例如 HTTP Handler）和数据仓库层 (Repository) 之间的中介，
// 负责把外部查询参数合成为类型化的过滤/排序说明，再交由分页器和仓库层执行。
type SearchService struct {
	itemRepo          repositories.ItemRepository          // ItemRepository 接口的实例，用于与 Elasticsearch 交互物品数据。
	hotSearchTermRepo repositories.HotSearchTermRepository // HotSearchTermRepository 接口的实例，用于热门搜索词统计。
	logger            *core.ZapLogger                      // ZapLogger 实例，用于结构化日志记录。
}

// NewSearchService 创建 SearchService 的一个新实例。
// 参数:
//   - itemRepo: 一个已经初始化并准备好的 ItemRepository 实例。
//   - hotSearchTermRepo: 一个已经初始化并准备好的 HotSearchTermRepository 实例。
//   - logger: 一个注入的 Logger 实例，用于服务内部的日志记录。
//
// 返回值:
//   - *SearchService: 成功创建的 SearchService 实例。
func NewSearchService(
	itemRepo repositories.ItemRepository,
	hotSearchTermRepo repositories.HotSearchTermRepository,
	logger *core.ZapLogger,
) *SearchService {
	if logger == nil {
		panic("创建 SearchService 失败：Logger 实例不能为 nil。")
	}
	if itemRepo == nil {
		logger.Fatal("创建 SearchService 失败：ItemRepository 实例不能为 nil。服务将无法执行物品搜索操作。")
	}
	if hotSearchTermRepo == nil {
		logger.Fatal("创建 SearchService 失败：HotSearchTermRepository 实例不能为 nil。服务将无法处理热门搜索词功能。")
	}

	logger.Info("SearchService 初始化成功 (包含热门搜索词支持)。")
	return &SearchService{
		itemRepo:          itemRepo,
		hotSearchTermRepo: hotSearchTermRepo,
		logger:            logger,
	}
}

// Search 根据提供的请求条件执行物品搜索操作，返回带分页信封的结果。
// 格式错误的可选参数在合成阶段被静默降级，不会让请求失败；
// 唯一的硬错误来源是地理检索能力缺失 (query.ErrGeoSearchUnavailable) 和存储层故障。
func (s *SearchService) Search(ctx context.Context, req models.SearchRequest) (*pager.Envelope[models.EsItemDocument], error) {
	logFields := []zap.Field{
		zap.String("搜索关键词", req.Query),
		zap.Int("请求页码", req.Page),
		zap.Int("每页数量", req.Limit),
		zap.String("排序键", req.Sort),
	}
	if req.Category != "" {
		logFields = append(logFields, zap.String("筛选_类目", req.Category))
	}
	if req.Condition != "" {
		logFields = append(logFields, zap.String("筛选_成色", req.Condition))
	}
	if req.Location != "" {
		logFields = append(logFields, zap.String("筛选_地点", req.Location))
	}
	s.logger.Info("正在处理物品搜索请求", logFields...)

	filter, sortSpec, err := query.Compose(req, s.itemRepo.Capabilities())
	if err != nil {
		// 合成错误目前只有一种：请求了地理检索但能力未就绪，属于部署配置问题。
		s.logger.Error("合成搜索查询失败",
			zap.Error(err),
			zap.String("lat", req.Lat),
			zap.String("lng", req.Lng),
		)
		return nil, err
	}

	envelope, err := pager.Paginate[models.EsItemDocument](ctx, s.itemRepo, filter, pager.Options{
		Page:     req.Page,
		Limit:    req.Limit,
		SortSpec: &sortSpec,
	})
	if err != nil {
		s.logger.Error("执行分页搜索操作时发生错误",
			zap.Error(err),
			zap.String("搜索关键词_OnError", req.Query),
			zap.Int("请求页码_OnError", req.Page),
		)
		return nil, fmt.Errorf("执行搜索操作失败: %w", err)
	}

	s.logger.Info("物品搜索成功完成",
		zap.Int64("总命中数", envelope.Pagination.Total),
		zap.Int("返回结果数", envelope.Count),
		zap.Int("当前页码", envelope.Pagination.Page),
		zap.Int("每页数量", envelope.Pagination.Limit),
	)
	return envelope, nil
}

// Nearby 返回给定坐标附近的物品列表，按距离由近及远排列。
// 坐标参数的存在性校验由接口层负责，这里收到的 lat/lng 一定是合法数值。
func (s *SearchService) Nearby(ctx context.Context, lat, lng float64, distance string, limit int) ([]models.EsItemDocument, error) {
	s.logger.Info("正在处理附近物品查询",
		zap.Float64("lat", lat),
		zap.Float64("lng", lng),
		zap.String("distance_km", distance),
		zap.Int("limit", limit),
	)

	filter, sortSpec, err := query.ComposeNearby(lat, lng, distance, s.itemRepo.Capabilities())
	if err != nil {
		s.logger.Error("合成附近物品查询失败", zap.Error(err))
		return nil, err
	}

	if limit <= 0 {
		limit = 12
	}
	items, err := s.itemRepo.Find(ctx, filter, sortSpec, 0, limit, nil)
	if err != nil {
		s.logger.Error("执行附近物品查询时发生错误", zap.Error(err))
		return nil, fmt.Errorf("执行附近物品查询失败: %w", err)
	}

	s.logger.Info("附近物品查询成功完成", zap.Int("返回结果数", len(items)))
	return items, nil
}

// UpdateGeoIndex 幂等地确保物品索引具备地理检索所需的 geo_point 映射。
// 权限校验由接口层中间件完成，服务层只负责触发仓库操作。
func (s *SearchService) UpdateGeoIndex(ctx context.Context) error {
	s.logger.Info("服务层：正在请求更新物品索引的地理映射")

	if err := s.itemRepo.EnsureGeoIndex(ctx); err != nil {
		s.logger.Error("更新物品索引地理映射失败", zap.Error(err))
		return fmt.Errorf("更新物品索引地理映射失败: %w", err)
	}

	s.logger.Info("服务层：物品索引地理映射已就绪")
	return nil
}

// LogSearchQuery 记录一个搜索查询，用于热门搜索词分析。
// 它会规范化查询字符串，然后调用 HotSearchTermRepository 来递增该词的计数。
func (s *SearchService) LogSearchQuery(ctx context.Context, searchQuery string) error {
	// 1. 规范化查询字符串
	//    - 转换为小写，以确保 "Bike" 和 "bike" 被视为同一个词。
	//    - 去除首尾多余的空格。
	normalizedQuery := strings.TrimSpace(strings.ToLower(searchQuery))

	// 2. 验证规范化后的查询 (例如，不记录空字符串)
	if normalizedQuery == "" {
		s.logger.Debug("接收到空查询字符串，跳过热门搜索词记录。")
		return nil // 对于空查询，不执行任何操作，也不报错
	}

	// 3. 记录将要递增计数的词
	s.logger.Debug("准备记录并递增搜索词计数",
		zap.String("original_query", searchQuery),
		zap.String("normalized_query_to_log", normalizedQuery),
	)

	// 4. 调用 HotSearchTermRepository 的方法
	err := s.hotSearchTermRepo.IncrementSearchTermCount(ctx, normalizedQuery)
	if err != nil {
		s.logger.Error("调用 HotSearchTermRepository 递增搜索词计数失败",
			zap.String("normalized_query", normalizedQuery),
			zap.Error(err),
		)
		// 包装错误并返回。上层（例如API Handler）可以决定如何处理这个错误。
		// 通常，记录热门词失败不应阻塞主搜索流程。
		return fmt.Errorf("记录搜索词 '%s' 失败: %w", normalizedQuery, err)
	}

	s.logger.Debug("搜索词计数已成功请求递增", zap.String("normalized_query", normalizedQuery))
	return nil
}

// GetHotSearchTerms 从 HotSearchTermRepository 检索热门搜索词列表。
func (s *SearchService) GetHotSearchTerms(ctx context.Context, limit int) ([]models.HotSearchTerm, error) {
	s.logger.Info("服务层：正在请求获取热门搜索词列表", zap.Int("limit", limit))

	terms, err := s.hotSearchTermRepo.GetHotSearchTerms(ctx, limit)
	if err != nil {
		s.logger.Error("调用 HotSearchTermRepository 获取热门搜索词列表失败",
			zap.Int("limit", limit),
			zap.Error(err),
		)
		return nil, fmt.Errorf("获取热门搜索词列表失败 (limit: %d): %w", limit, err)
	}

	s.logger.Info("服务层：成功获取热门搜索词列表",
		zap.Int("retrieved_count", len(terms)),
		zap.Int("requested_limit", limit),
	)
	return terms, nil
}
