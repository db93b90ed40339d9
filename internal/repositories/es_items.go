// FileName: repositories/item_repository.go
package repositories

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/Xushengqwer/go-common/core"

	"github.com/Xushengqwer/barter_search/internal/models"
	"github.com/Xushengqwer/barter_search/internal/query"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"go.uber.org/zap"
)

// defaultQueryTimeout 是单次 count/search 的兜底超时。任何存储读取都必须
// 有界，超时按致命请求错误处理，不做无限等待。
const defaultQueryTimeout = 5 * time.Second

// ItemRepository 定义了与物品文档在 Elasticsearch 中持久化和检索相关的操作接口。
// 检索侧的 Count/Find 两个方法同时满足通用分页器的窄仓库接口
// (pager.Repository[models.EsItemDocument])。
type ItemRepository interface {
	// IndexItem 索引（创建或更新）一个物品文档。相同 ID 的文档会被整体覆盖。
	IndexItem(ctx context.Context, doc models.EsItemDocument) error

	// DeleteItem 根据物品 ID 删除文档。文档不存在时视为幂等成功。
	DeleteItem(ctx context.Context, itemID uint64) error

	// Count 返回过滤条件下的总命中数，计数发生在任何分页动作之前。
	Count(ctx context.Context, filter query.Filter) (int64, error)

	// Find 按排序说明取出一页文档。fields 非空时做字段投影。
	Find(ctx context.Context, filter query.Filter, sort query.SortSpec, skip, limit int, fields []string) ([]models.EsItemDocument, error)

	// EnsureGeoIndex 幂等地为物品索引补齐 coordinates (geo_point) 映射，
	// 成功后地理检索能力即视为可用。管理端接口触发，越权调用由接口层拦截。
	EnsureGeoIndex(ctx context.Context) error

	// Capabilities 报告存储端当前具备的检索能力，供查询合成器决策。
	Capabilities() query.Capabilities
}

// esItemRepository 是 ItemRepository 接口针对 Elasticsearch 的具体实现。
type esItemRepository struct {
	client       *elasticsearch.Client // 注入的 Elasticsearch Go 客户端实例。
	indexName    string                // 此仓库操作的目标物品索引名称。
	logger       *core.ZapLogger       // 注入的 Logger 实例，用于结构化日志记录。
	queryTimeout time.Duration         // 单次检索请求的超时上限。
	geoReady     atomic.Bool           // 地理能力是否就绪；EnsureGeoIndex 成功后翻转。
}

// NewESItemRepository 创建一个新的 esItemRepository 实例。
// geoEnabled 表示建索引时是否已经带上 geo_point 映射；为 false 时地理检索
// 不可用，直到管理端通过 EnsureGeoIndex 补齐。
//
// 注意：此构造函数在关键依赖缺失时会 Fatal，服务不应以不完整状态启动。
func NewESItemRepository(
	client *elasticsearch.Client,
	indexName string,
	logger *core.ZapLogger,
	geoEnabled bool,
	queryTimeout time.Duration,
) ItemRepository {
	if logger == nil {
		panic("创建 esItemRepository 失败：Logger 实例不能为 nil")
	}
	if client == nil {
		logger.Fatal("创建 esItemRepository 失败：Elasticsearch 客户端实例 (client) 不能为 nil。")
	}
	if indexName == "" {
		logger.Fatal("创建 esItemRepository 失败：物品索引名称 (indexName) 不能为空。")
	}
	if queryTimeout <= 0 {
		queryTimeout = defaultQueryTimeout
	}

	repo := &esItemRepository{
		client:       client,
		indexName:    indexName,
		logger:       logger,
		queryTimeout: queryTimeout,
	}
	repo.geoReady.Store(geoEnabled)

	logger.Info("Elasticsearch ItemRepository 初始化成功",
		zap.String("index_name", indexName),
		zap.Bool("geo_enabled", geoEnabled),
		zap.Duration("query_timeout", queryTimeout),
	)
	return repo
}

// Capabilities 报告当前检索能力。全文检索随索引映射始终可用，
// 地理能力取决于 geo_point 映射是否就绪。
func (repo *esItemRepository) Capabilities() query.Capabilities {
	return query.Capabilities{
		TextSearch: true,
		Geo:        repo.geoReady.Load(),
	}
}

// logAndWrapESError 处理并记录 Elasticsearch API 响应中的错误：读取响应体、
// 记下状态码和细节，返回统一格式的包装错误。
func (repo *esItemRepository) logAndWrapESError(res *esapi.Response, operationDesc string, contextIdentifier interface{}) error {
	var errBody strings.Builder
	var readErr error
	if res.Body != nil {
		_, readErr = io.Copy(&errBody, res.Body)
	}

	logFields := []zap.Field{
		zap.Any("context_identifier", contextIdentifier),
		zap.String("es_status", res.Status()),
	}
	responseBodyStr := errBody.String()
	if readErr != nil {
		logFields = append(logFields, zap.Error(fmt.Errorf("读取 Elasticsearch 错误响应体失败: %w", readErr)))
	} else if responseBodyStr != "" {
		logFields = append(logFields, zap.String("es_error_response_body", responseBodyStr))
	}

	repo.logger.Error(fmt.Sprintf("Elasticsearch 操作 '%s' 失败", operationDesc), logFields...)

	if responseBodyStr != "" {
		return fmt.Errorf("Elasticsearch 操作 '%s' 失败，状态码: %s，响应: %s", operationDesc, res.Status(), responseBodyStr)
	}
	return fmt.Errorf("Elasticsearch 操作 '%s' 失败，状态码: %s", operationDesc, res.Status())
}

// IndexItem 在 Elasticsearch 中索引（创建或更新）一个物品文档。
// 使用物品 ID 作为文档 _id，天然幂等：重复消费同一事件只会覆盖写。
func (repo *esItemRepository) IndexItem(ctx context.Context, doc models.EsItemDocument) error {
	// 每次索引都刷新最后更新时间戳。统一 UTC，避免时区问题。
	doc.UpdatedAt = time.Now().UTC()
	docID := strconv.FormatUint(doc.ID, 10)

	payload, err := json.Marshal(doc)
	if err != nil {
		repo.logger.Error("序列化 EsItemDocument 为 JSON 失败，无法发送给 Elasticsearch",
			zap.Uint64("item_id", doc.ID),
			zap.Error(err),
		)
		return fmt.Errorf("序列化物品文档 (ID: %d) 失败: %w", doc.ID, err)
	}

	req := esapi.IndexRequest{
		Index:      repo.indexName,
		DocumentID: docID,
		Body:       bytes.NewReader(payload),
		// 异步刷新：写入吞吐优先，新文档在约 1 秒内对搜索可见即可。
		Refresh: "false",
	}

	res, err := req.Do(ctx, repo.client)
	if err != nil {
		repo.logger.Error("执行 Elasticsearch 索引请求时发生连接或客户端错误",
			zap.Uint64("item_id", doc.ID),
			zap.Error(err),
		)
		return fmt.Errorf("Elasticsearch 索引请求 (ID: %d) 失败: %w", doc.ID, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return repo.logAndWrapESError(res, "索引物品文档", docID)
	}

	repo.logger.Info("成功发送物品索引/更新请求到 Elasticsearch",
		zap.Uint64("item_id", doc.ID),
		zap.String("es_status", res.Status()),
	)
	return nil
}

// DeleteItem 根据文档 ID 删除物品文档。
// 目标文档本就不存在 (404) 时视为成功：删除的目标状态已经达成。
func (repo *esItemRepository) DeleteItem(ctx context.Context, itemID uint64) error {
	docID := strconv.FormatUint(itemID, 10)

	req := esapi.DeleteRequest{
		Index:      repo.indexName,
		DocumentID: docID,
		Refresh:    "false",
	}

	res, err := req.Do(ctx, repo.client)
	if err != nil {
		repo.logger.Error("执行 Elasticsearch 删除请求时发生连接或客户端错误",
			zap.Uint64("item_id", itemID),
			zap.Error(err),
		)
		return fmt.Errorf("Elasticsearch 删除请求 (ID: %d) 失败: %w", itemID, err)
	}
	defer res.Body.Close()

	if res.StatusCode == 404 {
		repo.logger.Warn("尝试删除的物品文档在 Elasticsearch 中未找到，视为操作成功 (幂等性)",
			zap.Uint64("item_id", itemID),
			zap.String("es_status", res.Status()),
		)
		return nil
	}
	if res.IsError() {
		return repo.logAndWrapESError(res, "删除物品文档", docID)
	}

	repo.logger.Info("成功发送物品删除请求到 Elasticsearch",
		zap.Uint64("item_id", itemID),
		zap.String("es_status", res.Status()),
	)
	return nil
}

// Count 执行一次 Count 查询，返回过滤条件下的总命中数。
func (repo *esItemRepository) Count(ctx context.Context, filter query.Filter) (int64, error) {
	queryJSON, err := buildItemCountDSL(filter)
	if err != nil {
		repo.logger.Error("构建物品计数查询 DSL 失败", zap.Error(err))
		return 0, fmt.Errorf("构建计数查询失败: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, repo.queryTimeout)
	defer cancel()

	countReq := esapi.CountRequest{
		Index: []string{repo.indexName},
		Body:  bytes.NewReader(queryJSON),
	}
	res, err := countReq.Do(ctx, repo.client)
	if err != nil {
		repo.logger.Error("执行 Elasticsearch 计数请求时发生连接或客户端错误", zap.Error(err))
		return 0, fmt.Errorf("Elasticsearch 计数请求失败: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return 0, repo.logAndWrapESError(res, "物品计数", string(queryJSON))
	}

	var countResponse struct {
		Count int64 `json:"count"`
	}
	if err := json.NewDecoder(res.Body).Decode(&countResponse); err != nil {
		repo.logger.Error("解码 Elasticsearch 计数响应体失败", zap.Error(err))
		return 0, fmt.Errorf("解码 Elasticsearch 计数响应失败: %w", err)
	}
	return countResponse.Count, nil
}

// Find 执行一次搜索查询，取出一页物品文档。
func (repo *esItemRepository) Find(
	ctx context.Context,
	filter query.Filter,
	sort query.SortSpec,
	skip, limit int,
	fields []string,
) ([]models.EsItemDocument, error) {
	queryJSON, err := buildItemSearchDSL(filter, sort, skip, limit, fields)
	if err != nil {
		repo.logger.Error("构建物品搜索查询 DSL 失败", zap.Error(err))
		return nil, fmt.Errorf("构建搜索查询失败: %w", err)
	}
	repo.logger.Debug("构建的物品搜索查询 DSL", zap.String("dsl_query", string(queryJSON)))

	ctx, cancel := context.WithTimeout(ctx, repo.queryTimeout)
	defer cancel()

	searchReq := esapi.SearchRequest{
		Index: []string{repo.indexName},
		Body:  bytes.NewReader(queryJSON),
	}
	res, err := searchReq.Do(ctx, repo.client)
	if err != nil {
		repo.logger.Error("执行 Elasticsearch 搜索请求时发生连接或客户端错误", zap.Error(err))
		return nil, fmt.Errorf("Elasticsearch 搜索请求失败: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, repo.logAndWrapESError(res, "搜索物品文档", string(queryJSON))
	}

	var esResponse struct {
		Took int `json:"took"`
		Hits struct {
			Hits []struct {
				Source models.EsItemDocument `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&esResponse); err != nil {
		repo.logger.Error("解码 Elasticsearch 搜索响应体失败", zap.Error(err))
		return nil, fmt.Errorf("解码 Elasticsearch 搜索响应失败: %w", err)
	}

	items := make([]models.EsItemDocument, 0, len(esResponse.Hits.Hits))
	for _, hit := range esResponse.Hits.Hits {
		items = append(items, hit.Source)
	}

	repo.logger.Debug("Elasticsearch 物品搜索完成",
		zap.Int("query_took_ms", esResponse.Took),
		zap.Int("returned_hits_count", len(items)),
	)
	return items, nil
}

// EnsureGeoIndex 幂等地为物品索引追加 coordinates (geo_point) 映射。
// ES 的 put-mapping 对已存在的同构字段是无操作，重复调用安全。
func (repo *esItemRepository) EnsureGeoIndex(ctx context.Context) error {
	mapping := `{
        "properties": {
            "coordinates": { "type": "geo_point" }
        }
    }`

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	req := esapi.IndicesPutMappingRequest{
		Index: []string{repo.indexName},
		Body:  strings.NewReader(mapping),
	}
	res, err := req.Do(ctx, repo.client)
	if err != nil {
		repo.logger.Error("执行地理索引映射更新请求时发生连接或客户端错误",
			zap.String("index_name", repo.indexName),
			zap.Error(err),
		)
		return fmt.Errorf("更新物品索引 '%s' 的地理映射失败: %w", repo.indexName, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return repo.logAndWrapESError(res, "更新地理索引映射", repo.indexName)
	}

	repo.geoReady.Store(true)
	repo.logger.Info("物品索引的 geo_point 映射已就绪，地理检索能力开启",
		zap.String("index_name", repo.indexName),
	)
	return nil
}
