package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Xushengqwer/gateway/pkg/response"
	"github.com/Xushengqwer/go-common/core"
	"github.com/Xushengqwer/barter_search/internal/models"
	"github.com/Xushengqwer/barter_search/internal/query"
	"github.com/Xushengqwer/barter_search/internal/service"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SearchHandler 封装物品搜索相关的 API 请求处理逻辑.
type SearchHandler struct {
	searchService *service.SearchService
	logger        *core.ZapLogger
}

// NewSearchHandler 创建 SearchHandler 实例.
func NewSearchHandler(searchSvc *service.SearchService, logger *core.ZapLogger) *SearchHandler {
	if logger == nil {
		panic("NewSearchHandler: logger cannot be nil")
	}
	if searchSvc == nil {
		logger.Fatal("NewSearchHandler: SearchService 不能为 nil")
	}

	return &SearchHandler{
		searchService: searchSvc,
		logger:        logger,
	}
}

// SearchItems 处理物品搜索请求
// @Summary      搜索物品
// @Description  根据关键词、类目、成色、地点、地理范围等条件搜索可交换物品列表，返回带分页信封的结果。格式错误的可选参数会被静默忽略并回退到默认行为。
// @Tags         Items
// @Accept       json
// @Produce      json
// @Param        q          query     string  false  "搜索关键词 (标题权重高于描述)"
// @Param        category   query     string  false  "物品类目" Enums(electronics, furniture, clothing, books, sports, toys, tools, other)
// @Param        condition  query     string  false  "物品成色" Enums(new, like_new, good, fair, well_worn)
// @Param        location   query     string  false  "地点子串匹配 (不区分大小写)"
// @Param        lat        query     number  false  "纬度 (与 lng 成对出现才生效)"
// @Param        lng        query     number  false  "经度 (与 lat 成对出现才生效)"
// @Param        distance   query     number  false  "地理搜索半径 (公里)" default(10)
// @Param        sort       query     string  false  "排序键" default(recent) Enums(recent, oldest, az, za, relevance, nearest)
// @Param        page       query     int     false  "页码 (从1开始)" default(1) minimum(1)
// @Param        limit      query     int     false  "每页数量" default(12) minimum(1) maximum(100)
// @Success      200        {object}  models.SwaggerSearchEnvelope "搜索成功，返回匹配的物品列表及分页信息。"
// @Failure      400        {object}  models.SwaggerErrorResponse "请求参数无效，例如页码超出范围。"
// @Failure      500        {object}  models.SwaggerErrorResponse "服务器内部错误，包括地理检索能力未配置。"
// @Router       /api/v1/items/search [get]
func (h *SearchHandler) SearchItems(c *gin.Context) {
	var req models.SearchRequest

	if err := c.ShouldBindQuery(&req); err != nil {
		h.logger.Warn("请求参数绑定或验证失败", zap.Error(err))
		response.RespondError(c, http.StatusBadRequest, response.ErrCodeClientInvalidInput, "请求参数无效")
		return
	}
	h.logger.Debug("绑定后的搜索请求", zap.Any("request", req))

	// 异步记录搜索关键词，避免阻塞主搜索流程
	if strings.TrimSpace(req.Query) != "" {
		// 复制 req.Query 到一个新变量，以避免在 goroutine 中捕获请求对象的问题
		queryToLog := req.Query
		go func(searchQuery string) {
			// c.Request.Context() 在请求结束时会被取消，后台任务需要独立的上下文。
			logCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if err := h.searchService.LogSearchQuery(logCtx, searchQuery); err != nil {
				// 记录热门词失败不应影响主搜索请求的成功状态，只记录错误。
				h.logger.Error("异步记录搜索关键词失败",
					zap.String("query", searchQuery),
					zap.Error(err),
				)
			} else {
				h.logger.Debug("搜索关键词已异步提交记录", zap.String("query", searchQuery))
			}
		}(queryToLog)
	}

	envelope, err := h.searchService.Search(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, query.ErrGeoSearchUnavailable) {
			// 部署配置问题：请求了地理检索但索引缺少 geo_point 映射。
			// 这不是客户端的错，按服务端错误响应并大声记日志。
			h.logger.Error("地理检索能力未就绪，无法处理带坐标的搜索请求",
				zap.String("lat", req.Lat),
				zap.String("lng", req.Lng),
			)
			response.RespondError(c, http.StatusInternalServerError, response.ErrCodeServerInternal, "地理搜索功能未配置，请联系管理员")
			return
		}
		h.logger.Error("服务层搜索失败", zap.Error(err))
		response.RespondError(c, http.StatusInternalServerError, response.ErrCodeServerInternal, "搜索服务内部错误")
		return
	}

	h.logger.Info("搜索成功", zap.Int("结果数量", envelope.Count))
	// 搜索信封自身已携带 success/count/pagination/data 结构，直接返回。
	c.JSON(http.StatusOK, envelope)
}

// NearbyItems 处理附近物品查询请求
// @Summary      查询附近物品
// @Description  返回给定坐标附近的可交换物品，按距离由近及远排列，返回扁平数组。lat 和 lng 为必填参数。
// @Tags         Items
// @Produce      json
// @Param        lat       query     number  true   "纬度"
// @Param        lng       query     number  true   "经度"
// @Param        distance  query     number  false  "搜索半径 (公里)" default(10)
// @Param        limit     query     int     false  "返回数量上限" default(12) minimum(1) maximum(100)
// @Success      200       {array}   models.EsItemDocument "查询成功，返回按距离排序的物品数组。"
// @Failure      400       {object}  models.SwaggerErrorResponse "缺少 lat 或 lng 参数。"
// @Failure      500       {object}  models.SwaggerErrorResponse "服务器内部错误，包括地理检索能力未配置。"
// @Router       /api/v1/items/nearby [get]
func (h *SearchHandler) NearbyItems(c *gin.Context) {
	var req models.NearbyRequest

	if err := c.ShouldBindQuery(&req); err != nil {
		h.logger.Warn("附近物品请求参数绑定失败", zap.Error(err))
		response.RespondError(c, http.StatusBadRequest, response.ErrCodeClientInvalidInput, "请求参数无效")
		return
	}

	// 坐标是此接口的硬性前提，缺哪个就点名哪个。
	if req.Lat == nil {
		response.RespondError(c, http.StatusBadRequest, response.ErrCodeClientInvalidInput, "缺少必填参数: lat")
		return
	}
	if req.Lng == nil {
		response.RespondError(c, http.StatusBadRequest, response.ErrCodeClientInvalidInput, "缺少必填参数: lng")
		return
	}

	items, err := h.searchService.Nearby(c.Request.Context(), *req.Lat, *req.Lng, req.Distance, req.Limit)
	if err != nil {
		if errors.Is(err, query.ErrGeoSearchUnavailable) {
			h.logger.Error("地理检索能力未就绪，无法处理附近物品查询",
				zap.Float64("lat", *req.Lat),
				zap.Float64("lng", *req.Lng),
			)
			response.RespondError(c, http.StatusInternalServerError, response.ErrCodeServerInternal, "地理搜索功能未配置，请联系管理员")
			return
		}
		h.logger.Error("服务层附近物品查询失败", zap.Error(err))
		response.RespondError(c, http.StatusInternalServerError, response.ErrCodeServerInternal, "附近物品查询内部错误")
		return
	}

	if items == nil {
		items = make([]models.EsItemDocument, 0)
	}

	h.logger.Info("附近物品查询成功", zap.Int("结果数量", len(items)))
	c.JSON(http.StatusOK, items)
}

// UpdateGeoIndex 处理地理索引维护请求
// @Summary      更新地理索引映射
// @Description  幂等地为物品索引补齐地理检索所需的 geo_point 映射。仅限管理员调用，重复调用安全。
// @Tags         Admin
// @Produce      json
// @Success      200  {object}  models.SwaggerGeoIndexResponse "地理索引映射已就绪。"
// @Failure      403  {object}  models.SwaggerErrorResponse "调用者不具备管理员权限。"
// @Failure      500  {object}  models.SwaggerErrorResponse "服务器内部错误，映射更新失败。"
// @Router       /api/v1/items/geo-index [put]
func (h *SearchHandler) UpdateGeoIndex(c *gin.Context) {
	h.logger.Info("收到地理索引维护请求",
		zap.String("operator_user_id", c.GetHeader("X-User-ID")),
	)

	if err := h.searchService.UpdateGeoIndex(c.Request.Context()); err != nil {
		h.logger.Error("地理索引维护失败", zap.Error(err))
		response.RespondError(c, http.StatusInternalServerError, response.ErrCodeServerInternal, "地理索引更新失败")
		return
	}

	response.RespondSuccess(c, gin.H{"geo_index": "ready"}, "地理索引映射已就绪")
}

// GetHotSearchTerms 处理获取热门搜索词的请求
// @Summary      获取热门搜索词
// @Description  返回最流行搜索词的列表。
// @Tags         Items
// @Produce      json
// @Param        limit    query     int     false  "返回的热门搜索词数量" default(10) minimum(1) maximum(50)
// @Success      200      {object}  models.SwaggerHotSearchTermsResponse "成功，返回热门搜索词列表。"
// @Failure      500      {object}  models.SwaggerErrorResponse "服务器内部错误，无法获取热门搜索词。"
// @Router       /api/v1/items/hot-terms [get]
func (h *SearchHandler) GetHotSearchTerms(c *gin.Context) {
	// 从查询参数中获取 limit，并提供默认值和范围验证
	limitStr := c.DefaultQuery("limit", "10")
	limit, err := strconv.Atoi(limitStr)
	if err != nil || limit <= 0 {
		limit = 10 // 如果转换失败或值无效，则使用默认值
	} else if limit > 50 {
		limit = 50 // 设置一个最大上限，防止请求过多数据
	}

	h.logger.Info("收到获取热门搜索词请求", zap.Int("limit", limit))

	terms, err := h.searchService.GetHotSearchTerms(c.Request.Context(), limit)
	if err != nil {
		h.logger.Error("服务层获取热门搜索词失败", zap.Int("limit", limit), zap.Error(err))
		response.RespondError(c, http.StatusInternalServerError, response.ErrCodeServerInternal, "获取热门搜索词失败")
		return
	}

	// 如果热门搜索词列表为nil（例如，还没有任何统计数据），
	// 返回一个空数组而不是null，这通常是前端更期望的格式。
	if terms == nil {
		terms = make([]models.HotSearchTerm, 0)
	}

	h.logger.Info("成功获取热门搜索词列表", zap.Int("count", len(terms)), zap.Int("requested_limit", limit))
	response.RespondSuccess(c, terms, "热门搜索词获取成功")
}

// HealthCheck 健康检查处理函数
func (h *SearchHandler) HealthCheck(c *gin.Context) {
	h.logger.Debug("执行存活度健康检查")
	response.RespondSuccess(c, gin.H{"status": "ok"}, "服务存活")
}

// RegisterRoutes 将物品搜索相关的路由注册到提供的 Gin 路由组 (RouterGroup) 上。
func (h *SearchHandler) RegisterRoutes(rg *gin.RouterGroup) {
	h.logger.Info("开始注册 SearchHandler 的路由...")

	rg.GET("/search", h.SearchItems)
	h.logger.Info("路由 GET /search 已注册到 SearchHandler.SearchItems")

	rg.GET("/nearby", h.NearbyItems)
	h.logger.Info("路由 GET /nearby 已注册到 SearchHandler.NearbyItems")

	// 地理索引维护是管理员专属操作，网关注入的角色头在中间件里校验。
	rg.PUT("/geo-index", RequireAdmin(h.logger), h.UpdateGeoIndex)
	h.logger.Info("路由 PUT /geo-index 已注册到 SearchHandler.UpdateGeoIndex (管理员)")

	rg.GET("/hot-terms", h.GetHotSearchTerms)
	h.logger.Info("路由 GET /hot-terms 已注册到 SearchHandler.GetHotSearchTerms")

	rg.GET("/_health", h.HealthCheck)
	h.logger.Info("路由 GET /_health 已注册到 SearchHandler.HealthCheck")

	h.logger.Info("SearchHandler 的所有路由已注册完成。")
}
