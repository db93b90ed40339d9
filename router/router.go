package router

import (
	"time"

	"github.com/Xushengqwer/go-common/core"
	commonMiddleware "github.com/Xushengqwer/go-common/middleware"
	"github.com/Xushengqwer/barter_search/config"
	"github.com/Xushengqwer/barter_search/constants"
	_ "github.com/Xushengqwer/barter_search/docs"
	"github.com/Xushengqwer/barter_search/internal/api"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	otelgin "go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"
)

// SetupRouter 初始化并配置 Gin 引擎，为物品搜索服务注册所有中间件和路由。
// 设计目的:
//   - 作为应用路由配置的统一入口点。
//   - 应用全局中间件，处理通用逻辑如日志、错误恢复、超时等。
//   - 创建 API 版本分组（例如 /api/v1/items）。
//   - 接收已实例化的 API Handler (例如 SearchHandler)，并将它们的路由注册到相应的分组下。
//
// 参数:
//   - logger: *core.ZapLogger 实例，用于中间件和应用日志。
//   - cfg: *config.BarterSearchConfig 实例，包含应用的全局配置，如服务器设置、超时等。
//   - searchHandler: *api.SearchHandler 实例，物品搜索 API 的处理器。
//
// 返回:
//   - *gin.Engine: 配置完成的 Gin 引擎实例，可以直接运行。
func SetupRouter(
	logger *core.ZapLogger,
	cfg *config.BarterSearchConfig,
	searchHandler *api.SearchHandler,
) *gin.Engine {
	logger.Info("开始为物品搜索服务设置 Gin 路由...")

	// 1. 创建 Gin 引擎实例
	// gin.Default() 会默认使用 Logger (Gin自带的日志中间件) 和 Recovery (Panic恢复) 中间件。
	router := gin.Default()

	// 2. 应用通用中间件 (中间件的注册顺序通常很重要)

	// 2.1 OpenTelemetry 中间件 (建议放在最前面)
	router.Use(otelgin.Middleware(constants.ServiceName))
	logger.Info("OpenTelemetry (OTel) 中间件已注册。", zap.String("service_name", constants.ServiceName))

	// 2.2 全局错误处理中间件 (Panic Recovery)
	router.Use(commonMiddleware.ErrorHandlingMiddleware(logger))
	logger.Info("全局错误处理 (Panic Recovery) 中间件已注册。")

	// 2.3 请求日志中间件
	if baseLogger := logger.Logger(); baseLogger != nil {
		router.Use(commonMiddleware.RequestLoggerMiddleware(baseLogger))
		logger.Info("请求日志中间件已注册。")
	} else {
		logger.Warn("无法获取底层的 *zap.Logger 实例，跳过请求日志中间件的注册。")
	}

	// 2.4 请求超时中间件
	// 超时是致命错误：超过上限的请求直接失败，不做部分结果降级。
	var requestTimeout time.Duration
	if cfg.Server.RequestTimeout > 0 {
		requestTimeout = cfg.Server.RequestTimeout
		logger.Info("从配置文件中加载请求超时设置。", zap.Duration("configured_timeout", requestTimeout))
	} else {
		// cfg.Server.RequestTimeout 为 0 或负数时，YAML 中的 requestTimeout
		// 字段可能缺失、为空或为无效的持续时间字符串。
		logger.Warn("配置文件中的请求超时 (server.requestTimeout) 无效或未设置，将使用默认超时10秒。",
			zap.Duration("parsed_duration_from_config", cfg.Server.RequestTimeout),
		)
		requestTimeout = 10 * time.Second
	}
	router.Use(commonMiddleware.RequestTimeoutMiddleware(logger, requestTimeout))
	logger.Info("请求超时中间件已注册。", zap.Duration("timeout_duration", requestTimeout))

	// 3. 创建 API 版本路由组
	itemsGroup := router.Group("/api/v1/items")
	logger.Info("API 路由将统一注册到基础路径 /api/v1/items 分组下。")

	// 4. 注册 SearchHandler 的路由
	if searchHandler != nil {
		// 调用 SearchHandler 内部定义的 RegisterRoutes 方法，
		// 将其负责的路由（例如 /search, /nearby, /_health）注册到 itemsGroup 下。
		searchHandler.RegisterRoutes(itemsGroup)
		logger.Info("SearchHandler 的相关路由已成功注册到 /api/v1/items 分组。")
	} else {
		// 如果 SearchHandler 未初始化，这是一个严重的配置问题。
		logger.Error("SearchHandler 实例为 nil，其 API 路由无法注册！")
		panic("致命错误：SearchHandler 未初始化，无法注册 API 路由。")
	}

	logger.Info("所有业务相关的 API 路由已注册完成。")

	// 5. 配置 Swagger UI 路由
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	logger.Info("Swagger UI 路由已注册。可以通过 /swagger/index.html 访问 API 文档。")

	logger.Info("物品搜索服务的 Gin 路由设置已全部完成。")
	return router
}
