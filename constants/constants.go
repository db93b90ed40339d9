package constants

// 服务级别的元信息常量，供入口、路由中间件和链路追踪统一引用。
const (
	// ServiceName 是本服务在注册中心、日志与链路追踪中的统一标识。
	ServiceName = "barter-item-search"

	// ServiceVersion 随发布更新，用于追踪 Span 的 service.version 属性。
	ServiceVersion = "1.0.0"
)
