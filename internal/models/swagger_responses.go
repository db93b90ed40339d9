package models

// SwaggerPageRef 镜像分页信封中 next/prev 的页描述符，仅用于 Swagger 文档。
type SwaggerPageRef struct {
	Page  int `json:"page"`  // 目标页码
	Limit int `json:"limit"` // 每页数量（与当前请求一致）
}

// SwaggerPagination 镜像分页信封的 pagination 字段，仅用于 Swagger 文档。
type SwaggerPagination struct {
	Page       int             `json:"page"`           // 当前页码
	Limit      int             `json:"limit"`          // 每页数量
	Total      int64           `json:"total"`          // 过滤条件下的总命中数（计数于分页之前）
	TotalPages int             `json:"totalPages"`     // 总页数 = ceil(total/limit)
	Next       *SwaggerPageRef `json:"next,omitempty"` // 存在下一页时给出
	Prev       *SwaggerPageRef `json:"prev,omitempty"` // 存在上一页时给出
}

// SwaggerSearchEnvelope 是一个专门为 Swagger 文档生成的辅助结构体。
// 它解决了 swag 工具无法正确解析泛型类型 pager.Envelope[models.EsItemDocument] 的问题；
// 实际代码中 /items/search 返回的就是该泛型信封。
type SwaggerSearchEnvelope struct {
	Success    bool              `json:"success"`    // 请求是否成功
	Count      int               `json:"count"`      // 当前页实际返回的条数（不是 total）
	Pagination SwaggerPagination `json:"pagination"` // 分页元信息
	Data       []EsItemDocument  `json:"data"`       // 当前页的物品列表
}

// SwaggerGeoIndexResponse 是地理索引维护接口的 Swagger 辅助结构体。
type SwaggerGeoIndexResponse struct {
	Code    int               `json:"code"`
	Message string            `json:"message"`
	Data    map[string]string `json:"data,omitempty"`
}

// SwaggerErrorResponse 是一个专门为 Swagger 文档生成的辅助结构体，用于表示错误响应。
// 它解决了 swag 工具无法正确解析泛型类型 response.APIResponse[any] 的问题。
type SwaggerErrorResponse struct {
	Code    int         `json:"code"`           // 业务自定义错误码。
	Message string      `json:"message"`        // 错误的文字描述。
	Data    interface{} `json:"data,omitempty"` // 错误响应中通常为 null。
}

// SwaggerHealthCheckResponse 是一个专门为 Swagger 文档生成的辅助结构体，用于健康检查响应。
type SwaggerHealthCheckResponse struct {
	Code    int                    `json:"code"`
	Message string                 `json:"message"`
	Data    map[string]interface{} `json:"data,omitempty"`
}

// SwaggerHotSearchTermsResponse 是热门搜索词接口的 Swagger 辅助结构体。
type SwaggerHotSearchTermsResponse struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    []HotSearchTerm `json:"data,omitempty"`
}
