package models

// SearchRequest 定义物品搜索 API 请求的参数及验证规则。
//
// 注意 lat / lng / distance 故意绑定为字符串：这几项属于"可降级"的可选输入，
// 解析失败时应当整体省略对应的过滤条件，而不是让 gin 的类型绑定直接拒掉整个请求。
// 真正需要硬校验的只有分页参数。
type SearchRequest struct {
	Query     string `form:"q"`                                                  // 搜索关键词，非必需
	Category  string `form:"category" binding:"omitempty"`                       // 物品类目，精确匹配过滤
	Condition string `form:"condition" binding:"omitempty"`                      // 物品成色，精确匹配过滤
	Location  string `form:"location" binding:"omitempty"`                       // 位置描述文本，子串匹配过滤
	Lat       string `form:"lat"`                                                // 纬度（字符串，解析失败则忽略地理过滤）
	Lng       string `form:"lng"`                                                // 经度（字符串，必须与 lat 成对出现）
	Distance  string `form:"distance"`                                           // 半径，单位公里，缺省 10
	Sort      string `form:"sort" binding:"omitempty"`                           // 排序别名: recent|oldest|az|za|relevance|nearest
	Page      int    `form:"page,default=1" binding:"omitempty,min=1"`           // 页码，可选，默认为1，最小为1
	Limit     int    `form:"limit,default=12" binding:"omitempty,min=1,max=100"` // 每页大小，可选，默认12，范围1-100
}

// NearbyRequest 定义附近物品 API 的请求参数。
// 与 /search 不同，这个接口的坐标是必填项，缺失时直接返回 400 并指明缺失字段。
type NearbyRequest struct {
	Lat      *float64 `form:"lat"`                                               // 纬度，必填（用指针区分"未提供"和 0）
	Lng      *float64 `form:"lng"`                                               // 经度，必填
	Distance string   `form:"distance"`                                          // 半径，单位公里，缺省 10
	Limit    int      `form:"limit,default=12" binding:"omitempty,min=1,max=100"` // 返回数量上限
}
