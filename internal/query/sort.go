package query

import "strings"

// SortKind 区分排序说明的三种形态。
type SortKind int

const (
	// SortByField 按某个文档字段的方向排序。
	SortByField SortKind = iota
	// SortByRelevance 按全文检索的相关性评分排序，仅在携带关键词时有意义。
	SortByRelevance
	// SortByNearest 按与查询坐标的距离由近到远排序。半径过滤阶段
	// 已经给出了由近到远的顺序，因此不再附加任何显式字段排序键。
	SortByNearest
)

// SortSpec 是编译后的排序说明。Kind 为 SortByField 时 Field/Desc 有效。
type SortSpec struct {
	Kind  SortKind
	Field string
	Desc  bool
}

// 文档字段名。物品索引与热门词索引共用这套排序词汇表。
const (
	FieldCreatedAt = "created_at"
	FieldTitle     = "title"
)

// sortAliases 是排序别名到 SortSpec 的映射，搜索接口与通用分页器共用。
// az/za 是搜索接口的历史别名，title_asc/title_desc 是分页器的通用别名。
var sortAliases = map[string]SortSpec{
	"recent":     {Kind: SortByField, Field: FieldCreatedAt, Desc: true},
	"oldest":     {Kind: SortByField, Field: FieldCreatedAt, Desc: false},
	"az":         {Kind: SortByField, Field: FieldTitle, Desc: false},
	"za":         {Kind: SortByField, Field: FieldTitle, Desc: true},
	"title_asc":  {Kind: SortByField, Field: FieldTitle, Desc: false},
	"title_desc": {Kind: SortByField, Field: FieldTitle, Desc: true},
	"relevance":  {Kind: SortByRelevance},
	"nearest":    {Kind: SortByNearest},
}

// DefaultSort 是缺省排序：最新发布的物品在前。
func DefaultSort() SortSpec {
	return SortSpec{Kind: SortByField, Field: FieldCreatedAt, Desc: true}
}

// ResolveSort 把用户提交的排序别名解析为 SortSpec，按固定的优先级处理回退：
//
//  1. relevance 仅在关键词非空时有效，否则按 recent 处理；
//  2. nearest 仅在提供了合法坐标时有效，否则按 recent 处理；
//  3. recent / oldest / az / za 直接映射为字段和方向；
//  4. 任何无法识别的取值一律按 recent 处理。
//
// 这是一个纯函数：结果完全由入参决定，不读写任何共享状态。
func ResolveSort(sortKey string, hasQuery, hasGeo bool) SortSpec {
	spec, ok := sortAliases[strings.TrimSpace(sortKey)]
	if !ok {
		return DefaultSort()
	}
	switch spec.Kind {
	case SortByRelevance:
		if !hasQuery {
			return DefaultSort()
		}
	case SortByNearest:
		if !hasGeo {
			return DefaultSort()
		}
	}
	return spec
}

// ResolveSortKey 是通用分页器使用的排序解析：别名走同一张映射表，
// 未识别的取值按字面排序键透传（前缀 "-" 表示降序），空值取缺省排序。
// 与 ResolveSort 不同，它不做 relevance/nearest 的上下文回退——
// 分页器对资源类型一无所知，由调用方保证别名适用。
func ResolveSortKey(raw string) SortSpec {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return DefaultSort()
	}
	if spec, ok := sortAliases[raw]; ok {
		return spec
	}
	if field, found := strings.CutPrefix(raw, "-"); found {
		if field == "" {
			return DefaultSort()
		}
		return SortSpec{Kind: SortByField, Field: field, Desc: true}
	}
	return SortSpec{Kind: SortByField, Field: raw, Desc: false}
}
