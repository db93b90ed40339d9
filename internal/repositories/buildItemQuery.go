// FileName: repositories/query_builder.go
package repositories

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Xushengqwer/barter_search/internal/query"
)

// approvedStatus 是审核通过状态在 ES 中的存储值 (enums.Status，1 = 通过)。
const approvedStatus = 1

// buildItemSearchDSL 把编译好的过滤器与排序说明翻译为 Elasticsearch 查询
// 的 JSON 体。翻译规则与查询合成器的条件变体一一对应：
//
//   - TextPredicate      -> multi_match，带字段权重 (title^10, description^5)，放入 must 参与评分
//   - SubstringPredicate -> 大小写不敏感的 wildcard，多字段之间 should 或关系，放入 filter 不评分
//   - EqualityPredicate  -> term 精确匹配，放入 filter
//   - GeoPredicate       -> geo_distance 半径过滤（米），放入 filter
//   - AvailabilityGate   -> available=true 与 status=审核通过 两个 term，放入 filter
//
// filter 子句不影响 _score 且可被 ES 缓存，只有全文条件需要进入 must。
func buildItemSearchDSL(filter query.Filter, sort query.SortSpec, skip, limit int, fields []string) ([]byte, error) {
	if skip < 0 {
		// 防止页码或每页数量不合理导致 from 为负数。
		skip = 0
	}

	body := map[string]interface{}{
		"from":  skip,
		"size":  limit,
		"query": translateFilter(filter),
		"sort":  translateSort(sort, filter),
		// 确保 ES 返回精确的总命中数，即使超过默认的 10000 条。
		"track_total_hits": true,
	}
	if len(fields) > 0 {
		// 字段投影：只返回调用方点名的字段，减少传输量。
		body["_source"] = fields
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("序列化物品搜索查询对象为 JSON 失败: %w", err)
	}
	return payload, nil
}

// buildItemCountDSL 构建 Count API 的请求体，只含查询部分。
// 计数必须发生在任何 from/size 分页动作之前，这里天然没有分页参数。
func buildItemCountDSL(filter query.Filter) ([]byte, error) {
	payload, err := json.Marshal(map[string]interface{}{
		"query": translateFilter(filter),
	})
	if err != nil {
		return nil, fmt.Errorf("序列化物品计数查询对象为 JSON 失败: %w", err)
	}
	return payload, nil
}

// translateFilter 把条件列表翻译为一个 bool 查询。
func translateFilter(filter query.Filter) map[string]interface{} {
	var must []map[string]interface{}
	var filters []map[string]interface{}

	for _, p := range filter.Predicates() {
		switch pred := p.(type) {
		case query.TextPredicate:
			must = append(must, map[string]interface{}{
				"multi_match": map[string]interface{}{
					"query": pred.Query,
					"fields": []string{
						fmt.Sprintf("title^%d", pred.TitleWeight),
						fmt.Sprintf("description^%d", pred.DescriptionWeight),
					},
					"type": "best_fields",
				},
			})

		case query.SubstringPredicate:
			filters = append(filters, substringClause(pred))

		case query.EqualityPredicate:
			filters = append(filters, map[string]interface{}{
				"term": map[string]interface{}{pred.Field: pred.Value},
			})

		case query.GeoPredicate:
			filters = append(filters, map[string]interface{}{
				"geo_distance": map[string]interface{}{
					"distance": fmt.Sprintf("%dm", pred.RadiusMeters),
					"coordinates": map[string]float64{
						"lat": pred.Lat,
						"lon": pred.Lng,
					},
				},
			})

		case query.AvailabilityGate:
			filters = append(filters,
				map[string]interface{}{"term": map[string]interface{}{"available": true}},
				map[string]interface{}{"term": map[string]interface{}{"status": approvedStatus}},
			)
		}
	}

	boolClause := map[string]interface{}{}
	if len(must) > 0 {
		boolClause["must"] = must
	}
	if len(filters) > 0 {
		boolClause["filter"] = filters
	}
	if len(boolClause) == 0 {
		// 理论上不会出现：门禁保证至少有两个 filter 条件。保底 match_all。
		return map[string]interface{}{"match_all": map[string]interface{}{}}
	}
	return map[string]interface{}{"bool": boolClause}
}

// substringClause 生成大小写不敏感的子串匹配子句。
// 多个字段之间是或关系，用 should + minimum_should_match 表达。
func substringClause(pred query.SubstringPredicate) map[string]interface{} {
	clauses := make([]map[string]interface{}, 0, len(pred.Fields))
	for _, field := range pred.Fields {
		clauses = append(clauses, map[string]interface{}{
			"wildcard": map[string]interface{}{
				// 子串匹配走 keyword 子字段，避免分词器拆词后语义变化。
				field + ".keyword": map[string]interface{}{
					"value":            "*" + escapeWildcard(pred.Term) + "*",
					"case_insensitive": true,
				},
			},
		})
	}
	if len(clauses) == 1 {
		return clauses[0]
	}
	return map[string]interface{}{
		"bool": map[string]interface{}{
			"should":               clauses,
			"minimum_should_match": 1,
		},
	}
}

// escapeWildcard 转义用户输入中的通配符元字符，防止其改写匹配语义。
func escapeWildcard(term string) string {
	term = strings.ReplaceAll(term, `\`, `\\`)
	term = strings.ReplaceAll(term, "*", `\*`)
	term = strings.ReplaceAll(term, "?", `\?`)
	return term
}

// translateSort 把排序说明翻译为 ES 的 sort 子句。
//
//   - 相关性排序按 _score 降序；
//   - 最近优先用 _geo_distance 阶段表达，圆心取过滤器里的地理条件，
//     不附加任何显式字段排序键；
//   - 字段排序在主键相同时按 id 升序补一个辅助排序，保证结果顺序稳定。
func translateSort(sort query.SortSpec, filter query.Filter) []map[string]interface{} {
	switch sort.Kind {
	case query.SortByRelevance:
		return []map[string]interface{}{
			{"_score": map[string]string{"order": "desc"}},
			{"id": map[string]string{"order": "asc"}},
		}

	case query.SortByNearest:
		if geo := filter.Geo(); geo != nil {
			return []map[string]interface{}{
				{"_geo_distance": map[string]interface{}{
					"coordinates": map[string]float64{"lat": geo.Lat, "lon": geo.Lng},
					"order":       "asc",
					"unit":        "m",
				}},
			}
		}
		// 没有地理条件时 nearest 无意义，回落到缺省排序。合成器已保证
		// 不会走到这里，属于仓库层自己的保底。
		return translateSort(query.DefaultSort(), filter)

	default:
		order := "asc"
		if sort.Desc {
			order = "desc"
		}
		clause := []map[string]interface{}{
			{sortFieldName(sort.Field): map[string]string{"order": order}},
		}
		if sort.Field != "id" {
			clause = append(clause, map[string]interface{}{"id": map[string]string{"order": "asc"}})
		}
		return clause
	}
}

// sortFieldName 把逻辑排序字段映射为可排序的 ES 字段。
// title 是分词的 text 字段，排序必须走它的 keyword 子字段。
func sortFieldName(field string) string {
	if field == query.FieldTitle {
		return "title.keyword"
	}
	return field
}
