package repositories

import (
	"encoding/json"
	"testing"

	"github.com/Xushengqwer/barter_search/internal/models"
	"github.com/Xushengqwer/barter_search/internal/query"
)

// buildDSL 是测试辅助：合成过滤器、翻译 DSL 并反序列化回 map 方便断言。
func buildDSL(t *testing.T, req models.SearchRequest, skip, limit int, fields []string) map[string]interface{} {
	t.Helper()
	filter, sortSpec, err := query.Compose(req, query.Capabilities{TextSearch: true, Geo: true})
	if err != nil {
		t.Fatalf("Compose 意外失败: %v", err)
	}
	payload, err := buildItemSearchDSL(filter, sortSpec, skip, limit, fields)
	if err != nil {
		t.Fatalf("buildItemSearchDSL 意外失败: %v", err)
	}
	var body map[string]interface{}
	if err := json.Unmarshal(payload, &body); err != nil {
		t.Fatalf("生成的 DSL 不是合法 JSON: %v\n%s", err, payload)
	}
	return body
}

// boolClauses 取出 bool 查询的 must / filter 子句列表。
func boolClauses(t *testing.T, body map[string]interface{}, section string) []interface{} {
	t.Helper()
	q, ok := body["query"].(map[string]interface{})
	if !ok {
		t.Fatalf("DSL 缺少 query: %v", body)
	}
	b, ok := q["bool"].(map[string]interface{})
	if !ok {
		t.Fatalf("query 不是 bool 查询: %v", q)
	}
	clauses, _ := b[section].([]interface{})
	return clauses
}

// findClause 在子句列表中找到第一个携带给定键的子句。
func findClause(clauses []interface{}, key string) map[string]interface{} {
	for _, c := range clauses {
		m, ok := c.(map[string]interface{})
		if !ok {
			continue
		}
		if inner, ok := m[key].(map[string]interface{}); ok {
			return inner
		}
	}
	return nil
}

func TestBuildItemSearchDSL_MultiMatchWeights(t *testing.T) {
	body := buildDSL(t, models.SearchRequest{Query: "自行车"}, 0, 12, nil)

	mm := findClause(boolClauses(t, body, "must"), "multi_match")
	if mm == nil {
		t.Fatal("must 中缺少 multi_match 子句")
	}
	if mm["query"] != "自行车" {
		t.Errorf("multi_match.query = %v", mm["query"])
	}
	fields, _ := mm["fields"].([]interface{})
	if len(fields) != 2 || fields[0] != "title^10" || fields[1] != "description^5" {
		t.Errorf("multi_match.fields = %v, 期望 [title^10 description^5]", fields)
	}
}

func TestBuildItemSearchDSL_AvailabilityGateAlwaysInFilter(t *testing.T) {
	body := buildDSL(t, models.SearchRequest{}, 0, 12, nil)

	filters := boolClauses(t, body, "filter")
	var sawAvailable, sawStatus bool
	for _, c := range filters {
		m, _ := c.(map[string]interface{})
		term, _ := m["term"].(map[string]interface{})
		if term == nil {
			continue
		}
		if v, ok := term["available"]; ok && v == true {
			sawAvailable = true
		}
		if v, ok := term["status"]; ok && v == float64(approvedStatus) {
			sawStatus = true
		}
	}
	if !sawAvailable || !sawStatus {
		t.Errorf("门禁子句不完整: available=%v status=%v\nfilters=%v", sawAvailable, sawStatus, filters)
	}
}

func TestBuildItemSearchDSL_EqualityTerms(t *testing.T) {
	body := buildDSL(t, models.SearchRequest{Category: "electronics", Condition: "like_new"}, 0, 12, nil)

	filters := boolClauses(t, body, "filter")
	wantTerms := map[string]string{"category": "electronics", "condition": "like_new"}
	for field, want := range wantTerms {
		found := false
		for _, c := range filters {
			m, _ := c.(map[string]interface{})
			term, _ := m["term"].(map[string]interface{})
			if term != nil && term[field] == want {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("filter 中缺少 term %s=%s", field, want)
		}
	}
}

func TestBuildItemSearchDSL_LocationWildcard(t *testing.T) {
	body := buildDSL(t, models.SearchRequest{Location: "浦东"}, 0, 12, nil)

	wc := findClause(boolClauses(t, body, "filter"), "wildcard")
	if wc == nil {
		t.Fatal("filter 中缺少 wildcard 子句")
	}
	inner, _ := wc["location.keyword"].(map[string]interface{})
	if inner == nil {
		t.Fatalf("wildcard 应作用于 location.keyword: %v", wc)
	}
	if inner["value"] != "*浦东*" {
		t.Errorf("wildcard.value = %v, 期望 *浦东*", inner["value"])
	}
	if inner["case_insensitive"] != true {
		t.Error("wildcard 应设置 case_insensitive=true")
	}
}

func TestEscapeWildcard(t *testing.T) {
	cases := []struct{ in, want string }{
		{"book*", `book\*`},
		{"wh?t", `wh\?t`},
		{`a\b`, `a\\b`},
		{"plain", "plain"},
		{`*?\`, `\*\?\\`},
	}
	for _, tc := range cases {
		if got := escapeWildcard(tc.in); got != tc.want {
			t.Errorf("escapeWildcard(%q) = %q, 期望 %q", tc.in, got, tc.want)
		}
	}
}

func TestBuildItemSearchDSL_GeoDistanceFilter(t *testing.T) {
	body := buildDSL(t, models.SearchRequest{Lat: "31.23", Lng: "121.47", Distance: "5"}, 0, 12, nil)

	gd := findClause(boolClauses(t, body, "filter"), "geo_distance")
	if gd == nil {
		t.Fatal("filter 中缺少 geo_distance 子句")
	}
	// 半径公里落地为米。
	if gd["distance"] != "5000m" {
		t.Errorf("geo_distance.distance = %v, 期望 5000m", gd["distance"])
	}
	center, _ := gd["coordinates"].(map[string]interface{})
	if center == nil || center["lat"] != 31.23 || center["lon"] != 121.47 {
		t.Errorf("geo_distance.coordinates = %v", center)
	}
}

func TestBuildItemSearchDSL_NearestSort(t *testing.T) {
	body := buildDSL(t, models.SearchRequest{Lat: "31.23", Lng: "121.47", Sort: "nearest"}, 0, 12, nil)

	sorts, _ := body["sort"].([]interface{})
	if len(sorts) != 1 {
		t.Fatalf("nearest 排序应只有 _geo_distance 一个阶段: %v", sorts)
	}
	first, _ := sorts[0].(map[string]interface{})
	gd, _ := first["_geo_distance"].(map[string]interface{})
	if gd == nil {
		t.Fatalf("缺少 _geo_distance 排序阶段: %v", sorts)
	}
	if gd["order"] != "asc" || gd["unit"] != "m" {
		t.Errorf("_geo_distance 参数 = %v, 期望 order=asc unit=m", gd)
	}
}

func TestBuildItemSearchDSL_FieldSortWithTiebreak(t *testing.T) {
	cases := []struct {
		sort      string
		wantField string
		wantOrder string
	}{
		{"recent", "created_at", "desc"},
		{"oldest", "created_at", "asc"},
		// title 是分词字段，排序必须走 keyword 子字段。
		{"az", "title.keyword", "asc"},
		{"za", "title.keyword", "desc"},
	}
	for _, tc := range cases {
		t.Run(tc.sort, func(t *testing.T) {
			body := buildDSL(t, models.SearchRequest{Sort: tc.sort}, 0, 12, nil)
			sorts, _ := body["sort"].([]interface{})
			if len(sorts) != 2 {
				t.Fatalf("字段排序应带 id 辅助排序键, got %v", sorts)
			}
			first, _ := sorts[0].(map[string]interface{})
			primary, _ := first[tc.wantField].(map[string]interface{})
			if primary == nil || primary["order"] != tc.wantOrder {
				t.Errorf("主排序 = %v, 期望 %s %s", first, tc.wantField, tc.wantOrder)
			}
			second, _ := sorts[1].(map[string]interface{})
			tiebreak, _ := second["id"].(map[string]interface{})
			if tiebreak == nil || tiebreak["order"] != "asc" {
				t.Errorf("辅助排序 = %v, 期望 id asc", second)
			}
		})
	}
}

func TestBuildItemSearchDSL_RelevanceSort(t *testing.T) {
	body := buildDSL(t, models.SearchRequest{Query: "kindle", Sort: "relevance"}, 0, 12, nil)

	sorts, _ := body["sort"].([]interface{})
	if len(sorts) != 2 {
		t.Fatalf("相关性排序应为 _score + id 两个阶段: %v", sorts)
	}
	first, _ := sorts[0].(map[string]interface{})
	score, _ := first["_score"].(map[string]interface{})
	if score == nil || score["order"] != "desc" {
		t.Errorf("主排序 = %v, 期望 _score desc", first)
	}
}

func TestBuildItemSearchDSL_PagingAndProjection(t *testing.T) {
	body := buildDSL(t, models.SearchRequest{}, 24, 12, []string{"title", "category"})

	if body["from"] != float64(24) || body["size"] != float64(12) {
		t.Errorf("from/size = %v/%v, 期望 24/12", body["from"], body["size"])
	}
	if body["track_total_hits"] != true {
		t.Error("应设置 track_total_hits=true 以返回精确总数")
	}
	src, _ := body["_source"].([]interface{})
	if len(src) != 2 || src[0] != "title" || src[1] != "category" {
		t.Errorf("_source = %v, 期望 [title category]", src)
	}
}

func TestBuildItemSearchDSL_NegativeSkipClamped(t *testing.T) {
	body := buildDSL(t, models.SearchRequest{}, -5, 12, nil)
	if body["from"] != float64(0) {
		t.Errorf("from = %v, 负的 skip 应被钳制为 0", body["from"])
	}
}

func TestBuildItemCountDSL(t *testing.T) {
	filter, _, err := query.Compose(models.SearchRequest{Category: "toys"}, query.Capabilities{TextSearch: true, Geo: true})
	if err != nil {
		t.Fatalf("Compose 意外失败: %v", err)
	}
	payload, err := buildItemCountDSL(filter)
	if err != nil {
		t.Fatalf("buildItemCountDSL 意外失败: %v", err)
	}
	var body map[string]interface{}
	if err := json.Unmarshal(payload, &body); err != nil {
		t.Fatalf("生成的计数 DSL 不是合法 JSON: %v", err)
	}
	if _, ok := body["query"]; !ok {
		t.Fatal("计数 DSL 缺少 query")
	}
	// 计数发生在分页之前，请求体不允许出现分页与排序参数。
	for _, forbidden := range []string{"from", "size", "sort", "_source"} {
		if _, ok := body[forbidden]; ok {
			t.Errorf("计数 DSL 不应包含 %s", forbidden)
		}
	}
}
