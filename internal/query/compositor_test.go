package query

import (
	"errors"
	"testing"

	"github.com/Xushengqwer/barter_search/internal/models"
)

// fullCaps 是大多数用例使用的完整能力集。
var fullCaps = Capabilities{TextSearch: true, Geo: true}

func TestCompose_EmptyKeywordProducesNoTextPredicate(t *testing.T) {
	for _, q := range []string{"", "   ", "\t\n"} {
		f, _, err := Compose(models.SearchRequest{Query: q}, fullCaps)
		if err != nil {
			t.Fatalf("Compose(q=%q) 意外失败: %v", q, err)
		}
		if f.Text() != nil {
			t.Errorf("Compose(q=%q) 不应产生文本条件", q)
		}
		// 空关键词时过滤器只剩门禁。
		if got := len(f.Predicates()); got != 1 {
			t.Errorf("Compose(q=%q) 条件数 = %d, 期望 1 (仅门禁)", q, got)
		}
	}
}

func TestCompose_KeywordProducesWeightedTextPredicate(t *testing.T) {
	f, _, err := Compose(models.SearchRequest{Query: "  自行车  "}, fullCaps)
	if err != nil {
		t.Fatalf("Compose 意外失败: %v", err)
	}
	tp := f.Text()
	if tp == nil {
		t.Fatal("期望产生文本条件")
	}
	if tp.Query != "自行车" {
		t.Errorf("关键词未规范化: %q", tp.Query)
	}
	if tp.TitleWeight != TitleWeight || tp.DescriptionWeight != DescriptionWeight {
		t.Errorf("权重 = %d:%d, 期望 %d:%d", tp.TitleWeight, tp.DescriptionWeight, TitleWeight, DescriptionWeight)
	}
}

func TestCompose_TextFallsBackToSubstringWithoutTextSearch(t *testing.T) {
	f, _, err := Compose(models.SearchRequest{Query: "kindle"}, Capabilities{TextSearch: false, Geo: true})
	if err != nil {
		t.Fatalf("Compose 意外失败: %v", err)
	}
	if f.Text() != nil {
		t.Error("全文能力缺失时不应产生文本条件")
	}
	var sub *SubstringPredicate
	for _, p := range f.Predicates() {
		if sp, ok := p.(SubstringPredicate); ok {
			sub = &sp
			break
		}
	}
	if sub == nil {
		t.Fatal("期望降级为子串条件")
	}
	if len(sub.Fields) != 2 || sub.Fields[0] != "title" || sub.Fields[1] != "description" {
		t.Errorf("降级子串字段 = %v, 期望 [title description]", sub.Fields)
	}
	if sub.Term != "kindle" {
		t.Errorf("降级子串取值 = %q", sub.Term)
	}
}

func TestCompose_EqualityAndLocationPredicates(t *testing.T) {
	f, _, err := Compose(models.SearchRequest{
		Category:  "electronics",
		Condition: "like_new",
		Location:  "浦东",
	}, fullCaps)
	if err != nil {
		t.Fatalf("Compose 意外失败: %v", err)
	}
	var (
		eqFields []string
		locSub   *SubstringPredicate
	)
	for _, p := range f.Predicates() {
		switch v := p.(type) {
		case EqualityPredicate:
			eqFields = append(eqFields, v.Field)
		case SubstringPredicate:
			locSub = &v
		}
	}
	if len(eqFields) != 2 || eqFields[0] != "category" || eqFields[1] != "condition" {
		t.Errorf("等值条件字段 = %v, 期望 [category condition]", eqFields)
	}
	if locSub == nil || len(locSub.Fields) != 1 || locSub.Fields[0] != "location" || locSub.Term != "浦东" {
		t.Errorf("位置子串条件不符: %+v", locSub)
	}
}

func TestCompose_PartialCoordinatesOmitGeoPredicate(t *testing.T) {
	cases := []struct {
		name     string
		lat, lng string
	}{
		{"仅有纬度", "31.23", ""},
		{"仅有经度", "", "121.47"},
		{"纬度非数值", "abc", "121.47"},
		{"经度非数值", "31.23", "xyz"},
		{"两侧都为空", "", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f, _, err := Compose(models.SearchRequest{Lat: tc.lat, Lng: tc.lng}, fullCaps)
			if err != nil {
				t.Fatalf("Compose 意外失败: %v", err)
			}
			if f.Geo() != nil {
				t.Error("坐标不完整时不应产生地理条件")
			}
		})
	}
}

func TestCompose_ValidCoordinatesProduceGeoPredicate(t *testing.T) {
	f, _, err := Compose(models.SearchRequest{Lat: "31.2304", Lng: "121.4737", Distance: "5"}, fullCaps)
	if err != nil {
		t.Fatalf("Compose 意外失败: %v", err)
	}
	gp := f.Geo()
	if gp == nil {
		t.Fatal("期望产生地理条件")
	}
	if gp.Lat != 31.2304 || gp.Lng != 121.4737 {
		t.Errorf("坐标 = (%v, %v)", gp.Lat, gp.Lng)
	}
	// 半径单位是公里，落地为米。
	if gp.RadiusMeters != 5000 {
		t.Errorf("半径 = %d 米, 期望 5000", gp.RadiusMeters)
	}
}

func TestCompose_BadRadiusFallsBackToDefault(t *testing.T) {
	for _, raw := range []string{"abc", "-3", "0", ""} {
		f, _, err := Compose(models.SearchRequest{Lat: "31.23", Lng: "121.47", Distance: raw}, fullCaps)
		if err != nil {
			t.Fatalf("Compose(distance=%q) 意外失败: %v", raw, err)
		}
		gp := f.Geo()
		if gp == nil {
			t.Fatalf("Compose(distance=%q) 期望仍产生地理条件", raw)
		}
		if gp.RadiusMeters != DefaultRadiusKm*1000 {
			t.Errorf("Compose(distance=%q) 半径 = %d, 期望缺省 %d", raw, gp.RadiusMeters, DefaultRadiusKm*1000)
		}
	}
}

func TestCompose_GeoWithoutCapabilityFails(t *testing.T) {
	_, _, err := Compose(models.SearchRequest{Lat: "31.23", Lng: "121.47"}, Capabilities{TextSearch: true, Geo: false})
	if !errors.Is(err, ErrGeoSearchUnavailable) {
		t.Fatalf("err = %v, 期望 ErrGeoSearchUnavailable", err)
	}
}

func TestCompose_GateAlwaysPresent(t *testing.T) {
	reqs := []models.SearchRequest{
		{},
		{Query: "书架"},
		{Category: "furniture", Lat: "31.23", Lng: "121.47"},
	}
	for i, req := range reqs {
		f, _, err := Compose(req, fullCaps)
		if err != nil {
			t.Fatalf("用例 %d: Compose 意外失败: %v", i, err)
		}
		if !f.HasGate() {
			t.Errorf("用例 %d: 过滤器缺少可见性门禁", i)
		}
	}
}

func TestComposeNearby(t *testing.T) {
	f, spec, err := ComposeNearby(31.2304, 121.4737, "", fullCaps)
	if err != nil {
		t.Fatalf("ComposeNearby 意外失败: %v", err)
	}
	gp := f.Geo()
	if gp == nil {
		t.Fatal("期望产生地理条件")
	}
	if gp.RadiusMeters != DefaultRadiusKm*1000 {
		t.Errorf("半径 = %d, 期望缺省 %d", gp.RadiusMeters, DefaultRadiusKm*1000)
	}
	if !f.HasGate() {
		t.Error("附近查询同样要带可见性门禁")
	}
	if spec.Kind != SortByNearest {
		t.Errorf("排序 = %+v, 期望 SortByNearest", spec)
	}
}

func TestComposeNearby_WithoutCapabilityFails(t *testing.T) {
	_, _, err := ComposeNearby(31.23, 121.47, "5", Capabilities{TextSearch: true, Geo: false})
	if !errors.Is(err, ErrGeoSearchUnavailable) {
		t.Fatalf("err = %v, 期望 ErrGeoSearchUnavailable", err)
	}
}

func TestParseRadiusKm(t *testing.T) {
	cases := []struct {
		raw  string
		want int
	}{
		{"5", 5},
		{" 25 ", 25},
		{"", 10},
		{"abc", 10},
		{"-1", 10},
		{"0", 10},
		{"2.5", 10}, // 只接受整数公里
	}
	for _, tc := range cases {
		if got := ParseRadiusKm(tc.raw, 10); got != tc.want {
			t.Errorf("ParseRadiusKm(%q) = %d, 期望 %d", tc.raw, got, tc.want)
		}
	}
}
