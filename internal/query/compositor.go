package query

import (
	"errors"
	"strconv"
	"strings"

	"github.com/Xushengqwer/barter_search/internal/models"
)

// ErrGeoSearchUnavailable 表示请求需要地理检索能力，但存储端没有配置
// 地理索引。这是部署配置缺陷而不是用户输入问题，调用方应按服务端
// 配置错误（500 一类）上报并大声记录日志，而不能当作"无结果"吞掉。
var ErrGeoSearchUnavailable = errors.New("地理检索能力未配置：物品索引缺少 geo_point 映射")

// 权重与半径的既定常量。标题命中应显著高于描述命中。
const (
	TitleWeight       = 10 // 全文检索中标题字段的权重
	DescriptionWeight = 5  // 全文检索中描述字段的权重
	DefaultRadiusKm   = 10 // 地理过滤的缺省半径（公里）
)

// Capabilities 描述存储端具备的检索能力，由仓库层在启动时根据索引
// 映射给出。合成器据此决定全文检索的降级和地理检索的可用性。
type Capabilities struct {
	TextSearch bool // 是否具备加权全文检索（倒排索引可用）
	Geo        bool // 是否具备 geo_point 地理过滤
}

// Compose 把一条搜索请求编译为过滤器和排序说明。
//
// 编译规则（可降级的输入永不让请求失败）：
//   - 关键词去首尾空白后为空则完全不产生文本条件——"没有文本过滤"
//     和"过滤出空集"是两回事；非空时生成标题:描述 = 10:5 的加权全文
//     条件，全文能力缺失时降级为对标题或描述的大小写不敏感子串匹配。
//   - 类目、成色非空时生成精确匹配条件。
//   - 位置文本非空时生成对 location 字段的子串匹配条件，与地理过滤互相独立。
//   - 经纬度必须同时存在且都能解析为数值才生成地理条件，任何一侧缺失
//     或解析失败都整体省略（绝不默默落到 0,0）；半径解析失败用缺省 10 公里。
//   - 可见性门禁无条件追加，不受其他任何参数影响。
//
// 唯一的错误出口是能力不匹配：请求携带了合法坐标而存储端没有地理能力时
// 返回 ErrGeoSearchUnavailable。
func Compose(req models.SearchRequest, caps Capabilities) (Filter, SortSpec, error) {
	var preds []Predicate

	keyword := strings.TrimSpace(req.Query)
	if keyword != "" {
		if caps.TextSearch {
			preds = append(preds, TextPredicate{
				Query:             keyword,
				TitleWeight:       TitleWeight,
				DescriptionWeight: DescriptionWeight,
			})
		} else {
			preds = append(preds, SubstringPredicate{
				Fields: []string{"title", "description"},
				Term:   keyword,
			})
		}
	}

	if category := strings.TrimSpace(req.Category); category != "" {
		preds = append(preds, EqualityPredicate{Field: "category", Value: category})
	}
	if condition := strings.TrimSpace(req.Condition); condition != "" {
		preds = append(preds, EqualityPredicate{Field: "condition", Value: condition})
	}
	if location := strings.TrimSpace(req.Location); location != "" {
		preds = append(preds, SubstringPredicate{Fields: []string{"location"}, Term: location})
	}

	lat, lng, geoOK := parseCoordinates(req.Lat, req.Lng)
	if geoOK {
		if !caps.Geo {
			return Filter{}, SortSpec{}, ErrGeoSearchUnavailable
		}
		preds = append(preds, GeoPredicate{
			Lat:          lat,
			Lng:          lng,
			RadiusMeters: ParseRadiusKm(req.Distance, DefaultRadiusKm) * 1000,
		})
	}

	// 门禁永远在场，与用户输入无关。
	preds = append(preds, AvailabilityGate{})

	return NewFilter(preds...), ResolveSort(req.Sort, keyword != "", geoOK), nil
}

// ComposeNearby 为"附近物品"接口编译过滤器：只有地理条件和门禁，
// 排序固定为由近到远。坐标由接口层保证必填，这里只校验能力。
func ComposeNearby(lat, lng float64, distance string, caps Capabilities) (Filter, SortSpec, error) {
	if !caps.Geo {
		return Filter{}, SortSpec{}, ErrGeoSearchUnavailable
	}
	f := NewFilter(
		GeoPredicate{
			Lat:          lat,
			Lng:          lng,
			RadiusMeters: ParseRadiusKm(distance, DefaultRadiusKm) * 1000,
		},
		AvailabilityGate{},
	)
	return f, SortSpec{Kind: SortByNearest}, nil
}

// parseCoordinates 解析成对的经纬度。两侧都非空且都能解析才算成功，
// 否则整体放弃地理过滤。
func parseCoordinates(latStr, lngStr string) (lat, lng float64, ok bool) {
	latStr = strings.TrimSpace(latStr)
	lngStr = strings.TrimSpace(lngStr)
	if latStr == "" || lngStr == "" {
		return 0, 0, false
	}
	lat, errLat := strconv.ParseFloat(latStr, 64)
	lng, errLng := strconv.ParseFloat(lngStr, 64)
	if errLat != nil || errLng != nil {
		return 0, 0, false
	}
	return lat, lng, true
}

// ParseRadiusKm 把半径参数解析为整数公里，空值或解析失败、非正值
// 都回落到缺省值，绝不让坏半径毁掉整个请求。
func ParseRadiusKm(raw string, def int) int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return def
	}
	km, err := strconv.Atoi(raw)
	if err != nil || km <= 0 {
		return def
	}
	return km
}
