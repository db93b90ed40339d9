// Package query 实现物品搜索的查询合成器：把原始的搜索请求参数编译为
// 一组封闭的、有类型的匹配条件 (Predicate) 以及一个排序说明 (SortSpec)。
//
// 之所以用封闭的条件变体而不是边走边拼的动态查询对象，是为了让每一类
// 过滤条件都有明确的类型和取值约束，仓库层各自翻译为存储方言即可，
// 不存在对一个无类型 map 的隐式约定。
package query

// Predicate 是单个匹配条件。实现该接口的类型是一个封闭集合：
// 全文 (TextPredicate)、子串 (SubstringPredicate)、等值 (EqualityPredicate)、
// 地理半径 (GeoPredicate) 以及无条件的可见性门禁 (AvailabilityGate)。
type Predicate interface {
	predicate()
}

// TextPredicate 表示对标题和描述的加权全文检索条件。
// 标题权重高于描述，命中标题的文档相关性评分更高。
type TextPredicate struct {
	Query             string // 规范化（去首尾空白）后的关键词，保证非空
	TitleWeight       int    // 标题字段权重
	DescriptionWeight int    // 描述字段权重
}

// SubstringPredicate 表示大小写不敏感的子串匹配条件。
// 两处使用：位置文本的过滤，以及全文检索能力缺失时对标题/描述的降级匹配。
// 多个字段之间是"或"的关系。
type SubstringPredicate struct {
	Fields []string // 参与匹配的文档字段
	Term   string   // 匹配的子串，保证非空
}

// EqualityPredicate 表示对单个 keyword 字段的精确匹配条件（类目、成色）。
type EqualityPredicate struct {
	Field string
	Value string
}

// GeoPredicate 表示以某坐标为圆心的半径过滤条件。
// 只有经纬度同时合法时合成器才会生成它，半径恒为正值（米）。
type GeoPredicate struct {
	Lat          float64
	Lng          float64
	RadiusMeters int
}

// AvailabilityGate 是无条件附加的可见性门禁：只有"可交换"且"审核通过"
// 的物品才能出现在任何搜索结果里。它不携带参数，存在本身即语义。
type AvailabilityGate struct{}

func (TextPredicate) predicate()      {}
func (SubstringPredicate) predicate() {}
func (EqualityPredicate) predicate()  {}
func (GeoPredicate) predicate()       {}
func (AvailabilityGate) predicate()   {}

// Filter 是由若干 Predicate 显式合取（AND）而成的完整过滤器。
// 它是搜索请求的纯函数产物，单次请求内构建、使用、丢弃，无共享状态。
type Filter struct {
	predicates []Predicate
}

// NewFilter 从给定条件构建过滤器。
func NewFilter(preds ...Predicate) Filter {
	return Filter{predicates: preds}
}

// Predicates 返回构成该过滤器的全部条件，顺序与构建时一致。
func (f Filter) Predicates() []Predicate {
	return f.predicates
}

// Text 返回过滤器中的全文检索条件，不存在时返回 nil。
func (f Filter) Text() *TextPredicate {
	for _, p := range f.predicates {
		if tp, ok := p.(TextPredicate); ok {
			return &tp
		}
	}
	return nil
}

// Geo 返回过滤器中的地理半径条件，不存在时返回 nil。
func (f Filter) Geo() *GeoPredicate {
	for _, p := range f.predicates {
		if gp, ok := p.(GeoPredicate); ok {
			return &gp
		}
	}
	return nil
}

// HasGate 报告过滤器是否带有可见性门禁。合成器的产物恒为 true，
// 该方法主要服务于仓库层与测试的断言。
func (f Filter) HasGate() bool {
	for _, p := range f.predicates {
		if _, ok := p.(AvailabilityGate); ok {
			return true
		}
	}
	return false
}
