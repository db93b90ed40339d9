package models

// ItemCategory 是物品类目的枚举。在 Elasticsearch 中存储为 keyword，精确匹配过滤。
type ItemCategory = string

const (
	CategoryElectronics ItemCategory = "electronics" // 数码电子
	CategoryFurniture   ItemCategory = "furniture"   // 家具家居
	CategoryClothing    ItemCategory = "clothing"    // 服饰
	CategoryBooks       ItemCategory = "books"       // 图书
	CategorySports      ItemCategory = "sports"      // 运动户外
	CategoryToys        ItemCategory = "toys"        // 玩具
	CategoryTools       ItemCategory = "tools"       // 工具
	CategoryOther       ItemCategory = "other"       // 其他
)

// ItemCondition 是物品成色的枚举。同样以 keyword 存储。
type ItemCondition = string

const (
	ConditionNew       ItemCondition = "new"        // 全新
	ConditionLikeNew   ItemCondition = "like_new"   // 几乎全新
	ConditionGood      ItemCondition = "good"       // 成色良好
	ConditionFair      ItemCondition = "fair"       // 有使用痕迹
	ConditionWellWorn  ItemCondition = "well_worn"  // 明显磨损
)
