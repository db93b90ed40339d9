package query

import "testing"

func TestResolveSort_Aliases(t *testing.T) {
	cases := []struct {
		name     string
		sortKey  string
		hasQuery bool
		hasGeo   bool
		want     SortSpec
	}{
		{"缺省为最新在前", "", false, false, SortSpec{Kind: SortByField, Field: FieldCreatedAt, Desc: true}},
		{"recent", "recent", false, false, SortSpec{Kind: SortByField, Field: FieldCreatedAt, Desc: true}},
		{"oldest", "oldest", false, false, SortSpec{Kind: SortByField, Field: FieldCreatedAt, Desc: false}},
		{"az", "az", false, false, SortSpec{Kind: SortByField, Field: FieldTitle, Desc: false}},
		{"za", "za", false, false, SortSpec{Kind: SortByField, Field: FieldTitle, Desc: true}},
		{"relevance 带关键词", "relevance", true, false, SortSpec{Kind: SortByRelevance}},
		{"relevance 无关键词回退", "relevance", false, false, DefaultSort()},
		{"nearest 带坐标", "nearest", false, true, SortSpec{Kind: SortByNearest}},
		{"nearest 无坐标回退", "nearest", false, false, DefaultSort()},
		{"未识别取值回退", "banana", true, true, DefaultSort()},
		{"首尾空白被忽略", "  oldest  ", false, false, SortSpec{Kind: SortByField, Field: FieldCreatedAt, Desc: false}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ResolveSort(tc.sortKey, tc.hasQuery, tc.hasGeo); got != tc.want {
				t.Errorf("ResolveSort(%q, %v, %v) = %+v, 期望 %+v", tc.sortKey, tc.hasQuery, tc.hasGeo, got, tc.want)
			}
		})
	}
}

func TestResolveSortKey(t *testing.T) {
	cases := []struct {
		raw  string
		want SortSpec
	}{
		{"", DefaultSort()},
		{"recent", SortSpec{Kind: SortByField, Field: FieldCreatedAt, Desc: true}},
		{"title_asc", SortSpec{Kind: SortByField, Field: FieldTitle, Desc: false}},
		{"title_desc", SortSpec{Kind: SortByField, Field: FieldTitle, Desc: true}},
		// 未识别的取值按字面排序键透传，前缀 "-" 表示降序。
		{"owner_username", SortSpec{Kind: SortByField, Field: "owner_username", Desc: false}},
		{"-updated_at", SortSpec{Kind: SortByField, Field: "updated_at", Desc: true}},
		// 裸 "-" 不是合法排序键，取缺省。
		{"-", DefaultSort()},
	}
	for _, tc := range cases {
		if got := ResolveSortKey(tc.raw); got != tc.want {
			t.Errorf("ResolveSortKey(%q) = %+v, 期望 %+v", tc.raw, got, tc.want)
		}
	}
}
