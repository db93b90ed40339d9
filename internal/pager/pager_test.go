package pager

import (
	"context"
	"errors"
	"testing"

	"github.com/Xushengqwer/barter_search/internal/query"
)

// fakeRecord 是一个最小的文档类型，分页器对它的结构一无所知。
type fakeRecord struct {
	ID int
}

// fakeRepo 记录分页器的调用入参并按页返回切片中的数据。
type fakeRepo struct {
	docs []fakeRecord

	countErr error
	findErr  error

	gotSkip   int
	gotLimit  int
	gotSort   query.SortSpec
	gotFields []string
}

func (r *fakeRepo) Count(_ context.Context, _ query.Filter) (int64, error) {
	if r.countErr != nil {
		return 0, r.countErr
	}
	return int64(len(r.docs)), nil
}

func (r *fakeRepo) Find(_ context.Context, _ query.Filter, sort query.SortSpec, skip, limit int, fields []string) ([]fakeRecord, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	r.gotSkip, r.gotLimit, r.gotSort, r.gotFields = skip, limit, sort, fields
	if skip >= len(r.docs) {
		return nil, nil
	}
	end := skip + limit
	if end > len(r.docs) {
		end = len(r.docs)
	}
	return r.docs[skip:end], nil
}

func makeDocs(n int) []fakeRecord {
	docs := make([]fakeRecord, n)
	for i := range docs {
		docs[i] = fakeRecord{ID: i + 1}
	}
	return docs
}

func TestPaginate_FirstPage(t *testing.T) {
	repo := &fakeRepo{docs: makeDocs(15)}
	env, err := Paginate[fakeRecord](context.Background(), repo, query.Filter{}, Options{Page: 1, Limit: 12})
	if err != nil {
		t.Fatalf("Paginate 意外失败: %v", err)
	}
	if !env.Success {
		t.Error("Success 应为 true")
	}
	if env.Count != 12 || len(env.Data) != 12 {
		t.Errorf("Count = %d, len(Data) = %d, 期望都是 12", env.Count, len(env.Data))
	}
	p := env.Pagination
	if p.Total != 15 || p.TotalPages != 2 {
		t.Errorf("Total = %d, TotalPages = %d, 期望 15 和 2", p.Total, p.TotalPages)
	}
	if p.Next == nil || p.Next.Page != 2 || p.Next.Limit != 12 {
		t.Errorf("Next = %+v, 期望 {Page:2 Limit:12}", p.Next)
	}
	if p.Prev != nil {
		t.Errorf("第一页不应有 Prev: %+v", p.Prev)
	}
	if repo.gotSkip != 0 {
		t.Errorf("skip = %d, 期望 0", repo.gotSkip)
	}
}

func TestPaginate_LastPage(t *testing.T) {
	repo := &fakeRepo{docs: makeDocs(15)}
	env, err := Paginate[fakeRecord](context.Background(), repo, query.Filter{}, Options{Page: 2, Limit: 12})
	if err != nil {
		t.Fatalf("Paginate 意外失败: %v", err)
	}
	if env.Count != 3 {
		t.Errorf("Count = %d, 期望 3", env.Count)
	}
	p := env.Pagination
	if p.Next != nil {
		t.Errorf("最后一页不应有 Next: %+v", p.Next)
	}
	if p.Prev == nil || p.Prev.Page != 1 || p.Prev.Limit != 12 {
		t.Errorf("Prev = %+v, 期望 {Page:1 Limit:12}", p.Prev)
	}
	// skip = (page-1)*limit
	if repo.gotSkip != 12 {
		t.Errorf("skip = %d, 期望 12", repo.gotSkip)
	}
}

func TestPaginate_Defaults(t *testing.T) {
	repo := &fakeRepo{docs: makeDocs(3)}
	env, err := Paginate[fakeRecord](context.Background(), repo, query.Filter{}, Options{Page: 0, Limit: -7})
	if err != nil {
		t.Fatalf("Paginate 意外失败: %v", err)
	}
	if env.Pagination.Page != 1 {
		t.Errorf("Page = %d, 期望回落到 1", env.Pagination.Page)
	}
	if env.Pagination.Limit != DefaultLimit || repo.gotLimit != DefaultLimit {
		t.Errorf("Limit = %d (仓库收到 %d), 期望 %d", env.Pagination.Limit, repo.gotLimit, DefaultLimit)
	}
}

func TestPaginate_EmptyResult(t *testing.T) {
	repo := &fakeRepo{}
	env, err := Paginate[fakeRecord](context.Background(), repo, query.Filter{}, Options{Page: 1, Limit: 10})
	if err != nil {
		t.Fatalf("Paginate 意外失败: %v", err)
	}
	if !env.Success {
		t.Error("空结果同样是成功响应")
	}
	if env.Data == nil {
		t.Error("Data 应为空数组而不是 nil，序列化后不能是 null")
	}
	if env.Count != 0 || env.Pagination.Total != 0 || env.Pagination.TotalPages != 0 {
		t.Errorf("空结果信封不符: Count=%d Total=%d TotalPages=%d", env.Count, env.Pagination.Total, env.Pagination.TotalPages)
	}
	if env.Pagination.Next != nil || env.Pagination.Prev != nil {
		t.Error("空结果不应有相邻页描述符")
	}
}

func TestPaginate_TotalPagesCeiling(t *testing.T) {
	cases := []struct {
		total, limit, want int
	}{
		{24, 12, 2},
		{25, 12, 3},
		{1, 12, 1},
		{12, 12, 1},
	}
	for _, tc := range cases {
		repo := &fakeRepo{docs: makeDocs(tc.total)}
		env, err := Paginate[fakeRecord](context.Background(), repo, query.Filter{}, Options{Page: 1, Limit: tc.limit})
		if err != nil {
			t.Fatalf("Paginate(total=%d) 意外失败: %v", tc.total, err)
		}
		if env.Pagination.TotalPages != tc.want {
			t.Errorf("total=%d limit=%d: TotalPages = %d, 期望 %d", tc.total, tc.limit, env.Pagination.TotalPages, tc.want)
		}
	}
}

func TestPaginate_CountErrorFailsWhole(t *testing.T) {
	wantErr := errors.New("存储端不可用")
	repo := &fakeRepo{docs: makeDocs(5), countErr: wantErr}
	env, err := Paginate[fakeRecord](context.Background(), repo, query.Filter{}, Options{})
	if !errors.Is(err, wantErr) {
		t.Fatalf("err = %v, 期望 %v", err, wantErr)
	}
	if env != nil {
		t.Error("读取失败时绝不返回填了一半的信封")
	}
}

func TestPaginate_FindErrorFailsWhole(t *testing.T) {
	wantErr := errors.New("取页失败")
	repo := &fakeRepo{docs: makeDocs(5), findErr: wantErr}
	env, err := Paginate[fakeRecord](context.Background(), repo, query.Filter{}, Options{})
	if !errors.Is(err, wantErr) {
		t.Fatalf("err = %v, 期望 %v", err, wantErr)
	}
	if env != nil {
		t.Error("读取失败时绝不返回信封")
	}
}

func TestPaginate_SortSpecOverridesSortKey(t *testing.T) {
	repo := &fakeRepo{docs: makeDocs(1)}
	override := query.SortSpec{Kind: query.SortByNearest}
	_, err := Paginate[fakeRecord](context.Background(), repo, query.Filter{}, Options{
		SortKey:  "title_asc",
		SortSpec: &override,
	})
	if err != nil {
		t.Fatalf("Paginate 意外失败: %v", err)
	}
	if repo.gotSort != override {
		t.Errorf("仓库收到的排序 = %+v, 期望已解析的 %+v 覆盖 SortKey", repo.gotSort, override)
	}
}

func TestPaginate_SortKeyResolution(t *testing.T) {
	repo := &fakeRepo{docs: makeDocs(1)}
	_, err := Paginate[fakeRecord](context.Background(), repo, query.Filter{}, Options{SortKey: "-updated_at"})
	if err != nil {
		t.Fatalf("Paginate 意外失败: %v", err)
	}
	want := query.SortSpec{Kind: query.SortByField, Field: "updated_at", Desc: true}
	if repo.gotSort != want {
		t.Errorf("仓库收到的排序 = %+v, 期望 %+v", repo.gotSort, want)
	}
}

func TestPaginate_FieldsPassthrough(t *testing.T) {
	repo := &fakeRepo{docs: makeDocs(1)}
	fields := []string{"title", "category"}
	_, err := Paginate[fakeRecord](context.Background(), repo, query.Filter{}, Options{Fields: fields})
	if err != nil {
		t.Fatalf("Paginate 意外失败: %v", err)
	}
	if len(repo.gotFields) != 2 || repo.gotFields[0] != "title" || repo.gotFields[1] != "category" {
		t.Errorf("仓库收到的投影字段 = %v, 期望 %v", repo.gotFields, fields)
	}
}

// anotherRecord 验证分页器对第二种资源类型同样工作，没有任何资源特定假设。
type anotherRecord struct {
	Name string
}

type anotherRepo struct{ docs []anotherRecord }

func (r *anotherRepo) Count(_ context.Context, _ query.Filter) (int64, error) {
	return int64(len(r.docs)), nil
}

func (r *anotherRepo) Find(_ context.Context, _ query.Filter, _ query.SortSpec, skip, limit int, _ []string) ([]anotherRecord, error) {
	if skip >= len(r.docs) {
		return nil, nil
	}
	end := skip + limit
	if end > len(r.docs) {
		end = len(r.docs)
	}
	return r.docs[skip:end], nil
}

func TestPaginate_ResourceAgnostic(t *testing.T) {
	repo := &anotherRepo{docs: []anotherRecord{{Name: "甲"}, {Name: "乙"}, {Name: "丙"}}}
	env, err := Paginate[anotherRecord](context.Background(), repo, query.Filter{}, Options{Page: 2, Limit: 2})
	if err != nil {
		t.Fatalf("Paginate 意外失败: %v", err)
	}
	if env.Count != 1 || env.Data[0].Name != "丙" {
		t.Errorf("第二页 = %+v, 期望只含 丙", env.Data)
	}
	if env.Pagination.TotalPages != 2 {
		t.Errorf("TotalPages = %d, 期望 2", env.Pagination.TotalPages)
	}
}

func TestParseFields(t *testing.T) {
	cases := []struct {
		raw  string
		want []string
	}{
		{"", nil},
		{"   ", nil},
		{"title", []string{"title"}},
		{"title, category ,condition", []string{"title", "category", "condition"}},
		{",,title,", []string{"title"}},
	}
	for _, tc := range cases {
		got := ParseFields(tc.raw)
		if len(got) != len(tc.want) {
			t.Errorf("ParseFields(%q) = %v, 期望 %v", tc.raw, got, tc.want)
			continue
		}
		for i := range got {
			if got[i] != tc.want[i] {
				t.Errorf("ParseFields(%q) = %v, 期望 %v", tc.raw, got, tc.want)
				break
			}
		}
	}
}
