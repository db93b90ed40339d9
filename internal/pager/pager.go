// Package pager 提供与资源类型无关的通用分页执行器：拿到一个已经编译好
// 的过滤器之后，统一做排序解析、skip/limit 分页、字段投影，并产出带
// 总数和前后页描述符的标准信封。物品、用户等任何资源只要实现窄仓库
// 接口 Repository 即可复用，分页器内部没有任何资源特定的逻辑。
package pager

import (
	"context"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/Xushengqwer/barter_search/internal/query"
)

// Repository 是分页器对存储层的全部要求：一次计数、一次取页。
// T 是资源的文档类型，由具体仓库决定。
type Repository[T any] interface {
	// Count 返回过滤条件下的总命中数，计数发生在任何分页动作之前。
	Count(ctx context.Context, filter query.Filter) (int64, error)
	// Find 返回按排序说明取出的一页文档。fields 非空时做字段投影。
	Find(ctx context.Context, filter query.Filter, sort query.SortSpec, skip, limit int, fields []string) ([]T, error)
}

// DefaultLimit 是调用方未指定每页大小时的缺省值。
const DefaultLimit = 25

// Options 是分页器的调用参数。
// SortSpec 非 nil 时优先生效（搜索入口已经做过带上下文回退的排序解析）；
// 否则 SortKey 按通用别名表解析，未识别的值按字面排序键透传。
type Options struct {
	Page     int             // 页码，小于 1 时取 1
	Limit    int             // 每页大小，小于 1 时取 DefaultLimit
	SortKey  string          // 排序别名或字面排序键，空值取缺省排序
	SortSpec *query.SortSpec // 已解析的排序说明，覆盖 SortKey
	Fields   []string        // 字段投影，空表示返回完整文档
}

// PageRef 描述相邻页：页码变化，每页大小保持不变。
type PageRef struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

// Pagination 是信封中的分页元信息，全部由 total/page/limit 算术推导，
// 不持久化、不跨请求保留。
type Pagination struct {
	Page       int      `json:"page"`
	Limit      int      `json:"limit"`
	Total      int64    `json:"total"`
	TotalPages int      `json:"totalPages"`
	Next       *PageRef `json:"next,omitempty"`
	Prev       *PageRef `json:"prev,omitempty"`
}

// Envelope 是统一的分页响应信封。Count 是当前页实际条数，不是 Total。
type Envelope[T any] struct {
	Success    bool       `json:"success"`
	Count      int        `json:"count"`
	Pagination Pagination `json:"pagination"`
	Data       []T        `json:"data"`
}

// Paginate 对过滤器执行一次计数和一次取页，组装标准信封。
//
// 两次读取逻辑上彼此独立，这里用 errgroup 并发发出以压低延迟；并发写入
// 之下 total 和页内容之间可能出现轻微偏差，这是已知且可接受的限制
// （两次读取不在同一快照上）。任一读取失败则整个请求失败，绝不返回
// 填了一半的信封。
func Paginate[T any](ctx context.Context, repo Repository[T], filter query.Filter, opts Options) (*Envelope[T], error) {
	page := opts.Page
	if page < 1 {
		page = 1
	}
	limit := opts.Limit
	if limit < 1 {
		limit = DefaultLimit
	}
	skip := (page - 1) * limit

	sortSpec := query.ResolveSortKey(opts.SortKey)
	if opts.SortSpec != nil {
		sortSpec = *opts.SortSpec
	}

	var (
		total int64
		items []T
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		total, err = repo.Count(gctx, filter)
		return err
	})
	g.Go(func() error {
		var err error
		items, err = repo.Find(gctx, filter, sortSpec, skip, limit, opts.Fields)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if items == nil {
		// data 字段恒为 JSON 数组，空结果也不给前端返回 null。
		items = []T{}
	}

	totalPages := 0
	if total > 0 {
		totalPages = int((total + int64(limit) - 1) / int64(limit))
	}

	p := Pagination{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: totalPages,
	}
	if int64(page*limit) < total {
		p.Next = &PageRef{Page: page + 1, Limit: limit}
	}
	if skip > 0 {
		p.Prev = &PageRef{Page: page - 1, Limit: limit}
	}

	return &Envelope[T]{
		Success:    true,
		Count:      len(items),
		Pagination: p,
		Data:       items,
	}, nil
}

// ParseFields 把逗号分隔的字段选择参数拆为投影列表，空白项被丢弃。
// 返回 nil 表示不做投影。
func ParseFields(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	var fields []string
	for _, f := range strings.Split(raw, ",") {
		if f = strings.TrimSpace(f); f != "" {
			fields = append(fields, f)
		}
	}
	return fields
}
