// Package pagination はページ番号ベースのページネーションエンジンを提供する。
// ノート一覧とユーザー一覧で共通のページ計算・レスポンス形式を使用する。
package pagination

import "context"

const (
	// DefaultPage はページ番号のデフォルト値（1始まり）。
	DefaultPage = 1
	// DefaultLimit は1ページあたりの件数のデフォルト値。
	DefaultLimit = 10
	// MaxLimit は1ページあたりの件数の上限。
	MaxLimit = 100
)

// Params はページネーションの入力パラメータ。
type Params struct {
	Page  int
	Limit int
}

// Normalize は範囲外のパラメータをクランプした新しいParamsを返す。
// page < 1 は 1 に、limit < 1 はデフォルト値に、limit > MaxLimit は上限に丸める。
// レスポンスにはクランプ後の値をそのまま返す。
func (p Params) Normalize() Params {
	if p.Page < 1 {
		p.Page = DefaultPage
	}
	if p.Limit < 1 {
		p.Limit = DefaultLimit
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
	return p
}

// Skip は読み飛ばす件数を返す。Normalize済みのParamsで呼ぶこと。
func (p Params) Skip() int {
	return (p.Page - 1) * p.Limit
}

// Result はページネーション済みのクエリ結果。
type Result[T any] struct {
	Items      []T
	Total      int
	Page       int
	Limit      int
	TotalPages int
}

// CountFunc は条件に一致する全件数を返す関数。
type CountFunc func(ctx context.Context) (int, error)

// ListFunc は条件に一致するレコードをskip/limit付きで返す関数。
// 並び順は作成日時の降順（固定ポリシー）で実装すること。
type ListFunc[T any] func(ctx context.Context, skip, limit int) ([]T, error)

// Paginate は件数カウントとページ切り出しを実行し、ページメタデータを算出する。
// 最終ページを超えるページ番号の場合、Itemsは空スライスになるがTotalは全件数を保持する。
func Paginate[T any](ctx context.Context, params Params, count CountFunc, list ListFunc[T]) (*Result[T], error) {
	p := params.Normalize()

	total, err := count(ctx)
	if err != nil {
		return nil, err
	}

	items, err := list(ctx, p.Skip(), p.Limit)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []T{}
	}

	return &Result[T]{
		Items:      items,
		Total:      total,
		Page:       p.Page,
		Limit:      p.Limit,
		TotalPages: totalPages(total, p.Limit),
	}, nil
}

// totalPages は総ページ数（ceil(total / limit)）を返す。
func totalPages(total, limit int) int {
	if total <= 0 {
		return 0
	}
	return (total + limit - 1) / limit
}
