package model

import (
	"context"

	"github.com/hatlonely/awesome/orm"
	"github.com/hatlonely/awesome/orm/cond"
)

// Page 分页参数，Index 从 1 开始
type Page struct {
	Index int
	Size  int
	Total int64
}

// Offset 超出范围时回到第一页
func (p *Page) Offset() int {
	if p.Index < 1 {
		p.Index = 1
	}
	offset := (p.Index - 1) * p.Size
	if p.Total == 0 || int64(offset) >= p.Total {
		p.Index = 1
		return 0
	}
	return offset
}

type Users struct {
	*orm.Model[*User]
}

// FindByEmail 邮箱不存在时返回 false
func (u *Users) FindByEmail(ctx context.Context, email string) (*User, bool, error) {
	users, err := u.FindAll(ctx, orm.WhereCond(cond.Eq("email", email)), orm.Limit(1))
	if err != nil || len(users) == 0 {
		return nil, false, err
	}
	return users[0], true, nil
}

type Blogs struct {
	*orm.Model[*Blog]
}

// ListPage 按创建时间倒序分页，page.Total 会被更新
func (b *Blogs) ListPage(ctx context.Context, page *Page) ([]*Blog, error) {
	total, err := b.Count(ctx)
	if err != nil {
		return nil, err
	}
	page.Total = total
	if total == 0 {
		page.Index = 1
		return []*Blog{}, nil
	}
	return b.FindAll(ctx, orm.OrderBy("`created_at` desc"), orm.Limit(page.Offset(), page.Size))
}

type Comments struct {
	*orm.Model[*Comment]
}

// ForBlog 博客下的全部评论，按创建时间倒序
func (c *Comments) ForBlog(ctx context.Context, blogID string) ([]*Comment, error) {
	return c.FindAll(ctx, orm.WhereCond(cond.Eq("blog_id", blogID)), orm.OrderBy("`created_at` desc"))
}

// Store 博客应用的全部模型，共享同一个 Executor
type Store struct {
	Users    *Users
	Blogs    *Blogs
	Comments *Comments
}

func NewStore(exec *orm.Executor, opts ...orm.Option) *Store {
	return &Store{
		Users:    &Users{orm.NewModel(exec, UserMeta, func() *User { return &User{} }, opts...)},
		Blogs:    &Blogs{orm.NewModel(exec, BlogMeta, func() *Blog { return &Blog{} }, opts...)},
		Comments: &Comments{orm.NewModel(exec, CommentMeta, func() *Comment { return &Comment{} }, opts...)},
	}
}
