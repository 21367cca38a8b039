package model

import (
	"github.com/hatlonely/awesome/orm"
)

type Comment struct {
	ID        string
	BlogID    string
	UserID    string
	UserName  string
	UserImage string
	Content   string
	CreatedAt float64
}

var CommentMeta = orm.MustRegister[Comment]("comments",
	orm.StringField("id", orm.PrimaryKey(), orm.DefaultFunc(nextID), orm.DDL("varchar(50)")),
	orm.StringField("blog_id", orm.DDL("varchar(50)")),
	orm.StringField("user_id", orm.DDL("varchar(50)")),
	orm.StringField("user_name", orm.DDL("varchar(50)")),
	orm.StringField("user_image", orm.DDL("varchar(500)")),
	orm.TextField("content"),
	orm.FloatField("created_at", orm.DefaultFunc(now)),
)

func (c *Comment) GetField(name string) (any, bool) {
	switch name {
	case "id":
		return c.ID, c.ID != ""
	case "blog_id":
		return c.BlogID, c.BlogID != ""
	case "user_id":
		return c.UserID, c.UserID != ""
	case "user_name":
		return c.UserName, c.UserName != ""
	case "user_image":
		return c.UserImage, c.UserImage != ""
	case "content":
		return c.Content, c.Content != ""
	case "created_at":
		return c.CreatedAt, c.CreatedAt != 0
	}
	return nil, false
}

func (c *Comment) SetField(name string, value any) (err error) {
	switch name {
	case "id":
		c.ID, err = orm.ToString(value)
	case "blog_id":
		c.BlogID, err = orm.ToString(value)
	case "user_id":
		c.UserID, err = orm.ToString(value)
	case "user_name":
		c.UserName, err = orm.ToString(value)
	case "user_image":
		c.UserImage, err = orm.ToString(value)
	case "content":
		c.Content, err = orm.ToString(value)
	case "created_at":
		c.CreatedAt, err = orm.ToFloat64(value)
	}
	return err
}
