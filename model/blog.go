package model

import (
	"github.com/hatlonely/awesome/orm"
)

type Blog struct {
	ID        string
	UserID    string
	UserName  string
	UserImage string
	Name      string
	Summary   string
	Content   string
	CreatedAt float64
}

var BlogMeta = orm.MustRegister[Blog]("blogs",
	orm.StringField("id", orm.PrimaryKey(), orm.DefaultFunc(nextID), orm.DDL("varchar(50)")),
	orm.StringField("user_id", orm.DDL("varchar(50)")),
	orm.StringField("user_name", orm.DDL("varchar(50)")),
	orm.StringField("user_image", orm.DDL("varchar(50)")),
	orm.StringField("name", orm.DDL("varchar(50)")),
	orm.StringField("summary", orm.DDL("varchar(200)")),
	orm.TextField("content"),
	orm.FloatField("created_at", orm.DefaultFunc(now)),
)

func (b *Blog) GetField(name string) (any, bool) {
	switch name {
	case "id":
		return b.ID, b.ID != ""
	case "user_id":
		return b.UserID, b.UserID != ""
	case "user_name":
		return b.UserName, b.UserName != ""
	case "user_image":
		return b.UserImage, b.UserImage != ""
	case "name":
		return b.Name, b.Name != ""
	case "summary":
		return b.Summary, b.Summary != ""
	case "content":
		return b.Content, b.Content != ""
	case "created_at":
		return b.CreatedAt, b.CreatedAt != 0
	}
	return nil, false
}

func (b *Blog) SetField(name string, value any) (err error) {
	switch name {
	case "id":
		b.ID, err = orm.ToString(value)
	case "user_id":
		b.UserID, err = orm.ToString(value)
	case "user_name":
		b.UserName, err = orm.ToString(value)
	case "user_image":
		b.UserImage, err = orm.ToString(value)
	case "name":
		b.Name, err = orm.ToString(value)
	case "summary":
		b.Summary, err = orm.ToString(value)
	case "content":
		b.Content, err = orm.ToString(value)
	case "created_at":
		b.CreatedAt, err = orm.ToFloat64(value)
	}
	return err
}
