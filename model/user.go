package model

import (
	"time"

	"github.com/hatlonely/awesome/orm"
	"github.com/hatlonely/awesome/uid"
)

func nextID() any {
	return uid.NextID()
}

// now 当前时间，浮点秒
func now() any {
	return float64(time.Now().UnixNano()) / float64(time.Second)
}

type User struct {
	ID        string
	Email     string
	Passwd    string
	Admin     bool
	Name      string
	Image     string
	CreatedAt float64
}

var UserMeta = orm.MustRegister[User]("users",
	orm.StringField("id", orm.PrimaryKey(), orm.DefaultFunc(nextID), orm.DDL("varchar(50)")),
	orm.StringField("email", orm.DDL("varchar(50)")),
	orm.StringField("passwd", orm.DDL("varchar(50)")),
	orm.BooleanField("admin"),
	orm.StringField("name", orm.DDL("varchar(50)")),
	orm.StringField("image", orm.DDL("varchar(50)")),
	orm.FloatField("created_at", orm.DefaultFunc(now)),
)

func (u *User) GetField(name string) (any, bool) {
	switch name {
	case "id":
		return u.ID, u.ID != ""
	case "email":
		return u.Email, u.Email != ""
	case "passwd":
		return u.Passwd, u.Passwd != ""
	case "admin":
		return u.Admin, u.Admin
	case "name":
		return u.Name, u.Name != ""
	case "image":
		return u.Image, u.Image != ""
	case "created_at":
		return u.CreatedAt, u.CreatedAt != 0
	}
	return nil, false
}

func (u *User) SetField(name string, value any) (err error) {
	switch name {
	case "id":
		u.ID, err = orm.ToString(value)
	case "email":
		u.Email, err = orm.ToString(value)
	case "passwd":
		u.Passwd, err = orm.ToString(value)
	case "admin":
		u.Admin, err = orm.ToBool(value)
	case "name":
		u.Name, err = orm.ToString(value)
	case "image":
		u.Image, err = orm.ToString(value)
	case "created_at":
		u.CreatedAt, err = orm.ToFloat64(value)
	}
	return err
}
