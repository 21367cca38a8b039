package orm

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/hatlonely/awesome/log"
	"github.com/stretchr/testify/require"
)

// account 测试用实体，Age 的默认值不是零值，用指针区分未赋值
type account struct {
	ID        string
	Name      string
	Age       *int64
	Active    bool
	Score     float64
	Bio       string
	CreatedAt float64
}

func (a *account) GetField(name string) (any, bool) {
	switch name {
	case "id":
		return a.ID, a.ID != ""
	case "name":
		return a.Name, a.Name != ""
	case "age":
		if a.Age == nil {
			return nil, false
		}
		return *a.Age, true
	case "active":
		return a.Active, a.Active
	case "score":
		return a.Score, a.Score != 0
	case "bio":
		return a.Bio, a.Bio != ""
	case "created_at":
		return a.CreatedAt, a.CreatedAt != 0
	}
	return nil, false
}

func (a *account) SetField(name string, value any) (err error) {
	switch name {
	case "id":
		a.ID, err = ToString(value)
	case "name":
		a.Name, err = ToString(value)
	case "age":
		var age int64
		age, err = ToInt64(value)
		a.Age = &age
	case "active":
		a.Active, err = ToBool(value)
	case "score":
		a.Score, err = ToFloat64(value)
	case "bio":
		a.Bio, err = ToString(value)
	case "created_at":
		a.CreatedAt, err = ToFloat64(value)
	}
	return err
}

var nowCalls int

var accountMeta = MustRegister[account]("accounts",
	StringField("id", PrimaryKey(), DDL("varchar(50)")),
	StringField("name"),
	IntegerField("age", Default(int64(18))),
	BooleanField("active"),
	FloatField("score"),
	TextField("bio"),
	FloatField("created_at", DefaultFunc(func() any {
		nowCalls++
		return float64(1700000000 + nowCalls)
	})),
)

const createAccounts = "create table `accounts` (" +
	"`id` varchar(50) primary key, `name` varchar(100), `age` bigint, `active` boolean, " +
	"`score` float, `bio` text, `created_at` float)"

func newTestPool(t *testing.T, maxPoolSize int) *Pool {
	t.Helper()
	pool, err := NewPoolWithOptions(context.Background(), &PoolOptions{
		Driver:      "sqlite3",
		Database:    filepath.Join(t.TempDir(), "test.db"),
		MinPoolSize: 1,
		MaxPoolSize: maxPoolSize,
	}, WithLogger(log.Discard()))
	require.NoError(t, err)
	t.Cleanup(func() { _ = pool.Close() })
	return pool
}

func newTestExecutor(t *testing.T, maxPoolSize int, opts ...Option) *Executor {
	t.Helper()
	opts = append([]Option{WithLogger(log.Discard())}, opts...)
	exec, err := NewExecutorWithOptions(newTestPool(t, maxPoolSize), nil, opts...)
	require.NoError(t, err)
	_, err = exec.Execute(context.Background(), createAccounts, nil)
	require.NoError(t, err)
	return exec
}

func newAccountModel(t *testing.T, opts ...Option) *Model[*account] {
	t.Helper()
	exec := newTestExecutor(t, 4)
	opts = append([]Option{WithLogger(log.Discard())}, opts...)
	return NewModel(exec, accountMeta, func() *account { return &account{} }, opts...)
}

// setting 全部可空字段，nil 表示未赋值
type setting struct {
	ID      string
	Enabled *bool
	Retries *int64
}

func (s *setting) GetField(name string) (any, bool) {
	switch name {
	case "id":
		return s.ID, s.ID != ""
	case "enabled":
		if s.Enabled == nil {
			return nil, false
		}
		return *s.Enabled, true
	case "retries":
		if s.Retries == nil {
			return nil, false
		}
		return *s.Retries, true
	}
	return nil, false
}

func (s *setting) SetField(name string, value any) error {
	switch name {
	case "id":
		v, err := ToString(value)
		s.ID = v
		return err
	case "enabled":
		v, err := ToBool(value)
		s.Enabled = &v
		return err
	case "retries":
		v, err := ToInt64(value)
		s.Retries = &v
		return err
	}
	return nil
}

var settingMeta = MustRegister[setting]("settings",
	StringField("id", PrimaryKey(), DDL("varchar(50)")),
	BooleanField("enabled", Default(true)),
	IntegerField("retries", Default(int64(3))),
)

func newSettingModel(t *testing.T) *Model[*setting] {
	t.Helper()
	exec := newTestExecutor(t, 2)
	_, err := exec.Execute(context.Background(),
		"create table `settings` (`id` varchar(50) primary key, `enabled` boolean, `retries` bigint)", nil)
	require.NoError(t, err)
	return NewModel(exec, settingMeta, func() *setting { return &setting{} }, WithLogger(log.Discard()))
}
