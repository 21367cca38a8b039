package cfg

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

type testDBOptions struct {
	Host        string        `cfg:"host" def:"localhost"`
	Port        int           `cfg:"port" def:"3306"`
	User        string        `cfg:"user" validate:"required"`
	Password    string        `cfg:"password"`
	Database    string        `cfg:"database"`
	MaxPoolSize int           `cfg:"maxPoolSize" def:"10" validate:"gte=1"`
	Timeout     time.Duration `cfg:"timeout" def:"5s"`
}

type testSession struct {
	Secret string `cfg:"secret"`
	MaxAge int    `cfg:"maxAge"`
}

type testConfig struct {
	DB      testDBOptions  `cfg:"db"`
	Session testSession    `cfg:"session"`
	Tags    []string       `cfg:"tags"`
	Fields  map[string]any `cfg:"fields"`
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

const defaultYaml = `
db:
  host: 127.0.0.1
  port: 3306
  user: ormuser
  password: password
  database: awesome
session:
  secret: AwEsOmE
  max_age: 86400
tags: [blog, orm]
fields:
  service: awesome
`

const overrideYaml = `
db:
  user: awesome
  timeout: 2s
`

func TestLoad(t *testing.T) {
	Convey("测试配置加载", t, func() {
		dir := t.TempDir()
		defaultFile := writeFile(t, dir, "default.yaml", defaultYaml)
		overrideFile := writeFile(t, dir, "override.yaml", overrideYaml)

		Convey("开发环境只读取默认配置", func() {
			c := &testConfig{}
			err := Load(&Options{DefaultFile: defaultFile, OverrideFile: overrideFile, Env: "dev"}, c)
			So(err, ShouldBeNil)
			So(c.DB.Host, ShouldEqual, "127.0.0.1")
			So(c.DB.User, ShouldEqual, "ormuser")
			So(c.DB.Database, ShouldEqual, "awesome")
			So(c.DB.MaxPoolSize, ShouldEqual, 10)
			So(c.DB.Timeout, ShouldEqual, 5*time.Second)
			So(c.Session.MaxAge, ShouldEqual, 86400)
			So(c.Tags, ShouldResemble, []string{"blog", "orm"})
			So(c.Fields["service"], ShouldEqual, "awesome")
		})

		Convey("线上环境合并覆盖配置", func() {
			c := &testConfig{}
			err := Load(&Options{DefaultFile: defaultFile, OverrideFile: overrideFile, Env: EnvProduction}, c)
			So(err, ShouldBeNil)
			So(c.DB.User, ShouldEqual, "awesome")
			So(c.DB.Password, ShouldEqual, "password")
			// 默认配置中没有 timeout，覆盖配置中的值被忽略
			So(c.DB.Timeout, ShouldEqual, 5*time.Second)
		})

		Convey("覆盖配置不存在时忽略", func() {
			c := &testConfig{}
			err := Load(&Options{DefaultFile: defaultFile, OverrideFile: filepath.Join(dir, "missing.yaml"), Env: EnvProduction}, c)
			So(err, ShouldBeNil)
			So(c.DB.User, ShouldEqual, "ormuser")
		})

		Convey("环境变量覆盖", func() {
			t.Setenv("AWESOME_DB_HOST", "db.internal")
			t.Setenv("AWESOME_DB_MAX_POOL_SIZE", "20")
			c := &testConfig{}
			err := Load(&Options{DefaultFile: defaultFile, EnvPrefix: "AWESOME", Env: "dev"}, c)
			So(err, ShouldBeNil)
			So(c.DB.Host, ShouldEqual, "db.internal")
			So(c.DB.MaxPoolSize, ShouldEqual, 20)
		})

		Convey("APP_ENV 决定运行环境", func() {
			t.Setenv("APP_ENV", "pro")
			c := &testConfig{}
			err := Load(&Options{DefaultFile: defaultFile, OverrideFile: overrideFile}, c)
			So(err, ShouldBeNil)
			So(c.DB.User, ShouldEqual, "awesome")
		})

		Convey("校验失败", func() {
			file := writeFile(t, dir, "invalid.yaml", "db:\n  host: 127.0.0.1\n")
			c := &testConfig{}
			err := Load(&Options{DefaultFile: file}, c)
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "user")
		})

		Convey("类型不匹配", func() {
			file := writeFile(t, dir, "bad.yaml", "db:\n  user: u\n  port: [1, 2]\n")
			c := &testConfig{}
			So(Load(&Options{DefaultFile: file}, c), ShouldNotBeNil)
		})

		Convey("nil 选项", func() {
			So(Load(nil, &testConfig{}), ShouldNotBeNil)
		})
	})
}

func TestDecoders(t *testing.T) {
	Convey("测试不同格式的配置文件", t, func() {
		dir := t.TempDir()

		files := map[string]string{
			"app.json": `{"db": {"host": "127.0.0.1", "port": 3306, "user": "ormuser", "maxPoolSize": 4}, "tags": ["a"]}`,
			"app.toml": "tags = [\"a\"]\n[db]\nhost = \"127.0.0.1\"\nport = 3306\nuser = \"ormuser\"\nmax_pool_size = 4\n",
			"app.ini":  "tags = a\n[db]\nhost = 127.0.0.1\nport = 3306\nuser = ormuser\nmaxPoolSize = 4\n",
			"app.yml":  "tags: [a]\ndb:\n  host: 127.0.0.1\n  port: 3306\n  user: ormuser\n  maxPoolSize: 4\n",
		}

		for name, content := range files {
			path := writeFile(t, dir, name, content)
			c := &testConfig{}
			err := Load(&Options{DefaultFile: path}, c)
			So(err, ShouldBeNil)
			So(c.DB.Host, ShouldEqual, "127.0.0.1")
			So(c.DB.Port, ShouldEqual, 3306)
			So(c.DB.User, ShouldEqual, "ormuser")
			So(c.DB.MaxPoolSize, ShouldEqual, 4)
			So(c.Tags, ShouldResemble, []string{"a"})
		}

		Convey("不支持的格式", func() {
			path := writeFile(t, dir, "app.xml", "<db/>")
			_, err := LoadFile(path)
			So(err, ShouldNotBeNil)
		})

		Convey("格式错误", func() {
			path := writeFile(t, dir, "broken.json", "{")
			_, err := LoadFile(path)
			So(err, ShouldNotBeNil)
		})
	})
}
