package cfg

import (
	"os"

	"github.com/pkg/errors"
)

// Options 配置加载选项
type Options struct {
	// DefaultFile 默认配置，适用于本地开发环境
	DefaultFile string
	// OverrideFile 线上覆盖配置，仅在 Env 为 pro 时合并
	OverrideFile string
	// Env 运行环境，为空时读取 APP_ENV，默认 dev
	Env string
	// EnvPrefix 环境变量前缀，为空时不读取环境变量
	EnvPrefix string
}

const EnvProduction = "pro"

func (o *Options) env() string {
	if o.Env != "" {
		return o.Env
	}
	if env := os.Getenv("APP_ENV"); env != "" {
		return env
	}
	return "dev"
}

// LoadFile 读取并解码单个配置文件
func LoadFile(filename string) (map[string]any, error) {
	decoder, err := DecoderFor(filename)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, errors.Wrapf(err, "read %s failed", filename)
	}
	m, err := decoder.Decode(data)
	if err != nil {
		return nil, errors.WithMessagef(err, "decode %s failed", filename)
	}
	return m, nil
}

// Load 加载配置到 object
// 顺序：默认文件，覆盖文件（pro 环境），环境变量，def tag 默认值，最后校验
func Load(options *Options, object any) error {
	if options == nil {
		return errors.New("options is nil")
	}

	m := map[string]any{}
	if options.DefaultFile != "" {
		defaults, err := LoadFile(options.DefaultFile)
		if err != nil {
			return err
		}
		m = defaults
	}

	if options.OverrideFile != "" && options.env() == EnvProduction {
		override, err := LoadFile(options.OverrideFile)
		switch {
		case err == nil:
			m = Merge(m, override)
		case errors.Is(err, os.ErrNotExist):
			// 覆盖文件可选
		default:
			return err
		}
	}

	if err := Bind(m, object); err != nil {
		return errors.WithMessage(err, "bind config failed")
	}
	if options.EnvPrefix != "" {
		if err := ApplyEnv(object, options.EnvPrefix); err != nil {
			return err
		}
	}
	if err := SetDefaults(object); err != nil {
		return errors.WithMessage(err, "set defaults failed")
	}
	if err := Validate(object); err != nil {
		return errors.WithMessage(err, "validate config failed")
	}
	return nil
}
