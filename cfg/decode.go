package cfg

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
	"gopkg.in/ini.v1"
	"gopkg.in/yaml.v3"
)

// Decoder 将配置文件内容解析为嵌套的 map
type Decoder interface {
	Decode(data []byte) (map[string]any, error)
}

type DecoderFunc func(data []byte) (map[string]any, error)

func (f DecoderFunc) Decode(data []byte) (map[string]any, error) {
	return f(data)
}

var decoders = map[string]Decoder{
	".yaml": DecoderFunc(decodeYaml),
	".yml":  DecoderFunc(decodeYaml),
	".json": DecoderFunc(decodeJson),
	".toml": DecoderFunc(decodeToml),
	".ini":  DecoderFunc(decodeIni),
}

// DecoderFor 根据文件扩展名选择解码器
func DecoderFor(filename string) (Decoder, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	d, ok := decoders[ext]
	if !ok {
		return nil, errors.Errorf("unsupported config format %q", ext)
	}
	return d, nil
}

func decodeYaml(data []byte) (map[string]any, error) {
	var m map[string]any
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, errors.Wrap(err, "yaml.Unmarshal failed")
	}
	return normalize(m), nil
}

func decodeJson(data []byte) (map[string]any, error) {
	var m map[string]any
	d := json.NewDecoder(bytes.NewReader(data))
	d.UseNumber()
	if err := d.Decode(&m); err != nil {
		return nil, errors.Wrap(err, "json decode failed")
	}
	return normalize(m), nil
}

func decodeToml(data []byte) (map[string]any, error) {
	var m map[string]any
	if err := toml.Unmarshal(data, &m); err != nil {
		return nil, errors.Wrap(err, "toml.Unmarshal failed")
	}
	return normalize(m), nil
}

// decodeIni 分区映射为第一层 key，默认分区的 key 放在顶层
// ini 的值都是字符串，数字和布尔值在绑定结构体时再转换
func decodeIni(data []byte) (map[string]any, error) {
	f, err := ini.Load(data)
	if err != nil {
		return nil, errors.Wrap(err, "ini.Load failed")
	}
	m := map[string]any{}
	for _, section := range f.Sections() {
		target := m
		if section.Name() != ini.DefaultSection {
			sub := map[string]any{}
			m[section.Name()] = sub
			target = sub
		}
		for _, key := range section.Keys() {
			target[key.Name()] = key.Value()
		}
	}
	return m, nil
}

// normalize 统一 map 类型，json.Number 转换为 int64 或 float64
func normalize(m map[string]any) map[string]any {
	if m == nil {
		return map[string]any{}
	}
	for k, v := range m {
		m[k] = normalizeValue(v)
	}
	return m
}

func normalizeValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		return normalize(val)
	case map[any]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[toString(k)] = normalizeValue(item)
		}
		return out
	case []any:
		for i := range val {
			val[i] = normalizeValue(val[i])
		}
		return val
	case []map[string]any:
		out := make([]any, len(val))
		for i := range val {
			out[i] = normalize(val[i])
		}
		return out
	case json.Number:
		if n, err := val.Int64(); err == nil {
			return n
		}
		f, _ := val.Float64()
		return f
	default:
		return v
	}
}

func toString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}
