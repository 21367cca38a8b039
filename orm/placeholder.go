package orm

import (
	"strings"

	"github.com/pkg/errors"
)

// dialect 驱动的 SQL 词法差异
type dialect struct {
	// marker 第 n 个位置参数的原生写法
	marker func(n int) string
	// backslashEscape 字符串字面量中反斜杠是否为转义符
	backslashEscape bool
	// hashComment 是否支持 # 单行注释
	hashComment bool
}

func questionMark(int) string { return "?" }

var dialects = map[string]dialect{
	"mysql":   {marker: questionMark, backslashEscape: true, hashComment: true},
	"sqlite3": {marker: questionMark},
}

func dialectFor(driver string) dialect {
	if d, ok := dialects[driver]; ok {
		return d
	}
	return dialects["mysql"]
}

// translatePlaceholders 将 ? 替换为驱动原生写法
// 字符串、反引号标识符和注释中的 ? 保持不变，返回替换的占位符个数
func translatePlaceholders(query string, d dialect) (string, int, error) {
	var b strings.Builder
	b.Grow(len(query))

	n := 0
	for i := 0; i < len(query); i++ {
		c := query[i]
		end := -1
		switch {
		case c == '\'' || c == '"' || c == '`':
			e, err := skipQuoted(query, i, d.backslashEscape && c != '`')
			if err != nil {
				return "", 0, err
			}
			end = e
		case c == '-' && strings.HasPrefix(query[i:], "--"), c == '#' && d.hashComment:
			end = len(query)
			if j := strings.IndexByte(query[i:], '\n'); j >= 0 {
				end = i + j
			}
		case c == '/' && strings.HasPrefix(query[i:], "/*"):
			j := strings.Index(query[i+2:], "*/")
			if j < 0 {
				return "", 0, errors.New("unterminated comment in query")
			}
			end = i + 2 + j + 2
		case c == '?':
			n++
			b.WriteString(d.marker(n))
			continue
		}
		if end < 0 {
			b.WriteByte(c)
			continue
		}
		b.WriteString(query[i:end])
		i = end - 1
	}
	return b.String(), n, nil
}

// skipQuoted 返回引号结束后的位置，连续两个引号视为转义
func skipQuoted(query string, start int, backslash bool) (int, error) {
	q := query[start]
	for i := start + 1; i < len(query); i++ {
		switch {
		case backslash && query[i] == '\\':
			i++
		case query[i] == q:
			if i+1 < len(query) && query[i+1] == q {
				i++
				continue
			}
			return i + 1, nil
		}
	}
	return 0, errors.Errorf("unterminated %c in query", q)
}
