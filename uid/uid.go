package uid

import (
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Generator 生成字符串 ID
type Generator interface {
	Generate() string
}

// NextIDGenerator 15 位毫秒时间戳加 uuid4 的 hex，右侧补 0 到 35 位，共 50 位
// 前缀是时间，按字符串排序即按创建时间排序
type NextIDGenerator struct {
	now    func() time.Time
	random func() uuid.UUID
}

func NewNextIDGenerator() *NextIDGenerator {
	return &NextIDGenerator{now: time.Now, random: uuid.New}
}

func (g *NextIDGenerator) Generate() string {
	u := g.random()
	suffix := hex.EncodeToString(u[:])
	if len(suffix) < 35 {
		suffix += strings.Repeat("0", 35-len(suffix))
	}
	return fmt.Sprintf("%015d%s", g.now().UnixMilli(), suffix)
}

var defaultGenerator = NewNextIDGenerator()

// NextID 生成记录主键
func NextID() string {
	return defaultGenerator.Generate()
}
