package character

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"go.uber.org/zap"
)

// Document 是一张已加载的数据表。
// 顶层是带 records 数组的对象时 Records 为各行的原始JSON，其他形状原样保存在 Raw 中
type Document struct {
	Path    string
	Raw     json.RawMessage
	Records []json.RawMessage
}

// LoadDocument 从磁盘读取一张JSON数据表。
// 文件不存在时返回 ErrFileMissing，解析失败时返回 ErrMalformedJSON 并附带出错位置
func LoadDocument(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrFileMissing, path)
		}
		return nil, fmt.Errorf("无法读取 %s: %w", path, err)
	}
	return ParseDocument(path, data)
}

// ParseDocument 解析一张数据表的内容，path 只用于错误信息
func ParseDocument(path string, data []byte) (*Document, error) {
	var raw json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		var syntaxErr *json.SyntaxError
		if errors.As(err, &syntaxErr) {
			line, col := position(data, syntaxErr.Offset)
			return nil, fmt.Errorf("%w: %s 第%d行第%d列: %v", ErrMalformedJSON, path, line, col, err)
		}
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformedJSON, path, err)
	}

	doc := &Document{Path: path, Raw: raw}

	// 不强制表结构：不是对象或者 records 不是数组时，视为没有记录
	var top map[string]json.RawMessage
	if err := json.Unmarshal(raw, &top); err != nil {
		return doc, nil
	}
	records, ok := top["records"]
	if !ok {
		return doc, nil
	}
	if err := json.Unmarshal(records, &doc.Records); err != nil {
		doc.Records = nil
	}
	return doc, nil
}

// Empty 报告文档顶层是否为空值：null、false、0、空字符串、空数组或空对象
func (d *Document) Empty() bool {
	return d == nil || !truthy(d.Raw)
}

// truthy 判断JSON值的真假，无法解析的值视为假
func truthy(raw json.RawMessage) bool {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return false
	}
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case float64:
		return x != 0
	case string:
		return x != ""
	case []any:
		return len(x) > 0
	case map[string]any:
		return len(x) > 0
	}
	return true
}

// position 把字节偏移换算成从1开始的行号和列号
func position(data []byte, offset int64) (line, col int) {
	if offset > int64(len(data)) {
		offset = int64(len(data))
	}
	prefix := data[:offset]
	line = bytes.Count(prefix, []byte("\n")) + 1
	col = len(prefix) - bytes.LastIndexByte(prefix, '\n')
	return line, col
}

// --- 内存查找表 ---

// Index 是按数值ID建立的查找表，重复ID以最后一条为准
type Index[T any] map[int64]T

// SkillIndex 按技能 id 索引技能表
type SkillIndex = Index[SkillRecord]

// StatIndex 按角色内部 id 索引属性表
type StatIndex = Index[StatRecord]

// BuildIndex 遍历文档的 records，以 idField 的值为键建立查找表。
// doc 为 nil 时返回空表；ID缺失、为0或不是整数的记录被忽略
func BuildIndex[T any](doc *Document, idField string, logger *zap.Logger) Index[T] {
	index := make(Index[T])
	if doc == nil {
		return index
	}
	for i, raw := range doc.Records {
		id, ok := recordID(raw, idField)
		if !ok {
			continue
		}
		var rec T
		if err := json.Unmarshal(raw, &rec); err != nil {
			logger.Warn("跳过无法解析的记录",
				zap.String("file", doc.Path),
				zap.Int("row", i),
				zap.Int64("id", id),
				zap.Error(err))
			continue
		}
		index[id] = rec
	}
	return index
}

// BuildSkillIndex 建立技能查找表
func BuildSkillIndex(doc *Document, logger *zap.Logger) SkillIndex {
	return BuildIndex[SkillRecord](doc, "id", logger)
}

// BuildStatIndex 建立属性查找表
func BuildStatIndex(doc *Document, logger *zap.Logger) StatIndex {
	return BuildIndex[StatRecord](doc, "id", logger)
}

func recordID(raw json.RawMessage, field string) (int64, bool) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return 0, false
	}
	value, ok := fields[field]
	if !ok {
		return 0, false
	}
	var n json.Number
	if err := json.Unmarshal(value, &n); err != nil {
		return 0, false
	}
	id, err := n.Int64()
	if err != nil || id == 0 {
		return 0, false
	}
	return id, true
}
