package character

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
)

const (
	EnvelopeVersion = "1.0.0"
	EnvelopeSource  = "NIKKE Official Game Data"

	// GeneratedAtLayout 是 generated_at 的日期格式
	GeneratedAtLayout = "2006-01-02"
)

// NewEnvelope 用排好序的角色列表创建输出文件的顶层结构
func NewEnvelope(chars []OutputCharacter, generatedAt string) Envelope {
	if chars == nil {
		chars = []OutputCharacter{}
	}
	return Envelope{
		Version:         EnvelopeVersion,
		Source:          EnvelopeSource,
		GeneratedAt:     generatedAt,
		TotalCharacters: len(chars),
		Characters:      chars,
	}
}

// MarshalEnvelope 以两个空格缩进序列化，非ASCII字符和 <>& 都原样输出
func MarshalEnvelope(env Envelope) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(env); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteEnvelope 把输出写入 path，目录不存在时自动创建。
// 先写临时文件再重命名，写入失败不会破坏已有的输出文件
func WriteEnvelope(path string, env Envelope) error {
	data, err := MarshalEnvelope(env)
	if err != nil {
		return fmt.Errorf("%w: 序列化失败: %v", ErrWriteOutput, err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("%w: 无法创建目录 %s: %v", ErrWriteOutput, dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrWriteOutput, err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // 重命名成功后删除会失败，忽略即可

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("%w: %s: %v", ErrWriteOutput, path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrWriteOutput, path, err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrWriteOutput, path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrWriteOutput, path, err)
	}
	return nil
}

// ReadEnvelope 读取已生成的输出文件
func ReadEnvelope(path string) (*Envelope, error) {
	doc, err := LoadDocument(path)
	if err != nil {
		return nil, err
	}
	var env Envelope
	if err := json.Unmarshal(doc.Raw, &env); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformedJSON, path, err)
	}
	return &env, nil
}

// --- 统计 ---

// CountBy 按 key 返回的分类统计角色数量
func CountBy(chars []OutputCharacter, key func(OutputCharacter) string) map[string]int {
	counts := make(map[string]int)
	for _, c := range chars {
		counts[key(c)]++
	}
	return counts
}

// ByRarity 按稀有度分类
func ByRarity(c OutputCharacter) string { return c.Rarity }

// ByElement 按属性分类
func ByElement(c OutputCharacter) string { return c.Element }

// ByClass 按职业分类
func ByClass(c OutputCharacter) string { return c.Class }

// ByCorporation 按企业分类
func ByCorporation(c OutputCharacter) string { return c.Corporation }

// PrintSummary 按分类名的字母顺序打印统计结果
func PrintSummary(w io.Writer, title string, counts map[string]int) {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	fmt.Fprintf(w, "\n%s:\n", title)
	for _, k := range keys {
		fmt.Fprintf(w, "  %s: %d 个角色\n", k, counts[k])
	}
}
