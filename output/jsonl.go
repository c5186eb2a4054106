package output

import (
	"encoding/json"
	"io"
	"os"
)

// FactoryRecord 一个类的工厂合成结果的序列化形态。
type FactoryRecord struct {
	// File 类声明所在的源文件
	File string `json:"file"`
	// Class 对外可见的类名
	Class string `json:"class"`
	// Target 工厂宿主种类 (Directive/Component/Injectable/Pipe/Module)
	Target string `json:"target"`
	// Variant 工厂变体 (constructor/delegated/expression)
	Variant string `json:"variant"`
	// Factory 工厂表达式文本
	Factory string `json:"factory"`
	// Type 声明的工厂类型文本
	Type string `json:"type"`
	// Tokens 依赖令牌（按参数顺序，不可解析的记为空串）
	Tokens []string `json:"tokens,omitempty"`
	// Invalid 是否存在不可解析的依赖
	Invalid bool `json:"invalid,omitempty"`
	// Synthesized 注解是否为继承链合成
	Synthesized bool `json:"synthesized,omitempty"`
}

type JSONLWriter struct {
	encoder *json.Encoder
}

func NewJSONLWriter(w io.Writer) *JSONLWriter {
	return &JSONLWriter{encoder: json.NewEncoder(w)}
}

func (w *JSONLWriter) Write(v interface{}) error { return w.encoder.Encode(v) }

// ExportFactories 把工厂记录逐行写入 JSONL 文件。
func ExportFactories(path string, records []*FactoryRecord) (int, error) {
	f, err := os.Create(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	writer := NewJSONLWriter(f)
	count := 0
	for _, rec := range records {
		if err := writer.Write(rec); err != nil {
			return count, err
		}
		count++
	}
	return count, nil
}
