package core

import (
	sitter "github.com/tree-sitter/go-tree-sitter"
)

// FileContext 单个源文件的解析结果：AST 根节点与源码内容。
// Reflector 构造于其上；本趟编译内只读。
type FileContext struct {
	FilePath    string
	RootNode    *sitter.Node
	SourceBytes *[]byte
	// Dts 声明专用伴随树 (.d.ts)，本次编译未产出时为 nil
	Dts *FileContext
}

// NewFileContext 创建一个新的 FileContext 实例。
func NewFileContext(filePath string, rootNode *sitter.Node, sourceBytes *[]byte) *FileContext {
	return &FileContext{
		FilePath:    filePath,
		RootNode:    rootNode,
		SourceBytes: sourceBytes,
	}
}

// Content 返回节点对应的源码文本。
func (fc *FileContext) Content(n *sitter.Node) string {
	if n == nil {
		return ""
	}
	return n.Utf8Text(*fc.SourceBytes)
}
