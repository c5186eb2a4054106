package model

import (
	"fmt"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

// InvalidInputError 结构性输入错误：调用方以错误的方式使用 Reflector
// （例如向 MembersOf 传入非类节点）。携带出错节点引用，立即失败，
// 不在本趟编译内恢复。
type InvalidInputError struct {
	Message  string
	FilePath string
	Node     *sitter.Node
}

func NewInvalidInputError(message, filePath string, node *sitter.Node) *InvalidInputError {
	return &InvalidInputError{Message: message, FilePath: filePath, Node: node}
}

func (e *InvalidInputError) Error() string {
	if e.Node == nil {
		return fmt.Sprintf("invalid input: %s (%s)", e.Message, e.FilePath)
	}
	pos := e.Node.StartPosition()
	return fmt.Sprintf("invalid input: %s (%s:%d:%d, node kind %q)",
		e.Message, e.FilePath, pos.Row+1, pos.Column, e.Node.Kind())
}
