package parser

import (
	"fmt"
	"os"

	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_javascript "github.com/tree-sitter/tree-sitter-javascript/bindings/go"
	tree_sitter_typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"

	"github.com/CodMac/go-treesitter-decorator-compiler/core"
)

// TreeSitterParser 按编码选择语法的 tree-sitter 解析器封装。
// ts 编码（以及 .d.ts 伴随树）使用 TypeScript 语法，
// es2015/es5 降级编码使用 JavaScript 语法。
type TreeSitterParser struct {
	parser   *sitter.Parser
	encoding core.Encoding
	// trees 持有已产出的语法树引用，保证节点背后的 C 内存不被回收
	trees []*sitter.Tree
}

// NewParser 创建指定编码的解析器。
func NewParser(enc core.Encoding) (*TreeSitterParser, error) {
	lang, err := languageFor(enc)
	if err != nil {
		return nil, err
	}

	p := sitter.NewParser()
	if err := p.SetLanguage(lang); err != nil {
		return nil, fmt.Errorf("set language for %s: %w", enc, err)
	}
	return &TreeSitterParser{parser: p, encoding: enc}, nil
}

// Language 返回本解析器使用的 tree-sitter 语法。
func (p *TreeSitterParser) Language() (*sitter.Language, error) {
	return languageFor(p.encoding)
}

// ParseSource 解析一段源码，返回 AST 根节点与源码内容。
func (p *TreeSitterParser) ParseSource(source []byte) (*sitter.Node, *[]byte, error) {
	tree := p.parser.Parse(source, nil)
	if tree == nil {
		return nil, nil, fmt.Errorf("parse failed (%s encoding)", p.encoding)
	}
	p.trees = append(p.trees, tree)
	return tree.RootNode(), &source, nil
}

// ParseFile 读取并解析一个源文件。
func (p *TreeSitterParser) ParseFile(path string) (*sitter.Node, *[]byte, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("read %s: %w", path, err)
	}
	return p.ParseSource(source)
}

func languageFor(enc core.Encoding) (*sitter.Language, error) {
	switch enc {
	case core.EncTypeScript:
		return sitter.NewLanguage(tree_sitter_typescript.LanguageTypescript()), nil
	case core.EncEs2015, core.EncEs5:
		return sitter.NewLanguage(tree_sitter_javascript.Language()), nil
	}
	return nil, fmt.Errorf("no grammar registered for encoding: %s", enc)
}
