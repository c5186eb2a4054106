package core

import (
	"strings"
	"sync"
)

// Program 一次编译所覆盖的全部文件上下文。
// 负责把实现树 (.ts/.js) 与声明专用伴随树 (.d.ts) 按路径配对，
// 供 DtsDeclarationOf 查询。注册完成后只读，可被并行查询。
type Program struct {
	fileContexts map[string]*FileContext
	dtsContexts  map[string]*FileContext // key: 去掉扩展名的路径
	mutex        sync.RWMutex
}

// NewProgram 创建一个新的 Program 实例。
func NewProgram() *Program {
	return &Program{
		fileContexts: make(map[string]*FileContext),
		dtsContexts:  make(map[string]*FileContext),
	}
}

// RegisterFileContext 注册一个实现树文件，并在伴随树已注册时完成配对。
func (p *Program) RegisterFileContext(fc *FileContext) {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	p.fileContexts[fc.FilePath] = fc
	if dts, ok := p.dtsContexts[stemOf(fc.FilePath)]; ok {
		fc.Dts = dts
	}
}

// RegisterDtsContext 注册一个声明专用伴随树 (.d.ts)，并回填到已注册的
// 同名实现树上。
func (p *Program) RegisterDtsContext(dts *FileContext) {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	stem := stemOf(dts.FilePath)
	p.dtsContexts[stem] = dts
	for path, fc := range p.fileContexts {
		if stemOf(path) == stem {
			fc.Dts = dts
		}
	}
}

// FileContextOf 按路径查找已注册的文件上下文。
func (p *Program) FileContextOf(path string) (*FileContext, bool) {
	p.mutex.RLock()
	defer p.mutex.RUnlock()
	fc, ok := p.fileContexts[path]
	return fc, ok
}

// FileContexts 返回全部已注册的实现树上下文。
func (p *Program) FileContexts() []*FileContext {
	p.mutex.RLock()
	defer p.mutex.RUnlock()
	out := make([]*FileContext, 0, len(p.fileContexts))
	for _, fc := range p.fileContexts {
		out = append(out, fc)
	}
	return out
}

// stemOf 去掉 .ts/.js/.d.ts 扩展，作为实现树与伴随树的配对键。
func stemOf(path string) string {
	path = strings.TrimSuffix(path, ".d.ts")
	path = strings.TrimSuffix(path, ".ts")
	path = strings.TrimSuffix(path, ".js")
	return path
}
