package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/CodMac/go-treesitter-decorator-compiler/core"
	"github.com/CodMac/go-treesitter-decorator-compiler/output"
	_ "github.com/CodMac/go-treesitter-decorator-compiler/x/es2015"
	_ "github.com/CodMac/go-treesitter-decorator-compiler/x/es5"
	_ "github.com/CodMac/go-treesitter-decorator-compiler/x/ts"
)

const (
	MaxMermaidNodes = 200
)

type Config struct {
	Encoding   string
	SourcePath string
	Filter     string
	Jobs       int
	OutDir     string
	Format     string
	Strict     bool
}

func main() {
	cfg := parseFlags()
	startTime := time.Now()

	// 1. 扫描文件
	fmt.Fprintf(os.Stderr, "[1/4] 🔍 正在扫描目录: %s\n", cfg.SourcePath)
	files, err := scanFiles(cfg.SourcePath, cfg.Filter, cfg.Encoding)
	if err != nil {
		exitWithError("扫描文件失败", err)
	}
	fmt.Fprintf(os.Stderr, "    找到 %d 个候选文件\n", len(files))

	// 2. 反射 + 工厂合成
	fmt.Fprintf(os.Stderr, "[2/4] ⚙️  正在反射类声明并合成工厂 (编码: %s)...\n", cfg.Encoding)
	proc := NewFileProcessor(core.Encoding(cfg.Encoding), cfg.Jobs, cfg.Strict)
	records, _, err := proc.ProcessFiles(cfg.SourcePath, files)
	if err != nil {
		exitWithError("合成执行失败", err)
	}

	// 3. 导出
	fmt.Fprintf(os.Stderr, "[3/4] 💾 正在写入结果文件...\n")
	count, err := runExport(cfg, records)
	if err != nil {
		exitWithError("导出失败", err)
	}

	fmt.Fprintf(os.Stderr, "    ✅ 完成: 导出工厂=%d\n", count)
	fmt.Fprintf(os.Stderr, "\n[4/4] ✨ 合成结束! 总耗时: %v\n", time.Since(startTime).Round(time.Millisecond))
}

func parseFlags() Config {
	c := Config{}
	flag.StringVar(&c.Encoding, "lang", "ts", "类编码形态: ts, es2015, es5")
	flag.StringVar(&c.SourcePath, "path", ".", "源码根路径")
	flag.StringVar(&c.Filter, "filter", "", "文件过滤正则")
	flag.IntVar(&c.Jobs, "jobs", 4, "并发数")
	flag.StringVar(&c.OutDir, "out-dir", "./output", "输出目录")
	flag.StringVar(&c.Format, "format", "jsonl", "格式: jsonl, mermaid")
	flag.BoolVar(&c.Strict, "strict", false, "不可解析的注入依赖直接报错")
	flag.Parse()
	return c
}

func runExport(cfg Config, records []*output.FactoryRecord) (int, error) {
	_ = os.MkdirAll(cfg.OutDir, 0755)

	format := cfg.Format
	if format == "mermaid" && len(records) > MaxMermaidNodes {
		fmt.Fprintf(os.Stderr, "    ⚠️  规模过大(%d 节点)，Mermaid 渲染可能失败，自动降级为 jsonl\n", len(records))
		format = "jsonl"
	}

	exporter := output.NewExporter(cfg.OutDir, output.OutType(format))
	if format == "mermaid" {
		return exporter.ExportMermaidHTML(records)
	}
	return exporter.ExportJsonL(records)
}

// scanFiles 按编码选默认扩展：ts 编码收 .ts（含 .d.ts 伴随树），
// 降级编码收 .js 与 .d.ts。
func scanFiles(root, filter, encoding string) ([]string, error) {
	if filter == "" {
		if encoding == "ts" {
			filter = `.*\.ts$`
		} else {
			filter = `.*\.(js|d\.ts)$`
		}
	}
	re, err := regexp.Compile(filter)
	if err != nil {
		return nil, err
	}

	var files []string
	err = filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err == nil && !info.IsDir() && re.MatchString(path) {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}

func exitWithError(msg string, err error) {
	fmt.Fprintf(os.Stderr, "❌ %s: %v\n", msg, err)
	os.Exit(1)
}
