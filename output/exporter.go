package output

import (
	"path/filepath"
)

type OutType string

const (
	JsonL   OutType = "jsonl"
	Mermaid OutType = "mermaid"
)

type Exporter struct {
	outputDir  string
	outputType OutType
}

func NewExporter(outputDir string, outputType OutType) *Exporter {
	return &Exporter{outputDir: outputDir, outputType: outputType}
}

func (p *Exporter) ExportJsonL(records []*FactoryRecord) (int, error) {
	return ExportFactories(filepath.Join(p.outputDir, "factories.jsonl"), records)
}

func (p *Exporter) ExportMermaidHTML(records []*FactoryRecord) (int, error) {
	if err := ExportMermaidHTML(filepath.Join(p.outputDir, "visualization.html"), records); err != nil {
		return 0, err
	}
	return len(records), nil
}
