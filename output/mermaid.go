package output

import (
	"fmt"
	"os"
	"strings"
)

func safeID(id string) string {
	r := strings.NewReplacer(".", "_", "(", "_", ")", "_", "[", "_", "]", "_", " ", "_", "@", "at", "ɵ", "theta")
	return "n_" + r.Replace(id)
}

// getNodeShape 按宿主种类选节点形状。
func getNodeShape(target, name string) string {
	switch target {
	case "Injectable":
		return fmt.Sprintf("([\"%s <small>(%s)</small>\"])", name, target)
	case "Component", "Directive":
		return fmt.Sprintf("[\"%s <small>(%s)</small>\"]", name, target)
	case "Pipe":
		return fmt.Sprintf("[/\"%s <small>(%s)</small>\"/]", name, target)
	default:
		return fmt.Sprintf("[\"%s <small>(%s)</small>\"]", name, target)
	}
}

// globalTokens 注入图里不值得画的全局对象令牌。
var globalTokens = map[string]bool{
	"Object":   true,
	"String":   true,
	"Number":   true,
	"Boolean":  true,
	"Function": true,
}

// ExportMermaidHTML 导出"类 → 注入令牌"依赖图。
func ExportMermaidHTML(outputPath string, records []*FactoryRecord) error {
	f, err := os.Create(outputPath)
	if err != nil {
		return err
	}
	defer f.Close()

	fmt.Fprintln(f, `<!DOCTYPE html><html><head><meta charset="UTF-8"><script src="https://cdn.jsdelivr.net/npm/mermaid/dist/mermaid.min.js"></script></head>
<body><div class="mermaid">graph LR`)

	byFile := map[string][]*FactoryRecord{}
	var fileOrder []string
	for _, rec := range records {
		if _, seen := byFile[rec.File]; !seen {
			fileOrder = append(fileOrder, rec.File)
		}
		byFile[rec.File] = append(byFile[rec.File], rec)
	}

	for _, file := range fileOrder {
		fmt.Fprintf(f, "  subgraph %s [📄 %s]\n", safeID(file), file)
		for _, rec := range byFile[file] {
			fmt.Fprintf(f, "    %s%s\n", safeID(rec.Class), getNodeShape(rec.Target, rec.Class))
		}
		fmt.Fprintln(f, "  end")
	}

	for _, rec := range records {
		srcID := safeID(rec.Class)
		for _, token := range rec.Tokens {
			if token == "" || globalTokens[token] {
				continue
			}
			tgtID := safeID(token)
			if srcID == tgtID {
				continue
			}
			fmt.Fprintf(f, "  %s --> %s\n", srcID, tgtID)
		}
	}

	fmt.Fprintln(f, `</div><script>mermaid.initialize({startOnLoad:true, maxTextSize:1000000});</script></body></html>`)
	return nil
}
