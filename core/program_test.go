package core_test

import (
	"testing"

	"github.com/CodMac/go-treesitter-decorator-compiler/core"
)

func TestProgram_CompanionPairing(t *testing.T) {
	// 配对只看路径，不触碰语法树
	program := core.NewProgram()

	// 实现树先注册，伴随树回填
	store := core.NewFileContext("lib/store.js", nil, nil)
	program.RegisterFileContext(store)
	storeDts := core.NewFileContext("lib/store.d.ts", nil, nil)
	program.RegisterDtsContext(storeDts)
	if store.Dts != storeDts {
		t.Error("dts registered after impl should backfill the pairing")
	}

	// 伴随树先注册，实现树注册时完成配对
	httpDts := core.NewFileContext("lib/http.d.ts", nil, nil)
	program.RegisterDtsContext(httpDts)
	http := core.NewFileContext("lib/http.ts", nil, nil)
	program.RegisterFileContext(http)
	if http.Dts != httpDts {
		t.Error("impl registered after dts should pick up the pairing")
	}

	// 无同名伴随树 → 保持 nil
	plain := core.NewFileContext("lib/plain.js", nil, nil)
	program.RegisterFileContext(plain)
	if plain.Dts != nil {
		t.Error("unpaired impl should keep a nil companion")
	}
}

func TestProgram_FileContextOf(t *testing.T) {
	program := core.NewProgram()
	store := core.NewFileContext("lib/store.ts", nil, nil)
	program.RegisterFileContext(store)

	got, ok := program.FileContextOf("lib/store.ts")
	if !ok || got != store {
		t.Fatalf("expected registered context, got %v (ok=%v)", got, ok)
	}
	if _, ok := program.FileContextOf("lib/missing.ts"); ok {
		t.Error("unknown path should report ok=false")
	}

	if len(program.FileContexts()) != 1 {
		t.Errorf("expected 1 implementation context, got %d", len(program.FileContexts()))
	}
}
