package factory

import (
	"github.com/CodMac/go-treesitter-decorator-compiler/oast"
)

// --- 运行时入口标识符 ---

// CoreModule 注入运行时所在的模块。
const CoreModule = "@angular/core"

var (
	identInject              = oast.ExternalReference{ModuleName: CoreModule, Name: "ɵɵinject"}
	identDirectiveInject     = oast.ExternalReference{ModuleName: CoreModule, Name: "ɵɵdirectiveInject"}
	identInjectAttribute     = oast.ExternalReference{ModuleName: CoreModule, Name: "ɵɵinjectAttribute"}
	identInvalidFactory      = oast.ExternalReference{ModuleName: CoreModule, Name: "ɵɵinvalidFactory"}
	identInvalidFactoryDep   = oast.ExternalReference{ModuleName: CoreModule, Name: "ɵɵinvalidFactoryDep"}
	identGetInheritedFactory = oast.ExternalReference{ModuleName: CoreModule, Name: "ɵɵgetInheritedFactory"}
	identFactoryDeclaration  = oast.ExternalReference{ModuleName: CoreModule, Name: "ɵɵFactoryDeclaration"}
)

// InjectExpr 构造一次默认限定符的注入调用，供 useExisting 形态的
// 表达式工厂使用。
func InjectExpr(token oast.Expression) oast.Expression {
	return oast.CallFn(oast.ImportExpr(identInject), token)
}

// 注入限定符位掩码。三个限定符编码进同一个参数，
// 全部缺省时整个参数省略。
const (
	FlagDefault  = 0
	FlagSelf     = 2
	FlagSkipSelf = 4
	FlagOptional = 8
)
