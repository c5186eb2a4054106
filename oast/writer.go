package oast

import (
	"fmt"
	"strings"
)

// --- 调试序列化 (Debug Writer) ---
//
// 把输出树片段渲染成 JS 风格文本，供 JSONL 导出与测试断言使用。
// 真正面向产物的发射后端在本仓库之外。

// EmitExpression 渲染一个表达式。
func EmitExpression(e Expression) string {
	return emitExpr(e, "")
}

// EmitType 渲染一个声明类型。
func EmitType(t Type) string {
	switch x := t.(type) {
	case *BuiltinType:
		if x.Kind == BuiltinDynamic {
			return "any"
		}
		return "never"
	case *ExpressionType:
		base := emitExpr(x.Value, "")
		if len(x.TypeParams) == 0 {
			return base
		}
		params := make([]string, len(x.TypeParams))
		for i, tp := range x.TypeParams {
			params[i] = EmitType(tp)
		}
		return fmt.Sprintf("%s<%s>", base, strings.Join(params, ", "))
	}
	return "never"
}

func emitExpr(e Expression, indent string) string {
	switch x := e.(type) {
	case *ReadVarExpr:
		return x.Name
	case *WriteVarExpr:
		return fmt.Sprintf("(%s = %s)", x.Name, emitExpr(x.Value, indent))
	case *WrappedNodeExpr:
		return x.Node.Utf8Text(x.Source)
	case *LiteralExpr:
		return emitLiteral(x.Value)
	case *LiteralArrayExpr:
		parts := make([]string, len(x.Entries))
		for i, entry := range x.Entries {
			parts[i] = emitExpr(entry, indent)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case *LiteralMapExpr:
		if len(x.Entries) == 0 {
			return "{}"
		}
		parts := make([]string, len(x.Entries))
		for i, entry := range x.Entries {
			parts[i] = fmt.Sprintf("%s: %s", entry.Key, emitExpr(entry.Value, indent))
		}
		return "{ " + strings.Join(parts, ", ") + " }"
	case *ExternalExpr:
		// 模块重写交给发射后端，这里按裸导入绑定渲染
		return x.Value.Name
	case *ReadPropExpr:
		return fmt.Sprintf("%s.%s", emitReceiver(x.Receiver, indent), x.Name)
	case *InvokeFunctionExpr:
		return fmt.Sprintf("%s(%s)", emitCallee(x.Fn, indent), emitArgs(x.Args, indent))
	case *InstantiateExpr:
		return fmt.Sprintf("new %s(%s)", emitCallee(x.ClassExpr, indent), emitArgs(x.Args, indent))
	case *BinaryOperatorExpr:
		return fmt.Sprintf("(%s %s %s)", emitExpr(x.Lhs, indent), x.Operator, emitExpr(x.Rhs, indent))
	case *FunctionExpr:
		var b strings.Builder
		name := x.Name
		if name != "" {
			name = " " + name
		}
		fmt.Fprintf(&b, "function%s(%s) {\n", name, strings.Join(x.Params, ", "))
		inner := indent + "  "
		for _, s := range x.Statements {
			b.WriteString(emitStmt(s, inner))
		}
		b.WriteString(indent + "}")
		return b.String()
	}
	return ""
}

func emitStmt(s Statement, indent string) string {
	switch x := s.(type) {
	case *DeclareVarStmt:
		if x.Value == nil {
			return fmt.Sprintf("%svar %s;\n", indent, x.Name)
		}
		return fmt.Sprintf("%svar %s = %s;\n", indent, x.Name, emitExpr(x.Value, indent))
	case *ExpressionStatement:
		return fmt.Sprintf("%s%s;\n", indent, emitExpr(x.Expr, indent))
	case *IfStmt:
		var b strings.Builder
		fmt.Fprintf(&b, "%sif (%s) {\n", indent, emitExpr(x.Condition, indent))
		inner := indent + "  "
		for _, t := range x.TrueCase {
			b.WriteString(emitStmt(t, inner))
		}
		if len(x.FalseCase) > 0 {
			fmt.Fprintf(&b, "%s} else {\n", indent)
			for _, f := range x.FalseCase {
				b.WriteString(emitStmt(f, inner))
			}
		}
		fmt.Fprintf(&b, "%s}\n", indent)
		return b.String()
	case *ReturnStatement:
		return fmt.Sprintf("%sreturn %s;\n", indent, emitExpr(x.Value, indent))
	}
	return ""
}

// emitCallee 为复合的被调用方/被实例化方补上括号。
func emitCallee(e Expression, indent string) string {
	switch e.(type) {
	case *ReadVarExpr, *ExternalExpr, *ReadPropExpr, *WrappedNodeExpr:
		return emitExpr(e, indent)
	case *BinaryOperatorExpr, *WriteVarExpr:
		// 自带括号
		return emitExpr(e, indent)
	default:
		return "(" + emitExpr(e, indent) + ")"
	}
}

func emitReceiver(e Expression, indent string) string {
	switch e.(type) {
	case *ReadVarExpr, *ExternalExpr, *ReadPropExpr, *WrappedNodeExpr:
		return emitExpr(e, indent)
	default:
		return "(" + emitExpr(e, indent) + ")"
	}
}

func emitArgs(args []Expression, indent string) string {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = emitExpr(a, indent)
	}
	return strings.Join(parts, ", ")
}

func emitLiteral(v any) string {
	switch x := v.(type) {
	case nil:
		return "null"
	case bool:
		if x {
			return "true"
		}
		return "false"
	case string:
		return fmt.Sprintf("%q", x)
	default:
		return fmt.Sprintf("%v", x)
	}
}
