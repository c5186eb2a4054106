package oast_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/CodMac/go-treesitter-decorator-compiler/oast"
)

func TestEmitExpression(t *testing.T) {
	cases := []struct {
		name string
		expr oast.Expression
		want string
	}{
		{"read var", oast.Variable("t"), "t"},
		{"write var", oast.Variable("r").Set(oast.Literal(1)), "(r = 1)"},
		{"or", oast.Or(oast.Variable("a"), oast.Variable("b")), "(a || b)"},
		{"call", oast.CallFn(oast.Variable("f"), oast.Literal("x")), `f("x")`},
		{"instantiate plain", oast.Instantiate(oast.Variable("C")), "new C()"},
		{
			"instantiate composite callee",
			oast.Instantiate(oast.Or(oast.Variable("t"), oast.Variable("C"))),
			"new (t || C)()",
		},
		{"prop chain", oast.Prop(oast.Prop(oast.Variable("ns"), "a"), "b"), "ns.a.b"},
		{"null literal", oast.Literal(nil), "null"},
		{
			"external ref renders bare",
			oast.ImportExpr(oast.ExternalReference{ModuleName: "@angular/core", Name: "ɵɵinject"}),
			"ɵɵinject",
		},
		{
			"array and map",
			&oast.LiteralArrayExpr{Entries: []oast.Expression{
				oast.Literal(nil),
				&oast.LiteralMapExpr{Entries: []oast.LiteralMapEntry{{Key: "self", Value: oast.Literal(true)}}},
			}},
			"[null, { self: true }]",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, oast.EmitExpression(tc.expr))
		})
	}
}

func TestEmitFunctionExpr(t *testing.T) {
	fn := &oast.FunctionExpr{
		Name:   "Service_Factory",
		Params: []string{"t"},
		Statements: []oast.Statement{
			&oast.DeclareVarStmt{Name: "r", Value: oast.Literal(nil)},
			&oast.IfStmt{
				Condition: oast.Variable("t"),
				TrueCase:  []oast.Statement{oast.ToStmt(oast.Variable("r").Set(oast.Variable("a")))},
				FalseCase: []oast.Statement{oast.ToStmt(oast.Variable("r").Set(oast.Variable("b")))},
			},
			oast.Return(oast.Variable("r")),
		},
	}

	want := "function Service_Factory(t) {\n" +
		"  var r = null;\n" +
		"  if (t) {\n" +
		"    (r = a);\n" +
		"  } else {\n" +
		"    (r = b);\n" +
		"  }\n" +
		"  return r;\n" +
		"}"
	assert.Equal(t, want, oast.EmitExpression(fn))
}

func TestEmitType(t *testing.T) {
	assert.Equal(t, "never", oast.EmitType(oast.NoneType))
	assert.Equal(t, "any", oast.EmitType(oast.DynamicType))
	assert.Equal(t, "Store<any, any>",
		oast.EmitType(oast.TypeWithParameters(oast.Variable("Store"), 2)))
	assert.Equal(t, "Decl<Store, never>", oast.EmitType(oast.NewExpressionType(
		oast.Variable("Decl"),
		oast.NewExpressionType(oast.Variable("Store")),
		oast.NoneType,
	)))
}
