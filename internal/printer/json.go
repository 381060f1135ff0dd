package printer

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/lbc-lang/lbc/internal/ast"
)

// jsonNode is the structural tree spec.md §4.7 describes: "class, loc, and
// per-node children". attrs carries scalar node-specific fields (a VarDecl's
// Name, a LiteralExpr's value) that don't warrant their own child node.
type jsonNode struct {
	Class    string         `json:"class"`
	Loc      string         `json:"loc"`
	Attrs    map[string]any `json:"attrs,omitempty"`
	Children []jsonNode     `json:"children,omitempty"`
}

// DumpJSON serializes mod as a structural JSON tree for developer tooling.
func DumpJSON(w io.Writer, mod *ast.Module) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(moduleJSON(mod))
}

func loc(n ast.Node) string {
	r := n.Range()
	return fmt.Sprintf("%s-%s", r.Start.String(), r.End.String())
}

func moduleJSON(m *ast.Module) jsonNode {
	children := make([]jsonNode, 0, len(m.Imports)+1)
	for _, imp := range m.Imports {
		children = append(children, stmtJSON(imp))
	}
	children = append(children, stmtListJSON(m.Body))
	return jsonNode{
		Class:    "Module",
		Loc:      loc(m),
		Attrs:    map[string]any{"file": m.File, "implicitMain": m.ImplicitMain},
		Children: children,
	}
}

func stmtListJSON(list *ast.StmtList) jsonNode {
	children := make([]jsonNode, 0, len(list.Decls)+len(list.Stmts)+len(list.FuncStmts))
	for _, d := range list.Decls {
		children = append(children, declJSON(d))
	}
	for _, s := range list.Stmts {
		children = append(children, stmtJSON(s))
	}
	for _, d := range list.FuncStmts {
		children = append(children, declJSON(d))
	}
	return jsonNode{Class: "StmtList", Loc: loc(list), Children: children}
}

func declJSON(d ast.Decl) jsonNode {
	switch v := d.(type) {
	case *ast.VarDecl:
		n := jsonNode{Class: "VarDecl", Loc: loc(v), Attrs: map[string]any{
			"name": v.Name, "isConst": v.IsConst, "isExtern": v.IsExtern,
		}}
		if len(v.Attributes) > 0 {
			n.Attrs["attributes"] = v.Attributes
		}
		if v.Type != nil {
			n.Children = append(n.Children, typeExprJSON(v.Type))
		}
		if v.Init != nil {
			n.Children = append(n.Children, exprJSON(v.Init))
		}
		return n
	case *ast.FuncParamDecl:
		n := jsonNode{Class: "FuncParamDecl", Loc: loc(v), Attrs: map[string]any{"name": v.Name}}
		if v.Type != nil {
			n.Children = append(n.Children, typeExprJSON(v.Type))
		}
		return n
	case *ast.FuncDecl:
		n := jsonNode{Class: "FuncDecl", Loc: loc(v), Attrs: map[string]any{
			"name": v.Name, "variadic": v.Variadic, "hasImplementation": v.HasImplementation,
		}}
		if len(v.Attributes) > 0 {
			n.Attrs["attributes"] = v.Attributes
		}
		for _, p := range v.Params {
			n.Children = append(n.Children, declJSON(p))
		}
		if v.ReturnType != nil {
			n.Children = append(n.Children, typeExprJSON(v.ReturnType))
		}
		if v.Body != nil {
			n.Children = append(n.Children, stmtListJSON(v.Body))
		}
		return n
	case *ast.UdtDecl:
		n := jsonNode{Class: "UdtDecl", Loc: loc(v), Attrs: map[string]any{"name": v.Name, "packed": v.Packed}}
		for _, m := range v.Members {
			n.Children = append(n.Children, declJSON(m))
		}
		return n
	case *ast.TypeAlias:
		n := jsonNode{Class: "TypeAlias", Loc: loc(v), Attrs: map[string]any{"name": v.Name}}
		if v.Type != nil {
			n.Children = append(n.Children, typeExprJSON(v.Type))
		}
		return n
	default:
		return jsonNode{Class: "UnknownDecl", Loc: loc(d)}
	}
}

func stmtJSON(s ast.Stmt) jsonNode {
	switch v := s.(type) {
	case *ast.ExprStmt:
		return jsonNode{Class: "ExprStmt", Loc: loc(v), Children: []jsonNode{exprJSON(v.X)}}
	case *ast.ReturnStmt:
		n := jsonNode{Class: "ReturnStmt", Loc: loc(v)}
		if v.X != nil {
			n.Children = []jsonNode{exprJSON(v.X)}
		}
		return n
	case *ast.IfStmt:
		n := jsonNode{Class: "IfStmt", Loc: loc(v)}
		for _, blk := range v.Blocks {
			block := jsonNode{Class: "IfBlock"}
			if blk.Cond != nil {
				block.Children = append(block.Children, exprJSON(blk.Cond))
			}
			block.Children = append(block.Children, stmtListJSON(blk.Body))
			n.Children = append(n.Children, block)
		}
		return n
	case *ast.ForStmt:
		n := jsonNode{Class: "ForStmt", Loc: loc(v), Attrs: map[string]any{
			"nextName": v.NextName, "direction": v.Direction.String(),
		}}
		n.Children = append(n.Children, exprJSON(v.Iterator), exprJSON(v.From), exprJSON(v.To))
		if v.Step != nil {
			n.Children = append(n.Children, exprJSON(v.Step))
		}
		n.Children = append(n.Children, stmtListJSON(v.Body))
		return n
	case *ast.DoLoopStmt:
		n := jsonNode{Class: "DoLoopStmt", Loc: loc(v)}
		if v.Cond != nil {
			n.Children = append(n.Children, exprJSON(v.Cond))
		}
		n.Children = append(n.Children, stmtListJSON(v.Body))
		return n
	case *ast.ContinuationStmt:
		kind := "EXIT"
		if v.Op == ast.ContinuationContinue {
			kind = "CONTINUE"
		}
		return jsonNode{Class: "ContinuationStmt", Loc: loc(v), Attrs: map[string]any{
			"kind": kind, "distance": v.Distance, "targetKind": v.TargetKind.String(),
		}}
	case *ast.Import:
		return jsonNode{Class: "Import", Loc: loc(v), Attrs: map[string]any{"path": v.Path}}
	case *ast.Extern:
		n := jsonNode{Class: "Extern", Loc: loc(v), Attrs: map[string]any{"callConv": v.CallConv}}
		for _, d := range v.Decls {
			n.Children = append(n.Children, declJSON(d))
		}
		return n
	default:
		return jsonNode{Class: "UnknownStmt", Loc: loc(s)}
	}
}

func exprJSON(e ast.Expr) jsonNode {
	if e == nil {
		return jsonNode{Class: "nil"}
	}
	n := baseExprJSON(e)
	switch v := e.(type) {
	case *ast.LiteralExpr:
		n.Class = "LiteralExpr"
		n.Attrs["value"] = literalString(v)
	case *ast.IdentExpr:
		n.Class = "IdentExpr"
		n.Attrs["name"] = v.Name
	case *ast.CallExpr:
		n.Class = "CallExpr"
		n.Children = append(n.Children, exprJSON(v.Callee))
		for _, a := range v.Args {
			n.Children = append(n.Children, exprJSON(a))
		}
	case *ast.MemberExpr:
		n.Class = "MemberExpr"
		n.Attrs["name"] = v.Name
		n.Children = append(n.Children, exprJSON(v.X))
	case *ast.AssignExpr:
		n.Class = "AssignExpr"
		n.Children = append(n.Children, exprJSON(v.LHS), exprJSON(v.RHS))
	case *ast.UnaryExpr:
		n.Class = "UnaryExpr"
		n.Attrs["op"] = v.Op.String()
		n.Children = append(n.Children, exprJSON(v.X))
	case *ast.BinaryExpr:
		n.Class = "BinaryExpr"
		n.Attrs["op"] = v.Op.String()
		n.Children = append(n.Children, exprJSON(v.LHS), exprJSON(v.RHS))
	case *ast.CastExpr:
		n.Class = "CastExpr"
		n.Attrs["implicit"] = v.Implicit
		n.Attrs["isTest"] = v.IsTest
		n.Children = append(n.Children, exprJSON(v.X))
		if v.Target != nil {
			n.Children = append(n.Children, typeExprJSON(v.Target))
		}
	case *ast.DereferenceExpr:
		n.Class = "DereferenceExpr"
		n.Children = append(n.Children, exprJSON(v.X))
	case *ast.AddressOfExpr:
		n.Class = "AddressOfExpr"
		n.Children = append(n.Children, exprJSON(v.X))
	case *ast.IfExpr:
		n.Class = "IfExpr"
		n.Children = append(n.Children, exprJSON(v.Cond), exprJSON(v.Then), exprJSON(v.Else))
	case *ast.SizeofExpr:
		n.Class = "SizeofExpr"
		n.Children = append(n.Children, typeExprJSON(v.Target))
	default:
		n.Class = "UnknownExpr"
	}
	return n
}

// baseExprJSON fills in the post-sema annotations every Expr carries
// (type/flags/constant), present once semantic analysis has run and zero
// otherwise.
func baseExprJSON(e ast.Expr) jsonNode {
	attrs := map[string]any{}
	if t := e.Type(); t != nil {
		attrs["type"] = t.String()
	}
	if lit, ok := e.ConstantValue(); ok {
		attrs["constantValue"] = fmt.Sprintf("%+v", lit)
	}
	return jsonNode{Loc: loc(e), Attrs: attrs}
}

func typeExprJSON(te *ast.TypeExpr) jsonNode {
	if te == nil {
		return jsonNode{Class: "TypeExpr", Attrs: map[string]any{"form": "void"}}
	}
	attrs := map[string]any{"ptrCount": te.PtrCount, "isRef": te.IsRef, "spelling": typeExprString(te)}
	n := jsonNode{Class: "TypeExpr", Loc: loc(te), Attrs: attrs}
	switch te.Form {
	case ast.TypeFormFuncSig:
		for _, p := range te.FuncParams {
			n.Children = append(n.Children, typeExprJSON(p))
		}
		if te.FuncReturn != nil {
			n.Children = append(n.Children, typeExprJSON(te.FuncReturn))
		}
	case ast.TypeFormTypeOf:
		if te.TypeOfExpr != nil {
			n.Children = append(n.Children, exprJSON(te.TypeOfExpr))
		}
	}
	return n
}
