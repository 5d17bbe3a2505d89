package jsc

import "github.com/tdewolff/parse/v2/js"

// VisitorEnterFunc use function as AST Visitor
//
// Each INode encountered by `js.Walk` is passed to func, children nodes are skipped when it returns false
type VisitorEnterFunc func(node js.INode) (visitChildren bool)

func (f VisitorEnterFunc) Enter(node js.INode) js.IVisitor {
	if f(node) {
		return f
	}
	return nil
}

func (f VisitorEnterFunc) Exit(node js.INode) {
}

// findFirst the first node, in source order, accepted by the match function. Nil when there is none.
func findFirst(ast *js.AST, match func(node js.INode) bool) js.INode {
	var found js.INode
	js.Walk(VisitorEnterFunc(func(node js.INode) bool {
		if found != nil {
			return false
		}
		if match(node) {
			found = node
			return false
		}
		return true
	}), &ast.BlockStmt)
	return found
}

// isModuleStatement import and export are only valid in module scripts
func isModuleStatement(node js.INode) bool {
	switch node.(type) {
	case *js.ImportStmt, *js.ExportStmt:
		return true
	}
	return false
}
