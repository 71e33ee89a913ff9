// Copyright 2025, the SEPET contributors
// SPDX-License-Identifier: AGPL-3.0-only

package main

import (
	"go/ast"
	"go/constant"
	"go/token"
	"go/types"
	"path/filepath"

	"golang.org/x/tools/go/packages"
)

type ref struct {
	file string
	line int
}

// extractor holds the shared state and context for AST analysis within a package.
type extractor struct {
	refs        map[string][]ref
	projectRoot string
	fset        *token.FileSet
	info        *types.Info
	i18nPkgs    map[string]struct{}
}

// extractRefs traverses all Go source files in the given packages,
// looking for message keys.
func extractRefs(pkgs []*packages.Package, projectRoot string, i18nPkgPaths map[string]struct{}) map[string][]ref {
	refs := map[string][]ref{}

	for _, p := range pkgs {
		if p.TypesInfo == nil {
			continue
		}

		e := &extractor{
			refs:        refs,
			projectRoot: projectRoot,
			fset:        p.Fset,
			info:        p.TypesInfo,
			i18nPkgs:    i18nPkgPaths,
		}

		for _, f := range p.Syntax {
			ast.Inspect(f, func(n ast.Node) bool {
				switch x := n.(type) {
				case *ast.CallExpr:
					e.handleCallExpr(x)
				case *ast.CompositeLit:
					e.handleCompositeLit(x)
				case *ast.ValueSpec:
					e.handleValueSpec(x)
				}

				return true
			})
		}
	}

	return refs
}

// findI18nPkgPaths returns the set of package paths in this build that
// define the i18n package with a Key type whose underlying type is string.
func findI18nPkgPaths(pkgs []*packages.Package) map[string]struct{} {
	out := make(map[string]struct{})

	for _, p := range pkgs {
		if p.Name != "i18n" || p.Types == nil {
			continue
		}

		tn, ok := p.Types.Scope().Lookup("Key").(*types.TypeName)
		if !ok {
			continue
		}

		named, ok := tn.Type().(*types.Named)
		if !ok {
			continue
		}

		basic, ok := named.Underlying().(*types.Basic)
		if ok && basic.Kind() == types.String {
			out[p.PkgPath] = struct{}{}
		}
	}

	return out
}

// constString evaluates expr to a constant string if possible using types.Info.
// Handles string literals, const identifiers, and constant expressions like "a" + "b".
func constString(info *types.Info, expr ast.Expr) (string, bool) {
	tv, ok := info.Types[expr]
	if !ok || tv.Value == nil || tv.Value.Kind() != constant.String {
		return "", false
	}

	return constant.StringVal(tv.Value), true
}

// isKeyType reports whether t is the named type i18n.Key.
func (e *extractor) isKeyType(t types.Type) bool {
	named, ok := t.(*types.Named)
	if !ok {
		return false
	}

	obj := named.Obj()
	if obj == nil || obj.Pkg() == nil {
		return false
	}

	if _, ok := e.i18nPkgs[obj.Pkg().Path()]; !ok {
		return false
	}

	return obj.Name() == "Key"
}

// handleValueSpec records constants and variables declared as i18n.Key.
func (e *extractor) handleValueSpec(x *ast.ValueSpec) {
	for i, name := range x.Names {
		obj := e.info.Defs[name]
		if obj == nil || !e.isKeyType(obj.Type()) || i >= len(x.Values) {
			continue
		}

		if msg, ok := constString(e.info, x.Values[i]); ok {
			e.addRef(x.Values[i].Pos(), msg)
		}
	}
}

// handleCompositeLit inspects composite literals to find implicit conversions to i18n.Key.
func (e *extractor) handleCompositeLit(x *ast.CompositeLit) {
	tv, ok := e.info.Types[x]
	if !ok || tv.Type == nil {
		return
	}

	// Unwrap one level of pointer so &T{...} is treated as T{...}.
	t := tv.Type
	if p, ok := t.Underlying().(*types.Pointer); ok && p.Elem() != nil {
		t = p.Elem()
	}

	switch u := t.Underlying().(type) {
	case *types.Map:
		keyIsKey, valIsKey := e.isKeyType(u.Key()), e.isKeyType(u.Elem())
		if !keyIsKey && !valIsKey {
			return
		}

		for _, elt := range x.Elts {
			kv, ok := elt.(*ast.KeyValueExpr)
			if !ok {
				continue
			}

			if msg, ok := constString(e.info, kv.Key); ok && keyIsKey {
				e.addRef(kv.Key.Pos(), msg)
			}

			if msg, ok := constString(e.info, kv.Value); ok && valIsKey {
				e.addRef(kv.Value.Pos(), msg)
			}
		}

	case *types.Slice:
		if !e.isKeyType(u.Elem()) {
			return
		}

		for _, elt := range x.Elts {
			if msg, ok := constString(e.info, elt); ok {
				e.addRef(elt.Pos(), msg)
			}
		}

	case *types.Struct:
		for i, elt := range x.Elts {
			// Keyed field: FieldName: "..."
			if kv, ok := elt.(*ast.KeyValueExpr); ok {
				id, ok := kv.Key.(*ast.Ident)
				if !ok {
					continue
				}

				for j := range u.NumFields() {
					if f := u.Field(j); f.Name() == id.Name && e.isKeyType(f.Type()) {
						if msg, ok := constString(e.info, kv.Value); ok {
							e.addRef(kv.Value.Pos(), msg)
						}
					}
				}

				continue
			}

			// Positional field: rely on declared field order.
			if i < u.NumFields() && e.isKeyType(u.Field(i).Type()) {
				if msg, ok := constString(e.info, elt); ok {
					e.addRef(elt.Pos(), msg)
				}
			}
		}
	}
}

// handleCallExpr inspects function calls and type conversions to find message keys.
func (e *extractor) handleCallExpr(x *ast.CallExpr) {
	// Type conversion, e.g. i18n.Key("routes.scheduling").
	if tv, ok := e.info.Types[x.Fun]; ok && tv.IsType() {
		if len(x.Args) == 1 && e.isKeyType(tv.Type) {
			if msg, ok := constString(e.info, x.Args[0]); ok {
				e.addRef(x.Args[0].Pos(), msg)
			}
		}

		return
	}

	// Store.Resolve("key") and Store.Tr("key", ...) take the key as a plain string.
	if sel, ok := x.Fun.(*ast.SelectorExpr); ok {
		if fn, ok := e.info.Uses[sel.Sel].(*types.Func); ok && fn.Pkg() != nil {
			if _, ok := e.i18nPkgs[fn.Pkg().Path()]; ok {
				switch fn.Name() {
				case "Resolve", "Tr":
					if len(x.Args) >= 1 {
						if msg, ok := constString(e.info, x.Args[0]); ok {
							e.addRef(x.Args[0].Pos(), msg)
						}
					}

					return
				}
			}
		}
	}

	// Any other call with i18n.Key parameters.
	sig, ok := e.info.TypeOf(x.Fun).(*types.Signature)
	if !ok {
		return
	}

	params := sig.Params()

	n := params.Len()
	if n == 0 {
		return
	}

	variadic := sig.Variadic()
	last := n - 1

	for i, arg := range x.Args {
		var pt types.Type

		if variadic && i >= last {
			// If called with ...slice, let composite literal handling discover elements.
			if x.Ellipsis != token.NoPos {
				continue
			}

			pt = params.At(last).Type().(*types.Slice).Elem()
		} else {
			if i >= n {
				break
			}

			pt = params.At(i).Type()
		}

		if e.isKeyType(pt) {
			if msg, ok := constString(e.info, arg); ok {
				e.addRef(arg.Pos(), msg)
			}
		}
	}
}

// addRef records a reference to a key, normalising the file path relative
// to the computed project root.
func (e *extractor) addRef(pos token.Pos, key string) {
	p := e.fset.Position(pos)

	file := p.Filename
	if rel, err := filepath.Rel(e.projectRoot, file); err == nil {
		file = rel
	}

	e.refs[key] = append(e.refs[key], ref{file: filepath.ToSlash(file), line: p.Line})
}
