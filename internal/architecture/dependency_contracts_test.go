// Where: internal/architecture/dependency_contracts_test.go
// What: Contract checks for anti-pattern dependency usage across internal layers.
// Why: Keep SDK clients out of the core and client construction out of commands.
package architecture

import (
	"go/ast"
	"go/parser"
	"go/token"
	"os"
	pathpkg "path"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"testing"
)

type dependencyContract struct {
	forbiddenImports      map[string]struct{}
	forbiddenCalls        map[string]map[string]struct{}
	forbiddenTypeLiterals map[string]map[string]struct{}
}

var (
	awsSDKImports = map[string]struct{}{
		"github.com/aws/aws-sdk-go-v2/aws":         {},
		"github.com/aws/aws-sdk-go-v2/config":      {},
		"github.com/aws/aws-sdk-go-v2/service/ecr": {},
		"github.com/aws/aws-sdk-go-v2/service/s3":  {},
		"github.com/aws/aws-sdk-go-v2/service/ssm": {},
		"github.com/aws/aws-sdk-go-v2/service/sts": {},
	}
	fmtPrints = map[string]struct{}{
		"Print":   {},
		"Printf":  {},
		"Println": {},
	}
)

var dependencyContracts = map[string]dependencyContract{
	"domain": {
		forbiddenImports: awsSDKImports,
		forbiddenCalls: map[string]map[string]struct{}{
			"fmt": fmtPrints,
			"os":  {"Getenv": {}, "LookupEnv": {}},
		},
	},
	"usecase": {
		forbiddenImports: awsSDKImports,
		forbiddenCalls: map[string]map[string]struct{}{
			"fmt": fmtPrints,
			"os":  {"Getenv": {}, "LookupEnv": {}},
		},
	},
	"infra": {
		forbiddenCalls: map[string]map[string]struct{}{
			"fmt": fmtPrints,
			"os":  {"Getenv": {}, "LookupEnv": {}},
		},
	},
	"command": {
		forbiddenCalls: map[string]map[string]struct{}{
			internalImportPrefix + "infra/awsclient": {
				"NewFactory": {},
			},
			"github.com/aws/aws-sdk-go-v2/config": {
				"LoadDefaultConfig": {},
			},
		},
		forbiddenTypeLiterals: map[string]map[string]struct{}{
			internalImportPrefix + "infra/awsclient": {
				"Factory": {},
			},
		},
	},
}

func TestDependencyContracts(t *testing.T) {
	t.Parallel()

	internalRoot := resolveInternalRoot(t)
	fset := token.NewFileSet()
	violations := []string{}

	err := filepath.WalkDir(internalRoot, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if !strings.HasSuffix(d.Name(), ".go") || strings.HasSuffix(d.Name(), "_test.go") {
			return nil
		}

		rel, err := filepath.Rel(internalRoot, path)
		if err != nil {
			return err
		}
		sourcePkg := filepath.ToSlash(filepath.Dir(rel))
		contract, ok := dependencyContractForPackage(sourcePkg)
		if !ok {
			return nil
		}

		file, err := parser.ParseFile(fset, path, nil, parser.ParseComments)
		if err != nil {
			return err
		}
		importAliases := resolveImportAliases(file)
		fileViolations := detectDependencyContractViolations(fset, rel, file, importAliases, contract)
		violations = append(violations, fileViolations...)
		return nil
	})
	if err != nil {
		t.Fatalf("scan internal packages: %v", err)
	}
	if len(violations) > 0 {
		sort.Strings(violations)
		t.Fatalf("dependency contract violations:\n%s", strings.Join(violations, "\n"))
	}
}

func dependencyContractForPackage(sourcePkg string) (dependencyContract, bool) {
	pkg := strings.TrimSpace(sourcePkg)
	if pkg == "" {
		return dependencyContract{}, false
	}
	for prefix, contract := range dependencyContracts {
		if pkg == prefix || strings.HasPrefix(pkg, prefix+"/") {
			return contract, true
		}
	}
	return dependencyContract{}, false
}

func resolveImportAliases(file *ast.File) map[string]string {
	aliases := map[string]string{}
	for _, imp := range file.Imports {
		importPath := strings.Trim(imp.Path.Value, "\"")
		if importPath == "" {
			continue
		}
		alias := pathpkg.Base(importPath)
		if imp.Name != nil {
			if imp.Name.Name == "_" || imp.Name.Name == "." {
				continue
			}
			alias = imp.Name.Name
		}
		aliases[alias] = importPath
	}
	return aliases
}

func detectDependencyContractViolations(
	fset *token.FileSet,
	relPath string,
	file *ast.File,
	importAliases map[string]string,
	contract dependencyContract,
) []string {
	violations := []string{}
	for _, imp := range file.Imports {
		importPath := strings.Trim(imp.Path.Value, "\"")
		if _, ok := contract.forbiddenImports[importPath]; !ok {
			continue
		}
		line := fset.Position(imp.Pos()).Line
		violations = append(violations, relPath+":"+strconv.Itoa(line)+" -> import "+importPath)
	}
	ast.Inspect(file, func(node ast.Node) bool {
		switch n := node.(type) {
		case *ast.CallExpr:
			violations = appendForbiddenSelectorViolation(
				violations, fset, relPath, n.Pos(), n.Fun, importAliases, contract.forbiddenCalls, "call",
			)
		case *ast.CompositeLit:
			violations = appendForbiddenSelectorViolation(
				violations, fset, relPath, n.Pos(), n.Type, importAliases, contract.forbiddenTypeLiterals, "literal",
			)
		}
		return true
	})
	return violations
}

func appendForbiddenSelectorViolation(
	violations []string,
	fset *token.FileSet,
	relPath string,
	pos token.Pos,
	expr ast.Expr,
	importAliases map[string]string,
	forbidden map[string]map[string]struct{},
	kind string,
) []string {
	importPath, symbol, ok := resolveSelector(expr, importAliases)
	if !ok || !isForbiddenSymbol(forbidden, importPath, symbol) {
		return violations
	}
	line := fset.Position(pos).Line
	return append(violations, relPath+":"+strconv.Itoa(line)+" -> "+kind+" "+importPath+"."+symbol)
}

func resolveSelector(expr ast.Expr, importAliases map[string]string) (importPath string, symbol string, ok bool) {
	selector, ok := expr.(*ast.SelectorExpr)
	if !ok {
		return "", "", false
	}
	ident, ok := selector.X.(*ast.Ident)
	if !ok {
		return "", "", false
	}
	importPath, ok = importAliases[ident.Name]
	if !ok {
		return "", "", false
	}
	return importPath, selector.Sel.Name, true
}

func isForbiddenSymbol(forbidden map[string]map[string]struct{}, importPath, symbol string) bool {
	symbols, ok := forbidden[importPath]
	if !ok {
		return false
	}
	_, found := symbols[symbol]
	return found
}
