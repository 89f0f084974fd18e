//go:build ignore

// gen-docs writes a JSON description of every job struct in apis/v1 to
// docs/schemas/. Run it with `go run scripts/gen-docs.go`.
package main

import (
	"encoding/json"
	"fmt"
	"go/ast"
	"go/token"
	"os"
	"path/filepath"
	"reflect"
	"regexp"
	"strings"

	"golang.org/x/tools/go/packages"
)

type Schema struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Fields      []Field `json:"fields"`
}

type Field struct {
	Name        string   `json:"name"`
	YAMLKey     string   `json:"yamlKey"`
	TOMLKey     string   `json:"tomlKey"`
	Type        string   `json:"type"`
	Required    bool     `json:"required"`
	Template    bool     `json:"template"`
	Description string   `json:"description"`
	Enum        []string `json:"enum"`
	Ref         *string  `json:"ref"`
	Default     *string  `json:"default"`
}

var targetStructs = map[string]string{
	"CompressJob":     "compress-job.json",
	"Metadata":        "metadata.json",
	"CompressJobSpec": "compress-job-spec.json",
	"FormatSpec":      "format-spec.json",
	"TarFormat":       "tar-format.json",
	"TargetSpec":      "target-spec.json",
	"ResolverSpec":    "resolver-spec.json",
	"PublishSpec":     "publish-spec.json",
	"FolderPublish":   "folder-publish.json",
	"S3Publish":       "s3-publish.json",
	"S3Credentials":   "s3-credentials.json",
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "gen-docs: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	root, err := findProjectRoot()
	if err != nil {
		return fmt.Errorf("failed to find project root: %w", err)
	}

	outputDir := filepath.Join(root, "docs", "schemas")
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", outputDir, err)
	}

	pkgs, err := packages.Load(&packages.Config{
		Mode: packages.NeedSyntax | packages.NeedFiles | packages.NeedName,
		Dir:  root,
	}, "./apis/v1")
	if err != nil {
		return fmt.Errorf("failed to load apis/v1: %w", err)
	}
	if len(pkgs) == 0 {
		return fmt.Errorf("no packages found")
	}

	structs := make(map[string]*structInfo)
	for _, pkg := range pkgs {
		if len(pkg.Errors) > 0 {
			return fmt.Errorf("package %s: %v", pkg.Name, pkg.Errors[0])
		}
		for _, file := range pkg.Syntax {
			collectStructs(file, structs)
		}
	}

	for name, outputFile := range targetStructs {
		info, ok := structs[name]
		if !ok {
			fmt.Fprintf(os.Stderr, "warning: struct %s not found\n", name)
			continue
		}

		data, err := json.MarshalIndent(info.schema(), "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal %s: %w", name, err)
		}

		outputPath := filepath.Join(outputDir, outputFile)
		if err := os.WriteFile(outputPath, append(data, '\n'), 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", outputPath, err)
		}
		fmt.Printf("Generated %s\n", outputPath)
	}

	return nil
}

type structInfo struct {
	name string
	doc  string
	typ  *ast.StructType
}

func collectStructs(file *ast.File, out map[string]*structInfo) {
	for _, decl := range file.Decls {
		genDecl, ok := decl.(*ast.GenDecl)
		if !ok || genDecl.Tok != token.TYPE {
			continue
		}

		for _, spec := range genDecl.Specs {
			typeSpec, ok := spec.(*ast.TypeSpec)
			if !ok {
				continue
			}
			structType, ok := typeSpec.Type.(*ast.StructType)
			if !ok {
				continue
			}

			var doc string
			switch {
			case genDecl.Doc != nil && len(genDecl.Specs) == 1:
				doc = cleanDoc(genDecl.Doc.Text())
			case typeSpec.Doc != nil:
				doc = cleanDoc(typeSpec.Doc.Text())
			}

			out[typeSpec.Name.Name] = &structInfo{
				name: typeSpec.Name.Name,
				doc:  doc,
				typ:  structType,
			}
		}
	}
}

func (s *structInfo) schema() Schema {
	schema := Schema{
		Name:        s.name,
		Description: s.doc,
		Fields:      []Field{},
	}

	for _, field := range s.typ.Fields.List {
		// Embedded fields carry no key of their own.
		if len(field.Names) == 0 || !ast.IsExported(field.Names[0].Name) {
			continue
		}

		f := Field{Name: field.Names[0].Name}
		if field.Tag != nil {
			tag := reflect.StructTag(strings.Trim(field.Tag.Value, "`"))
			f.YAMLKey = tagKey(tag, "yaml")
			f.TOMLKey = tagKey(tag, "toml")
			f.Required, f.Enum = parseValidate(tag.Get("validate"))
			_, f.Template = tag.Lookup("template")
		}
		f.Type, f.Ref = fieldType(field.Type)
		f.Description, f.Default = fieldDoc(field)

		schema.Fields = append(schema.Fields, f)
	}

	return schema
}

func tagKey(tag reflect.StructTag, name string) string {
	key, _, _ := strings.Cut(tag.Get(name), ",")
	return key
}

func parseValidate(rules string) (required bool, enum []string) {
	for _, rule := range strings.Split(rules, ",") {
		switch {
		case rule == "required":
			required = true
		case strings.HasPrefix(rule, "oneof="):
			enum = strings.Fields(strings.TrimPrefix(rule, "oneof="))
		case strings.HasPrefix(rule, "eq="):
			enum = []string{strings.TrimPrefix(rule, "eq=")}
		}
	}
	return required, enum
}

func fieldType(expr ast.Expr) (string, *string) {
	switch t := expr.(type) {
	case *ast.Ident:
		if _, ok := targetStructs[t.Name]; ok {
			return t.Name, &t.Name
		}
		return t.Name, nil
	case *ast.StarExpr:
		return fieldType(t.X)
	case *ast.ArrayType:
		inner, _ := fieldType(t.Elt)
		return "[]" + inner, nil
	case *ast.MapType:
		key, _ := fieldType(t.Key)
		val, _ := fieldType(t.Value)
		return fmt.Sprintf("map[%s]%s", key, val), nil
	case *ast.SelectorExpr:
		if x, ok := t.X.(*ast.Ident); ok {
			return x.Name + "." + t.Sel.Name, nil
		}
		return t.Sel.Name, nil
	case *ast.InterfaceType:
		return "any", nil
	default:
		return "unknown", nil
	}
}

// Matches "Defaults to the job name." and "gzip (default)".
var defaultRegex = regexp.MustCompile(`[Dd]efaults? to ([^.]+)\.|([a-z0-9]+) \(default\)`)

func fieldDoc(field *ast.Field) (string, *string) {
	var text string
	switch {
	case field.Doc != nil:
		text = field.Doc.Text()
	case field.Comment != nil:
		text = field.Comment.Text()
	}
	if text == "" {
		return "", nil
	}

	var def *string
	if m := defaultRegex.FindStringSubmatch(text); m != nil {
		for _, v := range m[1:] {
			if v = strings.TrimSpace(v); v != "" {
				def = &v
				break
			}
		}
	}

	return cleanDoc(text), def
}

func cleanDoc(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	return strings.Join(lines, "\n")
}

func findProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("go.mod not found")
		}
		dir = parent
	}
}
