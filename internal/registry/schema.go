package registry

import (
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// Index and lock documents are structurally validated against a fixed
// JSON Schema before their fields are trusted, the same defense in
// depth the teacher's core/types validator applies to decorator
// parameters — grounded on core/types/validation.go's compile-and-cache
// pattern, simplified here to two fixed schemas rather than a dynamic
// per-call one.
const indexSchemaText = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "properties": {
    "schema": {"type": "string"},
    "entries": {"type": "array"},
    "versions": {"type": "array"},
    "scope": {"type": "string"},
    "name": {"type": "string"}
  }
}`

const lockSchemaText = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["schema_version", "packages"],
  "properties": {
    "schema_version": {"type": "string", "const": "v1"},
    "packages": {"type": "array"},
    "registry_snapshot": {"type": "object"},
    "trust_root": {"type": "object"}
  }
}`

var (
	schemaOnce       sync.Once
	indexSchema      *jsonschema.Schema
	lockSchema       *jsonschema.Schema
	schemaCompileErr error
)

func compileSchemas() {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	if err := compiler.AddResource("registry://index.json", strings.NewReader(indexSchemaText)); err != nil {
		schemaCompileErr = err
		return
	}
	if err := compiler.AddResource("registry://lock.json", strings.NewReader(lockSchemaText)); err != nil {
		schemaCompileErr = err
		return
	}
	indexSchema, schemaCompileErr = compiler.Compile("registry://index.json")
	if schemaCompileErr != nil {
		return
	}
	lockSchema, schemaCompileErr = compiler.Compile("registry://lock.json")
}

// validateIndexSchema structurally checks a parsed index document
// before loadEntriesFromRoot trusts its fields.
func validateIndexSchema(doc any) error {
	schemaOnce.Do(compileSchemas)
	if schemaCompileErr != nil {
		return newErr("E_REG_INDEX_SCHEMA", "internal schema compile failure", schemaCompileErr.Error(), "ddonilang 빌드를 점검하세요.")
	}
	if err := indexSchema.Validate(doc); err != nil {
		return newErr("E_REG_INDEX_SCHEMA", "index document failed schema validation", err.Error(), "registry index 구조를 점검하세요.")
	}
	return nil
}

// validateLockSchema structurally checks a parsed lock document.
func validateLockSchema(doc any) error {
	schemaOnce.Do(compileSchemas)
	if schemaCompileErr != nil {
		return newErr("E_REG_LOCK_SCHEMA", "internal schema compile failure", schemaCompileErr.Error(), "ddonilang 빌드를 점검하세요.")
	}
	if err := lockSchema.Validate(doc); err != nil {
		return newErr("E_REG_LOCK_SCHEMA", "lock document failed schema validation", err.Error(), "ddn.lock 구조를 점검하세요.")
	}
	return nil
}
