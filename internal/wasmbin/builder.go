// Package wasmbin assembles minimal WebAssembly core modules.
//
// The host uses it to synthesize the env module that owns the shared linear
// memory; tests use it to assemble small guest modules with real function
// bodies without shipping precompiled fixtures.
package wasmbin

import (
	"github.com/tetratelabs/wazero/api"
)

const (
	sectionType     = 0x01
	sectionImport   = 0x02
	sectionFunction = 0x03
	sectionMemory   = 0x05
	sectionExport   = 0x07
	sectionCode     = 0x0a
	sectionData     = 0x0b

	importKindFunc   = 0x00
	importKindMemory = 0x02

	exportKindFunc   = 0x00
	exportKindMemory = 0x02
)

type funcImport struct {
	module  string
	name    string
	params  []api.ValueType
	results []api.ValueType
}

type localFunc struct {
	export  string
	params  []api.ValueType
	results []api.ValueType
	body    []byte
}

type memorySpec struct {
	importMod  string
	importName string
	export     string
	minPages   uint32
	defined    bool
}

type dataSegment struct {
	offset uint32
	bytes  []byte
}

// ModuleBuilder accumulates imports, functions, a memory and data segments,
// then emits the binary. Function index space is imports first, then local
// functions, in the order they were added.
type ModuleBuilder struct {
	memory  *memorySpec
	imports []funcImport
	funcs   []localFunc
	data    []dataSegment
}

func NewModuleBuilder() *ModuleBuilder {
	return &ModuleBuilder{}
}

// ImportFunc declares a function import. Returns the function index it
// occupies in the module's index space.
func (b *ModuleBuilder) ImportFunc(module, name string, params, results []api.ValueType) uint32 {
	b.imports = append(b.imports, funcImport{
		module:  module,
		name:    name,
		params:  params,
		results: results,
	})
	return uint32(len(b.imports) - 1)
}

// ImportMemory declares a memory import with the given minimum page count.
func (b *ModuleBuilder) ImportMemory(module, name string, minPages uint32) {
	b.memory = &memorySpec{
		importMod:  module,
		importName: name,
		minPages:   minPages,
	}
}

// DefineMemory declares a local memory and exports it under exportName.
func (b *ModuleBuilder) DefineMemory(minPages uint32, exportName string) {
	b.memory = &memorySpec{
		minPages: minPages,
		export:   exportName,
		defined:  true,
	}
}

// AddFunc declares a local function exported under exportName. The body is
// raw instruction bytes without the trailing end opcode; the builder appends
// it along with an empty locals vector. Returns the function index.
func (b *ModuleBuilder) AddFunc(exportName string, params, results []api.ValueType, body []byte) uint32 {
	b.funcs = append(b.funcs, localFunc{
		export:  exportName,
		params:  params,
		results: results,
		body:    body,
	})
	return uint32(len(b.imports) + len(b.funcs) - 1)
}

// AddData declares an active data segment written at offset into memory 0.
func (b *ModuleBuilder) AddData(offset uint32, data []byte) {
	b.data = append(b.data, dataSegment{offset: offset, bytes: data})
}

// Build generates the WASM module bytes.
func (b *ModuleBuilder) Build() []byte {
	var wasm []byte

	// Magic and version
	wasm = append(wasm, 0x00, 0x61, 0x73, 0x6d)
	wasm = append(wasm, 0x01, 0x00, 0x00, 0x00)

	hasFuncs := len(b.imports) > 0 || len(b.funcs) > 0

	if hasFuncs {
		wasm = appendSection(wasm, sectionType, b.buildTypeSection())
	}
	if len(b.imports) > 0 || (b.memory != nil && !b.memory.defined) {
		wasm = appendSection(wasm, sectionImport, b.buildImportSection())
	}
	if len(b.funcs) > 0 {
		wasm = appendSection(wasm, sectionFunction, b.buildFunctionSection())
	}
	if b.memory != nil && b.memory.defined {
		wasm = appendSection(wasm, sectionMemory, b.buildMemorySection())
	}
	if exports := b.buildExportSection(); exports != nil {
		wasm = appendSection(wasm, sectionExport, exports)
	}
	if len(b.funcs) > 0 {
		wasm = appendSection(wasm, sectionCode, b.buildCodeSection())
	}
	if len(b.data) > 0 {
		wasm = appendSection(wasm, sectionData, b.buildDataSection())
	}

	return wasm
}

func appendSection(wasm []byte, id byte, payload []byte) []byte {
	wasm = append(wasm, id)
	wasm = append(wasm, EncodeULEB128(uint32(len(payload)))...)
	return append(wasm, payload...)
}

// One type entry per function, imports first. Duplicate signatures are legal
// and keep type indices equal to function declaration order.
func (b *ModuleBuilder) buildTypeSection() []byte {
	count := len(b.imports) + len(b.funcs)
	section := EncodeULEB128(uint32(count))

	appendType := func(params, results []api.ValueType) {
		section = append(section, 0x60)
		section = append(section, EncodeULEB128(uint32(len(params)))...)
		for _, p := range params {
			section = append(section, ValTypeToWasm(p))
		}
		section = append(section, EncodeULEB128(uint32(len(results)))...)
		for _, r := range results {
			section = append(section, ValTypeToWasm(r))
		}
	}

	for _, imp := range b.imports {
		appendType(imp.params, imp.results)
	}
	for _, fn := range b.funcs {
		appendType(fn.params, fn.results)
	}
	return section
}

func (b *ModuleBuilder) buildImportSection() []byte {
	count := len(b.imports)
	if b.memory != nil && !b.memory.defined {
		count++
	}
	section := EncodeULEB128(uint32(count))

	for i, imp := range b.imports {
		section = appendName(section, imp.module)
		section = appendName(section, imp.name)
		section = append(section, importKindFunc)
		section = append(section, EncodeULEB128(uint32(i))...)
	}

	if b.memory != nil && !b.memory.defined {
		section = appendName(section, b.memory.importMod)
		section = appendName(section, b.memory.importName)
		section = append(section, importKindMemory)
		section = append(section, 0x00) // limits: min only
		section = append(section, EncodeULEB128(b.memory.minPages)...)
	}

	return section
}

func (b *ModuleBuilder) buildFunctionSection() []byte {
	section := EncodeULEB128(uint32(len(b.funcs)))
	for i := range b.funcs {
		section = append(section, EncodeULEB128(uint32(len(b.imports)+i))...)
	}
	return section
}

func (b *ModuleBuilder) buildMemorySection() []byte {
	section := EncodeULEB128(1)
	section = append(section, 0x00) // limits: min only
	section = append(section, EncodeULEB128(b.memory.minPages)...)
	return section
}

func (b *ModuleBuilder) buildExportSection() []byte {
	count := 0
	for _, fn := range b.funcs {
		if fn.export != "" {
			count++
		}
	}
	memExport := b.memory != nil && b.memory.export != ""
	if memExport {
		count++
	}
	if count == 0 {
		return nil
	}

	section := EncodeULEB128(uint32(count))
	for i, fn := range b.funcs {
		if fn.export == "" {
			continue
		}
		section = appendName(section, fn.export)
		section = append(section, exportKindFunc)
		section = append(section, EncodeULEB128(uint32(len(b.imports)+i))...)
	}
	if memExport {
		section = appendName(section, b.memory.export)
		section = append(section, exportKindMemory)
		section = append(section, EncodeULEB128(0)...)
	}
	return section
}

func (b *ModuleBuilder) buildCodeSection() []byte {
	section := EncodeULEB128(uint32(len(b.funcs)))
	for _, fn := range b.funcs {
		var body []byte
		body = append(body, EncodeULEB128(0)...) // no locals
		body = append(body, fn.body...)
		body = append(body, 0x0b) // end

		section = append(section, EncodeULEB128(uint32(len(body)))...)
		section = append(section, body...)
	}
	return section
}

func (b *ModuleBuilder) buildDataSection() []byte {
	section := EncodeULEB128(uint32(len(b.data)))
	for _, seg := range b.data {
		section = append(section, 0x00) // active, memory 0
		section = append(section, 0x41) // i32.const
		section = append(section, EncodeSLEB128(int32(seg.offset))...)
		section = append(section, 0x0b) // end of offset expression
		section = append(section, EncodeULEB128(uint32(len(seg.bytes)))...)
		section = append(section, seg.bytes...)
	}
	return section
}

func appendName(section []byte, name string) []byte {
	section = append(section, EncodeULEB128(uint32(len(name)))...)
	return append(section, []byte(name)...)
}
