package guest

import (
	"context"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"go.uber.org/zap"

	"github.com/termhost/termhost/errors"
	"github.com/termhost/termhost/internal/wasmbin"
)

// Namespaces and names of the guest ABI. Memory lives in its own namespace
// because it must come from a real module instance, while the callbacks come
// from a host module; wazero host modules cannot export memory.
const (
	MemoryNamespace = "env"
	MemoryName      = "memory"
	HostNamespace   = "host"

	ExportInit        = "init"
	ExportStep        = "step"
	ExportSubmitInput = "submit_input"

	// DefaultMemoryPages sizes the linear memory at 102 pages of 64 KiB,
	// enough for a full framebuffer plus game state.
	DefaultMemoryPages = 102
)

// Config controls guest instantiation.
type Config struct {
	// Pages is the size of the host-provided linear memory in 64 KiB
	// pages. Zero selects DefaultMemoryPages.
	Pages uint32
}

// Guest is an instantiated game module with its typed entry points resolved.
type Guest struct {
	runtime  wazero.Runtime
	module   api.Module
	memory   *Memory
	initFn   api.Function
	stepFn   api.Function
	submitFn api.Function
}

// Load compiles and instantiates the guest module.
//
// It fails before anything runs when the bytecode is malformed, a required
// export is missing or mis-typed, or instantiation cannot resolve the host
// imports. On success the full call contract is in place; no partial guest
// is ever returned.
func Load(ctx context.Context, cfg Config, wasmBytes []byte, hooks Hooks) (*Guest, error) {
	pages := cfg.Pages
	if pages == 0 {
		pages = DefaultMemoryPages
	}

	rt := wazero.NewRuntime(ctx)

	compiled, err := rt.CompileModule(ctx, wasmBytes)
	if err != nil {
		rt.Close(ctx)
		return nil, errors.MalformedModule(err)
	}

	if err := validateExports(compiled); err != nil {
		rt.Close(ctx)
		return nil, err
	}

	// The env module exists solely to own the linear memory the guest
	// imports.
	envBuilder := wasmbin.NewModuleBuilder()
	envBuilder.DefineMemory(pages, MemoryName)
	envMod, err := rt.InstantiateWithConfig(ctx, envBuilder.Build(),
		wazero.NewModuleConfig().WithName(MemoryNamespace))
	if err != nil {
		rt.Close(ctx)
		return nil, errors.Instantiation("memory module", err)
	}
	memory := &Memory{mem: envMod.ExportedMemory(MemoryName)}

	if err := registerHost(ctx, rt, memory, hooks); err != nil {
		rt.Close(ctx)
		return nil, err
	}

	module, err := rt.InstantiateModule(ctx, compiled, wazero.NewModuleConfig().WithName("guest"))
	if err != nil {
		rt.Close(ctx)
		return nil, errors.Instantiation("guest module", err)
	}

	Logger().Info("guest module loaded",
		zap.Int("module_bytes", len(wasmBytes)),
		zap.Uint32("memory_pages", pages))

	return &Guest{
		runtime:  rt,
		module:   module,
		memory:   memory,
		initFn:   module.ExportedFunction(ExportInit),
		stepFn:   module.ExportedFunction(ExportStep),
		submitFn: module.ExportedFunction(ExportSubmitInput),
	}, nil
}

// Init invokes the guest's initialization entry point. Called exactly once,
// before the first Step.
func (g *Guest) Init(ctx context.Context, arg0, arg1 int32) (int32, error) {
	results, err := g.initFn.Call(ctx, api.EncodeI32(arg0), api.EncodeI32(arg1))
	if err != nil {
		return 0, errors.GuestCall(ExportInit, err)
	}
	return api.DecodeI32(results[0]), nil
}

// Step advances the guest's internal clock by at most one tick. The guest
// self-paces: calling faster than its tick is a no-op, so the loop may call
// this every iteration.
func (g *Guest) Step(ctx context.Context) error {
	if _, err := g.stepFn.Call(ctx); err != nil {
		return errors.GuestCall(ExportStep, err)
	}
	return nil
}

// SubmitInput forwards one translated key event to the guest.
func (g *Guest) SubmitInput(ctx context.Context, kind, code int32) error {
	if _, err := g.submitFn.Call(ctx, api.EncodeI32(kind), api.EncodeI32(code)); err != nil {
		return errors.GuestCall(ExportSubmitInput, err)
	}
	return nil
}

// Memory returns the bounds-checked accessor for the shared linear memory.
func (g *Guest) Memory() *Memory {
	return g.memory
}

// Close releases the runtime and all instances.
func (g *Guest) Close(ctx context.Context) error {
	return g.runtime.Close(ctx)
}

// validateExports checks the full export contract up front so a guest that
// cannot satisfy it never runs.
func validateExports(compiled wazero.CompiledModule) error {
	i32 := api.ValueTypeI32
	required := []struct {
		name    string
		params  []api.ValueType
		results []api.ValueType
	}{
		{ExportInit, []api.ValueType{i32, i32}, []api.ValueType{i32}},
		{ExportStep, nil, nil},
		{ExportSubmitInput, []api.ValueType{i32, i32}, nil},
	}

	defs := compiled.ExportedFunctions()
	for _, req := range required {
		def, ok := defs[req.name]
		if !ok {
			return errors.MissingExport(req.name, "not found")
		}
		if !equalValueTypes(def.ParamTypes(), req.params) ||
			!equalValueTypes(def.ResultTypes(), req.results) {
			return errors.MissingExport(req.name, "has the wrong signature")
		}
	}
	return nil
}

func equalValueTypes(got, want []api.ValueType) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		if got[i] != want[i] {
			return false
		}
	}
	return true
}
