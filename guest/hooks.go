package guest

import (
	"context"
	"unicode/utf8"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"go.uber.org/zap"

	"github.com/termhost/termhost/errors"
	"github.com/termhost/termhost/render"
)

// Import names under HostNamespace.
const (
	ImportLogNormal = "log_normal"
	ImportLogError  = "log_error"
	ImportElapsedMS = "elapsed_ms"
	ImportDrawFrame = "draw_frame"
)

// Placeholder log lines substituted when the guest hands us garbage. A guest
// producing bad diagnostics must never take down the session.
const (
	logPlaceholderOOB  = "<guest log line outside memory bounds>"
	logPlaceholderUTF8 = "<guest log line is not valid UTF-8>"
)

// Hooks is the host side of the guest's import contract. Implementations
// receive validated data only: log text is valid UTF-8 (or a placeholder)
// and DrawFrame pixels are exactly one full frame.
//
// The guest invokes these reentrantly, mid-Step, on the same goroutine that
// called into it; implementations may freely mutate the state the caller
// owns.
type Hooks interface {
	// LogNormal records text as the current log line at normal severity.
	LogNormal(text string)
	// LogError records text as the current log line at error severity.
	LogError(text string)
	// ElapsedMS returns milliseconds since process start, the guest's
	// only clock source.
	ElapsedMS() int32
	// DrawFrame receives one complete raw frame. The slice is a view into
	// guest memory, valid only for the duration of the call.
	DrawFrame(pixels []byte)
}

// registerHost instantiates the host module providing the guest's callback
// imports. Every guest-supplied offset and length is routed through mem;
// failures are contained here and surfaced via the hooks.
func registerHost(ctx context.Context, rt wazero.Runtime, mem *Memory, hooks Hooks) error {
	i32 := api.ValueTypeI32

	_, err := rt.NewHostModuleBuilder(HostNamespace).
		NewFunctionBuilder().
		WithGoModuleFunction(api.GoModuleFunc(func(_ context.Context, _ api.Module, stack []uint64) {
			logText(mem, hooks, api.DecodeI32(stack[0]), api.DecodeI32(stack[1]), false)
		}), []api.ValueType{i32, i32}, nil).
		Export(ImportLogNormal).
		NewFunctionBuilder().
		WithGoModuleFunction(api.GoModuleFunc(func(_ context.Context, _ api.Module, stack []uint64) {
			logText(mem, hooks, api.DecodeI32(stack[0]), api.DecodeI32(stack[1]), true)
		}), []api.ValueType{i32, i32}, nil).
		Export(ImportLogError).
		NewFunctionBuilder().
		WithGoModuleFunction(api.GoModuleFunc(func(_ context.Context, _ api.Module, stack []uint64) {
			stack[0] = api.EncodeI32(hooks.ElapsedMS())
		}), nil, []api.ValueType{i32}).
		Export(ImportElapsedMS).
		NewFunctionBuilder().
		WithGoModuleFunction(api.GoModuleFunc(func(_ context.Context, _ api.Module, stack []uint64) {
			drawFrame(mem, hooks, api.DecodeI32(stack[0]))
		}), []api.ValueType{i32}, nil).
		Export(ImportDrawFrame).
		Instantiate(ctx)
	if err != nil {
		return errors.Instantiation("host module", err)
	}
	return nil
}

// logText decodes a guest log line. Out-of-bounds regions and invalid text
// degrade to a placeholder at error severity instead of failing the call.
func logText(mem *Memory, hooks Hooks, offset, length int32, isError bool) {
	buf, err := mem.Read(uint32(offset), uint32(length))
	if err != nil {
		Logger().Warn("guest log rejected", zap.Error(err))
		hooks.LogError(logPlaceholderOOB)
		return
	}
	if !utf8.Valid(buf) {
		Logger().Warn("guest log rejected",
			zap.Error(errors.InvalidUTF8(len(buf))))
		hooks.LogError(logPlaceholderUTF8)
		return
	}

	text := string(buf)
	if isError {
		hooks.LogError(text)
	} else {
		hooks.LogNormal(text)
	}
}

// drawFrame reads exactly one frame at the guest-supplied offset. A region
// that does not fit in memory fails this frame only: the error becomes the
// current log line and the previous frame stays on screen.
func drawFrame(mem *Memory, hooks Hooks, offset int32) {
	buf, err := mem.Read(uint32(offset), render.FrameBytes)
	if err != nil {
		Logger().Warn("guest frame rejected", zap.Error(err))
		hooks.LogError(err.Error())
		return
	}
	hooks.DrawFrame(buf)
}
