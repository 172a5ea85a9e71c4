package guest_test

import (
	"context"
	stderrors "errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tetratelabs/wazero/api"

	"github.com/termhost/termhost/errors"
	"github.com/termhost/termhost/guest"
	"github.com/termhost/termhost/internal/wasmbin"
	"github.com/termhost/termhost/render"
)

// recordingHooks captures everything the guest pushes through the import
// surface.
type recordingHooks struct {
	logs        []string
	logIsError  []bool
	frameSizes  []int
	frameHeads  []string
	elapsed     int32
	elapsedHits int
}

func (h *recordingHooks) LogNormal(text string) {
	h.logs = append(h.logs, text)
	h.logIsError = append(h.logIsError, false)
}

func (h *recordingHooks) LogError(text string) {
	h.logs = append(h.logs, text)
	h.logIsError = append(h.logIsError, true)
}

func (h *recordingHooks) ElapsedMS() int32 {
	h.elapsedHits++
	return h.elapsed
}

func (h *recordingHooks) DrawFrame(pixels []byte) {
	h.frameSizes = append(h.frameSizes, len(pixels))
	n := 5
	if len(pixels) < n {
		n = len(pixels)
	}
	h.frameHeads = append(h.frameHeads, string(pixels[:n]))
}

// fullGuest assembles a module satisfying the whole ABI:
//
//	init  logs logData (normal or error severity), queries the clock and
//	      returns 42
//	step  queries the clock
//	submit_input  calls draw_frame with the key-code argument as offset
func fullGuest(logData []byte, useErrorLog bool) []byte {
	i32 := api.ValueTypeI32
	b := wasmbin.NewModuleBuilder()

	logNormal := b.ImportFunc(guest.HostNamespace, guest.ImportLogNormal, []api.ValueType{i32, i32}, nil)
	logError := b.ImportFunc(guest.HostNamespace, guest.ImportLogError, []api.ValueType{i32, i32}, nil)
	elapsedMS := b.ImportFunc(guest.HostNamespace, guest.ImportElapsedMS, nil, []api.ValueType{i32})
	drawFrame := b.ImportFunc(guest.HostNamespace, guest.ImportDrawFrame, []api.ValueType{i32}, nil)
	b.ImportMemory(guest.MemoryNamespace, guest.MemoryName, 1)
	b.AddData(0, logData)

	logFn := logNormal
	if useErrorLog {
		logFn = logError
	}
	b.AddFunc(guest.ExportInit, []api.ValueType{i32, i32}, []api.ValueType{i32}, wasmbin.Body(
		wasmbin.I32Const(0),
		wasmbin.I32Const(int32(len(logData))),
		wasmbin.Call(logFn),
		wasmbin.Call(elapsedMS),
		wasmbin.Drop(),
		wasmbin.I32Const(42),
	))
	b.AddFunc(guest.ExportStep, nil, nil, wasmbin.Body(
		wasmbin.Call(elapsedMS),
		wasmbin.Drop(),
	))
	b.AddFunc(guest.ExportSubmitInput, []api.ValueType{i32, i32}, nil, wasmbin.Body(
		wasmbin.LocalGet(1),
		wasmbin.Call(drawFrame),
	))

	return b.Build()
}

// testConfig keeps memory large enough for one full frame without paying for
// the default 102 pages in every test.
var testConfig = guest.Config{Pages: 16}

func TestLoad_MalformedModule(t *testing.T) {
	ctx := context.Background()

	_, err := guest.Load(ctx, testConfig, []byte("not wasm at all"), &recordingHooks{})
	require.Error(t, err)
	assert.True(t, stderrors.Is(err, &errors.Error{Phase: errors.PhaseLoad, Kind: errors.KindMalformedModule}))
}

func TestLoad_MissingExport(t *testing.T) {
	ctx := context.Background()
	i32 := api.ValueTypeI32

	// A module with init and step but no submit_input must fail at load,
	// before any loop iteration could run.
	b := wasmbin.NewModuleBuilder()
	b.AddFunc(guest.ExportInit, []api.ValueType{i32, i32}, []api.ValueType{i32},
		wasmbin.Body(wasmbin.I32Const(0)))
	b.AddFunc(guest.ExportStep, nil, nil, nil)

	hooks := &recordingHooks{}
	_, err := guest.Load(ctx, testConfig, b.Build(), hooks)
	require.Error(t, err)
	assert.True(t, stderrors.Is(err, &errors.Error{Phase: errors.PhaseLoad, Kind: errors.KindMissingExport}))
	assert.Contains(t, err.Error(), guest.ExportSubmitInput)
	assert.Empty(t, hooks.logs, "no hook may fire for a rejected module")
}

func TestLoad_WrongSignature(t *testing.T) {
	ctx := context.Background()
	i32 := api.ValueTypeI32

	// init returning nothing violates the contract even though the name
	// matches.
	b := wasmbin.NewModuleBuilder()
	b.AddFunc(guest.ExportInit, []api.ValueType{i32, i32}, nil, nil)
	b.AddFunc(guest.ExportStep, nil, nil, nil)
	b.AddFunc(guest.ExportSubmitInput, []api.ValueType{i32, i32}, nil, nil)

	_, err := guest.Load(ctx, testConfig, b.Build(), &recordingHooks{})
	require.Error(t, err)
	assert.True(t, stderrors.Is(err, &errors.Error{Phase: errors.PhaseLoad, Kind: errors.KindMissingExport}))
}

func TestInit_CallsThroughAndLogs(t *testing.T) {
	ctx := context.Background()
	hooks := &recordingHooks{elapsed: 777}

	g, err := guest.Load(ctx, testConfig, fullGuest([]byte("hello"), false), hooks)
	require.NoError(t, err)
	defer g.Close(ctx)

	status, err := g.Init(ctx, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, int32(42), status)

	require.Len(t, hooks.logs, 1)
	assert.Equal(t, "hello", hooks.logs[0])
	assert.False(t, hooks.logIsError[0])
	assert.Equal(t, 1, hooks.elapsedHits)
}

func TestInit_ErrorSeverity(t *testing.T) {
	ctx := context.Background()
	hooks := &recordingHooks{}

	g, err := guest.Load(ctx, testConfig, fullGuest([]byte("boom"), true), hooks)
	require.NoError(t, err)
	defer g.Close(ctx)

	_, err = g.Init(ctx, 0, 0)
	require.NoError(t, err)

	require.Len(t, hooks.logs, 1)
	assert.Equal(t, "boom", hooks.logs[0])
	assert.True(t, hooks.logIsError[0])
}

func TestLog_InvalidUTF8Placeholder(t *testing.T) {
	ctx := context.Background()
	hooks := &recordingHooks{}

	g, err := guest.Load(ctx, testConfig, fullGuest([]byte{0xff, 0xfe, 0xfd}, false), hooks)
	require.NoError(t, err)
	defer g.Close(ctx)

	_, err = g.Init(ctx, 0, 0)
	require.NoError(t, err)

	require.Len(t, hooks.logs, 1)
	assert.Contains(t, hooks.logs[0], "not valid UTF-8")
	assert.True(t, hooks.logIsError[0], "placeholder must carry error severity")
}

func TestStep_QueriesClock(t *testing.T) {
	ctx := context.Background()
	hooks := &recordingHooks{}

	g, err := guest.Load(ctx, testConfig, fullGuest([]byte("x"), false), hooks)
	require.NoError(t, err)
	defer g.Close(ctx)

	for i := 0; i < 3; i++ {
		require.NoError(t, g.Step(ctx))
	}
	assert.Equal(t, 3, hooks.elapsedHits)
}

func TestDrawFrame_DeliversFullFrame(t *testing.T) {
	ctx := context.Background()
	hooks := &recordingHooks{}

	g, err := guest.Load(ctx, testConfig, fullGuest([]byte("hello"), false), hooks)
	require.NoError(t, err)
	defer g.Close(ctx)

	// The test guest draws at the offset given as the key code.
	require.NoError(t, g.SubmitInput(ctx, 0, 0))

	require.Len(t, hooks.frameSizes, 1)
	assert.Equal(t, render.FrameBytes, hooks.frameSizes[0])
	assert.Equal(t, "hello", hooks.frameHeads[0], "frame must start at the given offset")
}

func TestDrawFrame_OutOfBoundsContained(t *testing.T) {
	ctx := context.Background()
	hooks := &recordingHooks{}

	g, err := guest.Load(ctx, testConfig, fullGuest([]byte("x"), false), hooks)
	require.NoError(t, err)
	defer g.Close(ctx)

	// 16 pages leave no room for a full frame at this offset. The call
	// itself must succeed; the failure surfaces as an error log line and
	// no frame.
	require.NoError(t, g.SubmitInput(ctx, 0, 30000))

	assert.Empty(t, hooks.frameSizes)
	require.NotEmpty(t, hooks.logs)
	last := len(hooks.logs) - 1
	assert.True(t, hooks.logIsError[last])
	assert.Contains(t, hooks.logs[last], "out_of_bounds")
}

func TestMemory_Read(t *testing.T) {
	ctx := context.Background()
	hooks := &recordingHooks{}

	g, err := guest.Load(ctx, testConfig, fullGuest([]byte("hello"), false), hooks)
	require.NoError(t, err)
	defer g.Close(ctx)

	mem := g.Memory()
	size := mem.Size()
	assert.Equal(t, uint32(16*65536), size)

	buf, err := mem.Read(0, 5)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(buf))

	// Whole memory is readable; one byte past is not.
	_, err = mem.Read(0, size)
	require.NoError(t, err)
	_, err = mem.Read(1, size)
	assert.True(t, stderrors.Is(err, &errors.Error{Phase: errors.PhaseMemory, Kind: errors.KindOutOfBounds}))

	// Hostile extremes must error, never panic or wrap around.
	_, err = mem.Read(size-1, 2)
	require.Error(t, err)
	_, err = mem.Read(4294967295, 4294967295)
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "out_of_bounds"))
}

func TestLoad_DefaultPages(t *testing.T) {
	ctx := context.Background()
	hooks := &recordingHooks{}

	g, err := guest.Load(ctx, guest.Config{}, fullGuest([]byte("x"), false), hooks)
	require.NoError(t, err)
	defer g.Close(ctx)

	assert.Equal(t, uint32(guest.DefaultMemoryPages*65536), g.Memory().Size())
}
