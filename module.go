package jitmem

import (
	"github.com/pkg/errors"
	"unsafe"
)

// FuncAlign is the entry alignment DefineFunction uses, matching what the
// Go toolchain requires of function entry points on amd64 and arm64.
const FuncAlign = 16

const dataAlign = 8

// Recoverable validation failures returned by the Define calls.
var (
	ErrDuplicateSymbol = errors.New("symbol already defined")
	ErrEmptyDefinition = errors.New("definition needs a name and at least one byte")
	ErrUnloaded        = errors.New("code module has been unloaded")
)

// CodeModule is the consumer-facing surface a code generator drives: named
// machine-code and data definitions backed by three pools. Function code
// becomes read+execute at Finalize, read-only data becomes read-only at
// Finalize, and writable data stays read+write for the module's lifetime.
//
// Like Memory, a CodeModule has a single owner and is not safe for
// concurrent use.
type CodeModule struct {
	code   *Memory
	rodata *Memory
	data   *Memory

	syms  map[string]uintptr
	funcs []string // function names in define order
}

// NewCodeModule returns an empty module. Options apply to the code pool;
// the data pools share its logger.
func NewCodeModule(opts ...Option) *CodeModule {
	code := New(opts...)
	shared := WithLogger(code.log)
	return &CodeModule{
		code:   code,
		rodata: New(shared, WithoutExecute()),
		data:   New(shared, WithoutExecute()),
		syms:   make(map[string]uintptr),
	}
}

func (m *CodeModule) define(pool *Memory, name string, payload []byte, align int) (uintptr, error) {
	if m.syms == nil {
		return 0, errors.Wrapf(ErrUnloaded, "define %q", name)
	}
	if name == "" || len(payload) == 0 {
		return 0, errors.Wrapf(ErrEmptyDefinition, "define %q", name)
	}
	if _, ok := m.syms[name]; ok {
		return 0, errors.Wrapf(ErrDuplicateSymbol, "define %q", name)
	}
	buf, err := pool.Allocate(len(payload), align)
	if err != nil {
		return 0, err
	}
	copy(buf, payload)
	addr := uintptr(unsafe.Pointer(&buf[0]))
	m.syms[name] = addr
	return addr, nil
}

// DefineFunction copies finished machine code into the code pool at
// FuncAlign and records its entry address under name. The bytes must be
// position independent and final: there is no relocation or later patching,
// and the code must not be called until Finalize has run.
func (m *CodeModule) DefineFunction(name string, code []byte) (uintptr, error) {
	return m.DefineFunctionAlign(name, code, FuncAlign)
}

// DefineFunctionAlign is DefineFunction with an explicit entry alignment,
// a power of two between 1 and 128.
func (m *CodeModule) DefineFunctionAlign(name string, code []byte, align int) (uintptr, error) {
	addr, err := m.define(m.code, name, code, align)
	if err != nil {
		return 0, err
	}
	m.funcs = append(m.funcs, name)
	return addr, nil
}

// DefineData copies a named blob into a data pool. With writable false the
// blob is frozen to read-only by the next Finalize; with writable true it
// stays read+write until the module is unloaded.
func (m *CodeModule) DefineData(name string, data []byte, writable bool) (uintptr, error) {
	pool := m.rodata
	if writable {
		pool = m.data
	}
	return m.define(pool, name, data, dataAlign)
}

// Finalize flips everything defined so far into its resting protection
// state: function code to read+execute, read-only data to read-only.
// Nothing defined on the module may run before Finalize. Defining more
// symbols afterwards is allowed; a later Finalize only touches regions the
// earlier one did not cover.
func (m *CodeModule) Finalize() {
	if m.syms == nil {
		return
	}
	m.code.SetReadableAndExecutable()
	m.rodata.SetReadonly()
}

// Freeze flips every pool, writable data included, to read-only. Finalized
// code regions sit below their pool's watermark and keep read+execute; code
// defined after the last Finalize becomes read-only and can never run. A
// frozen module still serves Lookup and can be unloaded.
func (m *CodeModule) Freeze() {
	if m.syms == nil {
		return
	}
	m.code.SetReadonly()
	m.rodata.SetReadonly()
	m.data.SetReadonly()
}

// Lookup returns the address recorded for a defined symbol.
func (m *CodeModule) Lookup(name string) (uintptr, bool) {
	addr, ok := m.syms[name]
	return addr, ok
}

// Functions lists the defined function names in define order.
func (m *CodeModule) Functions() []string {
	return append([]string(nil), m.funcs...)
}

// Unload releases every pool. The module must not be used afterwards and no
// address obtained from it may be dereferenced; Define calls on an unloaded
// module fail with ErrUnloaded.
func (m *CodeModule) Unload() {
	m.code.Free()
	m.rodata.Free()
	m.data.Free()
	m.syms = nil
	m.funcs = nil
}
