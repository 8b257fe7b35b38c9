// Package jitmem manages the memory behind just-in-time generated code. It
// hands page-backed, alignment-correct byte ranges to a code generator and
// later flips them between writable and executable protection states, so
// that no byte it owns is ever writable and executable at the same time.
package jitmem

import (
	"github.com/eh-steve/jitmem/mmap"
	"github.com/eh-steve/jitmem/mprotect"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"math"
)

// Alignment limits for a single allocation request.
const (
	MinAlign = 1
	MaxAlign = 128
)

// Recoverable validation failures returned by Allocate.
var (
	ErrBadAlign = errors.New("alignment must be a power of two between 1 and 128")
	ErrBadSize  = errors.New("size must be non-negative and must not overflow the pool")
)

// Memory is a bump allocator over page-backed regions paired with a
// protection controller that can flip everything it ever handed out to
// read+execute or read-only.
//
// Allocations are served from a current region by advancing an offset; a
// request that does not fit retires the current region and reserves a fresh
// one sized to that request, so a single allocation never spans two
// regions. Protection transitions cover every region up to the moment of
// the call and remember a watermark, leaving regions flipped by an earlier
// call untouched.
//
// The zero Memory is an empty code pool with no logger. Memory is not safe
// for concurrent use: every instance has a single owner that serializes
// Allocate and the protection calls.
type Memory struct {
	log *zap.SugaredLogger

	// data pools hold bytes that are never meant to execute.
	data bool

	regions    []region // retired regions, in allocation order
	current    region
	position   int // bump offset into the current region
	executable int // watermark: regions below this index have been transitioned
	used       int // bytes handed out to allocations
}

// Option configures a Memory pool or a CodeModule.
type Option func(*Memory)

// WithLogger attaches a logger for allocation events and for the fatal
// reports written when a protection change or release fails. Without one
// the pool is silent until it has to abort.
func WithLogger(log *zap.SugaredLogger) Option {
	return func(m *Memory) {
		m.log = log
	}
}

// WithoutExecute marks the pool as data-only. Its regions are reserved
// through the data mapping path and are expected to transition to read-only
// at most, never to read+execute.
func WithoutExecute() Option {
	return func(m *Memory) {
		m.data = true
	}
}

// New returns an empty pool. No memory is reserved until the first
// allocation that needs it.
func New(opts ...Option) *Memory {
	m := &Memory{}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Memory) logger() *zap.SugaredLogger {
	if m.log == nil {
		return zap.NewNop().Sugar()
	}
	return m.log
}

func (m *Memory) reserve(size int) ([]byte, error) {
	if m.data {
		return mmap.ReserveCommitData(size)
	}
	return mmap.ReserveCommit(size)
}

// Allocate returns size bytes aligned to align (a power of two between 1
// and 128). The returned slice aliases the pool's current region and stays
// writable until the next protection transition covers it; it is never
// split across two regions. When the request does not fit in the current
// region, the current region is retired as is and a fresh one sized to
// exactly this request is reserved, at the cost of one OS call.
//
// Allocation failures are returned and leave the pool usable. A retirement
// performed before a failed reservation stays visible.
func (m *Memory) Allocate(size, align int) ([]byte, error) {
	if size < 0 || size > math.MaxInt-(MaxAlign+mmap.PageSize()) {
		return nil, errors.Wrapf(ErrBadSize, "size %d", size)
	}
	if align < MinAlign || align > MaxAlign || align&(align-1) != 0 {
		return nil, errors.Wrapf(ErrBadAlign, "align %d", align)
	}
	if size == 0 && m.current.empty() {
		return []byte{}, nil
	}

	// Advance the bump offset to the next multiple of align. The padding is
	// only committed when the request fits; it is never handed out.
	position := m.position
	if rem := position & (align - 1); rem != 0 {
		position += align - rem
	}

	// Fast path: the request fits behind the bump offset. No syscall.
	if size <= len(m.current.buf)-position {
		b := m.current.buf[position : position+size : position+size]
		m.position = position + size
		m.used += size
		return b, nil
	}

	// Zero-size requests need no region of their own.
	if size == 0 {
		return []byte{}, nil
	}

	m.retire()
	buf, err := m.reserve(size)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot reserve %d bytes", size)
	}
	m.current = region{buf: buf}
	m.position = size
	m.used += size
	m.logger().Debugw("reserved region",
		"addr", m.current.addr(), "len", len(buf), "request", size)
	return buf[:size:size], nil
}

// retire moves the current region, even an empty sentinel, to the end of
// the retired list so the next protection transition covers it.
func (m *Memory) retire() {
	m.regions = append(m.regions, m.current)
	m.current = region{}
	m.position = 0
}

// SetReadableAndExecutable retires the current region, then flips every
// region not covered by an earlier transition to read+execute. It must be
// called after the generator finishes writing code and before any of that
// code runs. Repeated calls are idempotent: regions below the watermark are
// never touched again, so only regions allocated since the previous
// transition change state.
func (m *Memory) SetReadableAndExecutable() {
	m.transition("read+execute", func(b []byte) error {
		if err := mprotect.MakeReadExecute(b); err != nil {
			return err
		}
		mmap.FlushInstructionCache(b)
		return nil
	})
}

// SetReadonly is SetReadableAndExecutable with read-only as the target
// state. It advances the same watermark, so a region is only ever flipped
// by whichever transition call first covers it.
func (m *Memory) SetReadonly() {
	m.transition("read-only", mprotect.MakeReadOnly)
}

func (m *Memory) transition(target string, protect func([]byte) error) {
	m.retire()
	for _, r := range m.regions[m.executable:] {
		if r.empty() {
			continue
		}
		if err := protect(r.buf); err != nil {
			// A region the pool owns refused a protection change: the
			// bookkeeping no longer matches the page table, and neither
			// writing nor executing through it is safe anymore.
			m.logger().Fatalw("cannot change region protection",
				"target", target, "addr", r.addr(), "len", len(r.buf), "error", err)
		}
	}
	m.executable = len(m.regions)
}

// Free releases every region in the pool, current included, resetting each
// to read+write first so the OS takes the pages back in a consistent
// state. The pool is empty but reusable afterwards. No pointer obtained
// from the pool may be used once Free has run.
func (m *Memory) Free() {
	log := m.logger()
	for _, r := range m.regions {
		r.release(log)
	}
	m.current.release(log)
	m.regions = nil
	m.current = region{}
	m.position = 0
	m.executable = 0
	m.used = 0
}

// Stats is a point-in-time snapshot of a pool, taken without locking under
// the single-owner rule.
type Stats struct {
	Regions   int // non-empty regions owned, current included
	Protected int // non-empty regions already covered by a transition
	Reserved  int // bytes of page-backed memory owned
	Used      int // bytes handed out to allocations
}

// Stats reports the pool's current footprint.
func (m *Memory) Stats() Stats {
	s := Stats{Used: m.used}
	for i, r := range m.regions {
		if r.empty() {
			continue
		}
		s.Regions++
		s.Reserved += len(r.buf)
		if i < m.executable {
			s.Protected++
		}
	}
	if !m.current.empty() {
		s.Regions++
		s.Reserved += len(m.current.buf)
	}
	return s
}
