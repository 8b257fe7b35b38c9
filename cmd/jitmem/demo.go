package main

import (
	"fmt"
	"runtime"
	"unsafe"

	"github.com/eh-steve/jitmem"
	"github.com/eh-steve/jitmem/jitcall"
	"github.com/eh-steve/jitmem/mmap"
	"github.com/eh-steve/jitmem/procmaps"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// return42 holds machine code for a niladic function returning 42 in the
// first integer result register.
var return42 = map[string][]byte{
	"amd64": {0xb8, 0x2a, 0x00, 0x00, 0x00, 0xc3},
	"arm64": {0x40, 0x05, 0x80, 0xd2, 0xc0, 0x03, 0x5f, 0xd6},
}

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "walk one allocate, protect, execute, free cycle and narrate it",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return demo()
	},
}

func init() {
	rootCmd.AddCommand(demoCmd)
}

func addrOf(b []byte) uintptr {
	return uintptr(unsafe.Pointer(&b[0]))
}

func demo() error {
	m := jitmem.New(jitmem.WithLogger(logger))
	defer m.Free()

	small, err := m.Allocate(10, 8)
	if err != nil {
		return err
	}
	fmt.Printf("allocated %d bytes at %#x (page size %d)\n", len(small), addrOf(small), mmap.PageSize())

	// Larger than what is left of the first region on common page sizes,
	// so this usually shows the allocator rolling over to a fresh region.
	big, err := m.Allocate(5000, 8)
	if err != nil {
		return err
	}
	fmt.Printf("allocated %d bytes at %#x\n", len(big), addrOf(big))

	code, native := return42[runtime.GOARCH]
	copy(small, code)
	for i := range big {
		big[i] = 0xcc
	}

	m.SetReadableAndExecutable()
	fmt.Println("flipped all regions to read+execute")

	if native && jitcall.Supported() {
		result := jitcall.Func0(addrOf(small))()
		fmt.Printf("executed code at %#x: returned %d\n", addrOf(small), result)
	} else {
		fmt.Printf("no embedded code for %s, skipping execution\n", runtime.GOARCH)
	}

	st := m.Stats()
	fmt.Printf("stats: regions=%d reserved=%d used=%d\n", st.Regions, st.Reserved, st.Used)

	maps, err := procmaps.Self()
	switch {
	case err == nil:
		for _, b := range [][]byte{small, big} {
			if mp, ok := procmaps.Find(maps, addrOf(b)); ok {
				fmt.Printf("os mapping %#x-%#x %s\n", mp.Start, mp.End, mp.Perms())
			}
		}
	case errors.Is(err, procmaps.ErrNotSupported):
		fmt.Println("os mapping report not available on this platform")
	default:
		return err
	}

	return nil
}
