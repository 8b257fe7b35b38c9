package main

import (
	"fmt"
	"runtime"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/eh-steve/jitmem"
	"github.com/eh-steve/jitmem/hexfile"
	"github.com/eh-steve/jitmem/jitcall"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var freeze bool

var runCmd = &cobra.Command{
	Use:   "run <image|pattern>...",
	Short: "load hex code images and execute the ones built for this architecture",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		paths, err := expand(args)
		if err != nil {
			return err
		}
		return runImages(paths)
	},
}

func init() {
	runCmd.Flags().BoolVar(&freeze, "freeze", false, "flip every pool to read-only after the run")
	rootCmd.AddCommand(runCmd)
}

// expand resolves doublestar patterns into a deduplicated path list,
// keeping the argument order. An argument matching nothing passes through
// untouched, so a missing file still errors loudly at parse time.
func expand(args []string) ([]string, error) {
	var paths []string
	seen := map[string]bool{}
	for _, arg := range args {
		matches, err := doublestar.FilepathGlob(arg)
		if err != nil {
			return nil, errors.Wrapf(err, "bad pattern %q", arg)
		}
		if len(matches) == 0 {
			matches = []string{arg}
		}
		sort.Strings(matches)
		for _, m := range matches {
			if !seen[m] {
				seen[m] = true
				paths = append(paths, m)
			}
		}
	}
	return paths, nil
}

func runImages(paths []string) error {
	mod := jitmem.NewCodeModule(jitmem.WithLogger(logger))
	defer mod.Unload()

	type loaded struct {
		name  string
		entry uintptr
	}
	var runnable []loaded
	for _, path := range paths {
		img, err := hexfile.ParseFile(path)
		if err != nil {
			return err
		}
		align := img.Align
		if align == 0 {
			align = cfg.Run.Align
		}
		entry, err := mod.DefineFunctionAlign(img.Name, img.Code, align)
		if err != nil {
			return errors.Wrapf(err, "load %s", path)
		}
		logger.Infow("defined image",
			"name", img.Name, "bytes", len(img.Code), "align", align, "entry", fmt.Sprintf("%#x", entry))
		if img.Arch != "" && img.Arch != runtime.GOARCH {
			logger.Infow("skipping execution", "name", img.Name, "arch", img.Arch)
			continue
		}
		runnable = append(runnable, loaded{name: img.Name, entry: entry})
	}

	mod.Finalize()

	if len(runnable) > 0 && !jitcall.Supported() {
		return errors.Errorf("cannot execute generated code on %s", runtime.GOARCH)
	}
	for _, l := range runnable {
		result := jitcall.Func0(l.entry)()
		fmt.Printf("%s() = %d\n", l.name, result)
	}

	if freeze || cfg.Run.Freeze {
		mod.Freeze()
		logger.Infow("froze module pools")
	}
	return nil
}
