package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"unicode"
	"unicode/utf8"

	"github.com/fsnotify/fsnotify"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/mapweave/mapweave"
	"github.com/mapweave/mapweave/builder"
	"github.com/mapweave/mapweave/sourcemap"
)

type reflowOptions struct {
	output string
	width  int
	inline bool
	watch  bool
}

// reflowCmd re-wraps the words of each input file to a fixed number of words
// per line and emits a source map tracing every word back to its byte range
// in the input. It exists to exercise and demonstrate the library end to
// end, not to be a useful text formatter.
func reflowCmd() *cobra.Command {
	opts := &reflowOptions{}
	cmd := &cobra.Command{
		Use:   "reflow FILE...",
		Short: "re-wrap words of the inputs, emitting output and source map",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.output != "" && len(args) > 1 {
				return fmt.Errorf("--output can only be used with a single input")
			}
			s := &reflowSession{
				fs:   afero.NewOsFs(),
				reg:  mapweave.NewRegistry(),
				opts: opts,
			}
			if err := s.buildAll(args); err != nil {
				return err
			}
			if opts.watch {
				return s.watch(args)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output path (single input only)")
	cmd.Flags().IntVar(&opts.width, "width", 5, "words per output line")
	cmd.Flags().BoolVar(&opts.inline, "inline", false, "embed the map as a base64 data URI instead of a .map file")
	cmd.Flags().BoolVarP(&opts.watch, "watch", "w", false, "rebuild whenever an input changes")
	return cmd
}

type reflowSession struct {
	fs   afero.Fs
	reg  *mapweave.Registry
	opts *reflowOptions
}

func (s *reflowSession) buildAll(inputs []string) error {
	var group errgroup.Group
	for _, input := range inputs {
		input := input
		group.Go(func() error { return s.build(input) })
	}
	return group.Wait()
}

func (s *reflowSession) build(input string) error {
	data, err := afero.ReadFile(s.fs, input)
	if err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}

	// Re-registering after a change keeps the id stable and swaps content.
	var id mapweave.SourceID
	if existing, ok := s.reg.Lookup(input); ok {
		id = existing
		s.reg.Update(id, string(data))
	} else {
		id = s.reg.RegisterContent(input, string(data))
	}
	log.Debugf("registered %q as %v", input, id)

	out, set := reflow(string(data), id, s.opts.width)

	outPath := s.opts.output
	if outPath == "" {
		outPath = input + ".out"
	}
	mapPath := outPath + ".map"

	m, err := sourcemap.Encode(set, s.reg, sourcemap.Options{
		File:           filepath.Base(outPath),
		IncludeContent: true,
	})
	if err != nil {
		// Content was registered eagerly, so this only fires for degraded
		// sourcesContent entries; the map itself is still valid.
		log.Warnf("source map for %q is degraded: %s", outPath, err)
	}

	if s.opts.inline {
		out, err = sourcemap.AppendInline(out, m)
		if err != nil {
			return fmt.Errorf("failed to inline source map: %w", err)
		}
	} else {
		out += fmt.Sprintf("//# sourceMappingURL=%s\n", filepath.Base(mapPath))
		f, err := s.fs.Create(mapPath)
		if err != nil {
			return fmt.Errorf("failed to create map file: %w", err)
		}
		if err := m.WriteTo(f); err != nil {
			f.Close()
			return fmt.Errorf("failed to write map file: %w", err)
		}
		if err := f.Close(); err != nil {
			return err
		}
	}

	if err := afero.WriteFile(s.fs, outPath, []byte(out), 0o644); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	log.Infof("wrote %s (%d mappings)", outPath, len(set.Entries))
	return nil
}

func (s *reflowSession) watch(inputs []string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}
	defer watcher.Close()
	for _, input := range inputs {
		if err := watcher.Add(input); err != nil {
			return fmt.Errorf("failed to watch %q: %w", input, err)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	log.Info("watching for changes, interrupt to stop")
	for {
		select {
		case <-ctx.Done():
			return nil
		case err := <-watcher.Errors:
			log.Errorf("watch error: %s", err)
		case ev := <-watcher.Events:
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			log.Debugf("%s changed", ev.Name)
			if err := s.build(ev.Name); err != nil {
				log.Errorf("rebuild of %q failed: %s", ev.Name, err)
			}
			// Editors that replace the file drop the watch with it.
			watcher.Add(ev.Name)
		}
	}
}

// reflow splits text into whitespace-separated words and joins them back
// width per line, mapping each word to its original byte range.
func reflow(text string, id mapweave.SourceID, width int) (string, *builder.MappingSet) {
	b := builder.New()
	words := 0
	for i := 0; i < len(text); {
		r, size := utf8.DecodeRuneInString(text[i:])
		if unicode.IsSpace(r) {
			i += size
			continue
		}
		start := i
		for i < len(text) {
			r, size := utf8.DecodeRuneInString(text[i:])
			if unicode.IsSpace(r) {
				break
			}
			i += size
		}
		if words > 0 {
			if words%width == 0 {
				b.WriteString("\n")
			} else {
				b.WriteString(" ")
			}
		}
		b.WriteSpan(text[start:i], mapweave.NewSpan(id, uint32(start), uint32(i)))
		words++
	}
	if words > 0 {
		b.WriteString("\n")
	}
	return b.Finish()
}
