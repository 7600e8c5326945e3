package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/TimelordUK/mfold/internal/export"
	"github.com/TimelordUK/mfold/internal/fold"
	"github.com/TimelordUK/mfold/internal/foldstate"
	"github.com/TimelordUK/mfold/internal/indent"
	"github.com/TimelordUK/mfold/internal/logging"
	"github.com/TimelordUK/mfold/internal/source"
)

// session is a file opened for a single headless command
type session struct {
	src      *source.FileSource
	doc      *indent.Document
	editor   *foldstate.Editor
	commands *fold.Commands
	log      *zap.Logger
}

func openSession(opts *options, path string) (*session, error) {
	cfg, err := loadConfig(opts)
	if err != nil {
		return nil, err
	}

	level := opts.logLevel
	if level == "" {
		level = "warn"
	}
	logger, err := logging.NewConsole(level)
	if err != nil {
		return nil, err
	}

	src, err := source.NewFileSource(path)
	if err != nil {
		return nil, err
	}
	texts, err := src.Texts()
	if err != nil {
		src.Close()
		return nil, err
	}
	doc, err := indent.NewDocument(texts, cfg.Display.TabWidth)
	if err != nil {
		src.Close()
		return nil, err
	}

	editor := foldstate.NewEditor(doc)
	return &session{
		src:      src,
		doc:      doc,
		editor:   editor,
		commands: fold.New(editor, logger),
		log:      logger,
	}, nil
}

func (s *session) Close() error {
	logging.Sync(s.log)
	return s.src.Close()
}

// outline writes the lines left visible by the current folds
func (s *session) outline(w io.Writer, markers bool) error {
	provider := source.NewFoldedProvider(s.src, s.editor.State())
	_, err := export.NewExporter().WithMarkers(markers).Write(w, provider)
	return err
}

// outlineFlags are shared by commands that print a folded outline
type outlineFlags struct {
	output    string
	noMarkers bool
}

func (f *outlineFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "write the outline to a file instead of stdout")
	cmd.Flags().BoolVar(&f.noMarkers, "no-markers", false, "omit the hidden line count after folded headers")
}

func (f *outlineFlags) write(cmd *cobra.Command, s *session) error {
	if f.output == "" {
		return s.outline(cmd.OutOrStdout(), !f.noMarkers)
	}

	file, err := os.Create(f.output)
	if err != nil {
		return err
	}
	if err := s.outline(file, !f.noMarkers); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

// toIndices converts 1-based line numbers from the command line
func toIndices(lines []int) []int {
	out := make([]int, len(lines))
	for i, n := range lines {
		out[i] = n - 1
	}
	return out
}

func newLevelsCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "levels <file>",
		Short: "Print the level and folding region of every line",
		Long: `Print one row per line: line number, indentation level, the folding
region the line heads (or "-"), and the text.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(opts, args[0])
			if err != nil {
				return err
			}
			defer s.Close()
			return printLevels(cmd.OutOrStdout(), s.doc)
		},
	}
}

func printLevels(w io.Writer, doc *indent.Document) error {
	width := len(fmt.Sprint(doc.Len()))
	for _, line := range doc.Lines() {
		level, err := doc.LevelOf(line.Index)
		if err != nil {
			return err
		}
		region := "-"
		if foldable, _ := doc.IsFoldable(line.Index); foldable {
			r, err := doc.FoldingRegionOf(line.Index)
			if err != nil {
				return err
			}
			region = fmt.Sprintf("%d-%d", r.Start+1, r.End+1)
		}
		if _, err := fmt.Fprintf(w, "%*d %3d %-*s %s\n", width, line.Index+1, level, 2*width+1, region, line.Text); err != nil {
			return err
		}
	}
	return nil
}

func newChildrenCmd(opts *options) *cobra.Command {
	var line int
	cmd := &cobra.Command{
		Use:   "children <file>",
		Short: "Print the lines one level below a line",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(opts, args[0])
			if err != nil {
				return err
			}
			defer s.Close()

			children, err := s.doc.ChildRegionLines(line - 1)
			if err != nil {
				return err
			}
			for child := range children {
				text, _ := s.doc.Line(child)
				fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\n", child+1, text.Text)
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&line, "line", "l", 1, "line number")
	return cmd
}

func newFoldCmd(opts *options) *cobra.Command {
	var lines []int
	var out outlineFlags
	cmd := &cobra.Command{
		Use:   "fold <file>",
		Short: "Fold the given lines and print the outline",
		Long: `Fold the region headed by each given line and print what stays visible.
Lines inside a region folded by an earlier line are skipped.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(opts, args[0])
			if err != nil {
				return err
			}
			defer s.Close()

			if err := s.commands.FoldLines(cmd.Context(), toIndices(lines)); err != nil {
				return err
			}
			return out.write(cmd, s)
		},
	}
	cmd.Flags().IntSliceVar(&lines, "lines", nil, "comma separated line numbers")
	cmd.MarkFlagRequired("lines")
	out.register(cmd)
	return cmd
}

func newExceptCmd(opts *options) *cobra.Command {
	var lines []int
	var out outlineFlags
	cmd := &cobra.Command{
		Use:   "except <file>",
		Short: "Fold everything except the given lines and print the outline",
		Long: `Fold the whole file, then open each given line with everything below it
and the chain of blocks leading to it.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(opts, args[0])
			if err != nil {
				return err
			}
			defer s.Close()

			if err := s.commands.FoldAllExcept(cmd.Context(), toIndices(lines)); err != nil {
				return err
			}
			return out.write(cmd, s)
		},
	}
	cmd.Flags().IntSliceVar(&lines, "lines", nil, "comma separated line numbers")
	cmd.MarkFlagRequired("lines")
	out.register(cmd)
	return cmd
}

// newCursorCmd builds a command that runs a fold command with the cursor on
// --line
func newCursorCmd(opts *options, use, short string, run func(*fold.Commands, context.Context) error) *cobra.Command {
	var line int
	var out outlineFlags
	cmd := &cobra.Command{
		Use:   use + " <file>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(opts, args[0])
			if err != nil {
				return err
			}
			defer s.Close()

			if _, err := s.doc.Line(line - 1); err != nil {
				return err
			}
			s.editor.SetSelection(fold.At(line - 1))
			if err := run(s.commands, cmd.Context()); err != nil {
				return err
			}
			return out.write(cmd, s)
		},
	}
	cmd.Flags().IntVarP(&line, "line", "l", 1, "cursor line number")
	out.register(cmd)
	return cmd
}

func newLevelCmd(opts *options) *cobra.Command {
	return newCursorCmd(opts, "level", "Fold every block at the level of a line and print the outline",
		(*fold.Commands).FoldLevelOfCursor)
}

func newParentCmd(opts *options) *cobra.Command {
	return newCursorCmd(opts, "parent", "Fold every block at the level of a line's parent and print the outline",
		(*fold.Commands).FoldLevelOfParent)
}
