package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/dekarrin/gbgp"
	"github.com/dekarrin/gbgp/internal/replio"
	"github.com/dekarrin/rosed"
)

const consoleOutputWidth = 80

// session contains the things needed to drive an interactive gbgpctl shell
// attached to an input stream and an output stream.
type session struct {
	grammar *gbgp.Grammar
	current *gbgp.SyntaxTree
	maxDepth int
	rng     *gbgp.Rand

	in          replio.Reader
	out         *bufio.Writer
	forceDirect bool
	running     bool
}

// newSession loads the grammar at grammarPath and prepares a session ready
// to read commands from stdin (or, if forceDirectInput is set, to read
// directly without readline) and write to outputStream.
func newSession(grammarPath string, outputStream io.Writer, forceDirectInput bool) (*session, error) {
	if outputStream == nil {
		outputStream = os.Stdout
	}

	grammar, err := loadGrammarFile(grammarPath)
	if err != nil {
		return nil, fmt.Errorf("load grammar: %w", err)
	}

	sess := &session{
		grammar:     grammar,
		maxDepth:    10,
		rng:         gbgp.NewRandFromTime(),
		out:         bufio.NewWriter(outputStream),
		forceDirect: forceDirectInput,
	}

	useReadline := !forceDirectInput && outputStream == os.Stdout

	if useReadline {
		sess.in, err = replio.NewInteractiveReader("gbgp> ")
		if err != nil {
			return nil, fmt.Errorf("initializing interactive-mode input reader: %w", err)
		}
	} else {
		sess.in = replio.NewDirectReader(os.Stdin)
	}

	return sess, nil
}

// Close closes all resources associated with the session, including any
// readline-related resources created for interactive mode.
func (sess *session) Close() error {
	if sess.running {
		return fmt.Errorf("cannot close a running session")
	}
	if err := sess.in.Close(); err != nil {
		return fmt.Errorf("close input reader: %w", err)
	}
	return nil
}

func (sess *session) writeln(format string, a ...interface{}) error {
	s := fmt.Sprintf(format, a...)
	if _, err := sess.out.WriteString(rosed.Edit(s).Wrap(consoleOutputWidth).String() + "\n"); err != nil {
		return fmt.Errorf("could not write output: %w", err)
	}
	return sess.out.Flush()
}

// RunUntilQuit runs startCommands (if any), then reads commands from the
// session's input until "quit" is received or input is exhausted.
func (sess *session) RunUntilQuit(startCommands []string) error {
	intro := "gbgpctl interactive session\n"
	if sess.forceDirect {
		intro += "(direct input mode)\n"
	}
	intro += "============================\n"
	intro += fmt.Sprintf("Grammar loaded with start symbol %q. Type \"help\" for commands.", sess.grammar.StartSymbol().Label)
	if err := sess.writeln("%s", intro); err != nil {
		return err
	}

	sess.running = true
	defer func() { sess.running = false }()

	for _, c := range startCommands {
		if !sess.running {
			break
		}
		if err := sess.dispatch(strings.TrimSpace(c)); err != nil {
			return err
		}
	}

	for sess.running {
		line, err := sess.in.ReadLine()
		if err != nil {
			if err == io.EOF {
				break
			}
			return fmt.Errorf("get user command: %w", err)
		}
		if err := sess.dispatch(line); err != nil {
			return err
		}
	}

	return sess.writeln("Goodbye")
}

func (sess *session) dispatch(line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}

	verb := strings.ToLower(fields[0])
	args := fields[1:]

	switch verb {
	case "quit", "exit":
		sess.running = false
		return nil
	case "help":
		return sess.cmdHelp()
	case "grammar":
		return sess.writeln("%s", sess.grammar.String())
	case "depth":
		return sess.cmdDepth(args)
	case "derive":
		return sess.cmdDerive()
	case "show":
		return sess.cmdShow()
	case "synth":
		return sess.cmdSynth()
	case "prune":
		return sess.cmdPrune()
	case "mutate":
		return sess.cmdMutate()
	default:
		return sess.writeln("unrecognized command %q; try \"help\"", fields[0])
	}
}

func (sess *session) cmdHelp() error {
	return sess.writeln(strings.Join([]string{
		"Commands:",
		"  derive          derive a new random individual from the grammar",
		"  show            print the current individual's syntax tree",
		"  synth           synthesize the current individual's leaf values",
		"  prune           apply the grammar's prune rules to the current individual",
		"  mutate          mutate the current individual",
		"  depth [N]       show or set the max derivation depth (default 10)",
		"  grammar         print the loaded grammar as a table",
		"  quit            end the session",
	}, "\n"))
}

func (sess *session) cmdDepth(args []string) error {
	if len(args) == 0 {
		return sess.writeln("max depth is %d", sess.maxDepth)
	}
	n, err := strconv.Atoi(args[0])
	if err != nil || n < 1 {
		return sess.writeln("depth must be a positive integer")
	}
	sess.maxDepth = n
	return sess.writeln("max depth set to %d", sess.maxDepth)
}

func (sess *session) cmdDerive() error {
	tree, err := gbgp.CreateRandomTree(sess.grammar, sess.maxDepth, sess.rng)
	if err != nil {
		return sess.writeln("derive failed: %s", err.Error())
	}
	sess.current = tree
	return sess.writeln("derived a new individual; try \"show\" or \"synth\"")
}

func (sess *session) cmdShow() error {
	if sess.current == nil {
		return sess.writeln("no current individual; try \"derive\" first")
	}
	if _, err := sess.out.WriteString(sess.current.String() + "\n"); err != nil {
		return fmt.Errorf("could not write output: %w", err)
	}
	return sess.out.Flush()
}

func (sess *session) cmdSynth() error {
	if sess.current == nil {
		return sess.writeln("no current individual; try \"derive\" first")
	}
	return sess.writeln("%s", gbgp.Synthesize(sess.current))
}

func (sess *session) cmdPrune() error {
	if sess.current == nil {
		return sess.writeln("no current individual; try \"derive\" first")
	}
	pruned, err := gbgp.PruneTree(sess.grammar, sess.current)
	if err != nil {
		return sess.writeln("prune failed: %s", err.Error())
	}
	sess.current = pruned
	return sess.writeln("pruned; try \"show\" or \"synth\"")
}

func (sess *session) cmdMutate() error {
	if sess.current == nil {
		return sess.writeln("no current individual; try \"derive\" first")
	}
	mutated, err := gbgp.Mutate(sess.current, sess.grammar, sess.maxDepth, sess.rng)
	if err != nil {
		return sess.writeln("mutate failed: %s", err.Error())
	}
	sess.current = mutated
	return sess.writeln("mutated; try \"show\" or \"synth\"")
}
