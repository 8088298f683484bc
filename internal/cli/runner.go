package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/Makepad-fr/taskflow/internal/board"
	"github.com/Makepad-fr/taskflow/internal/model"
	"github.com/Makepad-fr/taskflow/internal/tasks"
	"github.com/Makepad-fr/taskflow/internal/ui"
)

// Exit codes.
const (
	ExitOK    = 0
	ExitError = 1
	ExitUsage = 2
)

// Interactive runs the full-screen board.
type Interactive func(ctx context.Context, ctrl *board.Controller, notice string) error

// Runner dispatches one subcommand against an opened board.
type Runner struct {
	Out, Err    io.Writer
	Board       *board.Controller
	Store       *tasks.Store
	Logger      *log.Logger
	Interactive Interactive
}

// Run dispatches subcommands and returns an exit code (0 ok, 1 error, 2 usage).
func (r *Runner) Run(ctx context.Context, args []string) int {
	if len(args) == 0 {
		args = []string{"board"}
	}
	cmd, a := args[0], args[1:]

	switch cmd {
	case "help", "-h", "--help":
		PrintHelp(r.Out)
		return ExitOK
	case "board":
		return r.doBoard(ctx)
	case "ls":
		return r.doList()
	case "add":
		return r.doAdd(ctx, a)
	case "edit":
		return r.doEdit(ctx, a)
	case "mv":
		return r.doMove(ctx, a)
	case "rm":
		return r.doRemove(ctx, a)
	}

	ui.Fail(r.Err, "unknown subcommand: "+cmd)
	fmt.Fprintln(r.Err)
	PrintHelp(r.Err)
	return ExitUsage
}

func PrintHelp(w io.Writer) {
	fmt.Fprint(w, `taskflow - a three-column task board

Usage:
  taskflow [flags] [subcommand] [args]

Subcommands:
  board                                   Open the interactive board (default)
  ls                                      List the board
  add <title...> -d <desc> [-s st] [-p pr]
                                          Add a task
  edit <id> [-t title] [-d desc] [-s st] [-p pr]
                                          Change a task
  mv <id> <column> [position]             Move a task to a column, at a 1-based
                                          position in it (default: last)
  rm <id>                                 Delete a task

Columns and statuses: pending|todo|0, doing|in-progress|1, done|completed|2
Priorities: low, medium, high

Flags:
  -config <file>   -storage file|memory|redis   -file <data file>   -key <key>
  -validation off|warn|strict   -redis-url <url>   -log-level <lvl>   -log-file <file>
  -theme classic|neon|mono   -no-color

Examples:
  taskflow add Buy milk -d "2%" -p high
  taskflow mv 1712345678901 done
  taskflow edit 1712345678901 -s doing
`)
}

// -------------- subcommand impls ----------------

func (r *Runner) doBoard(ctx context.Context) int {
	if r.Interactive == nil {
		ui.Fail(r.Err, "board: no terminal UI available")
		return ExitError
	}
	notice := ""
	if err := r.Store.Recovered(); err != nil {
		notice = "started empty: " + err.Error()
	}
	if err := r.Interactive(ctx, r.Board, notice); err != nil {
		ui.Fail(r.Err, "board: "+err.Error())
		return ExitError
	}
	return ExitOK
}

func (r *Runner) doList() int {
	r.warnRecovered()
	ui.PrintBoard(r.Out, r.Board.Columns())
	return ExitOK
}

func (r *Runner) doAdd(ctx context.Context, args []string) int {
	fs := newFlagSet("add")
	desc := fs.String("d", "", "description")
	status := fs.String("s", string(model.StatusPending), "status")
	prio := fs.String("p", string(model.PriorityMedium), "priority")
	rest, err := parseInterleaved(fs, args)
	if err != nil || len(rest) == 0 {
		ui.Fail(r.Err, "usage: taskflow add <title...> -d <description> [-s status] [-p priority]")
		return ExitUsage
	}

	r.Board.BeginCreate()
	defer r.Board.Cancel()
	if code := r.setFields(map[board.Field]string{
		board.FieldTitle:       strings.Join(rest, " "),
		board.FieldDescription: *desc,
		board.FieldStatus:      *status,
		board.FieldPriority:    *prio,
	}); code != ExitOK {
		return code
	}
	return r.submit(ctx, "added")
}

func (r *Runner) doEdit(ctx context.Context, args []string) int {
	fs := newFlagSet("edit")
	fs.String("t", "", "title")
	fs.String("d", "", "description")
	fs.String("s", "", "status")
	fs.String("p", "", "priority")
	rest, err := parseInterleaved(fs, args)
	if err != nil || len(rest) != 1 {
		ui.Fail(r.Err, "usage: taskflow edit <id> [-t title] [-d description] [-s status] [-p priority]")
		return ExitUsage
	}
	t, ok := r.Board.Find(rest[0])
	if !ok {
		return r.notFound(rest[0])
	}

	fields := map[board.Field]string{}
	byFlag := map[string]board.Field{
		"t": board.FieldTitle, "d": board.FieldDescription,
		"s": board.FieldStatus, "p": board.FieldPriority,
	}
	fs.Visit(func(f *flag.Flag) { fields[byFlag[f.Name]] = f.Value.String() })
	if len(fields) == 0 {
		ui.Fail(r.Err, "edit: nothing to change")
		return ExitUsage
	}

	r.Board.BeginEdit(t)
	defer r.Board.Cancel()
	if code := r.setFields(fields); code != ExitOK {
		return code
	}
	return r.submit(ctx, "updated")
}

func (r *Runner) doMove(ctx context.Context, args []string) int {
	if len(args) < 2 || len(args) > 3 {
		ui.Fail(r.Err, "usage: taskflow mv <id> <column> [position]")
		return ExitUsage
	}
	id := args[0]
	status, err := model.ParseStatus(args[1])
	if err != nil {
		ui.Fail(r.Err, "mv: "+err.Error())
		return ExitUsage
	}
	row := math.MaxInt // last
	if len(args) == 3 {
		n, err := strconv.Atoi(args[2])
		if err != nil || n < 1 {
			ui.Fail(r.Err, "mv: position must be a number from 1: "+args[2])
			return ExitUsage
		}
		row = n - 1
	}

	dest, err := r.Board.DropTarget(id, status.Column(), row)
	if err == nil {
		err = r.Board.MoveTask(ctx, id, dest)
	}
	if err != nil {
		return r.failed("mv", id, err)
	}
	ui.OK(r.Out, fmt.Sprintf("moved #%s to %s", id, status.Label()))
	return ExitOK
}

func (r *Runner) doRemove(ctx context.Context, args []string) int {
	if len(args) != 1 {
		ui.Fail(r.Err, "usage: taskflow rm <id>")
		return ExitUsage
	}
	if err := r.Board.Delete(ctx, args[0]); err != nil {
		return r.failed("rm", args[0], err)
	}
	ui.OK(r.Out, "removed #"+args[0])
	return ExitOK
}

// -------------- helpers --------------

func (r *Runner) setFields(fields map[board.Field]string) int {
	for _, f := range []board.Field{board.FieldTitle, board.FieldDescription, board.FieldStatus, board.FieldPriority} {
		v, ok := fields[f]
		if !ok {
			continue
		}
		if err := r.Board.SetField(f, v); err != nil {
			ui.Fail(r.Err, err.Error())
			return ExitUsage
		}
	}
	d, _ := r.Board.Draft()
	if err := d.Validate(); err != nil {
		ui.Fail(r.Err, strings.ReplaceAll(err.Error(), "\n", "; "))
		return ExitUsage
	}
	return ExitOK
}

func (r *Runner) submit(ctx context.Context, verb string) int {
	d, _ := r.Board.Draft()
	if err := r.Board.Submit(ctx); err != nil {
		return r.failed(verb, d.ID, err)
	}
	id := d.ID
	if id == "" {
		snap := r.Board.Snapshot()
		id = snap[len(snap)-1].ID
	}
	ui.OK(r.Out, fmt.Sprintf("%s #%s", verb, id))
	return ExitOK
}

func (r *Runner) failed(op, id string, err error) int {
	switch {
	case errors.Is(err, tasks.ErrNotFound):
		return r.notFound(id)
	case errors.Is(err, model.ErrInvalidColumn), errors.Is(err, board.ErrInvalidPosition):
		ui.Fail(r.Err, op+": "+err.Error())
		return ExitUsage
	}
	r.Logger.Error(op+" failed", "id", id, "err", err)
	ui.Fail(r.Err, op+": "+err.Error())
	return ExitError
}

func (r *Runner) notFound(id string) int {
	ui.Fail(r.Err, "not found: #"+id)
	fmt.Fprintln(r.Err, ui.C(ui.Current().Muted, "Hint: run `taskflow ls` to see task ids"))
	return ExitError
}

func (r *Runner) warnRecovered() {
	if err := r.Store.Recovered(); err != nil {
		fmt.Fprintln(r.Err, ui.C(ui.Current().Error, "! started empty: "+err.Error()))
	}
}

func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

// parseInterleaved lets flags follow positional arguments, as in
// "add Buy milk -d 2%".
func parseInterleaved(fs *flag.FlagSet, args []string) ([]string, error) {
	var rest []string
	for {
		if err := fs.Parse(args); err != nil {
			return nil, err
		}
		args = fs.Args()
		if len(args) == 0 {
			return rest, nil
		}
		rest = append(rest, args[0])
		args = args[1:]
	}
}
