package main

import (
	"context"
	"fmt"
	"io"
	"slices"
	"strings"
	"text/tabwriter"

	"github.com/osse101/Credence_Go/internal/bootstrap"
)

// Env is what every command runs against
type Env struct {
	Services *bootstrap.Services
	Out      io.Writer
}

// Command is one ledgerctl subcommand
type Command interface {
	Name() string
	Usage() string
	Description() string
	Run(ctx context.Context, env *Env, args []string) error
}

// Registry holds the subcommands in name order
type Registry struct {
	commands []Command
}

func NewRegistry() *Registry {
	return &Registry{}
}

// Register adds cmd. Registering a name twice panics.
func (r *Registry) Register(cmd Command) {
	i, found := slices.BinarySearchFunc(r.commands, cmd.Name(), byName)
	if found {
		panic("ledgerctl: duplicate command " + cmd.Name())
	}
	r.commands = slices.Insert(r.commands, i, cmd)
}

// Get looks a command up by name
func (r *Registry) Get(name string) (Command, bool) {
	i, found := slices.BinarySearchFunc(r.commands, name, byName)
	if !found {
		return nil, false
	}
	return r.commands[i], true
}

// List returns the commands sorted by name
func (r *Registry) List() []Command {
	return slices.Clone(r.commands)
}

// PrintHelp writes the usage line of every command
func (r *Registry) PrintHelp(w io.Writer) {
	fmt.Fprint(w, "Usage: ledgerctl <command> [args...]\n\nCommands:\n")
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, cmd := range r.commands {
		fmt.Fprintf(tw, "  %s\t%s\n", cmd.Usage(), cmd.Description())
	}
	tw.Flush()
}

func byName(c Command, name string) int {
	return strings.Compare(c.Name(), name)
}

// errUsage reports a command invoked with the wrong arguments
type errUsage struct {
	usage string
}

func (e errUsage) Error() string {
	return "usage: ledgerctl " + e.usage
}
