// Command vrepo manages a virtual resource repository from the command line.
//
// Usage:
//
//	vrepo <command> [flags] [args]
//
// Commands:
//
//	import      register a filesystem path under a virtual path
//	get         print the resource stored at an exact virtual path
//	ls          list the immediate children of a virtual path
//	find        print all paths matching a glob query
//	contains    report whether a query matches anything (exit code 0/1)
//	rm          remove everything matching a query
//	clear       remove every resource, keeping the root
//	config-init generate a default configuration file
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/vrepo/vrepo/internal/logger"
	"github.com/vrepo/vrepo/pkg/config"
	"github.com/vrepo/vrepo/pkg/repository"
	"github.com/vrepo/vrepo/pkg/resource"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	command := os.Args[1]
	args := os.Args[2:]

	var err error
	switch command {
	case "import":
		err = runImport(args)
	case "get":
		err = runGet(args)
	case "ls":
		err = runList(args)
	case "find":
		err = runFind(args)
	case "contains":
		err = runContains(args)
	case "rm":
		err = runRemove(args)
	case "clear":
		err = runClear(args)
	case "config-init":
		err = runConfigInit(args)
	case "help", "-h", "--help":
		usage()
		return
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n\n", command)
		usage()
		os.Exit(2)
	}

	if err != nil {
		logger.Error("%v", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `vrepo - virtual resource repository

Usage:
  vrepo import [flags] <fs-path> <virtual-path>
  vrepo get [flags] <virtual-path>
  vrepo ls [flags] <virtual-path>
  vrepo find [flags] <glob-query>
  vrepo contains [flags] <glob-query>
  vrepo rm [flags] <glob-query>
  vrepo clear [flags]
  vrepo config-init [-output <path>]

Common flags:
  -config <path>     configuration file (default: $XDG_CONFIG_HOME/vrepo/config.yaml)
  -log-level <level> override the configured log level`)
}

// commonFlags registers the flags shared by every repository command.
func commonFlags(fs *flag.FlagSet) (configPath, logLevel *string) {
	configPath = fs.String("config", "", "configuration file path")
	logLevel = fs.String("log-level", "", "override the configured log level")
	return configPath, logLevel
}

// openRepository loads configuration, configures logging, creates the
// backing store, and opens the repository over it. The returned cleanup
// closes the store if the backend holds external resources.
func openRepository(ctx context.Context, configPath, logLevel string) (*repository.Repository, func(), error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}

	if err := logger.Configure(cfg.Logging.Level, cfg.Logging.Format); err != nil {
		return nil, nil, err
	}
	if logLevel != "" {
		logger.SetLevel(logLevel)
	}

	st, err := config.CreatePathStore(ctx, &cfg.Store)
	if err != nil {
		return nil, nil, err
	}

	cleanup := func() {
		if closer, ok := st.(io.Closer); ok {
			if err := closer.Close(); err != nil {
				logger.Warn("failed to close store: %v", err)
			}
		}
	}

	repo, err := repository.New(ctx, st)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	return repo, cleanup, nil
}

func runImport(args []string) error {
	fs := flag.NewFlagSet("import", flag.ExitOnError)
	configPath, logLevel := commonFlags(fs)
	_ = fs.Parse(args)

	if fs.NArg() != 2 {
		return fmt.Errorf("import requires <fs-path> <virtual-path>")
	}
	fsPath, virtualPath := fs.Arg(0), fs.Arg(1)

	ctx := context.Background()
	repo, cleanup, err := openRepository(ctx, *configPath, *logLevel)
	if err != nil {
		return err
	}
	defer cleanup()

	res := resource.FromLocator(fsPath)
	if res.Kind() == resource.KindGeneric {
		return fmt.Errorf("no file or directory at %s", fsPath)
	}

	if err := repo.Add(ctx, virtualPath, res); err != nil {
		return err
	}
	fmt.Printf("imported %s as %s (%s)\n", fsPath, res.Path(), res.Kind())
	return nil
}

func runGet(args []string) error {
	fs := flag.NewFlagSet("get", flag.ExitOnError)
	configPath, logLevel := commonFlags(fs)
	_ = fs.Parse(args)

	if fs.NArg() != 1 {
		return fmt.Errorf("get requires <virtual-path>")
	}

	ctx := context.Background()
	repo, cleanup, err := openRepository(ctx, *configPath, *logLevel)
	if err != nil {
		return err
	}
	defer cleanup()

	res, err := repo.Get(ctx, fs.Arg(0))
	if err != nil {
		return err
	}
	printResource(res)
	return nil
}

func runList(args []string) error {
	fs := flag.NewFlagSet("ls", flag.ExitOnError)
	configPath, logLevel := commonFlags(fs)
	_ = fs.Parse(args)

	if fs.NArg() != 1 {
		return fmt.Errorf("ls requires <virtual-path>")
	}

	ctx := context.Background()
	repo, cleanup, err := openRepository(ctx, *configPath, *logLevel)
	if err != nil {
		return err
	}
	defer cleanup()

	children, err := repo.ListChildren(ctx, fs.Arg(0))
	if err != nil {
		return err
	}
	for _, child := range children {
		printResource(child)
	}
	return nil
}

func runFind(args []string) error {
	fs := flag.NewFlagSet("find", flag.ExitOnError)
	configPath, logLevel := commonFlags(fs)
	_ = fs.Parse(args)

	if fs.NArg() != 1 {
		return fmt.Errorf("find requires <glob-query>")
	}

	ctx := context.Background()
	repo, cleanup, err := openRepository(ctx, *configPath, *logLevel)
	if err != nil {
		return err
	}
	defer cleanup()

	matches, err := repo.Find(ctx, fs.Arg(0), repository.LanguageGlob)
	if err != nil {
		return err
	}
	for _, res := range matches {
		printResource(res)
	}
	return nil
}

func runContains(args []string) error {
	fs := flag.NewFlagSet("contains", flag.ExitOnError)
	configPath, logLevel := commonFlags(fs)
	_ = fs.Parse(args)

	if fs.NArg() != 1 {
		return fmt.Errorf("contains requires <glob-query>")
	}

	ctx := context.Background()
	repo, cleanup, err := openRepository(ctx, *configPath, *logLevel)
	if err != nil {
		return err
	}
	defer cleanup()

	ok, err := repo.Contains(ctx, fs.Arg(0), repository.LanguageGlob)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Println("no match")
		os.Exit(1)
	}
	fmt.Println("match")
	return nil
}

func runRemove(args []string) error {
	fs := flag.NewFlagSet("rm", flag.ExitOnError)
	configPath, logLevel := commonFlags(fs)
	_ = fs.Parse(args)

	if fs.NArg() != 1 {
		return fmt.Errorf("rm requires <glob-query>")
	}

	ctx := context.Background()
	repo, cleanup, err := openRepository(ctx, *configPath, *logLevel)
	if err != nil {
		return err
	}
	defer cleanup()

	removed, err := repo.Remove(ctx, fs.Arg(0), repository.LanguageGlob)
	if err != nil {
		return err
	}
	fmt.Printf("removed %d resource(s)\n", removed)
	return nil
}

func runClear(args []string) error {
	fs := flag.NewFlagSet("clear", flag.ExitOnError)
	configPath, logLevel := commonFlags(fs)
	_ = fs.Parse(args)

	ctx := context.Background()
	repo, cleanup, err := openRepository(ctx, *configPath, *logLevel)
	if err != nil {
		return err
	}
	defer cleanup()

	removed, err := repo.Clear(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("removed %d resource(s)\n", removed)
	return nil
}

func runConfigInit(args []string) error {
	fs := flag.NewFlagSet("config-init", flag.ExitOnError)
	output := fs.String("output", "", "where to write the config file (default: standard location)")
	_ = fs.Parse(args)

	path, err := config.WriteDefaultConfig(*output)
	if err != nil {
		return err
	}
	fmt.Printf("wrote default configuration to %s\n", path)
	return nil
}

func printResource(res *resource.Resource) {
	if res.Kind() == resource.KindGeneric {
		fmt.Printf("%s\t%s\n", res.Path(), res.Kind())
		return
	}
	fmt.Printf("%s\t%s\t%s\n", res.Path(), res.Kind(), res.FilesystemPath())
}
