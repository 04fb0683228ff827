// Package main serves a directory over HTTP on the loopback interface.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"

	"github.com/f4ah6o/dirserve/internal/config"
	"github.com/f4ah6o/dirserve/internal/resolver"
	"github.com/f4ah6o/dirserve/internal/response"
	"github.com/f4ah6o/dirserve/internal/server"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		if err == flag.ErrHelp {
			return
		}
		color.New(color.FgRed).Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run parses args, then either prints a listing or serves until ctx is
// cancelled. The port is validated before anything is opened.
func run(ctx context.Context, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("dirserve", flag.ContinueOnError)
	configPath := fs.String("config", "", "Config file (.toml, .yaml or .yml)")
	root := fs.String("root", "", "Directory to serve (default: working directory)")
	workers := fs.Int("workers", 0, "Connections handled at once (default 1)")
	ls := fs.String("ls", "", "Print the listing of a directory under the root as Markdown and exit")
	fs.Usage = func() {
		fmt.Fprintln(fs.Output(), "Usage: dirserve [flags] PORT")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		return err
	}
	if fs.NArg() > 0 {
		cfg.Port = fs.Arg(0)
	}
	if *root != "" {
		cfg.Root = *root
	}
	if *workers > 0 {
		cfg.Workers = *workers
	}

	if *ls != "" {
		return printListing(stdout, cfg, *ls)
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	srv, err := server.New(cfg, nil)
	if err != nil {
		return err
	}

	fmt.Fprintf(stdout, "🌐 Serving %s at %s\n", srv.Root(), color.CyanString("http://%s", cfg.Addr()))
	fmt.Fprintln(stdout, "Press Ctrl+C to stop")

	if err := srv.ListenAndServe(ctx); err != nil {
		log.Printf("Server error: %v", err)
		return err
	}
	return nil
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(path)
}

// printListing renders what the server would return for target and writes
// it as Markdown.
func printListing(w io.Writer, cfg *config.Config, target string) error {
	dir := cfg.Root
	if dir == "" {
		dir = "."
	}
	r, err := resolver.New(dir)
	if err != nil {
		return err
	}
	resolved := r.Resolve(target)
	if resolved.Kind != resolver.Directory {
		return fmt.Errorf("%s: %s", target, resolved.Kind)
	}
	paths, err := r.List(resolved.Path)
	if err != nil {
		return err
	}
	page, err := response.RenderListing(paths)
	if err != nil {
		return err
	}
	out, err := response.ListingMarkdown(page)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, out)
	return err
}
