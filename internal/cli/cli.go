// Package cli implements the pngstash command line: hiding messages in
// PNG chunks, recovering them, and scanning directory trees into the
// vault.
package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/i5heu/pngstash/internal/config"
	"github.com/i5heu/pngstash/pkg/payload"
	"github.com/i5heu/pngstash/pkg/png"
)

// Run executes the command line given in args (args[0] is the program
// name) and returns the process exit code: 0 on success, 1 on failure,
// 2 on usage errors.
func Run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("pngstash", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() { usage(stderr) }
	configPath := fs.String("config", "", "path to the config file")
	if err := fs.Parse(args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	rest := fs.Args()
	if len(rest) < 1 {
		usage(stderr)
		return 2
	}
	cmd, cmdArgs := rest[0], rest[1:]

	// help and version must work even with a broken config file.
	switch cmd {
	case "help":
		usage(stdout)
		return 0
	case "version":
		Version(stdout)
		return 0
	}

	path := *configPath
	if path == "" {
		if p, err := config.DefaultPath(); err == nil {
			path = p
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	logger := logrus.New()
	logger.SetOutput(stderr)
	logger.SetLevel(cfg.Level())

	a := &app{cfg: cfg, log: logger, stdout: stdout, stderr: stderr}

	switch cmd {
	case "encode":
		return a.runEncode(cmdArgs)
	case "decode":
		return a.runDecode(cmdArgs)
	case "remove":
		return a.runRemove(cmdArgs)
	case "print":
		return a.runPrint(cmdArgs)
	case "scan":
		return a.runScan(cmdArgs)
	case "vault":
		return a.runVault(cmdArgs)
	default:
		fmt.Fprintf(stderr, "unknown command: %s\n", cmd)
		usage(stderr)
		return 2
	}
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "Usage: pngstash [-config file] <command> [arguments]")
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  encode [-compress] [-split] <file> <type> <message> [output]")
	fmt.Fprintln(w, "  decode [-all] <file> <type>")
	fmt.Fprintln(w, "  remove <file> <type>")
	fmt.Fprintln(w, "  print <file>")
	fmt.Fprintln(w, "  scan <dir> <type>")
	fmt.Fprintln(w, "  vault list")
	fmt.Fprintln(w, "  vault show <id>")
	fmt.Fprintln(w, "  version")
}

type app struct {
	cfg    config.Config
	log    *logrus.Logger
	stdout io.Writer
	stderr io.Writer
}

func (a *app) fail(err error) int {
	fmt.Fprintf(a.stderr, "Error: %v\n", err)
	return 1
}

func (a *app) newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	return fs
}

func readPNG(path string) (*png.File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	f, err := png.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

func writePNG(path string, f *png.File) error {
	return os.WriteFile(path, f.Bytes(), 0o644)
}

// payloadBytes gathers the payload stored under typeName: the first
// matching chunk, or every matching chunk concatenated in file order
// when all is set. A compressed payload is decompressed. The second
// return reports whether any chunk matched.
func payloadBytes(f *png.File, typeName string, all bool) ([]byte, bool, error) {
	var data []byte
	matched := false
	if all {
		for _, c := range f.Chunks() {
			if c.Type().String() == typeName {
				data = append(data, c.Data()...)
				matched = true
			}
		}
	} else {
		if c := f.ChunkByType(typeName); c != nil {
			data = c.Data()
			matched = true
		}
	}
	if !matched {
		return nil, false, nil
	}

	if payload.IsCompressed(data) {
		out, err := payload.Decompress(data)
		if err != nil {
			return nil, true, fmt.Errorf("decompressing payload: %w", err)
		}
		data = out
	}
	return data, true, nil
}
