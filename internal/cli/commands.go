package cli

import (
	"encoding/hex"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/i5heu/pngstash/internal/vault"
	"github.com/i5heu/pngstash/pkg/payload"
	"github.com/i5heu/pngstash/pkg/png"
)

func (a *app) runEncode(args []string) int {
	fs := a.newFlagSet("encode")
	compress := fs.Bool("compress", false, "compress the message with xz before embedding")
	split := fs.Bool("split", false, "spread the message over several chunks")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() < 3 || fs.NArg() > 4 {
		fmt.Fprintln(a.stderr, "usage: pngstash encode [-compress] [-split] <file> <type> <message> [output]")
		return 2
	}
	path, typeName := fs.Arg(0), fs.Arg(1)
	message := []byte(fs.Arg(2))
	output := path
	if fs.NArg() == 4 {
		output = fs.Arg(3)
	}

	typ, err := png.ParseChunkType(typeName)
	if err != nil {
		return a.fail(err)
	}

	f, err := readPNG(path)
	if err != nil {
		return a.fail(err)
	}

	if *compress {
		message, err = payload.Compress(message)
		if err != nil {
			return a.fail(err)
		}
	}

	parts := [][]byte{message}
	if *split {
		parts, err = payload.Split(message, a.cfg.SplitSize)
		if err != nil {
			return a.fail(err)
		}
	}

	for _, part := range parts {
		f.AppendChunk(png.NewChunk(typ, part))
	}

	if err := writePNG(output, f); err != nil {
		return a.fail(err)
	}

	a.log.Debugf("encoded %d chunk(s) of type %s into %s", len(parts), typeName, output)
	fmt.Fprintf(a.stdout, "Encoded %d chunk(s) into %s\n", len(parts), output)
	return 0
}

func (a *app) runDecode(args []string) int {
	fs := a.newFlagSet("decode")
	all := fs.Bool("all", false, "concatenate every matching chunk in file order")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 2 {
		fmt.Fprintln(a.stderr, "usage: pngstash decode [-all] <file> <type>")
		return 2
	}
	path, typeName := fs.Arg(0), fs.Arg(1)

	f, err := readPNG(path)
	if err != nil {
		return a.fail(err)
	}

	data, matched, err := payloadBytes(f, typeName, *all)
	if err != nil {
		return a.fail(err)
	}
	if !matched {
		return a.fail(fmt.Errorf("%s: %w", path, png.ErrChunkNotFound))
	}
	if !utf8.Valid(data) {
		return a.fail(png.ErrInvalidUTF8)
	}

	fmt.Fprintln(a.stdout, string(data))
	return 0
}

func (a *app) runRemove(args []string) int {
	fs := a.newFlagSet("remove")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 2 {
		fmt.Fprintln(a.stderr, "usage: pngstash remove <file> <type>")
		return 2
	}
	path, typeName := fs.Arg(0), fs.Arg(1)

	f, err := readPNG(path)
	if err != nil {
		return a.fail(err)
	}

	removed, err := f.RemoveChunk(typeName)
	if err != nil {
		return a.fail(fmt.Errorf("%s: %w", path, err))
	}

	if err := writePNG(path, f); err != nil {
		return a.fail(err)
	}

	fmt.Fprintf(a.stdout, "Removed chunk: %s\n", removed)
	return 0
}

func (a *app) runPrint(args []string) int {
	fs := a.newFlagSet("print")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(a.stderr, "usage: pngstash print <file>")
		return 2
	}

	f, err := readPNG(fs.Arg(0))
	if err != nil {
		return a.fail(err)
	}

	for _, c := range f.Chunks() {
		fmt.Fprintln(a.stdout, c)
	}
	return 0
}

func (a *app) openVault() (*vault.Vault, error) {
	return vault.Open(vault.Config{
		Path:          a.cfg.VaultPath,
		MinimumFreeGB: a.cfg.MinimumFreeGB,
		Logger:        a.log,
	})
}

func (a *app) runVault(args []string) int {
	if len(args) < 1 {
		fmt.Fprintln(a.stderr, "usage: pngstash vault <list|show> [arguments]")
		return 2
	}

	switch args[0] {
	case "list":
		return a.runVaultList()
	case "show":
		if len(args) != 2 {
			fmt.Fprintln(a.stderr, "usage: pngstash vault show <id>")
			return 2
		}
		return a.runVaultShow(args[1])
	default:
		fmt.Fprintf(a.stderr, "unknown vault command: %s\n", args[0])
		return 2
	}
}

func (a *app) runVaultList() int {
	v, err := a.openVault()
	if err != nil {
		return a.fail(err)
	}
	defer v.Close()

	stored, err := v.List()
	if err != nil {
		return a.fail(err)
	}

	for _, s := range stored {
		fmt.Fprintf(a.stdout, "%s  %s  %s  %s\n",
			s.ID, s.FoundAt.Format(time.RFC3339), s.ChunkType, s.Path)
	}
	return 0
}

func (a *app) runVaultShow(id string) int {
	v, err := a.openVault()
	if err != nil {
		return a.fail(err)
	}
	defer v.Close()

	rec, err := v.Get(id)
	if err != nil {
		return a.fail(err)
	}

	message := hex.EncodeToString(rec.Message)
	if utf8.Valid(rec.Message) {
		message = string(rec.Message)
	}

	fmt.Fprintf(a.stdout, "ID         : %s\n", id)
	fmt.Fprintf(a.stdout, "Path       : %s\n", rec.Path)
	fmt.Fprintf(a.stdout, "Chunk type : %s\n", rec.ChunkType)
	fmt.Fprintf(a.stdout, "Found at   : %s\n", rec.FoundAt.Format(time.RFC3339))
	fmt.Fprintf(a.stdout, "Message    : %s\n", message)
	return 0
}
