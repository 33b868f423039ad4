package cli

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/fumiama/imgsz"

	"github.com/i5heu/pngstash/internal/vault"
	"github.com/i5heu/pngstash/internal/workerpool"
	"github.com/i5heu/pngstash/pkg/png"
)

// scanResult is one file's outcome: whether it was a PNG at all, and
// the recovered message when one was present.
type scanResult struct {
	path    string
	isPNG   bool
	message []byte
	found   bool
}

func (a *app) runScan(args []string) int {
	flags := a.newFlagSet("scan")
	if err := flags.Parse(args); err != nil {
		return 2
	}
	if flags.NArg() != 2 {
		fmt.Fprintln(a.stderr, "usage: pngstash scan <dir> <type>")
		return 2
	}
	dir, typeName := flags.Arg(0), flags.Arg(1)

	if _, err := png.ParseChunkType(typeName); err != nil {
		return a.fail(err)
	}

	v, err := a.openVault()
	if err != nil {
		return a.fail(err)
	}
	defer v.Close()

	pool := workerpool.New(workerpool.Config{})
	defer pool.Close()
	batch := pool.NewBatch(64)

	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}
		batch.Submit(func() any { return a.checkFile(path, typeName) })
		return nil
	})
	if err != nil {
		batch.Wait()
		return a.fail(err)
	}

	pngs := 0
	var found []scanResult
	for _, r := range batch.Wait() {
		res := r.(scanResult)
		if !res.isPNG {
			continue
		}
		pngs++
		if res.found {
			found = append(found, res)
		}
	}
	sort.Slice(found, func(i, j int) bool { return found[i].path < found[j].path })

	for _, res := range found {
		id, err := v.Put(vault.Record{
			Path:      res.path,
			ChunkType: typeName,
			Message:   res.message,
			FoundAt:   time.Now(),
		})
		if err != nil {
			return a.fail(err)
		}
		fmt.Fprintf(a.stdout, "%s: stored record %s\n", res.path, id)
	}

	fmt.Fprintf(a.stdout, "Scanned %d PNG file(s), stored %d message(s)\n", pngs, len(found))
	return 0
}

// checkFile sniffs, parses and searches one file. Failures are logged
// and reported as non-findings so the scan continues past them.
func (a *app) checkFile(path, typeName string) scanResult {
	res := scanResult{path: path}

	if !a.sniffPNG(path) {
		return res
	}
	res.isPNG = true

	data, err := os.ReadFile(path)
	if err != nil {
		a.log.Warnf("scan: reading %s: %v", path, err)
		return res
	}
	file, err := png.Parse(data)
	if err != nil {
		a.log.Warnf("scan: parsing %s: %v", path, err)
		return res
	}

	message, matched, err := payloadBytes(file, typeName, true)
	if err != nil {
		a.log.Warnf("scan: %s: %v", path, err)
		return res
	}
	if !matched {
		a.log.Debugf("scan: %s has no %s chunk", path, typeName)
		return res
	}

	res.message = message
	res.found = true
	return res
}

// sniffPNG reports whether the file at path is a PNG image. It reads
// only the image header, so unrelated files are skipped without being
// read whole.
func (a *app) sniffPNG(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		a.log.Warnf("scan: opening %s: %v", path, err)
		return false
	}
	defer f.Close()

	_, format, err := imgsz.DecodeSize(f)
	if err != nil {
		a.log.Debugf("scan: %s is not a supported image: %v", path, err)
		return false
	}
	if format != "png" {
		a.log.Debugf("scan: %s is a %s image, skipping", path, format)
		return false
	}
	return true
}
