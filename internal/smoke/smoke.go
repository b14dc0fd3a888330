// Package smoke runs the cheap structural checks that guard a deploy: the
// catalog documents parse, the rate is usable and no retired identifiers
// are referenced from source.
package smoke

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/inkchain/storecatalog/internal/domain"
	"github.com/inkchain/storecatalog/internal/verify"
	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cast"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	CheckDocument = "document"
	CheckRate     = "rate"
	CheckBanned   = "banned-identifier"
)

// Options locates the documents and describes the source scan
type Options struct {
	OverridePath  string
	GeneratedPath string
	RatesPath     string
	Base          string
	Secondary     string

	Root       string
	ScanRoots  []string
	Extensions []string
	IgnoreDirs []string
	Banned     []string
}

// Hit is one banned identifier found in a file
type Hit struct {
	File string
	Name string
}

// Run executes every check and returns the findings as a report
func Run(ctx context.Context, opts Options) (*verify.Report, error) {
	r := &verify.Report{}
	checkOverride(r, opts.OverridePath)
	checkGenerated(r, opts.GeneratedPath)
	checkRates(r, opts.RatesPath, opts.Base, opts.Secondary)

	hits, err := Scan(ctx, opts)
	if err != nil {
		return nil, err
	}
	for _, h := range hits {
		r.Add(verify.SeverityError, CheckBanned, h.File, "references %s", h.Name)
	}
	if len(opts.Banned) > 0 && len(hits) == 0 {
		r.Add(verify.SeverityInfo, CheckBanned, "source", "no banned identifiers referenced")
	}
	r.Sort()
	return r, nil
}

func readObject(path string) (map[string]interface{}, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var v interface{}
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, err
	}
	obj, ok := v.(map[string]interface{})
	if !ok {
		return nil, domain.ErrMalformedDocument
	}
	return obj, nil
}

func checkOverride(r *verify.Report, path string) {
	name := filepath.Base(path)
	if _, err := readObject(path); err != nil {
		r.Add(verify.SeverityError, CheckDocument, name, "not a readable JSON object: %v", err)
		return
	}
	r.Add(verify.SeverityInfo, CheckDocument, name, "readable")
}

func checkGenerated(r *verify.Report, path string) {
	name := filepath.Base(path)
	obj, err := readObject(path)
	if err != nil {
		r.Add(verify.SeverityError, CheckDocument, name, "not a readable JSON object: %v", err)
		return
	}
	products, ok := obj["products"].([]interface{})
	if !ok {
		r.Add(verify.SeverityError, CheckDocument, name, "has no products array")
		return
	}
	r.Add(verify.SeverityInfo, CheckDocument, name, "readable (%d products)", len(products))
}

func checkRates(r *verify.Report, path, base, secondary string) {
	name := filepath.Base(path)
	obj, err := readObject(path)
	if err != nil {
		r.Add(verify.SeverityError, CheckRate, name, "not a readable JSON object: %v", err)
		return
	}
	key := domain.RateKey(base, secondary)
	raw, ok := obj[key].(float64)
	if !ok || raw <= 0 {
		r.Add(verify.SeverityError, CheckRate, name, "%s must be a positive number", key)
		return
	}
	if cast.ToString(obj["updatedAt"]) == "" {
		r.Add(verify.SeverityWarning, CheckRate, name, "updatedAt is empty")
	}
	r.Add(verify.SeverityInfo, CheckRate, name, "%s=%v", key, raw)
}

// Scan walks the scan roots and reports every banned identifier referenced
// by a file with one of the configured extensions. Hits are sorted by file
// then identifier.
func Scan(ctx context.Context, opts Options) ([]Hit, error) {
	if len(opts.Banned) == 0 {
		return nil, nil
	}
	ignore := make(map[string]bool, len(opts.IgnoreDirs))
	for _, d := range opts.IgnoreDirs {
		ignore[d] = true
	}
	exts := make(map[string]bool, len(opts.Extensions))
	for _, e := range opts.Extensions {
		exts[strings.ToLower(e)] = true
	}
	needles := make([][]byte, 0, len(opts.Banned))
	for _, b := range opts.Banned {
		if b = strings.TrimSpace(b); b != "" {
			needles = append(needles, []byte(b))
		}
	}

	root := opts.Root
	if root == "" {
		root = "."
	}
	roots := opts.ScanRoots
	if len(roots) == 0 {
		roots = []string{"."}
	}

	var files []string
	for _, sr := range roots {
		start := sr
		if !filepath.IsAbs(start) {
			start = filepath.Join(root, sr)
		}
		err := filepath.WalkDir(start, func(p string, d os.DirEntry, err error) error {
			if err != nil {
				if os.IsNotExist(err) && p == start {
					return filepath.SkipDir
				}
				return err
			}
			if d.IsDir() {
				if p != start && ignore[d.Name()] {
					return filepath.SkipDir
				}
				return nil
			}
			if exts[strings.ToLower(filepath.Ext(p))] {
				files = append(files, p)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	var (
		mu   sync.Mutex
		hits []Hit
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(8)
	for _, f := range files {
		f := f
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			data, err := os.ReadFile(f)
			if err != nil {
				zap.L().Warn("smoke scan skipped file",
					zap.String("namespace", "smoke"),
					zap.String("file", f),
					zap.Error(err),
				)
				return nil
			}
			rel, err := filepath.Rel(root, f)
			if err != nil {
				rel = f
			}
			rel = filepath.ToSlash(rel)
			for _, n := range needles {
				if bytes.Contains(data, n) {
					mu.Lock()
					hits = append(hits, Hit{File: rel, Name: string(n)})
					mu.Unlock()
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	sort.Slice(hits, func(i, j int) bool {
		if hits[i].File != hits[j].File {
			return hits[i].File < hits[j].File
		}
		return hits[i].Name < hits[j].Name
	})
	return hits, nil
}
