package main

import (
	"flag"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"

	"golang.org/x/text/encoding/charmap"

	"github.com/mogaika/edm_browser/config"
	"github.com/mogaika/edm_browser/pack/edm"
)

type result struct {
	Path  string
	Stats edm.Stats
	Err   error
}

func findModels(root string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.EqualFold(filepath.Ext(path), ".edm") {
			paths = append(paths, path)
		}
		return nil
	})
	sort.Strings(paths)
	return paths, err
}

func checkFile(path string, cm *charmap.Charmap) result {
	res := result{Path: path}
	data, err := os.ReadFile(path)
	if err != nil {
		res.Err = err
		return res
	}
	f, err := edm.Options{Encoding: cm}.Decode(data)
	if err != nil {
		res.Err = err
		return res
	}
	res.Stats = f.Stats()
	return res
}

// check decodes every file with a pool of workers, results keep the order of paths.
func check(paths []string, workers int, cm *charmap.Charmap) []result {
	if workers <= 0 {
		workers = 1
	}
	results := make([]result, len(paths))
	jobs := make(chan int, workers*2)
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i] = checkFile(paths[i], cm)
			}
		}()
	}
	for i := range paths {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	return results
}

func main() {
	var workers int
	var encoding string
	var verbose bool
	flag.IntVar(&workers, "j", runtime.NumCPU(), "Parallel decoders")
	flag.StringVar(&encoding, "encoding", config.DefaultEncoding.String(), "Text code page")
	flag.BoolVar(&verbose, "v", false, "Print stats of decoded files too")
	flag.Parse()

	if flag.NArg() == 0 {
		fmt.Fprintf(os.Stderr, "usage: edmcheck [flags] <dir>...\n")
		flag.PrintDefaults()
		os.Exit(2)
	}

	cm, err := config.FindEncoding(encoding)
	if err != nil {
		log.Fatal(err)
	}

	var paths []string
	for _, root := range flag.Args() {
		found, err := findModels(root)
		if err != nil {
			log.Fatalf("[edmcheck] walk %s: %v", root, err)
		}
		paths = append(paths, found...)
	}

	failed := 0
	for _, res := range check(paths, workers, cm) {
		if res.Err != nil {
			failed++
			fmt.Printf("FAIL %s: %v\n", res.Path, res.Err)
		} else if verbose {
			fmt.Printf("ok   %s: v%d nodes=%v materials=%d vertices=%d triangles=%d\n", res.Path,
				res.Stats.Version, res.Stats.Nodes, res.Stats.Materials, res.Stats.Vertices, res.Stats.Triangles)
		}
	}
	log.Printf("[edmcheck] %d files, %d failed", len(paths), failed)
	if failed != 0 {
		os.Exit(1)
	}
}
