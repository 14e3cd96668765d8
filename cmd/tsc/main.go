// Command tsc is a thin CLI wrapping the container package: compress a SAM
// text file into a tsc container, decompress one back to SAM text, or print
// its block-header chain. It carries no format logic of its own (spec.md §6
// EXPANDED) — the on-disk layout lives entirely in section/codec/container.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/voges/tsc/container"
	"github.com/voges/tsc/format"
	"github.com/voges/tsc/record"
)

const (
	samExt  = ".sam"
	tscExt  = ".tsc"
	gompExt = ".gomp"
)

type cliFlags struct {
	decompress bool
	info       bool
	force      bool
	output     string
	stats      bool
	timings    bool
	verbose    bool
	version    bool
}

func main() {
	log.SetFlags(0)
	log.SetPrefix("tsc: ")

	if err := run(os.Args); err != nil {
		log.Println(err)
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := flag.NewFlagSet(filepath.Base(args[0]), flag.ContinueOnError)
	f := &cliFlags{}
	fs.BoolVar(&f.decompress, "d", false, "decompress")
	fs.BoolVar(&f.info, "i", false, "print block-header chain")
	fs.BoolVar(&f.force, "f", false, "force overwrite of an existing output file")
	fs.StringVar(&f.output, "o", "", "output path")
	fs.BoolVar(&f.stats, "s", false, "print size statistics")
	fs.BoolVar(&f.timings, "t", false, "print elapsed time")
	fs.BoolVar(&f.verbose, "v", false, "verbose logging")
	fs.BoolVar(&f.version, "V", false, "print version and exit")
	if err := fs.Parse(args[1:]); err != nil {
		return err
	}

	if f.version {
		fmt.Println(format.Version)
		return nil
	}

	// A program invoked under a name prefixed "de" (e.g. a "detsc" symlink)
	// defaults to decompress, same as passing -d explicitly (spec.md §6).
	if strings.HasPrefix(filepath.Base(args[0]), "de") {
		f.decompress = true
	}

	if fs.NArg() != 1 {
		fs.Usage()
		return fmt.Errorf("exactly one input file is required, got %d", fs.NArg())
	}
	input := fs.Arg(0)

	switch {
	case f.info:
		return runInfo(input, f)
	case f.decompress:
		return runDecompress(input, f)
	default:
		return runCompress(input, f)
	}
}

func runCompress(input string, f *cliFlags) error {
	if ext := filepath.Ext(input); ext != samExt {
		return fmt.Errorf("compress: input %q must have extension %q, got %q", input, samExt, ext)
	}

	output := f.output
	if output == "" {
		output = strings.TrimSuffix(input, samExt) + tscExt
	}
	if err := checkOverwrite(output, f.force); err != nil {
		return err
	}

	start := time.Now()

	sourceHeader, records, err := readSAM(input)
	if err != nil {
		return fmt.Errorf("compress: %w", err)
	}
	if f.verbose {
		log.Printf("read %d records from %s", len(records), input)
	}

	out, err := os.Create(output)
	if err != nil {
		return fmt.Errorf("compress: %w", err)
	}
	defer out.Close()

	w, err := container.NewWriter(out, sourceHeader)
	if err != nil {
		return fmt.Errorf("compress: %w", err)
	}
	for _, rec := range records {
		if err := w.AddRecord(rec); err != nil {
			return fmt.Errorf("compress: %w", err)
		}
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("compress: %w", err)
	}

	if f.stats {
		printCompressStats(input, output)
	}
	if f.timings {
		log.Printf("compress: %s", time.Since(start))
	}

	return nil
}

func runDecompress(input string, f *cliFlags) error {
	if err := checkContainerExt(input); err != nil {
		return fmt.Errorf("decompress: %w", err)
	}

	output := f.output
	if output == "" {
		output = strings.TrimSuffix(strings.TrimSuffix(input, tscExt), gompExt) + ".out" + samExt
	}
	if err := checkOverwrite(output, f.force); err != nil {
		return err
	}

	start := time.Now()

	in, err := os.Open(input)
	if err != nil {
		return fmt.Errorf("decompress: %w", err)
	}
	defer in.Close()

	out, err := os.Create(output)
	if err != nil {
		return fmt.Errorf("decompress: %w", err)
	}
	defer out.Close()

	bw := bufio.NewWriter(out)
	if err := container.Decode(in, bw); err != nil {
		return fmt.Errorf("decompress: %w", err)
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("decompress: %w", err)
	}

	if f.verbose {
		log.Printf("decompressed %s into %s", input, output)
	}
	if f.timings {
		log.Printf("decompress: %s", time.Since(start))
	}

	return nil
}

func runInfo(input string, f *cliFlags) error {
	if err := checkContainerExt(input); err != nil {
		return fmt.Errorf("info: %w", err)
	}

	in, err := os.Open(input)
	if err != nil {
		return fmt.Errorf("info: %w", err)
	}
	defer in.Close()

	r, err := container.NewInfoReader(in)
	if err != nil {
		return fmt.Errorf("info: %w", err)
	}
	h := r.Header()
	fmt.Printf("version=%s rec_n=%d blk_n=%d blk_lc=%d\n", h.Version, h.RecN, h.BlkN, h.BlkLc)

	blocks, err := r.Walk()
	for _, b := range blocks {
		fmt.Printf("blk_cnt=%d fpos=%d fpos_nxt=%d rec_cnt=%d chr_cnt=%d pos_min=%d pos_max=%d\n",
			b.BlkCnt, b.Fpos, b.FposNxt, b.RecCnt, b.ChrCnt, b.PosMin, b.PosMax)
	}
	if err != nil {
		return fmt.Errorf("info: %w", err)
	}

	return nil
}

// readSAM splits a SAM text file into its verbatim header block (every
// leading line starting with '@') and its parsed records.
func readSAM(path string) ([]byte, []record.Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}

	var header strings.Builder
	rest := string(data)
	for len(rest) > 0 && rest[0] == '@' {
		idx := strings.IndexByte(rest, '\n')
		if idx < 0 {
			header.WriteString(rest)
			rest = ""
			break
		}
		header.WriteString(rest[:idx+1])
		rest = rest[idx+1:]
	}

	var records []record.Record
	for _, line := range strings.Split(rest, "\n") {
		if line == "" {
			continue
		}
		rec, err := record.Parse(line)
		if err != nil {
			return nil, nil, err
		}
		records = append(records, rec)
	}

	return []byte(header.String()), records, nil
}

func checkContainerExt(path string) error {
	ext := filepath.Ext(path)
	if ext != tscExt && ext != gompExt {
		return fmt.Errorf("input %q must have extension %q or %q, got %q", path, tscExt, gompExt, ext)
	}

	return nil
}

func checkOverwrite(path string, force bool) error {
	if force {
		return nil
	}
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("output %q already exists (use -f to overwrite)", path)
	}

	return nil
}

func printCompressStats(input, output string) {
	in, err := os.Stat(input)
	if err != nil {
		return
	}
	out, err := os.Stat(output)
	if err != nil {
		return
	}
	ratio := float64(out.Size()) / float64(in.Size())
	fmt.Printf("%s: %d bytes -> %s: %d bytes (%.2f%%)\n", input, in.Size(), output, out.Size(), ratio*100)
}
