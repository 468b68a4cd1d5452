package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"math"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	EWFLogger "github.com/aarsakian/EWF_Reader/logger"
	VMDKLogger "github.com/aarsakian/VMDK_Reader/logger"

	"github.com/aarsakian/ntfsforensics/disk"
	"github.com/aarsakian/ntfsforensics/disk/partition"
	"github.com/aarsakian/ntfsforensics/filtermanager"
	"github.com/aarsakian/ntfsforensics/filters"
	"github.com/aarsakian/ntfsforensics/img"
	FSLogger "github.com/aarsakian/ntfsforensics/logger"
	"github.com/aarsakian/ntfsforensics/mft"
	"github.com/aarsakian/ntfsforensics/progress"
	"github.com/aarsakian/ntfsforensics/reporter"
	"github.com/aarsakian/ntfsforensics/sink"
	"github.com/aarsakian/ntfsforensics/tree"
	"github.com/aarsakian/ntfsforensics/utils"
)

// Exit codes per the record sink / pipeline contract: 0 success, 2 input
// error, 3 format error, 4 partial (some records corrupt), 5 cancelled.
const (
	exitOK          = 0
	exitInputError  = 2
	exitFormatError = 3
	exitPartial     = 4
	exitCancelled   = 5
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(exitInputError)
	}

	sub := os.Args[1]
	args := os.Args[2:]

	switch sub {
	case "extract":
		os.Exit(runExtract(args))
	case "parse_mft":
		os.Exit(runParseMFT(args))
	case "parse_usnjrnl":
		os.Exit(runParseUsnjrnl(args))
	case "parse_logfile":
		os.Exit(runParseLogFile(args))
	case "analyze":
		os.Exit(runAnalyze(args))
	case "extract_analyze":
		os.Exit(runExtractAnalyze(args))
	default:
		usage()
		os.Exit(exitInputError)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: ntfsforensics <extract|parse_mft|parse_usnjrnl|parse_logfile|analyze|extract_analyze> [flags]")
}

func commonImageFlags(fs *flag.FlagSet) (evidencefile, vmdkfile *string, physicalDrive *int) {
	evidencefile = fs.String("evidence", "", "path to image file (EWF formats are supported)")
	vmdkfile = fs.String("vmdk", "", "path to vmdk file (Sparse formats are supported)")
	physicalDrive = fs.Int("physicaldrive", -1, "select disk drive number")
	return
}

func openImage(evidencefile, vmdkfile string, physicalDrive int, rawImage string) (img.DiskReader, error) {
	switch {
	case evidencefile != "":
		return img.GetHandler(evidencefile, "ewf")
	case vmdkfile != "":
		return img.GetHandler(vmdkfile, "vmdk")
	case physicalDrive != -1:
		return img.GetHandler(fmt.Sprintf("\\\\.\\PHYSICALDRIVE%d", physicalDrive), "physicalDrive")
	default:
		return img.GetHandler(rawImage, "raw")
	}
}

func initLoggers(active bool) {
	logfilename := "logs" + time.Now().Format("2006-01-02T15_04_05") + ".txt"
	FSLogger.InitializeLogger(active, logfilename)
	VMDKLogger.InitializeLogger(active, logfilename)
	EWFLogger.InitializeLogger(active, logfilename)
}

// cancelOnInterrupt returns a context cancelled on SIGINT/SIGTERM, per the
// single cooperative cancellation token polled at record/run boundaries.
func cancelOnInterrupt() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func openDiskAndDiscover(evidencefile, vmdkfile, rawImage string, physicalDrive int) (*disk.Disk, int) {
	hD, err := openImage(evidencefile, vmdkfile, physicalDrive, rawImage)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return nil, exitInputError
	}
	d := &disk.Disk{}
	d.Initialize(hD)
	if err := d.DiscoverPartitions(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return nil, exitFormatError
	}
	return d, exitOK
}

func runExtract(args []string) int {
	fs := flag.NewFlagSet("extract", flag.ExitOnError)
	evidencefile, vmdkfile, physicalDrive := commonImageFlags(fs)
	rawImage := fs.String("image", "", "path to raw/DD image or bare NTFS volume")
	outDir := fs.String("out", "", "directory to write extracted artifacts into")
	partitionNum := fs.Int("partition", -1, "select partition number (0-based); default all NTFS partitions")
	skipLogFile := fs.Bool("skip-logfile", false, "don't extract $LogFile")
	skipUsnJrnl := fs.Bool("skip-usnjrnl", false, "don't extract $UsnJrnl:$J")
	logactive := fs.Bool("log", false, "enable logging")
	fs.Parse(args)

	initLoggers(*logactive)
	if *outDir == "" {
		fmt.Fprintln(os.Stderr, "extract: -out is required")
		return exitInputError
	}

	d, code := openDiskAndDiscover(*evidencefile, *vmdkfile, *rawImage, *physicalDrive)
	if d == nil {
		return code
	}
	defer d.Close()

	ctx, cancel := cancelOnInterrupt()
	defer cancel()

	ntfsParts, err := partition.SelectNTFS(d.Partitions, *partitionNum)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitFormatError
	}

	for _, p := range ntfsParts {
		paths, err := d.Extract(ctx, p, *outDir, disk.ExtractSkip{LogFile: *skipLogFile, UsnJrnl: *skipUsnJrnl})
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return exitFormatError
		}
		for _, path := range paths {
			fmt.Println(path)
		}
	}
	if ctx.Err() != nil {
		return exitCancelled
	}
	return exitOK
}

func runParseMFT(args []string) int {
	fs := flag.NewFlagSet("parse_mft", flag.ExitOnError)
	evidencefile, vmdkfile, physicalDrive := commonImageFlags(fs)
	rawImage := fs.String("image", "", "path to raw/DD image or bare NTFS volume")
	partitionNum := fs.Int("partition", -1, "select partition number")
	includePath := fs.Bool("path", false, "reconstruct full paths")
	includeDeleted := fs.Bool("deleted", false, "decode corrupt/unallocated entries and keep only records not in use")
	fromEntry := fs.Int("fromEntry", -1, "first entry to decode")
	toEntry := fs.Int("toEntry", math.MaxInt32, "last entry to decode")
	format := fs.String("format", "csv", "output format: csv or json")
	out := fs.String("out", "", "output file path; empty writes to stdout")
	filenames := fs.String("filenames", "", "select particular files, use comma as a separator")
	extensions := fs.String("extensions", "", "select files by extension, use comma as a separator")
	orphans := fs.Bool("orphans", false, "show information only for orphan records")
	folders := fs.Bool("folders", true, "include directory entries")
	entries := fs.String("entries", "", "select particular MFT entries, use comma as a separator")
	verbose := fs.Bool("verbose", false, "also print a human-readable dump to stdout")
	logactive := fs.Bool("log", false, "enable logging")
	fs.Parse(args)

	initLoggers(*logactive)
	d, code := openDiskAndDiscover(*evidencefile, *vmdkfile, *rawImage, *physicalDrive)
	if d == nil {
		return code
	}
	defer d.Close()

	ctx, cancel := cancelOnInterrupt()
	defer cancel()

	results, err := d.ProcessPartitions(*partitionNum, disk.Options{
		Ctx: ctx, FromMFTEntry: *fromEntry, ToMFTEntry: *toEntry,
		IncludeDeleted: *includeDeleted, IncludePath: *includePath,
		Progress: progress.Silent{},
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitFormatError
	}

	w, closeFn, err := openOutput(*out)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitInputError
	}
	defer closeFn()

	fm := buildFilterManager(*filenames, *extensions, *includeDeleted, *orphans, *folders)
	selectedEntries := utils.GetEntriesInt(*entries)
	rp := reporter.Reporter{ShowTimestamps: *verbose, ShowParent: *verbose, ShowPath: *includePath && *verbose}
	s := newFormatSink(*format, w, nil)
	partial := false
	for _, res := range results {
		if res.Table.Tally.Total() > 0 {
			partial = true
		}
		selected := fm.ApplyFilters(res.Table.Records)
		selected = filterByEntries(selected, selectedEntries)
		if *verbose {
			rp.ShowMftRecords(selected)
		}
		for _, r := range selected {
			if werr := s.WriteMftRecord(r); werr != nil {
				fmt.Fprintln(os.Stderr, werr)
				return exitInputError
			}
		}
	}
	s.Close()

	if ctx.Err() != nil {
		return exitCancelled
	}
	if partial {
		return exitPartial
	}
	return exitOK
}

func runParseUsnjrnl(args []string) int {
	fs := flag.NewFlagSet("parse_usnjrnl", flag.ExitOnError)
	evidencefile, vmdkfile, physicalDrive := commonImageFlags(fs)
	rawImage := fs.String("image", "", "path to raw/DD image or bare NTFS volume")
	partitionNum := fs.Int("partition", -1, "select partition number")
	format := fs.String("format", "csv", "output format: csv or json")
	out := fs.String("out", "", "output file path; empty writes to stdout")
	verbose := fs.Bool("verbose", false, "also print a human-readable dump to stdout")
	logactive := fs.Bool("log", false, "enable logging")
	fs.Parse(args)

	initLoggers(*logactive)
	d, code := openDiskAndDiscover(*evidencefile, *vmdkfile, *rawImage, *physicalDrive)
	if d == nil {
		return code
	}
	defer d.Close()

	ctx, cancel := cancelOnInterrupt()
	defer cancel()

	results, err := d.ProcessPartitions(*partitionNum, disk.Options{
		Ctx: ctx, ToMFTEntry: -1, IncludeUsn: true, Progress: progress.Silent{},
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitFormatError
	}

	w, closeFn, err := openOutput(*out)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitInputError
	}
	defer closeFn()

	rp := reporter.Reporter{}
	s := newFormatSink(*format, nil, w)
	partial := false
	for _, res := range results {
		if res.UsnDecoder != nil && res.UsnDecoder.CorruptionCount > 0 {
			partial = true
		}
		if *verbose {
			rp.ShowUsnEvents(res.UsnEvents)
		}
		for _, e := range res.UsnEvents {
			if werr := s.WriteUsnEvent(e); werr != nil {
				fmt.Fprintln(os.Stderr, werr)
				return exitInputError
			}
		}
	}
	s.Close()

	if ctx.Err() != nil {
		return exitCancelled
	}
	if partial {
		return exitPartial
	}
	return exitOK
}

func runParseLogFile(args []string) int {
	fs := flag.NewFlagSet("parse_logfile", flag.ExitOnError)
	evidencefile, vmdkfile, physicalDrive := commonImageFlags(fs)
	rawImage := fs.String("image", "", "path to raw/DD image or bare NTFS volume")
	partitionNum := fs.Int("partition", -1, "select partition number")
	logactive := fs.Bool("log", false, "enable logging")
	fs.Parse(args)

	initLoggers(*logactive)
	d, code := openDiskAndDiscover(*evidencefile, *vmdkfile, *rawImage, *physicalDrive)
	if d == nil {
		return code
	}
	defer d.Close()

	ctx, cancel := cancelOnInterrupt()
	defer cancel()

	results, err := d.ProcessPartitions(*partitionNum, disk.Options{
		Ctx: ctx, ToMFTEntry: -1, ParseLogFile: true, Progress: progress.Silent{},
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitFormatError
	}

	for _, res := range results {
		for _, r := range res.LogRestarts {
			fmt.Printf("RSTR current_lsn=%d system_page_size=%d log_page_size=%d clients=%d\n",
				r.CurrentLSN, r.SystemPageSize, r.LogPageSize, r.LogClients)
		}
		for _, r := range res.LogRecords {
			fmt.Printf("RCRD page@0x%X last_lsn=%d page_position=%d/%d\n",
				r.PageOffset, r.LastLSN, r.PagePosition, r.PageCount)
		}
	}
	if ctx.Err() != nil {
		return exitCancelled
	}
	return exitOK
}

func runAnalyze(args []string) int {
	fs := flag.NewFlagSet("analyze", flag.ExitOnError)
	evidencefile, vmdkfile, physicalDrive := commonImageFlags(fs)
	rawImage := fs.String("image", "", "path to raw/DD image or bare NTFS volume")
	partitionNum := fs.Int("partition", -1, "select partition number")
	format := fs.String("format", "csv", "output format: csv or json")
	mftOut := fs.String("mft-out", "", "mft output file path; empty writes to stdout")
	usnOut := fs.String("usn-out", "", "usn output file path; empty writes to stdout")
	showTree := fs.Bool("tree", false, "print the reconstructed directory hierarchy")
	logactive := fs.Bool("log", false, "enable logging")
	fs.Parse(args)

	initLoggers(*logactive)
	d, code := openDiskAndDiscover(*evidencefile, *vmdkfile, *rawImage, *physicalDrive)
	if d == nil {
		return code
	}
	defer d.Close()

	ctx, cancel := cancelOnInterrupt()
	defer cancel()

	results, err := d.ProcessPartitions(*partitionNum, disk.Options{
		Ctx: ctx, ToMFTEntry: -1, IncludePath: true, IncludeUsn: true, Progress: progress.Silent{},
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitFormatError
	}

	if *showTree {
		for _, res := range results {
			var t tree.Tree
			t.Build(res.Table.Records)
			t.Show()
		}
	}

	mftW, mftClose, err := openOutput(*mftOut)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitInputError
	}
	defer mftClose()
	usnW, usnClose, err := openOutput(*usnOut)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitInputError
	}
	defer usnClose()

	s := newFormatSink(*format, mftW, usnW)
	partial := false
	for _, res := range results {
		if res.Table.Tally.Total() > 0 {
			partial = true
		}
		for _, r := range res.Table.Records {
			s.WriteMftRecord(r)
		}
		for _, e := range res.UsnEvents {
			s.WriteUsnEvent(e)
		}
	}
	s.Close()

	if ctx.Err() != nil {
		return exitCancelled
	}
	if partial {
		return exitPartial
	}
	return exitOK
}

func runExtractAnalyze(args []string) (code int) {
	fs := flag.NewFlagSet("extract_analyze", flag.ExitOnError)
	evidencefile, vmdkfile, physicalDrive := commonImageFlags(fs)
	rawImage := fs.String("image", "", "path to raw/DD image or bare NTFS volume")
	outDir := fs.String("out", "", "directory to write extracted artifacts and records into")
	partitionNum := fs.Int("partition", -1, "select partition number")
	format := fs.String("format", "csv", "output format: csv or json")
	keepTemp := fs.Bool("keep-temp", false, "keep extracted artifact files after analysis")
	logactive := fs.Bool("log", false, "enable logging")
	fs.Parse(args)

	initLoggers(*logactive)
	if *outDir == "" {
		fmt.Fprintln(os.Stderr, "extract_analyze: -out is required")
		return exitInputError
	}

	d, code := openDiskAndDiscover(*evidencefile, *vmdkfile, *rawImage, *physicalDrive)
	if d == nil {
		return code
	}
	defer d.Close()

	ctx, cancel := cancelOnInterrupt()
	defer cancel()

	ntfsParts, err := partition.SelectNTFS(d.Partitions, *partitionNum)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitFormatError
	}

	tempDir, err := os.MkdirTemp("", "ntfsforensics-extract-*")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitInputError
	}
	cleanTemp := func() {
		cancelled := ctx.Err() != nil
		fatal := code == exitInputError || code == exitFormatError
		if cancelled || (!*keepTemp && !fatal) {
			os.RemoveAll(tempDir)
		}
	}
	defer cleanTemp()

	results, err := d.ProcessPartitions(*partitionNum, disk.Options{
		Ctx: ctx, ToMFTEntry: -1, IncludePath: true, IncludeUsn: true, Progress: progress.Silent{},
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitFormatError
	}

	if err := os.MkdirAll(*outDir, 0750); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitInputError
	}

	mftPath := fmt.Sprintf("%s/mft.%s", *outDir, *format)
	usnPath := fmt.Sprintf("%s/usnjrnl.%s", *outDir, *format)
	mftW, mftClose, err := openOutput(mftPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitInputError
	}
	defer mftClose()
	usnW, usnClose, err := openOutput(usnPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitInputError
	}
	defer usnClose()

	s := newFormatSink(*format, mftW, usnW)
	partial := false
	for _, p := range ntfsParts {
		if _, err := d.Extract(ctx, p, tempDir, disk.ExtractSkip{}); err != nil {
			logFailure(err)
		}
	}
	for _, res := range results {
		if res.Table.Tally.Total() > 0 {
			partial = true
		}
		for _, r := range res.Table.Records {
			s.WriteMftRecord(r)
		}
		for _, e := range res.UsnEvents {
			s.WriteUsnEvent(e)
		}
	}
	s.Close()

	if ctx.Err() != nil {
		return exitCancelled
	}
	if partial {
		return exitPartial
	}
	return exitOK
}

func logFailure(err error) {
	fmt.Fprintln(os.Stderr, err)
}

func openOutput(path string) (*os.File, func(), error) {
	if path == "" {
		return os.Stdout, func() {}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, func() {}, err
	}
	return f, func() { f.Close() }, nil
}

// filterByEntries keeps only the records whose EntryNumber appears in
// wanted; an empty wanted leaves records untouched.
func filterByEntries(records []mft.MftRecord, wanted []int) []mft.MftRecord {
	if len(wanted) == 0 {
		return records
	}
	set := make(map[uint32]bool, len(wanted))
	for _, n := range wanted {
		set[uint32(n)] = true
	}
	var out []mft.MftRecord
	for _, r := range records {
		if set[r.EntryNumber] {
			out = append(out, r)
		}
	}
	return out
}

func splitCSV(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}

func buildFilterManager(filenames, extensions string, deleted, orphans, folders bool) filtermanager.FilterManager {
	var fm filtermanager.FilterManager
	if names := splitCSV(filenames); len(names) > 0 {
		fm.Register(filters.NameFilter{Filenames: names})
	}
	if exts := splitCSV(extensions); len(exts) > 0 {
		fm.Register(filters.ExtensionsFilter{Extensions: exts})
	}
	fm.Register(filters.DeletedFilter{Include: deleted})
	fm.Register(filters.OrphansFilter{Include: orphans})
	fm.Register(filters.FoldersFilter{Include: folders})
	return fm
}

// newFormatSink builds a RecordSink over mftOut/usnOut, each of which may be
// nil when that record kind isn't being emitted. A nil *os.File must not
// reach sink.NewCSVSink/NewJSONSink as a typed io.Writer, since that would
// produce a non-nil interface wrapping a nil pointer.
func newFormatSink(format string, mftOut, usnOut *os.File) sink.RecordSink {
	var mftW, usnW io.Writer
	if mftOut != nil {
		mftW = mftOut
	}
	if usnOut != nil {
		usnW = usnOut
	}
	if format == "json" {
		return sink.NewJSONSink(mftW, usnW)
	}
	return sink.NewCSVSink(mftW, usnW)
}
