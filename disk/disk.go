// Package disk ties the leaf components together: ImageSource selection,
// partition discovery, per-partition volume parsing, and the MFT/USN passes,
// mirroring the data flow ImageSource -> PartitionLocator -> NtfsVolume ->
// {MftReader, ArtifactExtractor} -> {MftDecoder -> PathResolver, UsnDecoder}.
package disk

import (
	"bytes"
	"context"
	"os"
	"path/filepath"

	"github.com/aarsakian/ntfsforensics/disk/partition"
	"github.com/aarsakian/ntfsforensics/errs"
	"github.com/aarsakian/ntfsforensics/extractor"
	"github.com/aarsakian/ntfsforensics/img"
	"github.com/aarsakian/ntfsforensics/logfile"
	"github.com/aarsakian/ntfsforensics/logger"
	"github.com/aarsakian/ntfsforensics/mft"
	"github.com/aarsakian/ntfsforensics/pathresolver"
	"github.com/aarsakian/ntfsforensics/progress"
	"github.com/aarsakian/ntfsforensics/usnjrnl"
	"github.com/aarsakian/ntfsforensics/volume"
)

// ExtractSkip names an artifact to omit from an Extract call.
type ExtractSkip struct {
	LogFile bool
	UsnJrnl bool
}

// Extract reconstitutes $MFT (always), $LogFile and $UsnJrnl:$J (unless
// skipped) for one NTFS partition into files under outDir, returning the
// paths written. $UsnJrnl requires a completed MFT pass to locate its entry
// number, so this always decodes the MFT first even when the caller only
// wants artifact files rather than records.
func (disk *Disk) Extract(ctx context.Context, p partition.Partition, outDir string, skip ExtractSkip) ([]string, error) {
	v, err := volume.Parse(disk.Handler, p.StartOffsetB)
	if err != nil {
		return nil, err
	}
	reader := mft.NewReader(v)
	ext := extractor.New(v, reader)

	if err := os.MkdirAll(outDir, 0750); err != nil {
		return nil, errs.Newf(errs.IoError, "creating %s: %v", outDir, err)
	}

	var written []string

	mftPath := filepath.Join(outDir, "$MFT")
	if err := extractToFile(func(w *os.File) error { return ext.ExtractMFT(ctx, w) }, mftPath); err != nil {
		return written, err
	}
	written = append(written, mftPath)

	if !skip.LogFile {
		logPath := filepath.Join(outDir, "$LogFile")
		if err := extractToFile(func(w *os.File) error { return ext.ExtractLogFile(ctx, w) }, logPath); err == nil {
			written = append(written, logPath)
		} else {
			logger.NtfsForensicsLogger.Warning(err.Error())
		}
	}

	if !skip.UsnJrnl {
		table := mft.NewTable(reader)
		entryCount, cerr := mftEntryCount(reader)
		if cerr == nil {
			table.DecodeRange(ctx, entryCount, 0, -1, false, progress.Silent{})
			if usnEntry, found := extractor.FindUsnJrnlEntry(table.Records); found {
				usnPath := filepath.Join(outDir, "$UsnJrnl_$J")
				if err := extractToFile(func(w *os.File) error { return ext.ExtractUsnJrnl(ctx, usnEntry, w) }, usnPath); err == nil {
					written = append(written, usnPath)
				} else {
					logger.NtfsForensicsLogger.Warning(err.Error())
				}
			}
		}
	}

	return written, nil
}

func extractToFile(write func(*os.File) error, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return errs.Newf(errs.IoError, "creating %s: %v", path, err)
	}
	defer f.Close()
	return write(f)
}

// Disk owns one ImageSource and the partitions discovered on it.
type Disk struct {
	Handler    img.DiskReader
	Partitions []partition.Partition
}

func (disk *Disk) Initialize(hD img.DiskReader) {
	disk.Handler = hD
}

func (disk Disk) Close() {
	disk.Handler.CloseHandler()
}

func (disk *Disk) DiscoverPartitions() error {
	parts, err := partition.Locate(disk.Handler)
	if err != nil {
		return err
	}
	disk.Partitions = parts
	return nil
}

// Options controls what ProcessPartitions decodes for one NTFS partition.
type Options struct {
	Ctx            context.Context
	FromMFTEntry   int
	ToMFTEntry     int
	IncludeDeleted bool
	IncludePath    bool
	IncludeUsn     bool
	ParseLogFile   bool
	Progress       progress.Reporter
}

// PartitionResult holds everything decoded from one NTFS partition.
type PartitionResult struct {
	Partition   partition.Partition
	Volume      *volume.NtfsVolume
	Table       *mft.Table
	Resolver    *pathresolver.PathResolver
	UsnEvents   []usnjrnl.Event
	UsnDecoder  *usnjrnl.Decoder
	LogRestarts []logfile.RestartPage
	LogRecords  []logfile.RecordPage
}

// ProcessPartitions runs the MFT pass (and, if requested, the path
// resolution and USN passes) over every NTFS partition selected by
// partitionNum (-1 means every NTFS partition found, per S6).
func (disk *Disk) ProcessPartitions(partitionNum int, opts Options) ([]PartitionResult, error) {
	ntfsParts, err := partition.SelectNTFS(disk.Partitions, partitionNum)
	if err != nil {
		return nil, err
	}

	var results []PartitionResult
	for _, p := range ntfsParts {
		res, perr := disk.processOne(p, opts)
		if perr != nil {
			logger.NtfsForensicsLogger.Warning(perr.Error())
			continue
		}
		results = append(results, res)
	}
	return results, nil
}

func (disk *Disk) processOne(p partition.Partition, opts Options) (PartitionResult, error) {
	ctx := opts.Ctx
	if ctx == nil {
		ctx = context.Background()
	}

	v, err := volume.Parse(disk.Handler, p.StartOffsetB)
	if err != nil {
		return PartitionResult{}, err
	}

	reader := mft.NewReader(v)
	table := mft.NewTable(reader)

	entryCount, err := mftEntryCount(reader)
	if err != nil {
		return PartitionResult{}, err
	}

	rp := opts.Progress
	if rp == nil {
		rp = progress.Silent{}
	}
	table.DecodeRange(ctx, entryCount, opts.FromMFTEntry, opts.ToMFTEntry, opts.IncludeDeleted, rp)

	res := PartitionResult{Partition: p, Volume: v, Table: table}

	if opts.IncludePath || opts.IncludeUsn {
		res.Resolver = buildPathResolver(table.Records)
	}
	if opts.IncludePath {
		for i := range table.Records {
			path, perr := res.Resolver.Resolve(table.Records[i].EntryNumber)
			if perr != nil {
				table.Tally.Add(perr.Kind)
			}
			table.Records[i].FullPath = path
		}
	}

	ext := extractor.New(v, reader)

	if opts.IncludeUsn {
		usnEntry, found := extractor.FindUsnJrnlEntry(table.Records)
		if found {
			var buf bytes.Buffer
			if extErr := ext.ExtractUsnJrnl(ctx, usnEntry, &buf); extErr == nil {
				dec := usnjrnl.NewDecoder(buf.Bytes(), v.ClusterSize())
				for {
					if ctx.Err() != nil {
						table.Tally.Add(errs.Cancelled)
						break
					}
					rec, ok := dec.Next()
					if !ok {
						break
					}
					res.UsnEvents = append(res.UsnEvents, usnjrnl.Events(rec)...)
				}
				res.UsnDecoder = dec
			}
		}
	}

	if opts.ParseLogFile {
		var buf bytes.Buffer
		if extErr := ext.ExtractLogFile(ctx, &buf); extErr == nil {
			restarts, records := logfile.Walk(buf.Bytes())
			res.LogRestarts = restarts
			res.LogRecords = records
		}
	}

	return res, nil
}

// mftEntryCount decodes MFT record 0 to learn the $MFT's own unnamed $DATA
// real size, then divides by the entry size to bound the decode range.
func mftEntryCount(reader *mft.Reader) (int, error) {
	record, err := reader.ReadEntry(extractor.EntryMFT)
	if err != nil && record.Corrupt {
		return 0, err
	}
	decoded := mft.Decode(record)
	if decoded.DataSize == 0 || reader.EntrySize == 0 {
		return 0, errs.New(errs.BadRunList, "could not determine mft size from record 0")
	}
	return int(decoded.DataSize) / reader.EntrySize, nil
}

func buildPathResolver(records []mft.MftRecord) *pathresolver.PathResolver {
	pr := pathresolver.New()
	for _, r := range records {
		pr.Add(r.EntryNumber, r.SequenceNumber, r.FileName, r.ParentEntryNumber, r.ParentSequenceNum)
	}
	return pr
}
