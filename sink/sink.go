// Package sink defines RecordSink, the output-agnostic boundary the core
// pipeline writes decoded records through, plus minimal CSV and JSON
// implementations. SQLite and any richer writer are external collaborators
// per the boundary split; these two exist so the pipeline has a usable
// default without reaching outside the core for every run.
package sink

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"

	"github.com/aarsakian/ntfsforensics/mft"
	"github.com/aarsakian/ntfsforensics/usnjrnl"
)

// RecordSink is the narrow boundary the MftDecoder and UsnDecoder passes
// write through. Implementations own their own buffering and finalization;
// Close commits whatever the format needs (closing a JSON array, flushing a
// CSV writer, committing a SQLite transaction).
type RecordSink interface {
	WriteMftRecord(r mft.MftRecord) error
	WriteUsnEvent(e usnjrnl.Event) error
	Close() error
}

var mftHeader = []string{
	"entry_number", "sequence_number", "in_use", "is_directory", "file_name",
	"parent_entry_number", "parent_sequence_number", "file_attr_flags",
	"si_created", "si_modified", "si_mft_modified", "si_accessed",
	"fn_created", "fn_modified", "fn_mft_modified", "fn_accessed",
	"data_size", "is_resident", "full_path", "corrupt", "note",
}

var usnHeader = []string{
	"usn", "event", "major_version", "minor_version", "file_entry", "file_seq",
	"parent_entry", "parent_seq", "timestamp", "reason_flags",
	"source_info_flags", "security_id", "file_attr_flags", "file_name",
}

// CSVSink writes one UTF-8-with-BOM, RFC-4180 CSV file per record kind
// (§6): MFT records and USN events never interleave in the same file, so
// two destinations are required.
type CSVSink struct {
	mftW *csv.Writer
	usnW *csv.Writer
	mftWroteHeader bool
	usnWroteHeader bool
}

const utf8BOM = "﻿"

// NewCSVSink wraps mftOut/usnOut (either may be nil if that record kind is
// not being emitted this run) with RFC-4180 writers, each seeded with a
// UTF-8 BOM.
func NewCSVSink(mftOut, usnOut io.Writer) *CSVSink {
	s := &CSVSink{}
	if mftOut != nil {
		io.WriteString(mftOut, utf8BOM)
		s.mftW = csv.NewWriter(mftOut)
	}
	if usnOut != nil {
		io.WriteString(usnOut, utf8BOM)
		s.usnW = csv.NewWriter(usnOut)
	}
	return s
}

func (s *CSVSink) WriteMftRecord(r mft.MftRecord) error {
	if s.mftW == nil {
		return nil
	}
	if !s.mftWroteHeader {
		if err := s.mftW.Write(mftHeader); err != nil {
			return err
		}
		s.mftWroteHeader = true
	}
	row := []string{
		fmt.Sprintf("%d", r.EntryNumber),
		fmt.Sprintf("%d", r.SequenceNumber),
		fmt.Sprintf("%t", r.InUse),
		fmt.Sprintf("%t", r.IsDirectory),
		r.FileName,
		fmt.Sprintf("%d", r.ParentEntryNumber),
		fmt.Sprintf("%d", r.ParentSequenceNum),
		fmt.Sprintf("%d", r.FileAttrFlags),
		r.SITimes.Created.ConvertToIsoTime(),
		r.SITimes.Modified.ConvertToIsoTime(),
		r.SITimes.MFTModified.ConvertToIsoTime(),
		r.SITimes.Accessed.ConvertToIsoTime(),
		r.FNTimes.Created.ConvertToIsoTime(),
		r.FNTimes.Modified.ConvertToIsoTime(),
		r.FNTimes.MFTModified.ConvertToIsoTime(),
		r.FNTimes.Accessed.ConvertToIsoTime(),
		fmt.Sprintf("%d", r.DataSize),
		fmt.Sprintf("%t", r.IsResident),
		r.FullPath,
		fmt.Sprintf("%t", r.Corrupt),
		r.Note,
	}
	return s.mftW.Write(row)
}

func (s *CSVSink) WriteUsnEvent(e usnjrnl.Event) error {
	if s.usnW == nil {
		return nil
	}
	if !s.usnWroteHeader {
		if err := s.usnW.Write(usnHeader); err != nil {
			return err
		}
		s.usnWroteHeader = true
	}
	row := []string{
		fmt.Sprintf("%d", e.USN),
		e.EventName,
		fmt.Sprintf("%d", e.MajorVersion),
		fmt.Sprintf("%d", e.MinorVersion),
		fmt.Sprintf("%d", e.FileRefEntry),
		fmt.Sprintf("%d", e.FileRefSeq),
		fmt.Sprintf("%d", e.ParentRefEntry),
		fmt.Sprintf("%d", e.ParentRefSeq),
		e.Timestamp.ConvertToIsoTime(),
		fmt.Sprintf("0x%X", e.ReasonFlags),
		fmt.Sprintf("0x%X", e.SourceInfoFlags),
		fmt.Sprintf("%d", e.SecurityID),
		fmt.Sprintf("%d", e.FileAttrFlags),
		e.FileName,
	}
	return s.usnW.Write(row)
}

func (s *CSVSink) Close() error {
	if s.mftW != nil {
		s.mftW.Flush()
		if err := s.mftW.Error(); err != nil {
			return err
		}
	}
	if s.usnW != nil {
		s.usnW.Flush()
		return s.usnW.Error()
	}
	return nil
}

// JSONSink writes each record kind as a single JSON array (§6); the opening
// bracket is written with the first record and the closing bracket on Close
// (only for an array that was opened), so a
// cancelled run still leaves syntactically-incomplete-but-diagnosable output
// rather than nothing.
type JSONSink struct {
	mftOut    io.Writer
	usnOut    io.Writer
	mftFirst  bool
	usnFirst  bool
	mftOpened bool
	usnOpened bool
}

func NewJSONSink(mftOut, usnOut io.Writer) *JSONSink {
	return &JSONSink{mftOut: mftOut, usnOut: usnOut, mftFirst: true, usnFirst: true}
}

func (s *JSONSink) WriteMftRecord(r mft.MftRecord) error {
	if s.mftOut == nil {
		return nil
	}
	if !s.mftOpened {
		if _, err := io.WriteString(s.mftOut, "["); err != nil {
			return err
		}
		s.mftOpened = true
	}
	if !s.mftFirst {
		if _, err := io.WriteString(s.mftOut, ","); err != nil {
			return err
		}
	}
	s.mftFirst = false
	b, err := json.Marshal(mftJSON{
		EntryNumber: r.EntryNumber, SequenceNumber: r.SequenceNumber,
		InUse: r.InUse, IsDirectory: r.IsDirectory, FileName: r.FileName,
		ParentEntryNumber: r.ParentEntryNumber, ParentSequenceNumber: r.ParentSequenceNum,
		FileAttrFlags: r.FileAttrFlags,
		SICreated:     r.SITimes.Created.ConvertToIsoTime(),
		SIModified:    r.SITimes.Modified.ConvertToIsoTime(),
		SIMftModified: r.SITimes.MFTModified.ConvertToIsoTime(),
		SIAccessed:    r.SITimes.Accessed.ConvertToIsoTime(),
		FNCreated:     r.FNTimes.Created.ConvertToIsoTime(),
		FNModified:    r.FNTimes.Modified.ConvertToIsoTime(),
		FNMftModified: r.FNTimes.MFTModified.ConvertToIsoTime(),
		FNAccessed:    r.FNTimes.Accessed.ConvertToIsoTime(),
		DataSize:      r.DataSize, IsResident: r.IsResident, FullPath: r.FullPath,
		Corrupt: r.Corrupt, Note: r.Note,
	})
	if err != nil {
		return err
	}
	_, err = s.mftOut.Write(b)
	return err
}

func (s *JSONSink) WriteUsnEvent(e usnjrnl.Event) error {
	if s.usnOut == nil {
		return nil
	}
	if !s.usnOpened {
		if _, err := io.WriteString(s.usnOut, "["); err != nil {
			return err
		}
		s.usnOpened = true
	}
	if !s.usnFirst {
		if _, err := io.WriteString(s.usnOut, ","); err != nil {
			return err
		}
	}
	s.usnFirst = false
	b, err := json.Marshal(usnJSON{
		USN: e.USN, Event: e.EventName, MajorVersion: e.MajorVersion, MinorVersion: e.MinorVersion,
		FileRefEntry: e.FileRefEntry, FileRefSeq: e.FileRefSeq,
		ParentRefEntry: e.ParentRefEntry, ParentRefSeq: e.ParentRefSeq,
		Timestamp: e.Timestamp.ConvertToIsoTime(), ReasonFlags: e.ReasonFlags,
		SourceInfoFlags: e.SourceInfoFlags, SecurityID: e.SecurityID,
		FileAttrFlags: e.FileAttrFlags, FileName: e.FileName,
	})
	if err != nil {
		return err
	}
	_, err = s.usnOut.Write(b)
	return err
}

func (s *JSONSink) Close() error {
	if s.mftOpened {
		if _, err := io.WriteString(s.mftOut, "]"); err != nil {
			return err
		}
	}
	if s.usnOpened {
		if _, err := io.WriteString(s.usnOut, "]"); err != nil {
			return err
		}
	}
	return nil
}

type mftJSON struct {
	EntryNumber          uint32 `json:"entry_number"`
	SequenceNumber       uint16 `json:"sequence_number"`
	InUse                bool   `json:"in_use"`
	IsDirectory          bool   `json:"is_directory"`
	FileName             string `json:"file_name"`
	ParentEntryNumber    uint32 `json:"parent_entry_number"`
	ParentSequenceNumber uint16 `json:"parent_sequence_number"`
	FileAttrFlags        uint32 `json:"file_attr_flags"`
	SICreated            string `json:"si_created"`
	SIModified           string `json:"si_modified"`
	SIMftModified        string `json:"si_mft_modified"`
	SIAccessed           string `json:"si_accessed"`
	FNCreated            string `json:"fn_created"`
	FNModified           string `json:"fn_modified"`
	FNMftModified        string `json:"fn_mft_modified"`
	FNAccessed           string `json:"fn_accessed"`
	DataSize             uint64 `json:"data_size"`
	IsResident           bool   `json:"is_resident"`
	FullPath             string `json:"full_path,omitempty"`
	Corrupt              bool   `json:"corrupt"`
	Note                 string `json:"note,omitempty"`
}

type usnJSON struct {
	USN             uint64 `json:"usn"`
	Event           string `json:"event"`
	MajorVersion    uint16 `json:"major_version"`
	MinorVersion    uint16 `json:"minor_version"`
	FileRefEntry    uint64 `json:"file_entry"`
	FileRefSeq      uint64 `json:"file_seq"`
	ParentRefEntry  uint64 `json:"parent_entry"`
	ParentRefSeq    uint64 `json:"parent_seq"`
	Timestamp       string `json:"timestamp"`
	ReasonFlags     uint32 `json:"reason_flags"`
	SourceInfoFlags uint32 `json:"source_info_flags"`
	SecurityID      uint32 `json:"security_id"`
	FileAttrFlags   uint32 `json:"file_attr_flags"`
	FileName        string `json:"file_name"`
}
