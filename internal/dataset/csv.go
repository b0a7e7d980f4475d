package dataset

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"
)

// sniffSize is how many leading bytes are inspected to pick a delimiter.
const sniffSize = 1024

// LoadOptions controls how a source is turned into records.
type LoadOptions struct {
	// Delimiter for delimited text. If 0, sniffed from the leading sample.
	Delimiter rune
	// Sheet selects an XLSX sheet by name; SheetIndex (1-based) is used otherwise.
	Sheet      string
	SheetIndex int
	Logger     *zap.Logger
}

func (o LoadOptions) logger() *zap.Logger {
	if o.Logger == nil {
		return zap.NewNop()
	}
	return o.Logger
}

// SniffDelimiter prefers a comma when the sample contains one, tab otherwise.
func SniffDelimiter(sample []byte) rune {
	if bytes.IndexByte(sample, ',') >= 0 {
		return ','
	}
	return '\t'
}

// LoadCSV reads delimited text. The first line is the header; each later line
// becomes one Record with its fields kept as raw text.
func LoadCSV(r io.Reader, opt LoadOptions) (*Table, error) {
	log := opt.logger()
	br := bufio.NewReaderSize(r, sniffSize*4)
	delim := opt.Delimiter
	if delim == 0 {
		sample, err := br.Peek(sniffSize)
		if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, bufio.ErrBufferFull) {
			return nil, fmt.Errorf("sniff delimiter: %w", err)
		}
		delim = SniffDelimiter(sample)
		log.Debug("sniffed delimiter", zap.String("delimiter", string(delim)))
	}

	cr := csv.NewReader(br)
	cr.Comma = delim
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	t := &Table{}
	fields, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			t.Header = NewHeader(nil)
			return t, nil
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	t.Header = NewHeader(fields)
	width := len(fields)

	for line := 2; ; line++ {
		rec, err := cr.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("read row %d: %w", line, err)
		}
		switch {
		case len(rec) > width:
			log.Debug("dropping extra fields", zap.Int("line", line), zap.Int("fields", len(rec)), zap.Int("width", width))
			rec = rec[:width]
		case len(rec) < width:
			log.Debug("short row", zap.Int("line", line), zap.Int("fields", len(rec)), zap.Int("width", width))
		}
		t.Records = append(t.Records, NewRecord(t.Header, rec))
	}
	return t, nil
}
