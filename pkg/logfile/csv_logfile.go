package logfile

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/dribbe/glucomon/pkg/glucose"
)

var header = []string{"time", "mgdl", "trend", "kind", "delta"}

type CSVLogfile struct {
	records []*Record
	length  int
	pos     int
}

func NewFromCSVLogfile(filename string) (Logfile, error) {
	rec, err := parseCSVLogfile(filename)
	if err != nil {
		return nil, err
	}
	csvlog := &CSVLogfile{
		records: rec,
		length:  len(rec),
		pos:     -1,
	}

	return csvlog, nil
}

func (l *CSVLogfile) Next() *Record {
	if l.pos+1 > l.length-1 || l.pos+1 < 0 {
		return nil
	}
	l.pos++
	return l.records[l.pos]
}

func (l *CSVLogfile) Prev() *Record {
	if l.pos-1 < 0 {
		return nil
	}
	l.pos--
	return l.records[l.pos]
}

func (l *CSVLogfile) Seek(pos int) *Record {
	if pos < 0 || pos >= l.length {
		return nil
	}
	l.pos = pos
	return l.records[pos]
}

func (l *CSVLogfile) Pos() int {
	return l.pos
}

func (l *CSVLogfile) Len() int {
	return l.length
}

func (l *CSVLogfile) Start() time.Time {
	if l.length > 0 {
		return l.records[0].Time
	}
	return time.Time{}
}

func (l *CSVLogfile) End() time.Time {
	if l.length > 0 {
		return l.records[l.length-1].Time
	}
	return time.Time{}
}

func parseCSVLogfile(filename string) ([]*Record, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	r := csv.NewReader(f)
	rows, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	var recs []*Record

	for i := 1; i < len(rows); i++ {
		row := rows[i]
		if len(row) < len(header) {
			return nil, fmt.Errorf("row %d: want %d fields, got %d", i, len(header), len(row))
		}
		ts, err := time.Parse(TimeFormat, row[0])
		if err != nil {
			return nil, err
		}
		rec := &Record{
			Time:  ts,
			Trend: glucose.TrendFromString(row[2]),
		}
		if row[3] == glucose.KindManual.String() {
			rec.Kind = glucose.KindManual
		}
		if row[1] != "" {
			v, err := strconv.Atoi(row[1])
			if err != nil {
				return nil, err
			}
			rec.Value = &v
		}
		if row[4] != "" {
			d, err := strconv.Atoi(row[4])
			if err != nil {
				return nil, err
			}
			rec.Delta = &d
		}
		recs = append(recs, rec)
	}

	return recs, nil
}
