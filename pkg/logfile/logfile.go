// Package logfile persists the reading history as daily CSV files and
// reads them back for the history view.
package logfile

import (
	"time"

	"github.com/dribbe/glucomon/pkg/glucose"
)

const TimeFormat = "2006-01-02T15:04:05.999-0700"

type Logfile interface {
	Next() *Record
	Prev() *Record
	Seek(int) *Record
	Pos() int
	Len() int
	Start() time.Time
	End() time.Time
}

type Record struct {
	Time  time.Time
	Value *int
	Trend glucose.Trend
	Kind  glucose.Kind
	Delta *int
}

func (r *Record) Reading() glucose.Reading {
	return glucose.Reading{
		Value:     r.Value,
		Timestamp: r.Time,
		Kind:      r.Kind,
		Trend:     r.Trend,
	}
}
