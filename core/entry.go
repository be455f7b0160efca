package core

import (
	"path/filepath"
	"runtime"
	"sync"
	"time"
)

// Entry represents a single log event with all its metadata. Fields keep
// their emission order; the console renderer depends on that order, not
// on key lookup.
type Entry struct {
	Time    time.Time
	Level   Level
	Message string
	Fields  []Field
	Caller  CallerInfo
}

// IsSuccess reports whether the entry is an informational event carrying
// a success="true" field. Such entries get the [SUCCESS] badge.
func (e *Entry) IsSuccess() bool {
	if e.Level != InfoLevel {
		return false
	}
	for _, f := range e.Fields {
		if f.Key == SuccessKey && f.StringValue() == "true" {
			return true
		}
	}
	return false
}

// CauseValue returns the value of the first cause field in emission
// order, or "" and false when the entry has none.
func (e *Entry) CauseValue() (string, bool) {
	for _, f := range e.Fields {
		if f.Key == CauseKey {
			return f.StringValue(), true
		}
	}
	return "", false
}

// CallerInfo contains information about the caller
type CallerInfo struct {
	File      string
	ShortFile string
	Line      int
	Function  string
	Defined   bool
}

// entryPool is a pool of Entry objects to reduce allocations
var entryPool = sync.Pool{
	New: func() interface{} {
		return &Entry{
			Fields: make([]Field, 0, 8), // Pre-allocate for 8 fields
		}
	},
}

// GetEntry retrieves an Entry from the pool
func GetEntry() *Entry {
	e := entryPool.Get().(*Entry)
	e.Time = time.Now()
	e.Fields = e.Fields[:0]
	e.Caller = CallerInfo{}
	return e
}

// PutEntry returns an Entry to the pool
func PutEntry(e *Entry) {
	if e == nil {
		return
	}
	// Re-slice to zero length; GC handles reference cleanup
	e.Fields = e.Fields[:0]
	e.Message = ""
	e.Caller = CallerInfo{}
	entryPool.Put(e)
}

// GetCaller retrieves caller information
func GetCaller(skip int) CallerInfo {
	pc, file, line, ok := runtime.Caller(skip)
	if !ok {
		return CallerInfo{}
	}

	fn := runtime.FuncForPC(pc)
	var funcName string
	if fn != nil {
		funcName = fn.Name()
	}

	return CallerInfo{
		File:      file,
		ShortFile: filepath.Base(file),
		Line:      line,
		Function:  funcName,
		Defined:   true,
	}
}
