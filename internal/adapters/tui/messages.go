package tui

import "time"

// MsgPlan carries the planned packages and their dependency map.
type MsgPlan struct {
	Packages     []string
	Dependencies map[string][]string
	Targets      []string
}

// MsgPackageStart reports that a package build began.
type MsgPackageStart struct {
	SpanID    string
	ParentID  string
	Name      string
	StartTime time.Time
}

// MsgPackageLog carries build output of a package.
type MsgPackageLog struct {
	SpanID string
	Data   []byte
}

// MsgPackageComplete reports that a package build finished.
type MsgPackageComplete struct {
	SpanID  string
	EndTime time.Time
	Cached  bool
	Err     error
}

// MsgDone tells the model the run is over. The model renders its summary and quits.
type MsgDone struct{}

type tickMsg time.Time
