package ui

import "sync/atomic"

type Stats struct {
	Blocked atomic.Int64
	Failed  atomic.Int64
	Skipped atomic.Int64
}
