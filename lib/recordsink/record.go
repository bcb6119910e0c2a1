// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package recordsink

import (
	"strconv"
	"time"
)

// Record is one measured presence interval.
type Record struct {
	// At is when the second of the two batches was observed.
	At time.Time
	// ElapsedMillis is the time since the previous nonzero batch.
	ElapsedMillis int64
	// Count is the number of presence events in the batch observed at At.
	Count int
}

// AppendText appends the record's line, including the trailing newline,
// to dst.
func (r Record) AppendText(dst []byte) []byte {
	dst = strconv.AppendInt(dst, r.At.UnixMilli(), 10)
	dst = append(dst, ' ')
	dst = strconv.AppendInt(dst, r.ElapsedMillis, 10)
	dst = append(dst, ' ')
	dst = strconv.AppendInt(dst, int64(r.Count), 10)
	return append(dst, '\n')
}

// String returns the record's line, including the trailing newline.
func (r Record) String() string {
	return string(r.AppendText(nil))
}
