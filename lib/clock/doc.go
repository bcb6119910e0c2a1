// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package clock provides an injectable time source.
//
// Code that timestamps observations accepts a [Clock] instead of calling
// time.Now directly. Production wiring uses [Real]; tests use [Fake],
// whose time only moves when [FakeClock.Advance] or [FakeClock.Set] is
// called, so elapsed-time arithmetic can be asserted exactly.
package clock
