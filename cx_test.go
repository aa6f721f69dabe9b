// Copyright 2026 肖其顿 (XIAO QI DUN)
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package jbig2

import "testing"

func TestNewCXIsZeroed(t *testing.T) {
	cx := NewCX(16)
	for i := range cx {
		if cx[i] != 0 {
			t.Fatalf("cx[%d] = %d, want 0", i, cx[i])
		}
	}
}

func TestCXValuesStayInRange(t *testing.T) {
	cx := NewCX(4)
	for v := 0; v < 256; v++ {
		cx.Set(0, uint8(v))
		if cx.Get(0) > 127 {
			t.Fatalf("Set(%d) produced out-of-range value %d", v, cx.Get(0))
		}
	}
}

func TestCXMPSAndStateSplit(t *testing.T) {
	cx := NewCX(1)
	cx.setState(0, 42, true)
	if cx.state(0) != 42 {
		t.Fatalf("state: got %d want 42", cx.state(0))
	}
	if !cx.mps(0) {
		t.Fatal("mps: got false want true")
	}
	cx.setState(0, 42, false)
	if cx.state(0) != 42 || cx.mps(0) {
		t.Fatal("changing mps must not disturb state")
	}
}

func TestCXOutOfRangePanics(t *testing.T) {
	cx := NewCX(4)
	assertPanics(t, "Get", func() { cx.Get(4) })
	assertPanics(t, "Get negative", func() { cx.Get(-1) })
	assertPanics(t, "Set", func() { cx.Set(4, 0) })
}

func assertPanics(t *testing.T, name string, f func()) {
	t.Helper()
	defer func() {
		if recover() == nil {
			t.Fatalf("%s: expected panic, got none", name)
		}
	}()
	f()
}

func TestCXToNMPSAndToNLPS(t *testing.T) {
	cx := NewCX(1)
	qe := qeEntry{qe: 0x5601, nmps: 1, nlps: 1, swtch: true}

	cx.toNMPS(0, qe, false)
	if cx.state(0) != qe.nmps || cx.mps(0) {
		t.Fatal("toNMPS must move to nmps and keep mps")
	}

	cx.toNLPS(0, qe, false)
	if cx.state(0) != qe.nlps || !cx.mps(0) {
		t.Fatal("toNLPS with switch set must flip mps")
	}

	noSwitch := qeEntry{qe: 0x5601, nmps: 2, nlps: 3, swtch: false}
	cx.toNLPS(0, noSwitch, true)
	if cx.state(0) != noSwitch.nlps || !cx.mps(0) {
		t.Fatal("toNLPS without switch must keep mps")
	}
}
