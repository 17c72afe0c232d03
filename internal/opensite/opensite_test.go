package opensite

import "testing"

func TestDenyIsDefaultWithNoPolicy(t *testing.T) {
	g, err := NewGate(Policy{}, nil, AGE3, false, NewLog())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, k := range sortedKinds(g.modes) {
		if g.ModeFor(k) != Deny {
			t.Errorf("kind %s: mode = %s, want deny", k, g.ModeFor(k))
		}
	}
}

func TestAllowRequiresBothPolicyAndSource(t *testing.T) {
	policy := Policy{Default: Deny, Allow: []OpenKind{KindRandom}}
	g, err := NewGate(policy, nil, AGE3, false, NewLog())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if g.ModeFor(KindRandom) != Deny {
		t.Errorf("policy-only allow without a source directive must stay deny, got %s", g.ModeFor(KindRandom))
	}

	g2, err := NewGate(policy, []OpenKind{KindRandom}, AGE3, false, NewLog())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if g2.ModeFor(KindRandom) != Record {
		t.Errorf("policy allow + source allow = %s, want record", g2.ModeFor(KindRandom))
	}
}

func TestPolicyDenyAgainstSourceAllowIsConflict(t *testing.T) {
	policy := Policy{Default: Deny, Deny: []OpenKind{KindNet}}
	if _, err := NewGate(policy, []OpenKind{KindNet}, AGE3, false, NewLog()); err == nil {
		t.Fatal("expected a conflict error when the policy denies a source-allowed kind")
	}
}

func TestAgeBelowThresholdForcesDeny(t *testing.T) {
	policy := Policy{Default: Deny, Allow: []OpenKind{KindClock}}
	g, err := NewGate(policy, []OpenKind{KindClock}, AGE1, false, NewLog())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if g.ModeFor(KindClock) != Deny {
		t.Errorf("AGE1 without override must force deny, got %s", g.ModeFor(KindClock))
	}

	g2, err := NewGate(policy, []OpenKind{KindClock}, AGE1, true, NewLog())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if g2.ModeFor(KindClock) != Record {
		t.Errorf("an explicit override must bypass the AGE gate, got %s", g2.ModeFor(KindClock))
	}
}

func TestDenyModeErrorsImmediately(t *testing.T) {
	g, _ := NewGate(Policy{}, nil, AGE3, false, NewLog())
	_, err := g.Call(KindRandom, "site1", "k1", 0, func() ([]byte, error) { return []byte("x"), nil })
	if _, ok := err.(*ErrOpenDenied); !ok {
		t.Fatalf("err = %T, want *ErrOpenDenied", err)
	}
}

func TestRecordThenReplayRoundTrips(t *testing.T) {
	log := NewLog()
	policy := Policy{Default: Deny, Allow: []OpenKind{KindRandom}}
	recorder, _ := NewGate(policy, []OpenKind{KindRandom}, AGE3, false, log)

	want := []byte("rolled-4")
	got, err := recorder.Call(KindRandom, "dice", "roll1", 42, func() ([]byte, error) { return want, nil })
	if err != nil {
		t.Fatalf("record call failed: %v", err)
	}
	if string(got) != string(want) {
		t.Fatalf("record result = %q, want %q", got, want)
	}

	if err := log.VerifyChain(); err != nil {
		t.Fatalf("log chain should verify cleanly: %v", err)
	}

	replayPolicy := Policy{Default: Replay, Allow: []OpenKind{KindRandom}}
	replayer, _ := NewGate(replayPolicy, []OpenKind{KindRandom}, AGE3, false, log)
	replayed, err := replayer.Call(KindRandom, "dice", "roll1", 42, func() ([]byte, error) {
		t.Fatal("replay must not invoke the backing effect")
		return nil, nil
	})
	if err != nil {
		t.Fatalf("replay call failed: %v", err)
	}
	if string(replayed) != string(want) {
		t.Fatalf("replayed result = %q, want %q", replayed, want)
	}
}

func TestReplayMissingEntryErrors(t *testing.T) {
	log := NewLog()
	policy := Policy{Default: Replay, Allow: []OpenKind{KindFile}}
	g, _ := NewGate(policy, []OpenKind{KindFile}, AGE3, false, log)
	_, err := g.Call(KindFile, "cfg", "read1", 1, func() ([]byte, error) { return nil, nil })
	if _, ok := err.(*ErrOpenReplayMissing); !ok {
		t.Fatalf("err = %T, want *ErrOpenReplayMissing", err)
	}
}

func TestReplayTamperedRowIsDetected(t *testing.T) {
	log := NewLog()
	policy := Policy{Default: Deny, Allow: []OpenKind{KindRandom}}
	recorder, _ := NewGate(policy, []OpenKind{KindRandom}, AGE3, false, log)
	if _, err := recorder.Call(KindRandom, "dice", "roll1", 1, func() ([]byte, error) { return []byte("a"), nil }); err != nil {
		t.Fatalf("record call failed: %v", err)
	}

	log.lines[0].ResultHash = "blake3:0000000000000000000000000000000000000000000000000000000000000000"

	replayPolicy := Policy{Default: Replay, Allow: []OpenKind{KindRandom}}
	replayer, _ := NewGate(replayPolicy, []OpenKind{KindRandom}, AGE3, false, log)
	_, err := replayer.Call(KindRandom, "dice", "roll1", 1, func() ([]byte, error) { return nil, nil })
	if _, ok := err.(*ErrOpenLogTamper); !ok {
		t.Fatalf("err = %T, want *ErrOpenLogTamper", err)
	}
}
