package squad

import (
	"errors"
	"reflect"
	"testing"
)

func assignedSquad(t *testing.T) Squad {
	t.Helper()
	s, err := AssignLineup(completeSquad(), Formation442)
	if err != nil {
		t.Fatalf("assign failed: %v", err)
	}
	return s
}

func TestSetCaptain(t *testing.T) {
	s := assignedSquad(t)

	withCaptain, err := SetCaptain(s, "fwd-1")
	if err != nil {
		t.Fatalf("set captain failed: %v", err)
	}
	if withCaptain.CaptainID() != "fwd-1" {
		t.Fatalf("unexpected captain: %s", withCaptain.CaptainID())
	}

	moved, err := SetCaptain(withCaptain, "mid-1")
	if err != nil {
		t.Fatalf("move captain failed: %v", err)
	}
	if moved.CaptainID() != "mid-1" {
		t.Fatalf("unexpected captain after move: %s", moved.CaptainID())
	}
	for _, slot := range moved.Slots {
		if slot.IsCaptain && slot.PlayerID != "mid-1" {
			t.Fatalf("stale captain flag on %s", slot.PlayerID)
		}
	}
}

func TestSetCaptain_StealsViceRole(t *testing.T) {
	s := assignedSquad(t)

	withVice, err := SetViceCaptain(s, "mid-1")
	if err != nil {
		t.Fatalf("set vice-captain failed: %v", err)
	}

	promoted, err := SetCaptain(withVice, "mid-1")
	if err != nil {
		t.Fatalf("promote failed: %v", err)
	}
	if promoted.CaptainID() != "mid-1" {
		t.Fatalf("unexpected captain: %s", promoted.CaptainID())
	}
	if promoted.ViceCaptainID() != "" {
		t.Fatalf("player holds both roles: vice=%s", promoted.ViceCaptainID())
	}
}

func TestSetViceCaptain_KeepsRolesExclusive(t *testing.T) {
	s := assignedSquad(t)

	withCaptain, err := SetCaptain(s, "fwd-1")
	if err != nil {
		t.Fatalf("set captain failed: %v", err)
	}
	both, err := SetViceCaptain(withCaptain, "mid-2")
	if err != nil {
		t.Fatalf("set vice-captain failed: %v", err)
	}
	if both.CaptainID() != "fwd-1" || both.ViceCaptainID() != "mid-2" {
		t.Fatalf("unexpected roles: captain=%s vice=%s", both.CaptainID(), both.ViceCaptainID())
	}

	demoted, err := SetViceCaptain(both, "fwd-1")
	if err != nil {
		t.Fatalf("demote failed: %v", err)
	}
	if demoted.CaptainID() != "" {
		t.Fatalf("expected captain role cleared when reassigned as vice, got %s", demoted.CaptainID())
	}
	if demoted.ViceCaptainID() != "fwd-1" {
		t.Fatalf("unexpected vice-captain: %s", demoted.ViceCaptainID())
	}
}

func TestSetCaptain_RejectsBenchPlayer(t *testing.T) {
	s := assignedSquad(t)
	snapshot := s.Clone()

	// fwd-3 is the cheapest forward and sits on the bench under 4-4-2.
	_, err := SetCaptain(s, "fwd-3")
	if !errors.Is(err, ErrPlayerNotStarting) {
		t.Fatalf("expected ErrPlayerNotStarting, got %v", err)
	}
	if !reflect.DeepEqual(s, snapshot) {
		t.Fatal("failed role change mutated the squad")
	}
}

func TestSetCaptain_RejectsUnknownPlayer(t *testing.T) {
	s := assignedSquad(t)
	_, err := SetCaptain(s, "nobody")
	if !errors.Is(err, ErrPlayerNotInSquad) {
		t.Fatalf("expected ErrPlayerNotInSquad, got %v", err)
	}
}

func TestValidateLineup_DuplicateCaptaincy(t *testing.T) {
	s := assignedSquad(t)
	for i := range s.Slots {
		if s.Slots[i].PlayerID == "mid-1" {
			s.Slots[i].IsCaptain = true
			s.Slots[i].IsViceCaptain = true
		}
	}

	if err := ValidateLineup(s); !errors.Is(err, ErrDuplicateCaptaincy) {
		t.Fatalf("expected ErrDuplicateCaptaincy, got %v", err)
	}
}
