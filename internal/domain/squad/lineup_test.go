package squad

import (
	"errors"
	"reflect"
	"testing"

	"github.com/matchdayhq/squad-engine/internal/domain/player"
)

func TestAssignLineup_FourThreeThree(t *testing.T) {
	s := completeSquad()

	assigned, err := AssignLineup(s, Formation433)
	if err != nil {
		t.Fatalf("assign failed: %v", err)
	}

	starters := assigned.Starters()
	if len(starters) != 11 {
		t.Fatalf("expected 11 starters, got %d", len(starters))
	}

	counts := assigned.starterCountByPosition()
	want := map[player.Position]int{
		player.PositionGoalkeeper: 1,
		player.PositionDefender:   4,
		player.PositionMidfielder: 3,
		player.PositionForward:    3,
	}
	for pos, expected := range want {
		if counts[pos] != expected {
			t.Fatalf("pos %s: expected %d starters, got %d", pos, expected, counts[pos])
		}
	}

	bench := assigned.Bench()
	if len(bench) != 4 {
		t.Fatalf("expected 4 bench slots, got %d", len(bench))
	}
	orders := map[int]player.Position{}
	for _, slot := range bench {
		if slot.BenchOrder < 1 || slot.BenchOrder > 4 {
			t.Fatalf("bench order out of range: %d", slot.BenchOrder)
		}
		if _, dup := orders[slot.BenchOrder]; dup {
			t.Fatalf("duplicate bench order %d", slot.BenchOrder)
		}
		orders[slot.BenchOrder] = slot.Position
	}

	// Benched from 87.5-spend squad under 4-3-3: the cheapest GK, one
	// DEF and two MID. Bench orders scan FWD, MID, DEF, GK.
	if orders[1] != player.PositionMidfielder || orders[2] != player.PositionMidfielder {
		t.Fatalf("expected midfielders at bench orders 1 and 2, got %v", orders)
	}
	if orders[3] != player.PositionDefender {
		t.Fatalf("expected defender at bench order 3, got %v", orders)
	}
	if orders[4] != player.PositionGoalkeeper {
		t.Fatalf("expected goalkeeper at bench order 4, got %v", orders)
	}

	if err := ValidateLineup(assigned); err != nil {
		t.Fatalf("assigned lineup invalid: %v", err)
	}
	if assigned.Formation != Formation433 {
		t.Fatalf("formation not recorded: %s", assigned.Formation)
	}
}

func TestAssignLineup_Idempotent(t *testing.T) {
	s := completeSquad()

	first, err := AssignLineup(s, Formation352)
	if err != nil {
		t.Fatalf("first assign failed: %v", err)
	}
	second, err := AssignLineup(first, Formation352)
	if err != nil {
		t.Fatalf("second assign failed: %v", err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Fatalf("assign drifted on its own output:\nfirst:  %+v\nsecond: %+v", first, second)
	}
}

func TestAssignLineup_KeepsCurrentStarters(t *testing.T) {
	s := completeSquad()
	assigned, err := AssignLineup(s, Formation442)
	if err != nil {
		t.Fatalf("assign failed: %v", err)
	}

	// Promote the cheapest forward by hand, then narrow to one forward:
	// the sitting starter must be kept over the pricier benched ones.
	for i := range assigned.Slots {
		if assigned.Slots[i].Position != player.PositionForward {
			continue
		}
		assigned.Slots[i].IsStarting = assigned.Slots[i].PlayerID == "fwd-3"
	}

	narrowed, err := AssignLineup(assigned, Formation451)
	if err != nil {
		t.Fatalf("assign failed: %v", err)
	}
	for _, slot := range narrowed.Starters() {
		if slot.Position == player.PositionForward && slot.PlayerID != "fwd-3" {
			t.Fatalf("expected sitting starter fwd-3 to keep the place, got %s", slot.PlayerID)
		}
	}
}

func TestAssignLineup_ClearsDemotedCaptain(t *testing.T) {
	s := completeSquad()
	assigned, err := AssignLineup(s, Formation433)
	if err != nil {
		t.Fatalf("assign failed: %v", err)
	}
	withCaptain, err := SetCaptain(assigned, "fwd-3")
	if err != nil {
		t.Fatalf("set captain failed: %v", err)
	}

	// 4-5-1 has a single forward; fwd-3 is the cheapest and drops out.
	narrowed, err := AssignLineup(withCaptain, Formation451)
	if err != nil {
		t.Fatalf("assign failed: %v", err)
	}
	if narrowed.CaptainID() != "" {
		t.Fatalf("expected demoted captain role to be cleared, got %s", narrowed.CaptainID())
	}
}

func TestAssignLineup_InsufficientPlayers(t *testing.T) {
	s := completeSquad()
	s.Slots = s.Slots[:12] // drop all three forwards

	_, err := AssignLineup(s, Formation433)
	if !errors.Is(err, ErrInsufficientPlayersForFormation) {
		t.Fatalf("expected ErrInsufficientPlayersForFormation, got %v", err)
	}
}

func TestAssignLineup_UnsupportedFormation(t *testing.T) {
	_, err := AssignLineup(completeSquad(), Formation("6-3-1"))
	if !errors.Is(err, ErrUnsupportedFormation) {
		t.Fatalf("expected ErrUnsupportedFormation, got %v", err)
	}
}

func TestAssignLineup_DoesNotMutateInput(t *testing.T) {
	s := completeSquad()
	snapshot := s.Clone()

	if _, err := AssignLineup(s, Formation343); err != nil {
		t.Fatalf("assign failed: %v", err)
	}
	if !reflect.DeepEqual(s, snapshot) {
		t.Fatal("input squad was mutated")
	}
}

func TestParseFormation(t *testing.T) {
	for _, formation := range SupportedFormations() {
		parsed, err := ParseFormation(string(formation))
		if err != nil {
			t.Fatalf("parse %s: %v", formation, err)
		}
		shape := parsed.Shape()
		if shape.Goalkeepers != 1 {
			t.Fatalf("%s: expected exactly one goalkeeper", formation)
		}
		if shape.total() != 11 {
			t.Fatalf("%s: starter counts must sum to 11, got %d", formation, shape.total())
		}
	}

	if _, err := ParseFormation("2-2-6"); !errors.Is(err, ErrUnsupportedFormation) {
		t.Fatalf("expected ErrUnsupportedFormation, got %v", err)
	}
}
