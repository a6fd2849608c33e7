package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/riskibarqy/fantasy-rooms/internal/domain/match"
	"github.com/riskibarqy/fantasy-rooms/internal/domain/player"
	"github.com/riskibarqy/fantasy-rooms/internal/domain/roster"
	"github.com/riskibarqy/fantasy-rooms/internal/domain/scoring"
	"github.com/riskibarqy/fantasy-rooms/internal/infrastructure/repository/memory"
	idgen "github.com/riskibarqy/fantasy-rooms/internal/platform/id"
	"github.com/riskibarqy/fantasy-rooms/internal/platform/logging"
)

type settlementFixture struct {
	matches *memory.MatchRepository
	rosters *memory.RosterRepository
	stats   *memory.StatsSource
	service *SettlementService
}

func newSettlementFixture(matches []match.Match, events []match.Event, minutes map[int]map[string]int, rosters []roster.Roster) *settlementFixture {
	matchRepo := memory.NewMatchRepository(matches, events)
	rosterRepo := memory.NewRosterRepository(rosters)
	statsSource := memory.NewStatsSource(minutes)

	service := NewSettlementService(
		matchRepo,
		matchRepo,
		rosterRepo,
		statsSource,
		idgen.NewRandomGenerator(),
		logging.NewNop(),
	)

	return &settlementFixture{
		matches: matchRepo,
		rosters: rosterRepo,
		stats:   statsSource,
		service: service,
	}
}

func newSeededFixture() *settlementFixture {
	return newSettlementFixture(memory.SeedMatches(), memory.SeedEvents(), memory.SeedMinutes(), memory.SeedRosters())
}

func slotByPlayer(t *testing.T, item roster.Roster, playerID string) roster.Slot {
	t.Helper()
	for _, slot := range item.Slots {
		if slot.PlayerID == playerID {
			return slot
		}
	}
	t.Fatalf("player %s not found in roster %s", playerID, item.ID)
	return roster.Slot{}
}

func TestSettlementService_Settle_SeededGameweek(t *testing.T) {
	fx := newSeededFixture()

	result, err := fx.service.Settle(context.Background(), SettleInput{Gameweek: memory.SeedGameweek})
	if err != nil {
		t.Fatalf("settle: %v", err)
	}

	if result.RunID == "" {
		t.Fatalf("expected non-empty run id")
	}
	if len(result.Errors) != 0 {
		t.Fatalf("unexpected roster errors: %v", result.Errors)
	}
	if result.PlayersProcessed != 11 {
		t.Fatalf("unexpected players processed: got=%d want=11", result.PlayersProcessed)
	}
	if result.RostersUpdated != 1 {
		t.Fatalf("unexpected rosters updated: got=%d want=1", result.RostersUpdated)
	}
	if result.TotalPointsCalculated != 65 {
		t.Fatalf("unexpected total points: got=%d want=65", result.TotalPointsCalculated)
	}

	stored, ok := fx.rosters.Get("roster-demo-1")
	if !ok {
		t.Fatalf("seeded roster missing after settlement")
	}
	if stored.GameweekPoints != 65 {
		t.Fatalf("unexpected gameweek points: got=%d want=65", stored.GameweekPoints)
	}
	if stored.TotalPoints != 65 {
		t.Fatalf("unexpected total points: got=%d want=65", stored.TotalPoints)
	}

	// Captain doubles a 10-point base; the vice stays at x1 because the
	// captain played.
	captain := slotByPlayer(t, stored, "idn-mid-01")
	if captain.Points != 20 || captain.Multiplier != 2 {
		t.Fatalf("unexpected captain slot: points=%d multiplier=%d", captain.Points, captain.Multiplier)
	}
	vice := slotByPlayer(t, stored, "idn-fwd-01")
	if vice.Points != 9 || vice.Multiplier != 1 {
		t.Fatalf("unexpected vice slot: points=%d multiplier=%d", vice.Points, vice.Multiplier)
	}
	keeper := slotByPlayer(t, stored, "idn-gk-01")
	if keeper.Points != 6 {
		t.Fatalf("unexpected keeper points: got=%d want=6", keeper.Points)
	}
}

func TestSettlementService_Settle_ViceCaptainStepsIn(t *testing.T) {
	matches := []match.Match{{
		ID:         "m1",
		Gameweek:   5,
		HomeTeamID: "team-a",
		AwayTeamID: "team-b",
		HomeScore:  2,
		AwayScore:  1,
		Status:     match.StatusFinished,
		Finished:   true,
	}}
	events := []match.Event{
		{ID: 1, MatchID: "m1", PlayerID: "vice", TeamID: "team-a", Kind: match.KindAssist, Minute: 55},
	}
	// The captain never took the pitch.
	minutes := map[int]map[string]int{5: {"vice": 90, "cap": 0}}
	rosters := []roster.Roster{{
		ID:       "r1",
		UserID:   "u1",
		RoomID:   "room-1",
		Gameweek: 5,
		Slots: []roster.Slot{
			{PlayerID: "cap", TeamID: "team-a", Position: player.PositionMidfielder, IsStarter: true, IsCaptain: true, Multiplier: 1},
			{PlayerID: "vice", TeamID: "team-a", Position: player.PositionMidfielder, IsStarter: true, IsViceCaptain: true, Multiplier: 1},
		},
		Submitted: true,
	}}

	fx := newSettlementFixture(matches, events, minutes, rosters)

	result, err := fx.service.Settle(context.Background(), SettleInput{Gameweek: 5})
	if err != nil {
		t.Fatalf("settle: %v", err)
	}
	if len(result.Errors) != 0 {
		t.Fatalf("unexpected roster errors: %v", result.Errors)
	}

	stored, _ := fx.rosters.Get("r1")

	// An unplayed captain doubles a zero base to zero; the vice's base
	// (appearance 2 + assist 3) is doubled in their place.
	captain := slotByPlayer(t, stored, "cap")
	if captain.Points != 0 || captain.Multiplier != 2 {
		t.Fatalf("unexpected captain slot: points=%d multiplier=%d", captain.Points, captain.Multiplier)
	}
	vice := slotByPlayer(t, stored, "vice")
	if vice.Points != 10 || vice.Multiplier != 2 {
		t.Fatalf("unexpected vice slot: points=%d multiplier=%d", vice.Points, vice.Multiplier)
	}
	if stored.GameweekPoints != 10 {
		t.Fatalf("unexpected gameweek points: got=%d want=10", stored.GameweekPoints)
	}
}

func TestSettlementService_Settle_CleanSheetDroppedWhenTeamConceded(t *testing.T) {
	matches := []match.Match{{
		ID:         "m1",
		Gameweek:   3,
		HomeTeamID: "team-a",
		AwayTeamID: "team-b",
		HomeScore:  0,
		AwayScore:  1,
		Status:     match.StatusFinished,
		Finished:   true,
	}}
	// The feed emitted clean-sheet events for both defenders; team-a conceded.
	events := []match.Event{
		{ID: 1, MatchID: "m1", PlayerID: "def-a", TeamID: "team-a", Kind: match.KindCleanSheet},
		{ID: 2, MatchID: "m1", PlayerID: "def-b", TeamID: "team-b", Kind: match.KindCleanSheet},
	}
	minutes := map[int]map[string]int{3: {"def-a": 90, "def-b": 90}}
	rosters := []roster.Roster{{
		ID:       "r1",
		UserID:   "u1",
		RoomID:   "room-1",
		Gameweek: 3,
		Slots: []roster.Slot{
			{PlayerID: "def-a", TeamID: "team-a", Position: player.PositionDefender, IsStarter: true, Multiplier: 1},
			{PlayerID: "def-b", TeamID: "team-b", Position: player.PositionDefender, IsStarter: true, IsCaptain: true, Multiplier: 1},
		},
		Submitted: true,
	}}

	fx := newSettlementFixture(matches, events, minutes, rosters)
	if _, err := fx.service.Settle(context.Background(), SettleInput{Gameweek: 3}); err != nil {
		t.Fatalf("settle: %v", err)
	}

	stored, _ := fx.rosters.Get("r1")
	concededDef := slotByPlayer(t, stored, "def-a")
	if concededDef.Points != 2 {
		t.Fatalf("conceding defender should score appearance only: got=%d want=2", concededDef.Points)
	}
	cleanDef := slotByPlayer(t, stored, "def-b")
	if cleanDef.Points != 12 {
		t.Fatalf("clean defender should keep the clean sheet, doubled: got=%d want=12", cleanDef.Points)
	}
}

func TestSettlementService_Settle_RerunIsIdempotent(t *testing.T) {
	fx := newSeededFixture()
	ctx := context.Background()

	first, err := fx.service.Settle(ctx, SettleInput{Gameweek: memory.SeedGameweek})
	if err != nil {
		t.Fatalf("first settle: %v", err)
	}
	slotWrites := fx.rosters.SlotWrites()
	weekWrites := fx.rosters.GameweekWrites()
	if slotWrites == 0 || weekWrites == 0 {
		t.Fatalf("first run should write: slot=%d week=%d", slotWrites, weekWrites)
	}

	second, err := fx.service.Settle(ctx, SettleInput{Gameweek: memory.SeedGameweek})
	if err != nil {
		t.Fatalf("second settle: %v", err)
	}

	if fx.rosters.SlotWrites() != slotWrites {
		t.Fatalf("rerun performed slot writes: got=%d want=%d", fx.rosters.SlotWrites(), slotWrites)
	}
	if fx.rosters.GameweekWrites() != weekWrites {
		t.Fatalf("rerun performed aggregate writes: got=%d want=%d", fx.rosters.GameweekWrites(), weekWrites)
	}
	if second.RostersUpdated != 0 {
		t.Fatalf("rerun reported updated rosters: got=%d want=0", second.RostersUpdated)
	}
	if second.TotalPointsCalculated != first.TotalPointsCalculated {
		t.Fatalf("rerun total drifted: got=%d want=%d", second.TotalPointsCalculated, first.TotalPointsCalculated)
	}

	stored, _ := fx.rosters.Get("roster-demo-1")
	if stored.TotalPoints != 65 {
		t.Fatalf("season total double counted: got=%d want=65", stored.TotalPoints)
	}
}

func TestSettlementService_Settle_ForceRecalculateAppliesDiff(t *testing.T) {
	fx := newSeededFixture()
	ctx := context.Background()

	if _, err := fx.service.Settle(ctx, SettleInput{Gameweek: memory.SeedGameweek}); err != nil {
		t.Fatalf("first settle: %v", err)
	}

	// A late stat correction bumps a 12-minute cameo to a full-credit
	// appearance. Only a forced run may bypass the stats cache and see it.
	fx.stats.SetMinutes(memory.SeedGameweek, "idn-fwd-02", 65)

	result, err := fx.service.Settle(ctx, SettleInput{Gameweek: memory.SeedGameweek, ForceRecalculate: true})
	if err != nil {
		t.Fatalf("forced settle: %v", err)
	}
	if result.TotalPointsCalculated != 66 {
		t.Fatalf("unexpected recalculated total: got=%d want=66", result.TotalPointsCalculated)
	}

	stored, _ := fx.rosters.Get("roster-demo-1")
	if stored.GameweekPoints != 66 {
		t.Fatalf("unexpected gameweek points: got=%d want=66", stored.GameweekPoints)
	}
	// The season aggregate moves by the diff, not by the full new total.
	if stored.TotalPoints != 66 {
		t.Fatalf("unexpected season total: got=%d want=66", stored.TotalPoints)
	}
}

func TestSettlementService_Settle_PerRosterErrorIsolation(t *testing.T) {
	rosters := memory.SeedRosters()
	broken := roster.Roster{
		ID:       "roster-broken",
		UserID:   "user-broken",
		RoomID:   memory.SeedRoomID,
		Gameweek: memory.SeedGameweek,
		Slots: []roster.Slot{
			{PlayerID: "idn-gk-01", TeamID: "idn-persija", Position: "SWEEPER", IsStarter: true, IsCaptain: true, Multiplier: 1},
		},
		Submitted: true,
	}
	rosters = append(rosters, broken)

	fx := newSettlementFixture(memory.SeedMatches(), memory.SeedEvents(), memory.SeedMinutes(), rosters)

	result, err := fx.service.Settle(context.Background(), SettleInput{Gameweek: memory.SeedGameweek})
	if err != nil {
		t.Fatalf("settle: %v", err)
	}

	if result.RostersUpdated != 1 {
		t.Fatalf("healthy roster should still settle: got=%d want=1", result.RostersUpdated)
	}
	if len(result.Errors) != 1 {
		t.Fatalf("unexpected error count: got=%d want=1", len(result.Errors))
	}
	if !strings.HasPrefix(result.Errors[0], "roster roster-broken:") {
		t.Fatalf("error not attributed to the failing roster: %s", result.Errors[0])
	}
	if !strings.Contains(result.Errors[0], scoring.ErrUnknownPosition.Error()) {
		t.Fatalf("error lost its cause: %s", result.Errors[0])
	}

	stored, _ := fx.rosters.Get("roster-demo-1")
	if stored.GameweekPoints != 65 {
		t.Fatalf("healthy roster points wrong: got=%d want=65", stored.GameweekPoints)
	}
}

func TestSettlementService_Settle_WriteFailureReportedPerRoster(t *testing.T) {
	fx := newSeededFixture()
	fx.rosters.FailWrites(errors.New("disk on fire"))

	result, err := fx.service.Settle(context.Background(), SettleInput{Gameweek: memory.SeedGameweek})
	if err != nil {
		t.Fatalf("settle should not abort on write failure: %v", err)
	}
	if result.RostersUpdated != 0 {
		t.Fatalf("no roster should count as updated: got=%d", result.RostersUpdated)
	}
	if len(result.Errors) != 1 || !strings.Contains(result.Errors[0], "disk on fire") {
		t.Fatalf("write failure not surfaced: %v", result.Errors)
	}
}

func TestSettlementService_Settle_StatsFetchedOncePerPlayer(t *testing.T) {
	rosters := memory.SeedRosters()
	twin := rosters[0]
	twin.ID = "roster-demo-2"
	twin.UserID = "user-demo-2"
	twin.Slots = append([]roster.Slot(nil), rosters[0].Slots...)
	rosters = append(rosters, twin)

	fx := newSettlementFixture(memory.SeedMatches(), memory.SeedEvents(), memory.SeedMinutes(), rosters)

	result, err := fx.service.Settle(context.Background(), SettleInput{Gameweek: memory.SeedGameweek})
	if err != nil {
		t.Fatalf("settle: %v", err)
	}
	if result.RostersUpdated != 2 {
		t.Fatalf("unexpected rosters updated: got=%d want=2", result.RostersUpdated)
	}

	// Both rosters pick the same 11 players; the cache must collapse the
	// lookups to one per player.
	if got := fx.stats.Lookups(); got != 11 {
		t.Fatalf("minutes lookups not deduplicated: got=%d want=11", got)
	}
	if got := fx.matches.EventLookups(); got != 11 {
		t.Fatalf("event lookups not deduplicated: got=%d want=11", got)
	}
}

func TestSettlementService_Settle_RoomScope(t *testing.T) {
	rosters := memory.SeedRosters()
	other := rosters[0]
	other.ID = "roster-other-room"
	other.UserID = "user-other"
	other.RoomID = "room-elsewhere"
	other.Slots = append([]roster.Slot(nil), rosters[0].Slots...)
	rosters = append(rosters, other)

	fx := newSettlementFixture(memory.SeedMatches(), memory.SeedEvents(), memory.SeedMinutes(), rosters)

	result, err := fx.service.Settle(context.Background(), SettleInput{Gameweek: memory.SeedGameweek, RoomID: memory.SeedRoomID})
	if err != nil {
		t.Fatalf("settle: %v", err)
	}
	if result.RostersUpdated != 1 {
		t.Fatalf("room scope leaked: got=%d want=1", result.RostersUpdated)
	}

	outside, _ := fx.rosters.Get("roster-other-room")
	if outside.GameweekPoints != 0 {
		t.Fatalf("roster outside the room was settled: points=%d", outside.GameweekPoints)
	}
}

func TestSettlementService_Settle_Preconditions(t *testing.T) {
	t.Run("invalid gameweek", func(t *testing.T) {
		fx := newSeededFixture()
		_, err := fx.service.Settle(context.Background(), SettleInput{Gameweek: 0})
		if !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("expected ErrInvalidInput, got %v", err)
		}
	})

	t.Run("no finished matches", func(t *testing.T) {
		fx := newSettlementFixture(nil, nil, memory.SeedMinutes(), memory.SeedRosters())
		_, err := fx.service.Settle(context.Background(), SettleInput{Gameweek: memory.SeedGameweek})
		if !errors.Is(err, ErrNoFinishedMatches) {
			t.Fatalf("expected ErrNoFinishedMatches, got %v", err)
		}
	})

	t.Run("no submitted rosters", func(t *testing.T) {
		fx := newSettlementFixture(memory.SeedMatches(), memory.SeedEvents(), memory.SeedMinutes(), nil)
		_, err := fx.service.Settle(context.Background(), SettleInput{Gameweek: memory.SeedGameweek})
		if !errors.Is(err, ErrNoSubmittedRosters) {
			t.Fatalf("expected ErrNoSubmittedRosters, got %v", err)
		}
	})

	t.Run("no rosters in room", func(t *testing.T) {
		fx := newSeededFixture()
		_, err := fx.service.Settle(context.Background(), SettleInput{Gameweek: memory.SeedGameweek, RoomID: "room-empty"})
		if !errors.Is(err, ErrNoSubmittedRosters) {
			t.Fatalf("expected ErrNoSubmittedRosters, got %v", err)
		}
	})

	t.Run("match listing failure", func(t *testing.T) {
		fx := newSeededFixture()
		fx.matches.FailMatchList(errors.New("db unreachable"))
		_, err := fx.service.Settle(context.Background(), SettleInput{Gameweek: memory.SeedGameweek})
		if err == nil || !strings.Contains(err.Error(), "db unreachable") {
			t.Fatalf("expected match listing error, got %v", err)
		}
	})
}

func TestSettlementService_Settle_StoredMultiplierOverride(t *testing.T) {
	rosters := memory.SeedRosters()
	for i := range rosters[0].Slots {
		if rosters[0].Slots[i].IsCaptain {
			// A triple-captain chip persisted on the slot outranks the
			// default captain multiplier.
			rosters[0].Slots[i].Multiplier = 3
		}
	}

	fx := newSettlementFixture(memory.SeedMatches(), memory.SeedEvents(), memory.SeedMinutes(), rosters)
	if _, err := fx.service.Settle(context.Background(), SettleInput{Gameweek: memory.SeedGameweek}); err != nil {
		t.Fatalf("settle: %v", err)
	}

	stored, _ := fx.rosters.Get("roster-demo-1")
	captain := slotByPlayer(t, stored, "idn-mid-01")
	if captain.Points != 30 || captain.Multiplier != 3 {
		t.Fatalf("stored multiplier ignored: points=%d multiplier=%d", captain.Points, captain.Multiplier)
	}
}
