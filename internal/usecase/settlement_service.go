package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	concpool "github.com/sourcegraph/conc/pool"

	"github.com/riskibarqy/fantasy-rooms/internal/domain/match"
	"github.com/riskibarqy/fantasy-rooms/internal/domain/playerstats"
	"github.com/riskibarqy/fantasy-rooms/internal/domain/roster"
	"github.com/riskibarqy/fantasy-rooms/internal/domain/scoring"
	"github.com/riskibarqy/fantasy-rooms/internal/platform/cache"
	idgen "github.com/riskibarqy/fantasy-rooms/internal/platform/id"
	"github.com/riskibarqy/fantasy-rooms/internal/platform/logging"
	"github.com/riskibarqy/fantasy-rooms/internal/platform/resilience"
)

const (
	defaultCaptainMultiplier = 2
	defaultSettlementWorkers = 8
	defaultStatsCacheTTL     = 5 * time.Minute
)

// SettleInput describes one settlement batch request.
type SettleInput struct {
	Gameweek int
	// RoomID narrows the batch to one competitive room when set.
	RoomID           string
	ForceRecalculate bool
}

// SettlementResult is the batch report: overall counts plus the per-roster
// failures that were isolated instead of aborting the batch.
type SettlementResult struct {
	RunID                 string   `json:"run_id"`
	Gameweek              int      `json:"gameweek"`
	RoomID                string   `json:"room_id,omitempty"`
	PlayersProcessed      int      `json:"players_processed"`
	RostersUpdated        int      `json:"rosters_updated"`
	TotalPointsCalculated int      `json:"total_points_calculated"`
	Errors                []string `json:"errors"`
	DurationMs            int64    `json:"duration_ms"`
}

// SettlementService turns match events into roster point totals for a
// gameweek. Rosters are processed independently on a worker pool; writes for
// one roster stay ordered inside its task.
type SettlementService struct {
	matchRepo     match.Repository
	eventSource   match.EventSource
	rosterRepo    roster.Repository
	minutesSource playerstats.MinutesSource
	idGen         idgen.Generator
	logger        *logging.Logger

	captainMultiplier int
	maxWorkers        int
	statsCache        *cache.Store
	settleFlight      resilience.SingleFlight
	now               func() time.Time
}

func NewSettlementService(
	matchRepo match.Repository,
	eventSource match.EventSource,
	rosterRepo roster.Repository,
	minutesSource playerstats.MinutesSource,
	idGen idgen.Generator,
	logger *logging.Logger,
) *SettlementService {
	if logger == nil {
		logger = logging.Default()
	}

	return &SettlementService{
		matchRepo:         matchRepo,
		eventSource:       eventSource,
		rosterRepo:        rosterRepo,
		minutesSource:     minutesSource,
		idGen:             idGen,
		logger:            logger,
		captainMultiplier: defaultCaptainMultiplier,
		maxWorkers:        defaultSettlementWorkers,
		statsCache:        cache.NewStore(defaultStatsCacheTTL),
		now:               time.Now,
	}
}

// SetCaptainMultiplier overrides the default x2 captain multiplier. A slot
// carrying its own multiplier greater than one still wins.
func (s *SettlementService) SetCaptainMultiplier(multiplier int) {
	if multiplier > 1 {
		s.captainMultiplier = multiplier
	}
}

func (s *SettlementService) SetMaxWorkers(workers int) {
	if workers > 0 {
		s.maxWorkers = workers
	}
}

func (s *SettlementService) SetStatsCacheTTL(ttl time.Duration) {
	if ttl > 0 {
		s.statsCache = cache.NewStore(ttl)
	}
}

// Settle runs one settlement batch. Concurrent calls for the same
// gameweek/room scope coalesce into a single run and share its result.
func (s *SettlementService) Settle(ctx context.Context, input SettleInput) (SettlementResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SettlementService.Settle")
	defer span.End()

	if input.Gameweek <= 0 {
		return SettlementResult{}, fmt.Errorf("%w: gameweek must be greater than zero", ErrInvalidInput)
	}
	input.RoomID = strings.TrimSpace(input.RoomID)

	key := fmt.Sprintf("settle:%d:%s", input.Gameweek, input.RoomID)
	value, err, shared := s.settleFlight.Do(key, func() (any, error) {
		return s.settleOnce(ctx, input)
	})
	if err != nil {
		return SettlementResult{}, err
	}
	if shared {
		s.logger.DebugContext(ctx, "settlement call coalesced into in-flight run",
			"gameweek", input.Gameweek, "room_id", input.RoomID)
	}

	result, ok := value.(SettlementResult)
	if !ok {
		return SettlementResult{}, fmt.Errorf("unexpected settlement result type %T", value)
	}
	return result, nil
}

type settleBatch struct {
	input       SettleInput
	runID       string
	matchIDs    []string
	matchByID   map[string]match.Match
	cachePrefix string
}

type playerPeriodStats struct {
	minutes int
	events  []match.Event
}

// rosterOutcome is the explicit per-roster result folded into the batch
// report; a failed roster never aborts the batch.
type rosterOutcome struct {
	rosterID         string
	playersProcessed int
	totalPoints      int
	updated          bool
	err              error
}

func (s *SettlementService) settleOnce(ctx context.Context, input SettleInput) (SettlementResult, error) {
	start := s.now()

	matches, err := s.matchRepo.ListFinishedByGameweek(ctx, input.Gameweek)
	if err != nil {
		return SettlementResult{}, fmt.Errorf("list finished matches: %w", err)
	}
	if len(matches) == 0 {
		return SettlementResult{}, fmt.Errorf("%w: gameweek=%d", ErrNoFinishedMatches, input.Gameweek)
	}

	rosters, err := s.rosterRepo.ListSubmittedByGameweek(ctx, input.Gameweek, input.RoomID)
	if err != nil {
		return SettlementResult{}, fmt.Errorf("list submitted rosters: %w", err)
	}
	if len(rosters) == 0 {
		if input.RoomID != "" {
			return SettlementResult{}, fmt.Errorf("%w: gameweek=%d room=%s", ErrNoSubmittedRosters, input.Gameweek, input.RoomID)
		}
		return SettlementResult{}, fmt.Errorf("%w: gameweek=%d", ErrNoSubmittedRosters, input.Gameweek)
	}

	runID, err := s.idGen.NewID()
	if err != nil {
		s.logger.WarnContext(ctx, "generate settlement run id failed", "error", err)
		runID = ""
	}

	batch := settleBatch{
		input:       input,
		runID:       runID,
		matchIDs:    make([]string, 0, len(matches)),
		matchByID:   make(map[string]match.Match, len(matches)),
		cachePrefix: "stats",
	}
	for _, item := range matches {
		batch.matchIDs = append(batch.matchIDs, item.ID)
		batch.matchByID[item.ID] = item
	}
	sort.Strings(batch.matchIDs)
	if input.ForceRecalculate && runID != "" {
		// Forced runs must not reuse stats cached by an earlier batch.
		batch.cachePrefix = "stats:" + runID
	}

	workerCount := s.maxWorkers
	if workerCount > len(rosters) {
		workerCount = len(rosters)
	}
	workerPool, err := ants.NewPool(workerCount)
	if err != nil {
		return SettlementResult{}, fmt.Errorf("create settlement worker pool: %w", err)
	}
	defer workerPool.Release()

	outcomes := make(chan rosterOutcome, len(rosters))
	var workers sync.WaitGroup
	for _, item := range rosters {
		item := item
		workers.Add(1)
		if err := workerPool.Submit(func() {
			defer workers.Done()
			outcomes <- s.settleRoster(ctx, batch, item)
		}); err != nil {
			workers.Done()
			outcomes <- rosterOutcome{rosterID: item.ID, err: fmt.Errorf("submit to worker pool: %w", err)}
		}
	}
	workers.Wait()
	close(outcomes)

	rows := make([]rosterOutcome, 0, len(rosters))
	for row := range outcomes {
		rows = append(rows, row)
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].rosterID < rows[j].rosterID
	})

	result := SettlementResult{
		RunID:    runID,
		Gameweek: input.Gameweek,
		RoomID:   input.RoomID,
		Errors:   make([]string, 0),
	}
	for _, row := range rows {
		if row.err != nil {
			s.logger.WarnContext(ctx, "roster settlement failed",
				"run_id", runID, "roster_id", row.rosterID, "error", row.err)
			result.Errors = append(result.Errors, fmt.Sprintf("roster %s: %v", row.rosterID, row.err))
			continue
		}
		result.PlayersProcessed += row.playersProcessed
		result.TotalPointsCalculated += row.totalPoints
		if row.updated {
			result.RostersUpdated++
		}
	}
	result.DurationMs = s.now().Sub(start).Milliseconds()

	s.logger.InfoContext(ctx, "gameweek settlement finished",
		"run_id", runID,
		"gameweek", input.Gameweek,
		"room_id", input.RoomID,
		"rosters", len(rosters),
		"rosters_updated", result.RostersUpdated,
		"players_processed", result.PlayersProcessed,
		"failed_rosters", len(result.Errors),
		"duration_ms", result.DurationMs,
	)

	return result, nil
}

// settleRoster runs the two passes for one roster. Pass 1 gathers base points
// and minutes per slot; pass 2 applies captain/vice multipliers, which need
// the captain's minutes to be known first.
func (s *SettlementService) settleRoster(ctx context.Context, batch settleBatch, item roster.Roster) rosterOutcome {
	out := rosterOutcome{rosterID: item.ID}

	type slotStats struct {
		base    int
		minutes int
	}
	statsBySlot := make([]slotStats, len(item.Slots))

	fetchers := concpool.New().WithErrors()
	for idx := range item.Slots {
		idx := idx
		slot := item.Slots[idx]
		fetchers.Go(func() error {
			stats, err := s.playerStats(ctx, batch, slot.PlayerID)
			if err != nil {
				return fmt.Errorf("player %s: %w", slot.PlayerID, err)
			}

			eligible := dropIneligibleCleanSheets(stats.events, slot.TeamID, batch.matchByID)
			base, err := scoring.Evaluate(eligible, slot.Position, stats.minutes)
			if err != nil {
				return fmt.Errorf("player %s: %w", slot.PlayerID, err)
			}

			statsBySlot[idx] = slotStats{base: base, minutes: stats.minutes}
			return nil
		})
	}
	if err := fetchers.Wait(); err != nil {
		out.err = err
		return out
	}

	captainPresent := false
	captainPlayed := false
	for idx, slot := range item.Slots {
		if slot.IsCaptain {
			captainPresent = true
			captainPlayed = statsBySlot[idx].minutes > 0
			break
		}
	}

	finalPoints := make([]int, len(item.Slots))
	multipliers := make([]int, len(item.Slots))
	total := 0
	for idx, slot := range item.Slots {
		multiplier := 1
		switch {
		case slot.IsCaptain:
			multiplier = s.captainMultiplier
			if slot.Multiplier > 1 {
				multiplier = slot.Multiplier
			}
		case slot.IsViceCaptain && captainPresent && !captainPlayed:
			// Vice steps in only on the captain's total absence from play.
			multiplier = s.captainMultiplier
		}

		finalPoints[idx] = statsBySlot[idx].base * multiplier
		multipliers[idx] = multiplier
		total += finalPoints[idx]
	}

	wrote := false
	for idx, slot := range item.Slots {
		if !batch.input.ForceRecalculate && slot.Points == finalPoints[idx] && slot.Multiplier == multipliers[idx] {
			continue
		}
		if err := s.rosterRepo.UpdateSlotPoints(ctx, item.ID, slot.PlayerID, finalPoints[idx], multipliers[idx]); err != nil {
			out.err = fmt.Errorf("write slot points player=%s: %w", slot.PlayerID, err)
			return out
		}
		wrote = true
	}

	if batch.input.ForceRecalculate || item.GameweekPoints != total {
		if err := s.rosterRepo.ApplyGameweekPoints(ctx, item.ID, batch.input.Gameweek, item.GameweekPoints, total); err != nil {
			out.err = fmt.Errorf("apply gameweek points: %w", err)
			return out
		}
		wrote = true
	}

	out.playersProcessed = len(item.Slots)
	out.totalPoints = total
	out.updated = wrote
	return out
}

// playerStats fetches authoritative minutes plus the player's events in the
// batch's finished matches, at most once per player across all rosters.
func (s *SettlementService) playerStats(ctx context.Context, batch settleBatch, playerID string) (playerPeriodStats, error) {
	key := fmt.Sprintf("%s:%d:%s", batch.cachePrefix, batch.input.Gameweek, playerID)
	value, err := s.statsCache.GetOrLoad(ctx, key, func() (any, error) {
		minutes, err := s.minutesSource.MinutesPlayed(ctx, playerID, batch.input.Gameweek)
		if err != nil {
			return nil, fmt.Errorf("fetch minutes played: %w", err)
		}

		events, err := s.eventSource.ListByPlayerAndMatches(ctx, playerID, batch.matchIDs)
		if err != nil {
			return nil, fmt.Errorf("fetch match events: %w", err)
		}

		return playerPeriodStats{minutes: minutes, events: events}, nil
	})
	if err != nil {
		return playerPeriodStats{}, err
	}

	stats, ok := value.(playerPeriodStats)
	if !ok {
		return playerPeriodStats{}, fmt.Errorf("unexpected cached stats type %T", value)
	}
	return stats, nil
}

// dropIneligibleCleanSheets removes clean-sheet events for matches in which
// the player's team conceded. The match score is authoritative here even when
// the feed emitted the event anyway.
func dropIneligibleCleanSheets(events []match.Event, teamID string, matchByID map[string]match.Match) []match.Event {
	out := make([]match.Event, 0, len(events))
	for _, event := range events {
		if event.Kind == match.KindCleanSheet {
			fixture, ok := matchByID[event.MatchID]
			if !ok {
				continue
			}
			conceded, plays := fixture.GoalsConcededBy(teamID)
			if !plays || conceded > 0 {
				continue
			}
		}
		out = append(out, event)
	}
	return out
}
