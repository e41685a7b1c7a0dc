package telemetry

import (
	"fmt"
	"log/slog"
	"math"

	"gonum.org/v1/gonum/stat"
)

// BookmarkType identifies the type of bookmark.
type BookmarkType string

const (
	BookmarkPopulationBoom   BookmarkType = "population_boom"
	BookmarkPopulationCrash  BookmarkType = "population_crash"
	BookmarkFoodScarcity     BookmarkType = "food_scarcity"
	BookmarkTraitShift       BookmarkType = "trait_shift"
	BookmarkStablePopulation BookmarkType = "stable_population"
	BookmarkExtinction       BookmarkType = "extinction"
)

// Bookmark represents an automatically triggered bookmark.
type Bookmark struct {
	Type        BookmarkType `csv:"type"`
	Tick        int32        `csv:"tick"`
	Description string       `csv:"description"`
}

// LogBookmark logs the bookmark using slog.
func (b Bookmark) LogBookmark() {
	slog.Info("bookmark",
		"type", string(b.Type),
		"tick", b.Tick,
		"description", b.Description,
	)
}

// Detection thresholds.
const (
	boomFactor       = 2.0  // population vs rolling average
	boomMinimum      = 20   // ignore booms of tiny populations
	crashDrop        = 0.30 // fraction lost from the recent peak
	scarceFood       = 0.10 // availability below this is scarce
	traitShift       = 0.10 // relative move of mean size vs rolling average
	stableCV         = 0.20 // coefficient of variation
	stableWindows    = 4    // windows compared for stability
	stableTrigger    = 5    // consecutive stable windows before bookmarking
	minHistoryWindow = 3
)

// BookmarkDetector detects interesting moments in a run.
type BookmarkDetector struct {
	// Rolling history (circular buffer, oldest first once full)
	history     []WindowStats
	historySize int
	historyIdx  int
	historyFull bool

	recentPeak   int
	scarce       bool
	extinct      bool
	stableStreak int
}

// NewBookmarkDetector creates a detector with the given history size.
func NewBookmarkDetector(historySize int) *BookmarkDetector {
	if historySize < stableWindows+1 {
		historySize = stableWindows + 1
	}
	return &BookmarkDetector{
		history:     make([]WindowStats, historySize),
		historySize: historySize,
	}
}

// Check analyzes the latest stats and returns any triggered bookmarks.
func (bd *BookmarkDetector) Check(stats WindowStats) []Bookmark {
	var bookmarks []Bookmark
	add := func(b *Bookmark) {
		if b != nil {
			bookmarks = append(bookmarks, *b)
		}
	}

	add(bd.checkExtinction(stats))
	add(bd.checkFoodScarcity(stats))
	if bd.historyFull || bd.historyIdx > 0 {
		add(bd.checkBoom(stats))
		add(bd.checkCrash(stats))
		add(bd.checkTraitShift(stats))
		add(bd.checkStable(stats))
	}

	bd.addToHistory(stats)
	if stats.Population > bd.recentPeak {
		bd.recentPeak = stats.Population
	}

	return bookmarks
}

func (bd *BookmarkDetector) addToHistory(stats WindowStats) {
	bd.history[bd.historyIdx] = stats
	bd.historyIdx = (bd.historyIdx + 1) % bd.historySize
	if bd.historyIdx == 0 {
		bd.historyFull = true
	}
}

// getHistory returns the stored windows in chronological order.
func (bd *BookmarkDetector) getHistory() []WindowStats {
	if !bd.historyFull {
		return bd.history[:bd.historyIdx]
	}
	out := make([]WindowStats, 0, bd.historySize)
	out = append(out, bd.history[bd.historyIdx:]...)
	return append(out, bd.history[:bd.historyIdx]...)
}

func (bd *BookmarkDetector) checkExtinction(stats WindowStats) *Bookmark {
	if stats.Population > 0 {
		bd.extinct = false
		return nil
	}
	if bd.extinct || bd.recentPeak == 0 {
		return nil
	}
	bd.extinct = true
	return &Bookmark{
		Type:        BookmarkExtinction,
		Tick:        stats.WindowEndTick,
		Description: fmt.Sprintf("Population extinct after peak of %d", bd.recentPeak),
	}
}

func (bd *BookmarkDetector) checkFoodScarcity(stats WindowStats) *Bookmark {
	if stats.FoodAvailability >= scarceFood {
		bd.scarce = false
		return nil
	}
	if bd.scarce {
		return nil
	}
	bd.scarce = true
	return &Bookmark{
		Type:        BookmarkFoodScarcity,
		Tick:        stats.WindowEndTick,
		Description: fmt.Sprintf("Food availability fell to %.1f%%", stats.FoodAvailability*100),
	}
}

func (bd *BookmarkDetector) checkBoom(stats WindowStats) *Bookmark {
	history := bd.getHistory()
	if len(history) < minHistoryWindow {
		return nil
	}

	pops := make([]float64, len(history))
	for i, h := range history {
		pops[i] = float64(h.Population)
	}
	avg := stat.Mean(pops, nil)
	if avg == 0 {
		return nil
	}

	if float64(stats.Population) > avg*boomFactor && stats.Population >= boomMinimum {
		return &Bookmark{
			Type:        BookmarkPopulationBoom,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("Population %d is %.1fx average (%.0f)", stats.Population, float64(stats.Population)/avg, avg),
		}
	}
	return nil
}

func (bd *BookmarkDetector) checkCrash(stats WindowStats) *Bookmark {
	if bd.recentPeak == 0 || stats.Population == 0 {
		return nil
	}

	drop := 1.0 - float64(stats.Population)/float64(bd.recentPeak)
	if drop > crashDrop && stats.Population < bd.recentPeak-10 {
		oldPeak := bd.recentPeak
		// Reset peak after crash
		bd.recentPeak = stats.Population

		return &Bookmark{
			Type:        BookmarkPopulationCrash,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("Population crashed %.0f%% from peak %d to %d", drop*100, oldPeak, stats.Population),
		}
	}
	return nil
}

func (bd *BookmarkDetector) checkTraitShift(stats WindowStats) *Bookmark {
	history := bd.getHistory()
	if len(history) < minHistoryWindow || stats.Population == 0 {
		return nil
	}

	sizes := make([]float64, 0, len(history))
	for _, h := range history {
		if h.Population > 0 {
			sizes = append(sizes, h.SizeMean)
		}
	}
	if len(sizes) < minHistoryWindow {
		return nil
	}
	avg := stat.Mean(sizes, nil)
	if avg == 0 {
		return nil
	}

	shift := (stats.SizeMean - avg) / avg
	if math.Abs(shift) > traitShift {
		return &Bookmark{
			Type:        BookmarkTraitShift,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("Mean size %.2f moved %+.0f%% from average %.2f", stats.SizeMean, shift*100, avg),
		}
	}
	return nil
}

func (bd *BookmarkDetector) checkStable(stats WindowStats) *Bookmark {
	if stats.Population < 10 {
		bd.stableStreak = 0
		return nil
	}

	history := bd.getHistory()
	if len(history) < stableWindows {
		return nil
	}

	pops := make([]float64, stableWindows)
	for i, h := range history[len(history)-stableWindows:] {
		pops[i] = float64(h.Population)
	}
	mean, std := stat.MeanStdDev(pops, nil)

	if mean > 0 && std/mean < stableCV {
		bd.stableStreak++
	} else {
		bd.stableStreak = 0
	}

	// Trigger exactly once per streak
	if bd.stableStreak == stableTrigger {
		return &Bookmark{
			Type:        BookmarkStablePopulation,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("Stable population around %.0f over %d+ windows", mean, stableTrigger),
		}
	}
	return nil
}
