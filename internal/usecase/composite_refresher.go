package usecase

import (
	"time"

	"MacroPull/internal/domain/models"
	drepo "MacroPull/internal/domain/repository"
	icache "MacroPull/internal/service/cache"
	"MacroPull/internal/services/stress"
	applogger "MacroPull/pkg/logger"
)

// Series the stress blend needs as year-over-year deltas even though the
// public indicator table may expose them as plain levels.
var stressYoYSeries = []string{"CPIAUCSL", "RSAFS"}

// CompositeRefresher assembles stress inputs from the value cache and
// recomputes the blended score. Inputs with no cached value contribute
// zero, so a cold cache yields a low, not absent, score.
type CompositeRefresher struct {
	values   *icache.ValueCache
	snapshot *icache.SnapshotHolder
	metrics  drepo.Metrics
	log      *applogger.Logger
	now      func() time.Time
}

func NewCompositeRefresher(
	values *icache.ValueCache,
	snapshot *icache.SnapshotHolder,
	metrics drepo.Metrics,
	log *applogger.Logger,
) *CompositeRefresher {
	return &CompositeRefresher{
		values:   values,
		snapshot: snapshot,
		metrics:  metrics,
		log:      log,
		now:      time.Now,
	}
}

// RefreshOnce recomputes the composite from whatever the value cache holds
// right now and publishes it to the snapshot holder.
func (c *CompositeRefresher) RefreshOnce() {
	in := c.assembleInputs()
	score := stress.Score(in)

	c.snapshot.Set(models.CompositeSnapshot{Score: score, ComputedAt: c.now()})
	c.metrics.RecordCompositeScore(score)
	c.log.Debug("composite score recomputed", applogger.Float64("score", score))
}

func (c *CompositeRefresher) assembleInputs() stress.Inputs {
	get := func(key string) float64 {
		if v, ok := c.values.Get(key); ok {
			return v.Value
		}
		return 0
	}
	diff := func(a, b string) float64 {
		va, okA := c.values.Get(a)
		vb, okB := c.values.Get(b)
		if !okA || !okB {
			return 0
		}
		return vb.Value - va.Value
	}

	return stress.Inputs{
		TwoYear:      get("DGS2"),
		TenYear:      get("DGS10"),
		ThirtyYear:   get("DGS30"),
		TwosTens:     diff("DGS2", "DGS10"),
		VIX:          get("VIXCLS"),
		MOVE:         get("^MOVE"),
		VXTLT:        get("^VXTLT"),
		HYSpread:     get("BAMLH0A0HYM2"),
		FedFunds:     get("FEDFUNDS"),
		CPIYoY:       get(icache.YoYKey("CPIAUCSL")),
		Unemployment: get("UNRATE"),
		RetailYoY:    get(icache.YoYKey("RSAFS")),
		Gold:         get("OANDA:XAU_USD"),
		Bitcoin:      get("BINANCE:BTCUSDT"),
		SOFRSpread:   diff("EFFR", "SOFR"),
	}
}
