package pipeline

import (
	"context"
	"sync"
	"time"

	"schooldash/domain/core"
	"schooldash/domain/school"
	"schooldash/internal"
	"schooldash/ports"

	"golang.org/x/sync/singleflight"
)

// Controller re-runs the pipeline whenever the dashboard's controls change.
// Results are memoized on (raw-table checksum, canonical controls); identical
// concurrent requests share one evaluation.
type Controller struct {
	source ports.TableSource
	logger *internal.Logger

	group singleflight.Group

	mu       sync.Mutex
	memo     map[string]*Result
	order    []string // insertion order for eviction
	capacity int
}

// NewController creates a controller; capacity 0 disables memoization
func NewController(source ports.TableSource, capacity int, logger *internal.Logger) *Controller {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	if capacity < 0 {
		capacity = 0
	}
	return &Controller{
		source:   source,
		logger:   logger.Named("controller"),
		memo:     make(map[string]*Result),
		capacity: capacity,
	}
}

// Run loads the raw tables and evaluates the pipeline for controls
func (c *Controller) Run(ctx context.Context, controls school.Controls) (*Result, error) {
	raw, err := c.source.Load(ctx)
	if err != nil {
		c.logger.Error("load failed: %v", err)
		return nil, err
	}

	if controls.Visualization == "" {
		controls.Visualization = school.VizGeneralPopulation
	}
	checksum := raw.Checksum()
	key := checksum.String() + "|" + controls.Key()

	if res, ok := c.lookup(key); ok {
		c.logger.Debug("memo hit run=%s checksum=%s", res.RunID, checksum.Short())
		return res, nil
	}

	v, err, shared := c.group.Do(key, func() (interface{}, error) {
		start := time.Now()
		res, err := Run(raw, controls)
		if err != nil {
			return nil, err
		}
		res.RunID = core.NewRunID()
		res.Checksum = checksum
		res.GeneratedAt = core.Now()
		c.store(key, res)
		c.logger.Info("run=%s checksum=%s viz=%q schools=%d rows=%d took=%s",
			res.RunID, checksum.Short(), controls.Visualization, len(res.Joined), len(res.Population), time.Since(start))
		return res, nil
	})
	if err != nil {
		if core.IsDataQualityError(err) {
			c.logger.Warn("rejected input data: %v", err)
		} else {
			c.logger.Error("pipeline run failed: %v", err)
		}
		return nil, err
	}
	if shared {
		c.logger.Trace("shared in-flight run for key %s", key)
	}
	return v.(*Result), nil
}

// Forget drops every memoized result
func (c *Controller) Forget() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.memo = make(map[string]*Result)
	c.order = nil
}

func (c *Controller) lookup(key string) (*Result, bool) {
	if c.capacity == 0 {
		return nil, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	res, ok := c.memo[key]
	return res, ok
}

func (c *Controller) store(key string, res *Result) {
	if c.capacity == 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.memo[key]; exists {
		return
	}
	for len(c.order) >= c.capacity {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.memo, oldest)
	}
	c.memo[key] = res
	c.order = append(c.order, key)
}
