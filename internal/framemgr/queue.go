// Copyright 2016 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package framemgr

import (
	"time"

	"github.com/ledgrid/ledctl/internal/frame"
)

// deque is a bounded, capacity-2 holder for frames at one priority level,
// keyed implicitly by the queue it lives in (one queue per (domain,
// priority) pair). New submissions overwrite the older entry so memory and
// latency are bounded ("newest wins").
type deque struct {
	items [2]frame.Frame
	n     int
}

// push inserts f, evicting the oldest entry if the deque is already full.
func (d *deque) push(f frame.Frame) {
	if d.n < 2 {
		d.items[d.n] = f
		d.n++
		return
	}
	d.items[0] = d.items[1]
	d.items[1] = f
}

// newest returns the most recently pushed non-expired frame, if any.
func (d *deque) newest(now time.Time) (frame.Frame, bool) {
	for i := d.n - 1; i >= 0; i-- {
		if !d.items[i].IsExpired(now) {
			return d.items[i], true
		}
	}
	return frame.Frame{}, false
}

// evictExpired drops expired entries.
func (d *deque) evictExpired(now time.Time) {
	var kept [2]frame.Frame
	k := 0
	for i := 0; i < d.n; i++ {
		if !d.items[i].IsExpired(now) {
			kept[k] = d.items[i]
			k++
		}
	}
	d.items = kept
	d.n = k
}

// priorityQueues holds one deque per priority level for a single domain
// (main or preview): a bounded deque (capacity 2) per priority, keyed by
// domain.
type priorityQueues struct {
	byPriority map[frame.Priority]*deque
}

func newPriorityQueues() *priorityQueues {
	return &priorityQueues{byPriority: map[frame.Priority]*deque{}}
}

func (q *priorityQueues) push(f frame.Frame) {
	d, ok := q.byPriority[f.Priority]
	if !ok {
		d = &deque{}
		q.byPriority[f.Priority] = d
	}
	d.push(f)
}

func (q *priorityQueues) evictExpired(now time.Time) {
	for _, d := range q.byPriority {
		d.evictExpired(now)
	}
}

// orderedPriorities lists every priority level, highest first.
var orderedPriorities = []frame.Priority{
	frame.PriorityDebug,
	frame.PriorityTransition,
	frame.PriorityPulse,
	frame.PriorityAnimation,
	frame.PriorityManual,
	frame.PriorityIdle,
}

// selectHighest returns the highest-priority non-expired frame, iterating
// highest to lowest.
func (q *priorityQueues) selectHighest(now time.Time) (frame.Frame, bool) {
	for _, p := range orderedPriorities {
		d, ok := q.byPriority[p]
		if !ok {
			continue
		}
		if f, ok := d.newest(now); ok {
			return f, true
		}
	}
	return frame.Frame{}, false
}

// holdingByPriority returns the current holding (most recent, possibly
// expired) frame at each priority.
func (q *priorityQueues) holdingByPriority() map[frame.Priority]frame.Frame {
	out := map[frame.Priority]frame.Frame{}
	for p, d := range q.byPriority {
		if d.n > 0 {
			out[p] = d.items[d.n-1]
		}
	}
	return out
}
