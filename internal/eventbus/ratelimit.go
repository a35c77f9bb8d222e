// Copyright 2016 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package eventbus

import (
	"sync"
	"time"
)

// RateLimitMiddleware suppresses events of a given type if one of the same
// type was already delivered within minInterval. Event types not present in
// limits pass through untouched. Intended for high-frequency sources like
// encoder rotation, where every tick publishing would flood subscribers.
func RateLimitMiddleware(limits map[Type]time.Duration) Middleware {
	var mu sync.Mutex
	last := map[Type]time.Time{}
	return func(ev Event) bool {
		interval, limited := limits[ev.Type]
		if !limited {
			return true
		}
		mu.Lock()
		defer mu.Unlock()
		now := time.Now()
		if prev, ok := last[ev.Type]; ok && now.Sub(prev) < interval {
			return false
		}
		last[ev.Type] = now
		return true
	}
}
