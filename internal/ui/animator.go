package ui

import (
	"sync"
	"time"
)

// ProgressAnimator glides a displayed percentage toward a moving target.
// Raw progress arrives in bursts; animating the gap keeps the bar from
// jumping. The onFrame callback runs on the animator goroutine, so the
// caller is responsible for hopping to the UI thread.
type ProgressAnimator struct {
	mu        sync.Mutex
	target    float64
	displayed float64
	running   bool
	stop      chan struct{}
	onFrame   func(float64)
}

// NewProgressAnimator creates an animator delivering frames to onFrame.
func NewProgressAnimator(onFrame func(float64)) *ProgressAnimator {
	return &ProgressAnimator{onFrame: onFrame}
}

// SetTarget moves the target percentage. Lower targets are ignored; use
// Reset between jobs.
func (a *ProgressAnimator) SetTarget(target float64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if target > a.target {
		a.target = target
	}
}

// Start launches the animation loop. Calling Start on a running animator
// is a no-op.
func (a *ProgressAnimator) Start() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.running {
		return
	}
	a.running = true
	a.stop = make(chan struct{})

	go a.loop(a.stop)
}

// Stop halts the animation loop.
func (a *ProgressAnimator) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.running {
		return
	}
	a.running = false
	close(a.stop)
}

// Reset zeroes both the target and the displayed value for a fresh job.
func (a *ProgressAnimator) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.target = 0
	a.displayed = 0
}

// Displayed returns the currently displayed value.
func (a *ProgressAnimator) Displayed() float64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.displayed
}

func (a *ProgressAnimator) loop(stop chan struct{}) {
	ticker := time.NewTicker(AnimationTickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			a.mu.Lock()
			next := nextFrame(a.displayed, a.target)
			changed := next != a.displayed
			a.displayed = next
			callback := a.onFrame
			a.mu.Unlock()

			if changed && callback != nil {
				callback(next)
			}
		}
	}
}

// nextFrame advances the displayed value one tick toward target: a fixed
// fraction of the remaining gap, snapping once the gap is small.
func nextFrame(displayed, target float64) float64 {
	gap := target - displayed
	if gap <= 0 {
		return displayed
	}
	if gap < AnimationSnapEpsilon {
		return target
	}
	return displayed + gap*AnimationStepFraction
}
