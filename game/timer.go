package game

import "time"

type timerScheduler struct{}

func (timerScheduler) Schedule(delay time.Duration, fn func()) (cancel func()) {
	t := time.AfterFunc(delay, fn)
	return func() { t.Stop() }
}

func NewScheduler() RoundScheduler {
	return timerScheduler{}
}
