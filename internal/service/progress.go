package service

// progress reports list progress at a cadence that scales with the list:
// every item when verbose, otherwise the first, the last and every stepth
// item in between. The step is a quarter of the list, capped at 25.
type progress struct {
	total   int
	step    int
	verbose bool
}

func newProgress(total int, verbose bool) progress {
	step := total / 4
	if step > 25 {
		step = 25
	}
	if step < 1 {
		step = 1
	}

	return progress{total: total, step: step, verbose: verbose}
}

func (p progress) shouldLog(current int) bool {
	if p.verbose || current == 1 || current == p.total {
		return true
	}

	return current%p.step == 0
}

func (p progress) log(action string, current int) {
	if p.shouldLog(current) {
		logger.Infof("%s %d/%d", action, current, p.total)
	}
}
