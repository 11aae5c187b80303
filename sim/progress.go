package sim

import "github.com/sirupsen/logrus"

// progress logs run advancement at Debug level every tenth of the stream.
type progress struct {
	label string
	total int
	next  int
}

func newProgress(label string, total int) *progress {
	return &progress{label: label, total: total, next: total / 10}
}

func (p *progress) update(idx int) {
	if p.total < 10 || idx < p.next {
		return
	}
	logrus.Debugf("[%s] %d/%d samples (%.0f%%)", p.label, idx, p.total, 100*float64(idx)/float64(p.total))
	p.next += p.total / 10
}
