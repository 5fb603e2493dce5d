package sim

import (
	"github.com/sirupsen/logrus"
)

// Level names the queue a process sits in under the multilevel policies.
type Level string

const (
	LevelForeground Level = "foreground"
	LevelBackground Level = "background"
)

// MultilevelQueue splits arrivals by priority class: foreground (priority 0)
// is served Round Robin with Quantum, background is served FIFO and only
// receives the CPU while the foreground queue is empty. There is no
// promotion, so a steady foreground load starves the background queue.
type MultilevelQueue struct {
	foreground rrQueue
	background ReadyQueue
}

// NewMultilevelQueue creates a MultilevelQueue whose foreground slice is quantum ticks.
func NewMultilevelQueue(quantum int) *MultilevelQueue {
	return &MultilevelQueue{foreground: newRRQueue(quantum)}
}

func (m *MultilevelQueue) SelectNext(now int64, procs *ProcessTable) int {
	m.admit(now, procs)
	return m.dispatch(procs)
}

func (m *MultilevelQueue) admit(now int64, procs *ProcessTable) {
	for _, i := range procs.arrivals(now) {
		if procs.At(i).Foreground() {
			m.foreground.queue.Enqueue(i)
		} else {
			m.background.Enqueue(i)
		}
	}
	dropDoneHead(&m.background, procs)
}

// dispatch prefers the foreground queue and falls back to the background head.
func (m *MultilevelQueue) dispatch(procs *ProcessTable) int {
	if idx, ok := m.foreground.next(procs); ok {
		return idx
	}
	if head, ok := m.background.Peek(); ok {
		return head
	}
	return Idle
}

// Level reports which queue holds process idx; ok is false if it is in neither
// (not yet arrived, or finished and dropped).
func (m *MultilevelQueue) Level(idx int) (level Level, ok bool) {
	for _, i := range m.foreground.queue.Items() {
		if i == idx {
			return LevelForeground, true
		}
	}
	for _, i := range m.background.Items() {
		if i == idx {
			return LevelBackground, true
		}
	}
	return "", false
}

// MultilevelFeedbackQueue is a MultilevelQueue whose queue heads migrate by
// continuous service in their current level (Process.QuantumTime): a
// foreground head that has run HighQuantum ticks is demoted, a background head
// that has run LowQuantum ticks is promoted. Migrated processes join the back
// of the other queue with QuantumTime reset to 0.
type MultilevelFeedbackQueue struct {
	MultilevelQueue
	HighQuantum int64
	LowQuantum  int64
}

// NewMultilevelFeedbackQueue creates a MultilevelFeedbackQueue with a
// foreground slice of quantum ticks and the given migration thresholds.
func NewMultilevelFeedbackQueue(quantum, highQuantum, lowQuantum int) *MultilevelFeedbackQueue {
	return &MultilevelFeedbackQueue{
		MultilevelQueue: *NewMultilevelQueue(quantum),
		HighQuantum:     int64(highQuantum),
		LowQuantum:      int64(lowQuantum),
	}
}

func (m *MultilevelFeedbackQueue) SelectNext(now int64, procs *ProcessTable) int {
	m.admit(now, procs)
	m.migrate(now, procs)
	return m.dispatch(procs)
}

// migrate evaluates both heads before moving either, so a process changes
// level at most once per tick.
func (m *MultilevelFeedbackQueue) migrate(now int64, procs *ProcessTable) {
	demote, promote := Idle, Idle
	if head, ok := m.foreground.queue.Peek(); ok {
		if p := procs.At(head); !p.IsDone && p.QuantumTime >= m.HighQuantum {
			demote = head
		}
	}
	if head, ok := m.background.Peek(); ok {
		if p := procs.At(head); !p.IsDone && p.QuantumTime >= m.LowQuantum {
			promote = head
		}
	}

	if demote != Idle {
		m.foreground.queue.Dequeue()
		m.foreground.restart()
		procs.ResetQuantum(demote)
		m.background.Enqueue(demote)
		logrus.Debugf("[tick %07d] demoted %s to %s", now, procs.At(demote).ID, LevelBackground)
	}
	if promote != Idle {
		m.background.Dequeue()
		procs.ResetQuantum(promote)
		m.foreground.queue.Enqueue(promote)
		logrus.Debugf("[tick %07d] promoted %s to %s", now, procs.At(promote).ID, LevelForeground)
	}
}
