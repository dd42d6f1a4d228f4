// Package proctable tracks, per MQTT topic, the OS process ids the router
// has spawned for shell-command "on" events, with best-effort liveness
// filtering.
package proctable

// LivenessProbe reports whether pid is still running. Production wiring
// queries the OS; tests inject a fake. Permission-denied or unknown pids
// must be reported as not alive, never as an error that aborts cleanup.
type LivenessProbe func(pid uint32) bool

// Table is a per-topic, insertion-ordered list of tracked pids. It is
// mutated only from the Router's dispatch goroutine, so no internal
// locking is required.
type Table struct {
	probe LivenessProbe
	pids  map[string][]uint32
}

// New creates an empty table using probe for liveness checks.
func New(probe LivenessProbe) *Table {
	return &Table{probe: probe, pids: make(map[string][]uint32)}
}

// Append records pid under topic. A pid of 0 is ignored (no process was
// actually spawned).
func (t *Table) Append(topic string, pid uint32) {
	if pid == 0 {
		return
	}
	t.pids[topic] = append(t.pids[topic], pid)
}

// CleanupDead probes every pid tracked under topic and retains only the
// still-running ones, preserving relative order.
func (t *Table) CleanupDead(topic string) {
	existing := t.pids[topic]
	if len(existing) == 0 {
		return
	}
	alive := existing[:0:0]
	for _, pid := range existing {
		if t.probe(pid) {
			alive = append(alive, pid)
		}
	}
	t.pids[topic] = alive
}

// Latest returns the last pid for topic after a CleanupDead pass, and
// whether one exists.
func (t *Table) Latest(topic string) (uint32, bool) {
	list := t.pids[topic]
	if len(list) == 0 {
		return 0, false
	}
	return list[len(list)-1], true
}

// All returns a copy of the pids currently tracked under topic.
func (t *Table) All(topic string) []uint32 {
	list := t.pids[topic]
	out := make([]uint32, len(list))
	copy(out, list)
	return out
}

// Clear drops every pid tracked under topic.
func (t *Table) Clear(topic string) {
	delete(t.pids, topic)
}

// RemoveLatest drops just the most recently appended pid for topic, used by
// the interrupt escalation ladder when a break was successfully delivered
// to that single process without touching the rest of the list.
func (t *Table) RemoveLatest(topic string) {
	list := t.pids[topic]
	if len(list) == 0 {
		return
	}
	t.pids[topic] = list[:len(list)-1]
}
