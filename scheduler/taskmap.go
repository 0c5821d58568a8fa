package scheduler

import (
	"github.com/numbleroot/imapflow"
	"github.com/numbleroot/imapflow/wire"
)

type taskEntry struct {
	handle imapflow.CommandHandle
	tag    wire.Tag
	task   taskAny
}

// taskMap is an ordered collection of in-flight tasks, used for both
// the waiting (enqueued, not yet sent) and active (sent, awaiting
// completion) sets.
type taskMap struct {
	entries []taskEntry
}

func (m *taskMap) pushBack(handle imapflow.CommandHandle, tag wire.Tag, task taskAny) {
	m.entries = append(m.entries, taskEntry{handle: handle, tag: tag, task: task})
}

func (m *taskMap) removeByHandle(handle imapflow.CommandHandle) (taskEntry, bool) {
	for i, e := range m.entries {
		if e.handle.Equal(handle) {
			m.entries = append(m.entries[:i], m.entries[i+1:]...)
			return e, true
		}
	}
	return taskEntry{}, false
}

func (m *taskMap) removeByTag(tag wire.Tag) (taskEntry, bool) {
	for i, e := range m.entries {
		if e.tag == tag {
			m.entries = append(m.entries[:i], m.entries[i+1:]...)
			return e, true
		}
	}
	return taskEntry{}, false
}

func (m *taskMap) getByHandle(handle imapflow.CommandHandle) (taskAny, bool) {
	for _, e := range m.entries {
		if e.handle.Equal(handle) {
			return e.task, true
		}
	}
	return nil, false
}
