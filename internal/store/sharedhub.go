package store

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"rentbook/internal/core"
	"rentbook/internal/notify"
)

// HubSink persists shared hub snapshots. Only the collections that
// changed are passed; nil means untouched.
type HubSink func(ctx context.Context, lists []core.SharedList, tasks []core.SharedTask, ideas []core.SharedIdea)

// Hub holds the three shared hub collections under one lock. Unlike
// the financial domains its three record types persist through a
// single combined sink.
type Hub struct {
	mu    sync.Mutex
	tasks []core.SharedTask
	lists []core.SharedList
	ideas []core.SharedIdea

	user     string
	save     HubSink
	notifier notify.Notifier
}

func NewHub(user string, save HubSink, notifier notify.Notifier) *Hub {
	if notifier == nil {
		notifier = notify.Nop{}
	}
	return &Hub{user: user, save: save, notifier: notifier}
}

// Replace hydrates all three collections without persisting.
func (h *Hub) Replace(lists []core.SharedList, tasks []core.SharedTask, ideas []core.SharedIdea) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.lists = append([]core.SharedList(nil), lists...)
	h.tasks = append([]core.SharedTask(nil), tasks...)
	h.ideas = append([]core.SharedIdea(nil), ideas...)
}

func (h *Hub) Tasks() []core.SharedTask {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]core.SharedTask(nil), h.tasks...)
}

func (h *Hub) Lists() []core.SharedList {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]core.SharedList(nil), h.lists...)
}

func (h *Hub) Ideas() []core.SharedIdea {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]core.SharedIdea(nil), h.ideas...)
}

// The save helpers pass non-nil slices even when the collection is
// empty; the sink treats nil as "unchanged", so an emptied collection
// must still come through as an empty slice.
func (h *Hub) saveTasksLocked(ctx context.Context) {
	if h.save != nil {
		tasks := make([]core.SharedTask, len(h.tasks))
		copy(tasks, h.tasks)
		h.save(ctx, nil, tasks, nil)
	}
}

func (h *Hub) saveListsLocked(ctx context.Context) {
	if h.save != nil {
		lists := make([]core.SharedList, len(h.lists))
		copy(lists, h.lists)
		h.save(ctx, lists, nil, nil)
	}
}

func (h *Hub) saveIdeasLocked(ctx context.Context) {
	if h.save != nil {
		ideas := make([]core.SharedIdea, len(h.ideas))
		copy(ideas, h.ideas)
		h.save(ctx, nil, nil, ideas)
	}
}

// AddTask appends a task, stamping id, creator and timestamp.
func (h *Hub) AddTask(ctx context.Context, task core.SharedTask) core.SharedTask {
	if task.ID == "" {
		task.ID = uuid.NewString()
	}
	if task.Status == "" {
		task.Status = core.TaskPending
	}
	if task.CreatedBy == "" {
		task.CreatedBy = h.user
	}
	if task.CreatedAt.IsZero() {
		task.CreatedAt = time.Now().UTC()
	}

	h.mu.Lock()
	h.tasks = append(h.tasks, task)
	h.saveTasksLocked(ctx)
	h.mu.Unlock()

	h.notifier.Notify("Task added", notify.Success)
	return task
}

// UpdateTask applies mutate to the task's current value, silently.
func (h *Hub) UpdateTask(ctx context.Context, id string, mutate func(core.SharedTask) core.SharedTask) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	for i, t := range h.tasks {
		if t.ID == id {
			h.tasks[i] = mutate(t)
			h.saveTasksLocked(ctx)
			return nil
		}
	}
	return ErrNotFound
}

func (h *Hub) DeleteTask(ctx context.Context, id string) {
	h.mu.Lock()
	kept := h.tasks[:0]
	for _, t := range h.tasks {
		if t.ID != id {
			kept = append(kept, t)
		}
	}
	h.tasks = kept
	h.saveTasksLocked(ctx)
	h.mu.Unlock()

	h.notifier.Notify("Task removed", notify.Info)
}

// CompleteTask toggles a task between done and pending, recording who
// completed it and when. Unknown ids are ignored.
func (h *Hub) CompleteTask(ctx context.Context, id string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for i, t := range h.tasks {
		if t.ID != id {
			continue
		}
		if t.Status == core.TaskDone {
			t.Status = core.TaskPending
			t.CompletedBy = ""
			t.CompletedAt = nil
		} else {
			now := time.Now().UTC()
			t.Status = core.TaskDone
			t.CompletedBy = h.user
			t.CompletedAt = &now
		}
		h.tasks[i] = t
		h.saveTasksLocked(ctx)
		return
	}
}

func (h *Hub) HighlightTask(ctx context.Context, id string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for i, t := range h.tasks {
		if t.ID == id {
			h.tasks[i].Highlighted = !t.Highlighted
			h.saveTasksLocked(ctx)
			return
		}
	}
}

// AddList appends a checklist.
func (h *Hub) AddList(ctx context.Context, list core.SharedList) core.SharedList {
	if list.ID == "" {
		list.ID = uuid.NewString()
	}
	if list.CreatedBy == "" {
		list.CreatedBy = h.user
	}
	if list.CreatedAt.IsZero() {
		list.CreatedAt = time.Now().UTC()
	}

	h.mu.Lock()
	h.lists = append(h.lists, list)
	h.saveListsLocked(ctx)
	h.mu.Unlock()

	h.notifier.Notify("List created", notify.Success)
	return list
}

func (h *Hub) UpdateList(ctx context.Context, id string, mutate func(core.SharedList) core.SharedList) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	for i, l := range h.lists {
		if l.ID == id {
			h.lists[i] = mutate(l)
			h.saveListsLocked(ctx)
			return nil
		}
	}
	return ErrNotFound
}

func (h *Hub) DeleteList(ctx context.Context, id string) {
	h.mu.Lock()
	kept := h.lists[:0]
	for _, l := range h.lists {
		if l.ID != id {
			kept = append(kept, l)
		}
	}
	h.lists = kept
	h.saveListsLocked(ctx)
	h.mu.Unlock()

	h.notifier.Notify("List removed", notify.Info)
}

// AddListItem appends an item to a checklist, silently.
func (h *Hub) AddListItem(ctx context.Context, listID string, item core.ListItem) error {
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	return h.UpdateList(ctx, listID, func(l core.SharedList) core.SharedList {
		l.Items = append(append([]core.ListItem(nil), l.Items...), item)
		return l
	})
}

// ToggleListItem flips an item's checked state, recording who checked
// it and when.
func (h *Hub) ToggleListItem(ctx context.Context, listID, itemID string) error {
	return h.UpdateList(ctx, listID, func(l core.SharedList) core.SharedList {
		items := append([]core.ListItem(nil), l.Items...)
		for i, item := range items {
			if item.ID != itemID {
				continue
			}
			if item.Checked {
				item.Checked = false
				item.CheckedBy = ""
				item.CheckedAt = nil
			} else {
				now := time.Now().UTC()
				item.Checked = true
				item.CheckedBy = h.user
				item.CheckedAt = &now
			}
			items[i] = item
		}
		l.Items = items
		return l
	})
}

func (h *Hub) DeleteListItem(ctx context.Context, listID, itemID string) error {
	return h.UpdateList(ctx, listID, func(l core.SharedList) core.SharedList {
		kept := make([]core.ListItem, 0, len(l.Items))
		for _, item := range l.Items {
			if item.ID != itemID {
				kept = append(kept, item)
			}
		}
		l.Items = kept
		return l
	})
}

func (h *Hub) HighlightList(ctx context.Context, id string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for i, l := range h.lists {
		if l.ID == id {
			h.lists[i].Highlighted = !l.Highlighted
			h.saveListsLocked(ctx)
			return
		}
	}
}

// AddIdea appends an idea.
func (h *Hub) AddIdea(ctx context.Context, idea core.SharedIdea) core.SharedIdea {
	if idea.ID == "" {
		idea.ID = uuid.NewString()
	}
	if idea.CreatedBy == "" {
		idea.CreatedBy = h.user
	}
	if idea.CreatedAt.IsZero() {
		idea.CreatedAt = time.Now().UTC()
	}

	h.mu.Lock()
	h.ideas = append(h.ideas, idea)
	h.saveIdeasLocked(ctx)
	h.mu.Unlock()

	h.notifier.Notify("Idea saved", notify.Success)
	return idea
}

func (h *Hub) UpdateIdea(ctx context.Context, id string, mutate func(core.SharedIdea) core.SharedIdea) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	for i, idea := range h.ideas {
		if idea.ID == id {
			h.ideas[i] = mutate(idea)
			h.saveIdeasLocked(ctx)
			return nil
		}
	}
	return ErrNotFound
}

func (h *Hub) DeleteIdea(ctx context.Context, id string) {
	h.mu.Lock()
	kept := h.ideas[:0]
	for _, idea := range h.ideas {
		if idea.ID != id {
			kept = append(kept, idea)
		}
	}
	h.ideas = kept
	h.saveIdeasLocked(ctx)
	h.mu.Unlock()

	h.notifier.Notify("Idea removed", notify.Info)
}

func (h *Hub) HighlightIdea(ctx context.Context, id string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for i, idea := range h.ideas {
		if idea.ID == id {
			h.ideas[i].Highlighted = !idea.Highlighted
			h.saveIdeasLocked(ctx)
			return
		}
	}
}
