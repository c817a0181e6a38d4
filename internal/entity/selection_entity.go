package entity

import "sort"

// Selection is a set of emoji ids. Membership is by id only, so a selected
// emoji stays selected while it is moved or scaled.
type Selection struct {
	ids map[int]struct{}
}

func NewSelection(ids ...int) *Selection {
	s := &Selection{ids: make(map[int]struct{}, len(ids))}
	for _, id := range ids {
		s.ids[id] = struct{}{}
	}
	return s
}

// Toggle adds id if absent and removes it otherwise. It reports whether id
// is selected afterwards.
func (s *Selection) Toggle(id int) bool {
	if _, ok := s.ids[id]; ok {
		delete(s.ids, id)
		return false
	}
	s.ids[id] = struct{}{}
	return true
}

func (s *Selection) Contains(id int) bool {
	_, ok := s.ids[id]
	return ok
}

func (s *Selection) IsEmpty() bool {
	return len(s.ids) == 0
}

func (s *Selection) Clear() {
	s.ids = make(map[int]struct{})
}

// IDs returns the selected ids in ascending order.
func (s *Selection) IDs() []int {
	out := make([]int, 0, len(s.ids))
	for id := range s.ids {
		out = append(out, id)
	}
	sort.Ints(out)
	return out
}

// Retain drops ids that no longer exist in doc.
func (s *Selection) Retain(doc Document) {
	for id := range s.ids {
		if doc.Index(id) < 0 {
			delete(s.ids, id)
		}
	}
}
