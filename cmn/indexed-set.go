package cmn

// IndexedSet a set that maintains the order of the entered items
type IndexedSet[T comparable] struct {
	items  []T
	values map[T]int
}

// IsEmpty check if this set is empty
func (m *IndexedSet[T]) IsEmpty() bool {
	return len(m.items) == 0
}

// Len Returns the number of elements in the set.
func (m *IndexedSet[T]) Len() int {
	return len(m.items)
}

// Add an element to the set (if it doesn't exist yet). Returns the item index.
func (m *IndexedSet[T]) Add(value T) int {
	index, exists := m.values[value]
	if !exists {
		if m.values == nil {
			m.values = map[T]int{}
		}
		index = len(m.items)
		m.values[value] = index
		m.items = append(m.items, value)
	}
	return index
}

// Contains checks if this set has the item informed
func (m *IndexedSet[T]) Contains(value T) bool {
	_, contains := m.values[value]
	return contains
}

// ToArray get all items keeping insertion order
func (m *IndexedSet[T]) ToArray() []T {
	arr := make([]T, len(m.items))
	copy(arr, m.items)
	return arr
}
