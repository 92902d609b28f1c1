package storage

import "sync"

// MemMedium is an in-process Medium. The Fail* fields inject errors.
type MemMedium struct {
	mu   sync.Mutex
	data map[string][]byte

	FailGet error
	FailSet error
}

// NewMemMedium returns an empty in-memory medium.
func NewMemMedium() *MemMedium {
	return &MemMedium{data: map[string][]byte{}}
}

func (m *MemMedium) Get(key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailGet != nil {
		return nil, false, m.FailGet
	}
	v, ok := m.data[key]
	if !ok {
		return nil, false, nil
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, true, nil
}

func (m *MemMedium) Set(key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailSet != nil {
		return m.FailSet
	}
	v := make([]byte, len(value))
	copy(v, value)
	m.data[key] = v
	return nil
}

func (m *MemMedium) Remove(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}
