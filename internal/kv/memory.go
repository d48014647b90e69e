package kv

// Memory is an in-memory Store used by tests and throwaway sessions.
type Memory struct {
	values map[string][]byte
}

func NewMemory() *Memory {
	return &Memory{values: make(map[string][]byte)}
}

func (m *Memory) Get(key string) ([]byte, bool, error) {
	value, ok := m.values[key]
	return value, ok, nil
}

func (m *Memory) Put(key string, value []byte) error {
	m.values[key] = append([]byte(nil), value...)
	return nil
}
