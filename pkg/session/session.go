// Package session keeps the per-conversation state of the active flow.
package session

import (
	"context"
	"strconv"
)

// Session is the state of one conversation. An empty Flow means idle.
type Session struct {
	Flow string            `json:"flow"`
	Step string            `json:"step"`
	Data map[string]string `json:"data,omitempty"`
}

// Store loads, saves and clears sessions by conversation id. Load never returns
// a nil session for a missing key.
type Store interface {
	Load(ctx context.Context, id int64) (*Session, error)
	Save(ctx context.Context, id int64, s *Session) error
	Clear(ctx context.Context, id int64) error
}

func (s *Session) Get(key, def string) string {
	if v, ok := s.Data[key]; ok {
		return v
	}
	return def
}

func (s *Session) Set(key, value string) {
	if s.Data == nil {
		s.Data = make(map[string]string)
	}
	s.Data[key] = value
}

func (s *Session) Del(key string) {
	delete(s.Data, key)
}

func (s *Session) Int64(key string) (int64, bool) {
	v, ok := s.Data[key]
	if !ok {
		return 0, false
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

func (s *Session) SetInt64(key string, v int64) {
	s.Set(key, strconv.FormatInt(v, 10))
}

// Start switches the session to flow at step, dropping data from any earlier flow.
func (s *Session) Start(flow, step string) {
	s.Flow = flow
	s.Step = step
	s.Data = nil
}

func (s *Session) Reset() {
	s.Flow = ""
	s.Step = ""
	s.Data = nil
}

func (s *Session) Active() bool {
	return s.Flow != ""
}

func (s *Session) clone() *Session {
	c := &Session{Flow: s.Flow, Step: s.Step}
	if s.Data != nil {
		c.Data = make(map[string]string, len(s.Data))
		for k, v := range s.Data {
			c.Data[k] = v
		}
	}
	return c
}
