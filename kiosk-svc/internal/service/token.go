package service

import "sync"

// TokenHolder keeps the customer's opaque bearer token in memory only.
type TokenHolder struct {
	mu    sync.RWMutex
	token string
}

func NewTokenHolder() *TokenHolder {
	return &TokenHolder{}
}

func (h *TokenHolder) Current() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.token
}

func (h *TokenHolder) Set(token string) {
	h.mu.Lock()
	h.token = token
	h.mu.Unlock()
}

func (h *TokenHolder) Clear() {
	h.Set("")
}
