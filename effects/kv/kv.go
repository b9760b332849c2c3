// Package kv provides a key-value state effect kind and an in-memory,
// hash-sharded store handler for it.
//
// The store handler is the canonical example of handler-held private state:
// the buckets live inside the handler, across invocations, invisible to the
// computation that yields the requests.
package kv

import (
	"errors"

	"github.com/cespare/xxhash/v2"

	"github.com/on-the-ground/effect_algebra_go/effects"
	"github.com/on-the-ground/effect_algebra_go/shared/helper"
)

// Request is the request sum of the key-value effect kind: a load or a store
// of one key.
type Request struct {
	Key   string
	Value any
	store bool
}

// LoadOf builds a load request for key.
func LoadOf(key string) Request {
	return Request{Key: key}
}

// StoreOf builds a store request binding key to value.
func StoreOf(key string, value any) Request {
	return Request{Key: key, Value: value, store: true}
}

// Result is the result of the key-value effect kind. Found reports whether
// the key was bound before the request ran; Value carries the loaded value
// on loads.
type Result struct {
	Value any
	Found bool
}

// TypedValue projects a Result's value to the expected type T.
func TypedValue[T any](res Result) (T, bool) {
	return helper.GetTypedValueOf2[T](func() (any, bool) {
		return res.Value, res.Found
	})
}

// MustTypedValue is the panic-on-failure variant of TypedValue. Use when the
// effect algebra guarantees the key is bound and the value's type is fixed.
func MustTypedValue[T any](res Result) T {
	return helper.MustGetTypedValue[T](func() (any, error) {
		if !res.Found {
			return nil, errors.New("kv: key not bound")
		}
		return res.Value, nil
	})
}

// StoreHandler serves the key-value effect kind from in-memory buckets,
// sharded by key hash so no single bucket grows unbounded.
type StoreHandler struct {
	buckets []map[string]any
}

// NewStoreHandler returns a store handler with numShards buckets.
// A value <= 0 is normalized to 1.
func NewStoreHandler(numShards int) *StoreHandler {
	if numShards <= 0 {
		numShards = 1
	}
	buckets := make([]map[string]any, numShards)
	for i := range buckets {
		buckets[i] = make(map[string]any)
	}
	return &StoreHandler{buckets: buckets}
}

func (h *StoreHandler) Handle(req Request) (Result, error) {
	bucket := h.buckets[h.indexOf(req.Key)]
	old, found := bucket[req.Key]
	if req.store {
		bucket[req.Key] = req.Value
		return Result{Found: found}, nil
	}
	return Result{Value: old, Found: found}, nil
}

func (h *StoreHandler) indexOf(key string) int {
	if len(h.buckets) == 1 {
		return 0
	}
	return int(xxhash.Sum64String(key) % uint64(len(h.buckets)))
}

var _ effects.Handler[Request, Result] = (*StoreHandler)(nil)
