package cache

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/heartmarshall/flashcards-backend/internal/adapter/docstore"
	"github.com/heartmarshall/flashcards-backend/internal/domain"
)

var _ documentStore = &documentStoreMock{}

type documentStoreMock struct {
	GetFunc        func(ctx context.Context, path string) (*docstore.Document, error)
	SetFunc        func(ctx context.Context, path string, data json.RawMessage, opts docstore.SetOptions) error
	BatchWriteFunc func(ctx context.Context, writes []docstore.Write) error

	calls struct {
		Get []struct {
			Ctx  context.Context
			Path string
		}
		Set []struct {
			Ctx  context.Context
			Path string
			Data json.RawMessage
			Opts docstore.SetOptions
		}
		BatchWrite []struct {
			Ctx    context.Context
			Writes []docstore.Write
		}
	}
	lockGet        sync.RWMutex
	lockSet        sync.RWMutex
	lockBatchWrite sync.RWMutex
}

func (mock *documentStoreMock) Get(ctx context.Context, path string) (*docstore.Document, error) {
	if mock.GetFunc == nil {
		panic("documentStoreMock.GetFunc: method is nil but documentStore.Get was just called")
	}
	callInfo := struct {
		Ctx  context.Context
		Path string
	}{Ctx: ctx, Path: path}
	mock.lockGet.Lock()
	mock.calls.Get = append(mock.calls.Get, callInfo)
	mock.lockGet.Unlock()
	return mock.GetFunc(ctx, path)
}

func (mock *documentStoreMock) GetCalls() []struct {
	Ctx  context.Context
	Path string
} {
	mock.lockGet.RLock()
	calls := mock.calls.Get
	mock.lockGet.RUnlock()
	return calls
}

func (mock *documentStoreMock) Set(ctx context.Context, path string, data json.RawMessage, opts docstore.SetOptions) error {
	if mock.SetFunc == nil {
		panic("documentStoreMock.SetFunc: method is nil but documentStore.Set was just called")
	}
	callInfo := struct {
		Ctx  context.Context
		Path string
		Data json.RawMessage
		Opts docstore.SetOptions
	}{Ctx: ctx, Path: path, Data: data, Opts: opts}
	mock.lockSet.Lock()
	mock.calls.Set = append(mock.calls.Set, callInfo)
	mock.lockSet.Unlock()
	return mock.SetFunc(ctx, path, data, opts)
}

func (mock *documentStoreMock) SetCalls() []struct {
	Ctx  context.Context
	Path string
	Data json.RawMessage
	Opts docstore.SetOptions
} {
	mock.lockSet.RLock()
	calls := mock.calls.Set
	mock.lockSet.RUnlock()
	return calls
}

func (mock *documentStoreMock) BatchWrite(ctx context.Context, writes []docstore.Write) error {
	if mock.BatchWriteFunc == nil {
		panic("documentStoreMock.BatchWriteFunc: method is nil but documentStore.BatchWrite was just called")
	}
	callInfo := struct {
		Ctx    context.Context
		Writes []docstore.Write
	}{Ctx: ctx, Writes: writes}
	mock.lockBatchWrite.Lock()
	mock.calls.BatchWrite = append(mock.calls.BatchWrite, callInfo)
	mock.lockBatchWrite.Unlock()
	return mock.BatchWriteFunc(ctx, writes)
}

func (mock *documentStoreMock) BatchWriteCalls() []struct {
	Ctx    context.Context
	Writes []docstore.Write
} {
	mock.lockBatchWrite.RLock()
	calls := mock.calls.BatchWrite
	mock.lockBatchWrite.RUnlock()
	return calls
}

var _ seedSource = &seedSourceMock{}

type seedSourceMock struct {
	CardSetFunc func(ctx context.Context, cardSetID string) (domain.CardSetSeed, error)

	calls struct {
		CardSet []struct {
			Ctx       context.Context
			CardSetID string
		}
	}
	lockCardSet sync.RWMutex
}

func (mock *seedSourceMock) CardSet(ctx context.Context, cardSetID string) (domain.CardSetSeed, error) {
	if mock.CardSetFunc == nil {
		panic("seedSourceMock.CardSetFunc: method is nil but seedSource.CardSet was just called")
	}
	callInfo := struct {
		Ctx       context.Context
		CardSetID string
	}{Ctx: ctx, CardSetID: cardSetID}
	mock.lockCardSet.Lock()
	mock.calls.CardSet = append(mock.calls.CardSet, callInfo)
	mock.lockCardSet.Unlock()
	return mock.CardSetFunc(ctx, cardSetID)
}

func (mock *seedSourceMock) CardSetCalls() []struct {
	Ctx       context.Context
	CardSetID string
} {
	mock.lockCardSet.RLock()
	calls := mock.calls.CardSet
	mock.lockCardSet.RUnlock()
	return calls
}
