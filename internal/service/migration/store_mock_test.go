package migration

import (
	"context"
	"sync"

	"github.com/heartmarshall/flashcards-backend/internal/adapter/docstore"
)

var _ documentStore = &documentStoreMock{}

type documentStoreMock struct {
	GetFunc        func(ctx context.Context, path string) (*docstore.Document, error)
	ListFunc       func(ctx context.Context, collection string) ([]docstore.Document, error)
	BatchWriteFunc func(ctx context.Context, writes []docstore.Write) error

	calls struct {
		Get []struct {
			Ctx  context.Context
			Path string
		}
		List []struct {
			Ctx        context.Context
			Collection string
		}
		BatchWrite []struct {
			Ctx    context.Context
			Writes []docstore.Write
		}
	}
	lockGet        sync.RWMutex
	lockList       sync.RWMutex
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

func (mock *documentStoreMock) List(ctx context.Context, collection string) ([]docstore.Document, error) {
	if mock.ListFunc == nil {
		panic("documentStoreMock.ListFunc: method is nil but documentStore.List was just called")
	}
	callInfo := struct {
		Ctx        context.Context
		Collection string
	}{Ctx: ctx, Collection: collection}
	mock.lockList.Lock()
	mock.calls.List = append(mock.calls.List, callInfo)
	mock.lockList.Unlock()
	return mock.ListFunc(ctx, collection)
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
