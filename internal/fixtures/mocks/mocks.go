// Package mocks holds testify mocks of the repository, unit of work and
// event bus contracts.
package mocks

import (
	"context"

	"github.com/amirasaad/findash/pkg/domain/events"
	"github.com/amirasaad/findash/pkg/dto"
	"github.com/amirasaad/findash/pkg/eventbus"
	"github.com/amirasaad/findash/pkg/repository"
	txrepo "github.com/amirasaad/findash/pkg/repository/transaction"
	userrepo "github.com/amirasaad/findash/pkg/repository/user"
	"github.com/stretchr/testify/mock"
)

// MockUnitOfWork is a mock implementation of UnitOfWork.
type MockUnitOfWork struct {
	mock.Mock
}

type MockUnitOfWork_Expecter struct {
	mock *mock.Mock
}

func (_m *MockUnitOfWork) EXPECT() *MockUnitOfWork_Expecter {
	return &MockUnitOfWork_Expecter{mock: &_m.Mock}
}

// Do provides a mock function with given fields: ctx, fn
func (_m *MockUnitOfWork) Do(ctx context.Context, fn func(repository.UnitOfWork) error) error {
	ret := _m.Called(ctx, fn)

	if len(ret) == 0 {
		panic("no return value specified for Do")
	}

	var r0 error
	if rf, ok := ret.Get(0).(func(context.Context, func(repository.UnitOfWork) error) error); ok {
		r0 = rf(ctx, fn)
	} else {
		r0 = ret.Error(0)
	}

	return r0
}

// MockUnitOfWork_Do_Call is a *mock.Call that shadows Run/Return methods with type explicit version for method 'Do'
type MockUnitOfWork_Do_Call struct {
	*mock.Call
}

func (_e *MockUnitOfWork_Expecter) Do(ctx interface{}, fn interface{}) *MockUnitOfWork_Do_Call {
	return &MockUnitOfWork_Do_Call{Call: _e.mock.On("Do", ctx, fn)}
}

func (_c *MockUnitOfWork_Do_Call) Run(run func(ctx context.Context, fn func(repository.UnitOfWork) error)) *MockUnitOfWork_Do_Call {
	_c.Call.Run(func(args mock.Arguments) {
		run(args[0].(context.Context), args[1].(func(repository.UnitOfWork) error))
	})
	return _c
}

func (_c *MockUnitOfWork_Do_Call) Return(_a0 error) *MockUnitOfWork_Do_Call {
	_c.Call.Return(_a0)
	return _c
}

func (_c *MockUnitOfWork_Do_Call) RunAndReturn(run func(context.Context, func(repository.UnitOfWork) error) error) *MockUnitOfWork_Do_Call {
	_c.Call.Return(run)
	return _c
}

// UserRepository provides a mock function with given fields:
func (_m *MockUnitOfWork) UserRepository() (userrepo.Repository, error) {
	ret := _m.Called()

	if len(ret) == 0 {
		panic("no return value specified for UserRepository")
	}

	var r0 userrepo.Repository
	var r1 error
	if rf, ok := ret.Get(0).(func() (userrepo.Repository, error)); ok {
		return rf()
	}
	if rf, ok := ret.Get(0).(func() userrepo.Repository); ok {
		r0 = rf()
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).(userrepo.Repository)
		}
	}

	if rf, ok := ret.Get(1).(func() error); ok {
		r1 = rf()
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// MockUnitOfWork_UserRepository_Call is a *mock.Call that shadows Run/Return methods with type explicit version for method 'UserRepository'
type MockUnitOfWork_UserRepository_Call struct {
	*mock.Call
}

func (_e *MockUnitOfWork_Expecter) UserRepository() *MockUnitOfWork_UserRepository_Call {
	return &MockUnitOfWork_UserRepository_Call{Call: _e.mock.On("UserRepository")}
}

func (_c *MockUnitOfWork_UserRepository_Call) Run(run func()) *MockUnitOfWork_UserRepository_Call {
	_c.Call.Run(func(args mock.Arguments) {
		run()
	})
	return _c
}

func (_c *MockUnitOfWork_UserRepository_Call) Return(_a0 userrepo.Repository, _a1 error) *MockUnitOfWork_UserRepository_Call {
	_c.Call.Return(_a0, _a1)
	return _c
}

func (_c *MockUnitOfWork_UserRepository_Call) RunAndReturn(run func() (userrepo.Repository, error)) *MockUnitOfWork_UserRepository_Call {
	_c.Call.Return(run)
	return _c
}

// TransactionRepository provides a mock function with given fields:
func (_m *MockUnitOfWork) TransactionRepository() (txrepo.Repository, error) {
	ret := _m.Called()

	if len(ret) == 0 {
		panic("no return value specified for TransactionRepository")
	}

	var r0 txrepo.Repository
	var r1 error
	if rf, ok := ret.Get(0).(func() (txrepo.Repository, error)); ok {
		return rf()
	}
	if rf, ok := ret.Get(0).(func() txrepo.Repository); ok {
		r0 = rf()
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).(txrepo.Repository)
		}
	}

	if rf, ok := ret.Get(1).(func() error); ok {
		r1 = rf()
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// MockUnitOfWork_TransactionRepository_Call is a *mock.Call that shadows Run/Return methods with type explicit version for method 'TransactionRepository'
type MockUnitOfWork_TransactionRepository_Call struct {
	*mock.Call
}

func (_e *MockUnitOfWork_Expecter) TransactionRepository() *MockUnitOfWork_TransactionRepository_Call {
	return &MockUnitOfWork_TransactionRepository_Call{Call: _e.mock.On("TransactionRepository")}
}

func (_c *MockUnitOfWork_TransactionRepository_Call) Run(run func()) *MockUnitOfWork_TransactionRepository_Call {
	_c.Call.Run(func(args mock.Arguments) {
		run()
	})
	return _c
}

func (_c *MockUnitOfWork_TransactionRepository_Call) Return(_a0 txrepo.Repository, _a1 error) *MockUnitOfWork_TransactionRepository_Call {
	_c.Call.Return(_a0, _a1)
	return _c
}

func (_c *MockUnitOfWork_TransactionRepository_Call) RunAndReturn(run func() (txrepo.Repository, error)) *MockUnitOfWork_TransactionRepository_Call {
	_c.Call.Return(run)
	return _c
}

// NewMockUnitOfWork creates a new instance of MockUnitOfWork. It also registers a testing
// interface on the mock and a cleanup function to assert the mocks expectations.
func NewMockUnitOfWork(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockUnitOfWork {
	m := &MockUnitOfWork{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

// MockUserRepository is a mock implementation of UserRepository.
type MockUserRepository struct {
	mock.Mock
}

type MockUserRepository_Expecter struct {
	mock *mock.Mock
}

func (_m *MockUserRepository) EXPECT() *MockUserRepository_Expecter {
	return &MockUserRepository_Expecter{mock: &_m.Mock}
}

// Create provides a mock function with given fields: ctx, create
func (_m *MockUserRepository) Create(ctx context.Context, create *dto.UserCreate) (*dto.UserRead, error) {
	ret := _m.Called(ctx, create)

	if len(ret) == 0 {
		panic("no return value specified for Create")
	}

	var r0 *dto.UserRead
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, *dto.UserCreate) (*dto.UserRead, error)); ok {
		return rf(ctx, create)
	}
	if rf, ok := ret.Get(0).(func(context.Context, *dto.UserCreate) *dto.UserRead); ok {
		r0 = rf(ctx, create)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).(*dto.UserRead)
		}
	}

	if rf, ok := ret.Get(1).(func(context.Context, *dto.UserCreate) error); ok {
		r1 = rf(ctx, create)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// MockUserRepository_Create_Call is a *mock.Call that shadows Run/Return methods with type explicit version for method 'Create'
type MockUserRepository_Create_Call struct {
	*mock.Call
}

func (_e *MockUserRepository_Expecter) Create(ctx interface{}, create interface{}) *MockUserRepository_Create_Call {
	return &MockUserRepository_Create_Call{Call: _e.mock.On("Create", ctx, create)}
}

func (_c *MockUserRepository_Create_Call) Run(run func(ctx context.Context, create *dto.UserCreate)) *MockUserRepository_Create_Call {
	_c.Call.Run(func(args mock.Arguments) {
		run(args[0].(context.Context), args[1].(*dto.UserCreate))
	})
	return _c
}

func (_c *MockUserRepository_Create_Call) Return(_a0 *dto.UserRead, _a1 error) *MockUserRepository_Create_Call {
	_c.Call.Return(_a0, _a1)
	return _c
}

func (_c *MockUserRepository_Create_Call) RunAndReturn(run func(context.Context, *dto.UserCreate) (*dto.UserRead, error)) *MockUserRepository_Create_Call {
	_c.Call.Return(run)
	return _c
}

// Get provides a mock function with given fields: ctx, id
func (_m *MockUserRepository) Get(ctx context.Context, id uint) (*dto.UserRead, error) {
	ret := _m.Called(ctx, id)

	if len(ret) == 0 {
		panic("no return value specified for Get")
	}

	var r0 *dto.UserRead
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, uint) (*dto.UserRead, error)); ok {
		return rf(ctx, id)
	}
	if rf, ok := ret.Get(0).(func(context.Context, uint) *dto.UserRead); ok {
		r0 = rf(ctx, id)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).(*dto.UserRead)
		}
	}

	if rf, ok := ret.Get(1).(func(context.Context, uint) error); ok {
		r1 = rf(ctx, id)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// MockUserRepository_Get_Call is a *mock.Call that shadows Run/Return methods with type explicit version for method 'Get'
type MockUserRepository_Get_Call struct {
	*mock.Call
}

func (_e *MockUserRepository_Expecter) Get(ctx interface{}, id interface{}) *MockUserRepository_Get_Call {
	return &MockUserRepository_Get_Call{Call: _e.mock.On("Get", ctx, id)}
}

func (_c *MockUserRepository_Get_Call) Run(run func(ctx context.Context, id uint)) *MockUserRepository_Get_Call {
	_c.Call.Run(func(args mock.Arguments) {
		run(args[0].(context.Context), args[1].(uint))
	})
	return _c
}

func (_c *MockUserRepository_Get_Call) Return(_a0 *dto.UserRead, _a1 error) *MockUserRepository_Get_Call {
	_c.Call.Return(_a0, _a1)
	return _c
}

func (_c *MockUserRepository_Get_Call) RunAndReturn(run func(context.Context, uint) (*dto.UserRead, error)) *MockUserRepository_Get_Call {
	_c.Call.Return(run)
	return _c
}

// List provides a mock function with given fields: ctx
func (_m *MockUserRepository) List(ctx context.Context) ([]*dto.UserRead, error) {
	ret := _m.Called(ctx)

	if len(ret) == 0 {
		panic("no return value specified for List")
	}

	var r0 []*dto.UserRead
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context) ([]*dto.UserRead, error)); ok {
		return rf(ctx)
	}
	if rf, ok := ret.Get(0).(func(context.Context) []*dto.UserRead); ok {
		r0 = rf(ctx)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).([]*dto.UserRead)
		}
	}

	if rf, ok := ret.Get(1).(func(context.Context) error); ok {
		r1 = rf(ctx)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// MockUserRepository_List_Call is a *mock.Call that shadows Run/Return methods with type explicit version for method 'List'
type MockUserRepository_List_Call struct {
	*mock.Call
}

func (_e *MockUserRepository_Expecter) List(ctx interface{}) *MockUserRepository_List_Call {
	return &MockUserRepository_List_Call{Call: _e.mock.On("List", ctx)}
}

func (_c *MockUserRepository_List_Call) Run(run func(ctx context.Context)) *MockUserRepository_List_Call {
	_c.Call.Run(func(args mock.Arguments) {
		run(args[0].(context.Context))
	})
	return _c
}

func (_c *MockUserRepository_List_Call) Return(_a0 []*dto.UserRead, _a1 error) *MockUserRepository_List_Call {
	_c.Call.Return(_a0, _a1)
	return _c
}

func (_c *MockUserRepository_List_Call) RunAndReturn(run func(context.Context) ([]*dto.UserRead, error)) *MockUserRepository_List_Call {
	_c.Call.Return(run)
	return _c
}

// Exists provides a mock function with given fields: ctx, id
func (_m *MockUserRepository) Exists(ctx context.Context, id uint) (bool, error) {
	ret := _m.Called(ctx, id)

	if len(ret) == 0 {
		panic("no return value specified for Exists")
	}

	var r0 bool
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, uint) (bool, error)); ok {
		return rf(ctx, id)
	}
	if rf, ok := ret.Get(0).(func(context.Context, uint) bool); ok {
		r0 = rf(ctx, id)
	} else {
		r0 = ret.Get(0).(bool)
	}

	if rf, ok := ret.Get(1).(func(context.Context, uint) error); ok {
		r1 = rf(ctx, id)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// MockUserRepository_Exists_Call is a *mock.Call that shadows Run/Return methods with type explicit version for method 'Exists'
type MockUserRepository_Exists_Call struct {
	*mock.Call
}

func (_e *MockUserRepository_Expecter) Exists(ctx interface{}, id interface{}) *MockUserRepository_Exists_Call {
	return &MockUserRepository_Exists_Call{Call: _e.mock.On("Exists", ctx, id)}
}

func (_c *MockUserRepository_Exists_Call) Run(run func(ctx context.Context, id uint)) *MockUserRepository_Exists_Call {
	_c.Call.Run(func(args mock.Arguments) {
		run(args[0].(context.Context), args[1].(uint))
	})
	return _c
}

func (_c *MockUserRepository_Exists_Call) Return(_a0 bool, _a1 error) *MockUserRepository_Exists_Call {
	_c.Call.Return(_a0, _a1)
	return _c
}

func (_c *MockUserRepository_Exists_Call) RunAndReturn(run func(context.Context, uint) (bool, error)) *MockUserRepository_Exists_Call {
	_c.Call.Return(run)
	return _c
}

// NewMockUserRepository creates a new instance of MockUserRepository. It also registers a testing
// interface on the mock and a cleanup function to assert the mocks expectations.
func NewMockUserRepository(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockUserRepository {
	m := &MockUserRepository{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

// MockTransactionRepository is a mock implementation of TransactionRepository.
type MockTransactionRepository struct {
	mock.Mock
}

type MockTransactionRepository_Expecter struct {
	mock *mock.Mock
}

func (_m *MockTransactionRepository) EXPECT() *MockTransactionRepository_Expecter {
	return &MockTransactionRepository_Expecter{mock: &_m.Mock}
}

// Create provides a mock function with given fields: ctx, create
func (_m *MockTransactionRepository) Create(ctx context.Context, create dto.TransactionCreate) (*dto.TransactionRead, error) {
	ret := _m.Called(ctx, create)

	if len(ret) == 0 {
		panic("no return value specified for Create")
	}

	var r0 *dto.TransactionRead
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, dto.TransactionCreate) (*dto.TransactionRead, error)); ok {
		return rf(ctx, create)
	}
	if rf, ok := ret.Get(0).(func(context.Context, dto.TransactionCreate) *dto.TransactionRead); ok {
		r0 = rf(ctx, create)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).(*dto.TransactionRead)
		}
	}

	if rf, ok := ret.Get(1).(func(context.Context, dto.TransactionCreate) error); ok {
		r1 = rf(ctx, create)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// MockTransactionRepository_Create_Call is a *mock.Call that shadows Run/Return methods with type explicit version for method 'Create'
type MockTransactionRepository_Create_Call struct {
	*mock.Call
}

func (_e *MockTransactionRepository_Expecter) Create(ctx interface{}, create interface{}) *MockTransactionRepository_Create_Call {
	return &MockTransactionRepository_Create_Call{Call: _e.mock.On("Create", ctx, create)}
}

func (_c *MockTransactionRepository_Create_Call) Run(run func(ctx context.Context, create dto.TransactionCreate)) *MockTransactionRepository_Create_Call {
	_c.Call.Run(func(args mock.Arguments) {
		run(args[0].(context.Context), args[1].(dto.TransactionCreate))
	})
	return _c
}

func (_c *MockTransactionRepository_Create_Call) Return(_a0 *dto.TransactionRead, _a1 error) *MockTransactionRepository_Create_Call {
	_c.Call.Return(_a0, _a1)
	return _c
}

func (_c *MockTransactionRepository_Create_Call) RunAndReturn(run func(context.Context, dto.TransactionCreate) (*dto.TransactionRead, error)) *MockTransactionRepository_Create_Call {
	_c.Call.Return(run)
	return _c
}

// Get provides a mock function with given fields: ctx, id
func (_m *MockTransactionRepository) Get(ctx context.Context, id uint) (*dto.TransactionRead, error) {
	ret := _m.Called(ctx, id)

	if len(ret) == 0 {
		panic("no return value specified for Get")
	}

	var r0 *dto.TransactionRead
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, uint) (*dto.TransactionRead, error)); ok {
		return rf(ctx, id)
	}
	if rf, ok := ret.Get(0).(func(context.Context, uint) *dto.TransactionRead); ok {
		r0 = rf(ctx, id)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).(*dto.TransactionRead)
		}
	}

	if rf, ok := ret.Get(1).(func(context.Context, uint) error); ok {
		r1 = rf(ctx, id)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// MockTransactionRepository_Get_Call is a *mock.Call that shadows Run/Return methods with type explicit version for method 'Get'
type MockTransactionRepository_Get_Call struct {
	*mock.Call
}

func (_e *MockTransactionRepository_Expecter) Get(ctx interface{}, id interface{}) *MockTransactionRepository_Get_Call {
	return &MockTransactionRepository_Get_Call{Call: _e.mock.On("Get", ctx, id)}
}

func (_c *MockTransactionRepository_Get_Call) Run(run func(ctx context.Context, id uint)) *MockTransactionRepository_Get_Call {
	_c.Call.Run(func(args mock.Arguments) {
		run(args[0].(context.Context), args[1].(uint))
	})
	return _c
}

func (_c *MockTransactionRepository_Get_Call) Return(_a0 *dto.TransactionRead, _a1 error) *MockTransactionRepository_Get_Call {
	_c.Call.Return(_a0, _a1)
	return _c
}

func (_c *MockTransactionRepository_Get_Call) RunAndReturn(run func(context.Context, uint) (*dto.TransactionRead, error)) *MockTransactionRepository_Get_Call {
	_c.Call.Return(run)
	return _c
}

// List provides a mock function with given fields: ctx, filter
func (_m *MockTransactionRepository) List(ctx context.Context, filter dto.TransactionFilter) ([]*dto.TransactionRead, error) {
	ret := _m.Called(ctx, filter)

	if len(ret) == 0 {
		panic("no return value specified for List")
	}

	var r0 []*dto.TransactionRead
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, dto.TransactionFilter) ([]*dto.TransactionRead, error)); ok {
		return rf(ctx, filter)
	}
	if rf, ok := ret.Get(0).(func(context.Context, dto.TransactionFilter) []*dto.TransactionRead); ok {
		r0 = rf(ctx, filter)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).([]*dto.TransactionRead)
		}
	}

	if rf, ok := ret.Get(1).(func(context.Context, dto.TransactionFilter) error); ok {
		r1 = rf(ctx, filter)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// MockTransactionRepository_List_Call is a *mock.Call that shadows Run/Return methods with type explicit version for method 'List'
type MockTransactionRepository_List_Call struct {
	*mock.Call
}

func (_e *MockTransactionRepository_Expecter) List(ctx interface{}, filter interface{}) *MockTransactionRepository_List_Call {
	return &MockTransactionRepository_List_Call{Call: _e.mock.On("List", ctx, filter)}
}

func (_c *MockTransactionRepository_List_Call) Run(run func(ctx context.Context, filter dto.TransactionFilter)) *MockTransactionRepository_List_Call {
	_c.Call.Run(func(args mock.Arguments) {
		run(args[0].(context.Context), args[1].(dto.TransactionFilter))
	})
	return _c
}

func (_c *MockTransactionRepository_List_Call) Return(_a0 []*dto.TransactionRead, _a1 error) *MockTransactionRepository_List_Call {
	_c.Call.Return(_a0, _a1)
	return _c
}

func (_c *MockTransactionRepository_List_Call) RunAndReturn(run func(context.Context, dto.TransactionFilter) ([]*dto.TransactionRead, error)) *MockTransactionRepository_List_Call {
	_c.Call.Return(run)
	return _c
}

// ListByUser provides a mock function with given fields: ctx, userID
func (_m *MockTransactionRepository) ListByUser(ctx context.Context, userID uint) ([]*dto.TransactionRead, error) {
	ret := _m.Called(ctx, userID)

	if len(ret) == 0 {
		panic("no return value specified for ListByUser")
	}

	var r0 []*dto.TransactionRead
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, uint) ([]*dto.TransactionRead, error)); ok {
		return rf(ctx, userID)
	}
	if rf, ok := ret.Get(0).(func(context.Context, uint) []*dto.TransactionRead); ok {
		r0 = rf(ctx, userID)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).([]*dto.TransactionRead)
		}
	}

	if rf, ok := ret.Get(1).(func(context.Context, uint) error); ok {
		r1 = rf(ctx, userID)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// MockTransactionRepository_ListByUser_Call is a *mock.Call that shadows Run/Return methods with type explicit version for method 'ListByUser'
type MockTransactionRepository_ListByUser_Call struct {
	*mock.Call
}

func (_e *MockTransactionRepository_Expecter) ListByUser(ctx interface{}, userID interface{}) *MockTransactionRepository_ListByUser_Call {
	return &MockTransactionRepository_ListByUser_Call{Call: _e.mock.On("ListByUser", ctx, userID)}
}

func (_c *MockTransactionRepository_ListByUser_Call) Run(run func(ctx context.Context, userID uint)) *MockTransactionRepository_ListByUser_Call {
	_c.Call.Run(func(args mock.Arguments) {
		run(args[0].(context.Context), args[1].(uint))
	})
	return _c
}

func (_c *MockTransactionRepository_ListByUser_Call) Return(_a0 []*dto.TransactionRead, _a1 error) *MockTransactionRepository_ListByUser_Call {
	_c.Call.Return(_a0, _a1)
	return _c
}

func (_c *MockTransactionRepository_ListByUser_Call) RunAndReturn(run func(context.Context, uint) ([]*dto.TransactionRead, error)) *MockTransactionRepository_ListByUser_Call {
	_c.Call.Return(run)
	return _c
}

// NewMockTransactionRepository creates a new instance of MockTransactionRepository. It also registers a testing
// interface on the mock and a cleanup function to assert the mocks expectations.
func NewMockTransactionRepository(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockTransactionRepository {
	m := &MockTransactionRepository{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

// MockBus is a mock implementation of Bus.
type MockBus struct {
	mock.Mock
}

type MockBus_Expecter struct {
	mock *mock.Mock
}

func (_m *MockBus) EXPECT() *MockBus_Expecter {
	return &MockBus_Expecter{mock: &_m.Mock}
}

// Emit provides a mock function with given fields: ctx, event
func (_m *MockBus) Emit(ctx context.Context, event events.Event) error {
	ret := _m.Called(ctx, event)

	if len(ret) == 0 {
		panic("no return value specified for Emit")
	}

	var r0 error
	if rf, ok := ret.Get(0).(func(context.Context, events.Event) error); ok {
		r0 = rf(ctx, event)
	} else {
		r0 = ret.Error(0)
	}

	return r0
}

// MockBus_Emit_Call is a *mock.Call that shadows Run/Return methods with type explicit version for method 'Emit'
type MockBus_Emit_Call struct {
	*mock.Call
}

func (_e *MockBus_Expecter) Emit(ctx interface{}, event interface{}) *MockBus_Emit_Call {
	return &MockBus_Emit_Call{Call: _e.mock.On("Emit", ctx, event)}
}

func (_c *MockBus_Emit_Call) Run(run func(ctx context.Context, event events.Event)) *MockBus_Emit_Call {
	_c.Call.Run(func(args mock.Arguments) {
		run(args[0].(context.Context), args[1].(events.Event))
	})
	return _c
}

func (_c *MockBus_Emit_Call) Return(_a0 error) *MockBus_Emit_Call {
	_c.Call.Return(_a0)
	return _c
}

func (_c *MockBus_Emit_Call) RunAndReturn(run func(context.Context, events.Event) error) *MockBus_Emit_Call {
	_c.Call.Return(run)
	return _c
}

// Register provides a mock function with given fields: eventType, handler
func (_m *MockBus) Register(eventType string, handler eventbus.HandlerFunc) {
	_m.Called(eventType, handler)
}

// MockBus_Register_Call is a *mock.Call that shadows Run/Return methods with type explicit version for method 'Register'
type MockBus_Register_Call struct {
	*mock.Call
}

func (_e *MockBus_Expecter) Register(eventType interface{}, handler interface{}) *MockBus_Register_Call {
	return &MockBus_Register_Call{Call: _e.mock.On("Register", eventType, handler)}
}

func (_c *MockBus_Register_Call) Run(run func(eventType string, handler eventbus.HandlerFunc)) *MockBus_Register_Call {
	_c.Call.Run(func(args mock.Arguments) {
		run(args[0].(string), args[1].(eventbus.HandlerFunc))
	})
	return _c
}

func (_c *MockBus_Register_Call) Return() *MockBus_Register_Call {
	_c.Call.Return()
	return _c
}

// NewMockBus creates a new instance of MockBus. It also registers a testing
// interface on the mock and a cleanup function to assert the mocks expectations.
func NewMockBus(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockBus {
	m := &MockBus{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

var (
	_ repository.UnitOfWork = (*MockUnitOfWork)(nil)
	_ userrepo.Repository   = (*MockUserRepository)(nil)
	_ txrepo.Repository     = (*MockTransactionRepository)(nil)
	_ eventbus.Bus          = (*MockBus)(nil)
)
