package core

import (
	"fmt"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/micromvc-go/pkg/logger"
)

// Service 框架服务容器，聚合全局共享的对象引用
type Service struct {
	services map[string]any
	mutex    sync.RWMutex
}

// NewService 创建空的服务容器
func NewService() *Service {
	return &Service{
		services: make(map[string]any),
	}
}

// Set 注册或替换命名服务
func (s *Service) Set(name string, service any) error {
	if name == "" {
		return fmt.Errorf("set service: %w", ErrInvalidKey)
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	if _, exists := s.services[name]; exists {
		logger.Debugf("Replacing service: %s", name)
	}
	s.services[name] = service
	return nil
}

// Get 获取命名服务
func (s *Service) Get(name string) (any, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	service, exists := s.services[name]
	if !exists {
		return nil, fmt.Errorf("get service %q: %w", name, ErrServiceNotFound)
	}
	return service, nil
}

// Has 检查服务是否已注册
func (s *Service) Has(name string) bool {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	_, exists := s.services[name]
	return exists
}

// Names 返回已注册的服务名（已排序）
func (s *Service) Names() []string {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	names := make([]string, 0, len(s.services))
	for name := range s.services {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Resolve 按类型获取命名服务
func Resolve[T any](s *Service, name string) (T, error) {
	var zero T

	raw, err := s.Get(name)
	if err != nil {
		return zero, err
	}

	service, ok := raw.(T)
	if !ok {
		return zero, fmt.Errorf("service %q has type %T, want %T", name, raw, zero)
	}
	return service, nil
}

// Builder 构造 Service 实例
type Builder func() (*Service, error)

// Registry 服务注册器，首次访问时创建唯一的 Service 实例
type Registry struct {
	build Builder

	once    sync.Once
	ready   atomic.Bool
	service *Service
	err     error
}

// NewRegistry 创建服务注册器，build 为空时使用空容器
func NewRegistry(build Builder) *Registry {
	if build == nil {
		build = func() (*Service, error) {
			return NewService(), nil
		}
	}
	return &Registry{build: build}
}

// Get 获取服务实例，构造只执行一次，失败结果同样被保留
func (r *Registry) Get() (*Service, error) {
	r.once.Do(func() {
		logger.Debug("Constructing service registry")
		r.service, r.err = r.build()
		if r.err == nil && r.service == nil {
			r.err = fmt.Errorf("service builder returned nil")
		}
		if r.err != nil {
			logger.Errorf("Failed to construct service: %v", r.err)
			r.service = nil
		}
		r.ready.Store(true)
	})
	return r.service, r.err
}

// MustGet 获取服务实例，构造失败时 panic
func (r *Registry) MustGet() *Service {
	service, err := r.Get()
	if err != nil {
		panic(fmt.Sprintf("service registry: %v", err))
	}
	return service
}

// Initialized 是否已经尝试过构造
func (r *Registry) Initialized() bool {
	return r.ready.Load()
}
