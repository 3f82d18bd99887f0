package core

import (
	"fmt"
	"sort"
	"sync"

	"github.com/micromvc-go/pkg/logger"
)

// Callback 事件回调，接收当前累积值并返回传给下一个回调的值
type Callback[T any] func(value T) T

// Dispatcher 命名事件调度器
//
// 每个事件键对应一个按注册顺序排列的回调链。触发事件时，值从调用者提供的
// 初始值开始依次经过每个回调，返回最终结果。没有注册回调的事件原样返回输入。
type Dispatcher[T any] struct {
	channels map[string][]Callback[T]
	sealed   bool
	mutex    sync.RWMutex
}

// NewDispatcher 创建事件调度器
func NewDispatcher[T any]() *Dispatcher[T] {
	return &Dispatcher[T]{
		channels: make(map[string][]Callback[T]),
	}
}

// On 向事件追加回调，重复注册会被多次调用
func (d *Dispatcher[T]) On(key string, callback Callback[T]) error {
	if key == "" {
		return fmt.Errorf("register event: %w", ErrInvalidKey)
	}
	if callback == nil {
		return fmt.Errorf("register event %q: nil callback", key)
	}

	d.mutex.Lock()
	defer d.mutex.Unlock()

	if d.sealed {
		return fmt.Errorf("register event %q: %w", key, ErrDispatcherSealed)
	}

	d.channels[key] = append(d.channels[key], callback)
	logger.Debugf("Registered callback #%d for event: %s", len(d.channels[key]), key)
	return nil
}

// Clear 移除事件的全部回调，事件不存在时无操作
func (d *Dispatcher[T]) Clear(key string) error {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	if d.sealed {
		return fmt.Errorf("clear event %q: %w", key, ErrDispatcherSealed)
	}

	if _, exists := d.channels[key]; exists {
		delete(d.channels, key)
		logger.Debugf("Cleared event: %s", key)
	}
	return nil
}

// Fire 按注册顺序依次调用回调并返回最终值
func (d *Dispatcher[T]) Fire(key string, value T) T {
	d.mutex.RLock()
	chain := d.channels[key]
	d.mutex.RUnlock()

	// 回调链只会被追加或整体替换，持有的切片头不会被改写
	for _, callback := range chain {
		value = callback(value)
	}
	return value
}

// Event 单入口调用方式：不传回调时触发事件；传入非空回调时注册；
// 传入 nil 回调时清除该事件。注册与清除返回原始值。
func (d *Dispatcher[T]) Event(key string, value T, callbacks ...Callback[T]) (T, error) {
	if len(callbacks) == 0 {
		return d.Fire(key, value), nil
	}

	for _, callback := range callbacks {
		var err error
		if callback == nil {
			err = d.Clear(key)
		} else {
			err = d.On(key, callback)
		}
		if err != nil {
			return value, err
		}
	}
	return value, nil
}

// Has 事件是否存在回调
func (d *Dispatcher[T]) Has(key string) bool {
	d.mutex.RLock()
	defer d.mutex.RUnlock()

	_, exists := d.channels[key]
	return exists
}

// Count 事件上注册的回调数
func (d *Dispatcher[T]) Count(key string) int {
	d.mutex.RLock()
	defer d.mutex.RUnlock()

	return len(d.channels[key])
}

// Keys 所有存在回调的事件键（已排序）
func (d *Dispatcher[T]) Keys() []string {
	d.mutex.RLock()
	defer d.mutex.RUnlock()

	keys := make([]string, 0, len(d.channels))
	for key := range d.channels {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Seal 封存调度器，之后只能触发事件
func (d *Dispatcher[T]) Seal() {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	if !d.sealed {
		d.sealed = true
		logger.Debugf("Event dispatcher sealed with %d events", len(d.channels))
	}
}

// Sealed 是否已封存
func (d *Dispatcher[T]) Sealed() bool {
	d.mutex.RLock()
	defer d.mutex.RUnlock()

	return d.sealed
}
