package util

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_assertFunc(t *testing.T) {
	assert.NotPanics(t, func() {
		AssertFunc(true)
	})
	assert.Panics(t, func() {
		AssertFunc(false)
	})
}

func Test_stl(t *testing.T) {
	data := []int{1, 2, 3}
	assert.Equal(t, 3, Back(data))
	assert.Equal(t, 1, Back(data[:1]))
	assert.Panics(t, func() {
		Back([]int{})
	})

	assert.Equal(t, 3, Size(data))
	assert.False(t, Empty(data))
	assert.True(t, Empty([]int{}))

	assert.Equal(t, 1, FindIf(data, func(v int) bool { return v == 2 }))
	assert.Equal(t, -1, FindIf(data, func(v int) bool { return v > 10 }))

	cp := CopyTo(data)
	assert.Equal(t, data, cp)
	cp[0] = 99
	assert.Equal(t, 1, data[0])
}

func Test_reentryLock(t *testing.T) {
	lock := NewReentryLock()
	lock.Lock()
	//same goroutine may lock again
	lock.Lock()
	lock.Unlock()
	lock.Unlock()

	assert.Panics(t, func() {
		lock.Unlock()
	})

	//other goroutines wait for release
	cnt := 0
	wg := sync.WaitGroup{}
	lock.Lock()
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			lock.Lock()
			defer lock.Unlock()
			cnt++
		}()
	}
	lock.Unlock()
	wg.Wait()
	assert.Equal(t, 4, cnt)
}
