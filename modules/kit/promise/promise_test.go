package promise

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGo_失败时回调Catch(t *testing.T) {
	boom := errors.New("boom")
	release := make(chan struct{})
	p := Go(func() error {
		<-release
		return boom
	})

	var got error
	p.Catch(func(err error) { got = err })
	close(release)
	<-p.Done()

	require.ErrorIs(t, got, boom)
	require.ErrorIs(t, p.Err(), boom)
}

func TestGo_成功时只回调Then(t *testing.T) {
	var caught, fulfilled atomic.Int32
	p := Go(func() error { return nil })
	p.Catch(func(error) { caught.Add(1) })
	p.Then(func() { fulfilled.Add(1) })
	<-p.Done()

	require.EqualValues(t, 1, fulfilled.Load())
	require.Zero(t, caught.Load())
	require.NoError(t, p.Err())
}

func TestCatch_已失败时立即回调(t *testing.T) {
	boom := errors.New("boom")
	p := Reject(boom)

	var got error
	p.Catch(func(err error) { got = err })
	require.ErrorIs(t, got, boom)
}

func TestReject_nil等价于Resolve(t *testing.T) {
	p := Reject(nil)
	<-p.Done()
	require.NoError(t, p.Err())
}

func TestGo_panic转换为失败(t *testing.T) {
	p := Go(func() error { panic("oops") })
	<-p.Done()

	var pe *PanicError
	require.ErrorAs(t, p.Err(), &pe)
	require.Equal(t, "oops", pe.Value)
}

func TestAwait_ctx取消提前返回(t *testing.T) {
	release := make(chan struct{})
	defer close(release)
	p := Go(func() error {
		<-release
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.ErrorIs(t, p.Await(ctx), context.Canceled)
}

func TestAll_返回第一个失败(t *testing.T) {
	first := errors.New("first")
	second := errors.New("second")
	p := All(Resolve(), Reject(first), Reject(second), nil)
	require.ErrorIs(t, p.Await(context.Background()), first)
}

func TestGoContext_透传ctx(t *testing.T) {
	type key struct{}
	ctx := context.WithValue(context.Background(), key{}, "v")
	p := GoContext(ctx, func(ctx context.Context) error {
		if ctx.Value(key{}) != "v" {
			return errors.New("ctx lost")
		}
		return nil
	})
	require.NoError(t, p.Await(context.Background()))
}

func TestSettle_回调panic不影响其它回调与Done(t *testing.T) {
	release := make(chan struct{})
	p := Go(func() error {
		<-release
		return errors.New("boom")
	})

	var second atomic.Int32
	p.Catch(func(error) { panic("callback panic") })
	p.Catch(func(error) { second.Add(1) })
	close(release)
	<-p.Done()

	require.Equal(t, int32(1), second.Load())
	require.Error(t, p.Err())
}
