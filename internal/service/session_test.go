package service

import (
	"context"
	"errors"
	"math/big"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/eliobricenov/uniswap-swapper/internal/executor"
	"github.com/eliobricenov/uniswap-swapper/internal/operation"
	"github.com/eliobricenov/uniswap-swapper/internal/swap"
	"github.com/eliobricenov/uniswap-swapper/pkg/uniswapv2"
)

func newSessions(t *testing.T, res *fakeReserves, opts ...SessionOption) *SessionService {
	t.Helper()
	opts = append([]SessionOption{WithClock(func() time.Time { return fixedNow })}, opts...)
	return NewSessionService(discardLogger(), res, testRegistry(), 50, opts...)
}

func abReserves() *fakeReserves {
	res := newFakeReserves()
	res.set(tokenA, e18(1_000_000), tokenB, e18(2_000_000))
	return res
}

func TestSessionCreateLoadsPool(t *testing.T) {
	svc := newSessions(t, abReserves())
	sess, err := svc.Create(context.Background(), tokenA.Address, tokenB.Address)
	require.NoError(t, err)

	st := sess.State()
	require.True(t, st.Loaded())
	require.True(t, st.Source.Equal(tokenA))
	require.True(t, st.Target.Equal(tokenB))
	require.Equal(t, swap.NewPairTag(tokenA, tokenB), st.Requested)
	require.Nil(t, st.Balances)

	got, err := svc.Get(sess.ID)
	require.NoError(t, err)
	require.Same(t, sess, got)
}

func TestSessionCreateRejectsBadPair(t *testing.T) {
	svc := newSessions(t, abReserves())
	_, err := svc.Create(context.Background(), tokenA.Address, tokenA.Address)
	require.ErrorIs(t, err, ErrSameToken)
}

func TestSessionCreateKeepsSessionOnLoadFailure(t *testing.T) {
	res := abReserves()
	res.err = errors.New("timeout")
	svc := newSessions(t, res)

	sess, err := svc.Create(context.Background(), tokenA.Address, tokenB.Address)
	require.Error(t, err)
	require.NotNil(t, sess)
	require.False(t, sess.State().Loaded())

	res.err = nil
	_, err = svc.Apply(context.Background(), sess.ID, Command{Type: CommandReload})
	require.ErrorIs(t, err, ErrPoolNotLoaded)

	st, err := svc.Apply(context.Background(), sess.ID, Command{Type: CommandSelect, Src: tokenA.Address, Dst: tokenB.Address})
	require.NoError(t, err)
	require.True(t, st.Loaded())
}

func TestSessionAmountFlipAndReset(t *testing.T) {
	svc := newSessions(t, abReserves())
	ctx := context.Background()
	sess, err := svc.Create(ctx, tokenA.Address, tokenB.Address)
	require.NoError(t, err)

	st, err := svc.Apply(ctx, sess.ID, Command{Type: CommandAmount, Side: swap.Source, Text: "10"})
	require.NoError(t, err)
	require.Equal(t, "19.9398", st.TargetAmount)

	st, err = svc.Apply(ctx, sess.ID, Command{Type: CommandFlip})
	require.NoError(t, err)
	require.True(t, st.Source.Equal(tokenB))
	require.Equal(t, "19.9398", st.SourceAmount)
	require.Equal(t, "9.93989", st.TargetAmount)

	st, err = svc.Apply(ctx, sess.ID, Command{Type: CommandReset})
	require.NoError(t, err)
	require.Equal(t, swap.Initial(), st)

	_, err = svc.Apply(ctx, sess.ID, Command{Type: "dance"})
	require.ErrorIs(t, err, ErrUnknownCommand)
}

func TestSessionReloadRequotesWithNewReserves(t *testing.T) {
	res := abReserves()
	svc := newSessions(t, res)
	ctx := context.Background()
	sess, err := svc.Create(ctx, tokenA.Address, tokenB.Address)
	require.NoError(t, err)

	before, err := svc.Apply(ctx, sess.ID, Command{Type: CommandAmount, Side: swap.Target, Text: "19.94"})
	require.NoError(t, err)
	require.Equal(t, uniswapv2.ExactOutput, before.Trade.Type)

	res.set(tokenA, e18(2_000_000), tokenB, e18(2_000_000))
	after, err := svc.Apply(ctx, sess.ID, Command{Type: CommandReload})
	require.NoError(t, err)
	require.Equal(t, "19.94", after.TargetAmount)
	require.Equal(t, uniswapv2.ExactOutput, after.Trade.Type)
	require.NotEqual(t, before.SourceAmount, after.SourceAmount)
	require.NotSame(t, before.Pair, after.Pair)
}

func TestSessionReloadDoesNotLeakIntoNewPair(t *testing.T) {
	inner := abReserves()
	inner.set(tokenA, e18(10), tokenC, big.NewInt(30_000_000))
	res := newGatedReserves(inner)
	svc := NewSessionService(discardLogger(), res, testRegistry(), 50, WithClock(func() time.Time { return fixedNow }))
	ctx := context.Background()

	sess, err := svc.Create(ctx, tokenA.Address, tokenB.Address)
	require.NoError(t, err)
	_, err = svc.Apply(ctx, sess.ID, Command{Type: CommandAmount, Side: swap.Source, Text: "10"})
	require.NoError(t, err)

	res.arm()
	type outcome struct {
		st  *swap.State
		err error
	}
	done := make(chan outcome, 1)
	go func() {
		st, err := svc.Apply(ctx, sess.ID, Command{Type: CommandReload})
		done <- outcome{st, err}
	}()
	<-res.entered

	selected, err := svc.Apply(ctx, sess.ID, Command{Type: CommandSelect, Src: tokenA.Address, Dst: tokenC.Address})
	require.NoError(t, err)
	require.True(t, selected.Target.Equal(tokenC))
	require.Empty(t, selected.SourceAmount)
	require.Nil(t, selected.Trade)

	close(res.release)
	got := <-done
	require.NoError(t, got.err)
	require.Same(t, selected, got.st)

	st := sess.State()
	require.Same(t, selected, st)
	require.True(t, st.Target.Equal(tokenC))
	require.Empty(t, st.SourceAmount)
	require.Empty(t, st.TargetAmount)
	require.Nil(t, st.Trade)
}

func TestSessionSelectSwitchesPair(t *testing.T) {
	res := abReserves()
	res.set(tokenA, e18(10), tokenC, big.NewInt(20_000_000))
	svc := newSessions(t, res)
	ctx := context.Background()
	sess, err := svc.Create(ctx, tokenA.Address, tokenB.Address)
	require.NoError(t, err)
	_, err = svc.Apply(ctx, sess.ID, Command{Type: CommandAmount, Side: swap.Source, Text: "1"})
	require.NoError(t, err)

	st, err := svc.Apply(ctx, sess.ID, Command{Type: CommandSelect, Src: tokenC.Address, Dst: tokenA.Address})
	require.NoError(t, err)
	require.True(t, st.Source.Equal(tokenC))
	require.Nil(t, st.Trade)
	require.Equal(t, "", st.SourceAmount)
	require.Equal(t, "", st.TargetAmount)
}

func TestSessionUnknownAndClose(t *testing.T) {
	svc := newSessions(t, abReserves())
	_, err := svc.Apply(context.Background(), uuid.New(), Command{Type: CommandFlip})
	require.ErrorIs(t, err, ErrSessionNotFound)

	sess, err := svc.Create(context.Background(), tokenA.Address, tokenB.Address)
	require.NoError(t, err)
	require.NoError(t, svc.Close(sess.ID))
	require.ErrorIs(t, svc.Close(sess.ID), ErrSessionNotFound)
}

func TestSessionSwapDisabledWithoutSigner(t *testing.T) {
	svc := newSessions(t, abReserves())
	require.False(t, svc.CanSwap())
	_, err := svc.Swap(context.Background(), uuid.New())
	require.ErrorIs(t, err, ErrSwapDisabled)
}

func TestSessionSwapTokenToToken(t *testing.T) {
	w := &fakeWallet{balance: e18(100), allowance: new(big.Int)}
	svc := newSessions(t, abReserves(), WithExecutor(testExecutor(w), w, owner))
	ctx := context.Background()
	sess, err := svc.Create(ctx, tokenA.Address, tokenB.Address)
	require.NoError(t, err)
	require.NotNil(t, sess.State().Balances)
	require.Equal(t, 0, sess.State().Balances.Source.Cmp(e18(100)))

	_, err = svc.Swap(ctx, sess.ID)
	require.ErrorIs(t, err, ErrNotQuoted)

	_, err = svc.Apply(ctx, sess.ID, Command{Type: CommandAmount, Side: swap.Source, Text: "10"})
	require.NoError(t, err)

	w.calls = nil
	res, err := svc.Swap(ctx, sess.ID)
	require.NoError(t, err)
	require.Equal(t, []string{"balance", "allowance", "approve", "submit"}, w.calls)
	require.True(t, res.Result.Approved)

	d := res.Descriptor
	require.Equal(t, operation.TokenToToken, d.Variant)
	require.Equal(t, 0, d.AmountIn.Cmp(e18(10)))
	// floor(19939801200182034185 * 9950 / 10000)
	require.Equal(t, "19840102194181124014", d.AmountOut.String())
	require.Equal(t, owner, d.Recipient)
	require.Equal(t, fixedNow.Add(operation.DeadlineWindow), d.Deadline)
}

func TestSessionSwapInsufficientBalance(t *testing.T) {
	w := &fakeWallet{balance: e18(1), allowance: e18(1_000)}
	svc := newSessions(t, abReserves(), WithExecutor(testExecutor(w), w, owner))
	ctx := context.Background()
	sess, err := svc.Create(ctx, tokenA.Address, tokenB.Address)
	require.NoError(t, err)
	_, err = svc.Apply(ctx, sess.ID, Command{Type: CommandAmount, Side: swap.Source, Text: "10"})
	require.NoError(t, err)

	_, err = svc.Swap(ctx, sess.ID)
	require.ErrorIs(t, err, executor.ErrInsufficientBalance)
	require.NotContains(t, w.calls, "submit")
}

func TestSessionSwapNativeIn(t *testing.T) {
	res := newFakeReserves()
	res.set(weth, e18(1_000), tokenB, e18(2_000_000))
	w := &fakeWallet{native: e18(5), balance: e18(3)}
	svc := newSessions(t, res, WithExecutor(testExecutor(w), w, owner))
	ctx := context.Background()

	sess, err := svc.Create(ctx, weth.Address, tokenB.Address)
	require.NoError(t, err)
	require.Equal(t, 0, sess.State().Balances.Source.Cmp(e18(5)), "native balance for the native leg")

	_, err = svc.Apply(ctx, sess.ID, Command{Type: CommandAmount, Side: swap.Source, Text: "1.5"})
	require.NoError(t, err)

	w.calls = nil
	out, err := svc.Swap(ctx, sess.ID)
	require.NoError(t, err)
	require.Equal(t, []string{"native_balance", "submit"}, w.calls)
	require.Equal(t, operation.NativeIn, out.Descriptor.Variant)
	require.Equal(t, "1500000000000000000", out.Descriptor.Value.String())
}
