package service

import (
	"context"
	"fmt"
	"log/slog"
	"math/big"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"

	"github.com/eliobricenov/uniswap-swapper/internal/executor"
	"github.com/eliobricenov/uniswap-swapper/internal/metrics"
	"github.com/eliobricenov/uniswap-swapper/internal/operation"
	"github.com/eliobricenov/uniswap-swapper/internal/swap"
	"github.com/eliobricenov/uniswap-swapper/pkg/uniswapv2"
)

// Session is one swap widget. All events reach its state machine through
// dispatch, in order.
type Session struct {
	ID      uuid.UUID
	Created time.Time
	machine *swap.Machine
}

// State returns the session's current form.
func (s *Session) State() *swap.State { return s.machine.State() }

// CommandType names a user action on a session.
type CommandType string

const (
	CommandAmount CommandType = "amount"
	CommandFlip   CommandType = "flip"
	CommandReset  CommandType = "reset"
	CommandReload CommandType = "reload"
	// CommandSelect resets the form and loads a new pair.
	CommandSelect CommandType = "select"
)

// Command is one user action. Side and Text apply to CommandAmount, Src and
// Dst to CommandSelect.
type Command struct {
	Type CommandType
	Side swap.Side
	Text string
	Src  common.Address
	Dst  common.Address
}

// SwapResult is the submitted descriptor and the settlement handle.
type SwapResult struct {
	Descriptor *operation.Descriptor
	Result     *executor.Result
}

// SessionService keeps widget sessions in memory and routes commands to
// their state machines.
type SessionService struct {
	BaseService
	reserves    ReserveProvider
	tokens      *TokenRegistry
	slippageBps int64
	now         func() time.Time
	metrics     *metrics.SwapMetrics

	// Set only when a signer is configured.
	executor *executor.Executor
	balances executor.BalanceChecker
	owner    common.Address

	mu       sync.RWMutex
	sessions map[uuid.UUID]*Session
}

// SessionOption configures a SessionService.
type SessionOption func(*SessionService)

// WithExecutor enables swap submission and balance display for owner.
func WithExecutor(exec *executor.Executor, balances executor.BalanceChecker, owner common.Address) SessionOption {
	return func(s *SessionService) {
		s.executor = exec
		s.balances = balances
		s.owner = owner
	}
}

// WithClock replaces time.Now, which stamps sessions and swap deadlines.
func WithClock(now func() time.Time) SessionOption {
	return func(s *SessionService) { s.now = now }
}

// WithSessionMetrics records session events, pool loads and active sessions.
func WithSessionMetrics(m *metrics.SwapMetrics) SessionOption {
	return func(s *SessionService) { s.metrics = m }
}

// NewSessionService constructs a SessionService. Swap submission stays
// disabled unless WithExecutor is given.
func NewSessionService(logger *slog.Logger, reserves ReserveProvider, tokens *TokenRegistry, slippageBps int64, opts ...SessionOption) *SessionService {
	s := &SessionService{
		BaseService: BaseService{logger: logger},
		reserves:    reserves,
		tokens:      tokens,
		slippageBps: slippageBps,
		now:         time.Now,
		sessions:    make(map[uuid.UUID]*Session),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SlippageBps is the tolerance applied to session swaps.
func (s *SessionService) SlippageBps() int64 { return s.slippageBps }

// CanSwap reports whether Swap can submit transactions.
func (s *SessionService) CanSwap() bool { return s.executor != nil }

// Create opens a session and loads the src/dst pool. The session is kept
// even if the load fails, so the caller can retry with a reload.
func (s *SessionService) Create(ctx context.Context, src, dst common.Address) (*Session, error) {
	a, b, err := resolvePair(s.tokens, src, dst)
	if err != nil {
		return nil, err
	}
	sess := &Session{ID: uuid.New(), Created: s.now(), machine: swap.NewMachine()}

	s.mu.Lock()
	s.sessions[sess.ID] = sess
	active := len(s.sessions)
	s.mu.Unlock()
	s.metrics.SetActiveSessions(active)
	s.logger.Debug("session created", "session", sess.ID.String(), "src", a.Symbol, "dst", b.Symbol)

	if _, err := s.load(ctx, sess, a, b); err != nil {
		return sess, err
	}
	return sess, nil
}

// Get returns ErrSessionNotFound for unknown ids.
func (s *SessionService) Get(id uuid.UUID) (*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return sess, nil
}

// Close drops a session.
func (s *SessionService) Close(id uuid.UUID) error {
	s.mu.Lock()
	_, ok := s.sessions[id]
	delete(s.sessions, id)
	active := len(s.sessions)
	s.mu.Unlock()
	if !ok {
		return ErrSessionNotFound
	}
	s.metrics.SetActiveSessions(active)
	return nil
}

// Apply runs one user command against a session and returns the new state.
func (s *SessionService) Apply(ctx context.Context, id uuid.UUID, cmd Command) (*swap.State, error) {
	sess, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	switch cmd.Type {
	case CommandAmount:
		return s.dispatch(sess, swap.AmountChanged{Side: cmd.Side, Text: cmd.Text}), nil
	case CommandFlip:
		return s.dispatch(sess, swap.FlipDirection{}), nil
	case CommandReset:
		return s.dispatch(sess, swap.Reset{}), nil
	case CommandReload:
		return s.reload(ctx, sess)
	case CommandSelect:
		a, b, err := resolvePair(s.tokens, cmd.Src, cmd.Dst)
		if err != nil {
			return nil, err
		}
		s.dispatch(sess, swap.Reset{})
		return s.load(ctx, sess, a, b)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownCommand, cmd.Type)
	}
}

// Swap submits the session's current trade. The returned handle is not fed
// back into the session.
func (s *SessionService) Swap(ctx context.Context, id uuid.UUID) (*SwapResult, error) {
	if s.executor == nil {
		return nil, ErrSwapDisabled
	}
	sess, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	st := sess.State()
	if !st.Quoted() {
		return nil, ErrNotQuoted
	}

	trade := st.Trade
	variant := operation.Select(trade.InputAmount.Asset, trade.OutputAmount.Asset)
	bounds, err := uniswapv2.AdjustedAmounts(trade, s.slippageBps)
	if err != nil {
		return nil, err
	}
	desc, err := operation.BuildDescriptor(trade, variant, bounds, s.owner, s.now())
	if err != nil {
		return nil, err
	}
	res, err := s.executor.Execute(ctx, desc, trade.InputAmount.Asset)
	if err != nil {
		s.logger.Warn("swap failed", "session", id.String(), "variant", variant.String(), "err", err)
		return nil, err
	}
	return &SwapResult{Descriptor: desc, Result: res}, nil
}

func (s *SessionService) dispatch(sess *Session, e swap.Event) *swap.State {
	s.metrics.ObserveSessionEvent(e.Kind())
	return sess.machine.Dispatch(e)
}

// load requests the a/b pool and delivers it tagged with that request.
func (s *SessionService) load(ctx context.Context, sess *Session, a, b uniswapv2.Asset) (*swap.State, error) {
	tag := swap.NewPairTag(a, b)
	s.dispatch(sess, swap.PoolRequested{Tag: tag})

	pair, err := s.reserves.FetchReserves(ctx, a, b)
	s.metrics.ObservePoolLoad(err)
	if err != nil {
		s.logger.Warn("pool load failed", "session", sess.ID.String(), "err", err)
		return sess.State(), fmt.Errorf("load pool: %w", err)
	}

	return s.dispatch(sess, swap.PoolLoaded{
		Tag:      tag,
		Source:   a,
		Target:   b,
		Pair:     pair,
		Balances: s.fetchBalances(ctx, a, b),
	}), nil
}

// reload refreshes reserves for the current pair and requotes the amount
// the user last typed.
func (s *SessionService) reload(ctx context.Context, sess *Session) (*swap.State, error) {
	prev := sess.State()
	if !prev.Loaded() {
		return prev, ErrPoolNotLoaded
	}
	src, dst := *prev.Source, *prev.Target
	st, err := s.load(ctx, sess, src, dst)
	if err != nil {
		return st, err
	}

	side, ok := editedSide(prev)
	if !ok {
		return st, nil
	}
	// Another command may have switched or reset the form while reserves
	// were in flight. Requote only the form this reload was issued for.
	tag := swap.NewPairTag(src, dst)
	text := prev.Amount(side)
	ev := swap.AmountChanged{Side: side, Text: text}
	next, applied := sess.machine.DispatchIf(func(cur *swap.State) bool {
		return cur.Requested == tag && cur.Loaded() &&
			cur.Source.Equal(src) && cur.Target.Equal(dst) &&
			cur.Amount(side) == text
	}, ev)
	if !applied {
		s.logger.Debug("reload superseded", "session", sess.ID.String())
		return next, nil
	}
	s.metrics.ObserveSessionEvent(ev.Kind())
	return next, nil
}

func editedSide(st *swap.State) (swap.Side, bool) {
	switch {
	case st.Trade != nil && st.Trade.Type == uniswapv2.ExactOutput:
		return swap.Target, true
	case st.Trade != nil:
		return swap.Source, true
	case st.SourceAmount != "" && st.TargetAmount == "":
		return swap.Source, true
	case st.TargetAmount != "" && st.SourceAmount == "":
		return swap.Target, true
	default:
		return swap.Source, false
	}
}

func (s *SessionService) fetchBalances(ctx context.Context, a, b uniswapv2.Asset) *swap.Balances {
	if s.balances == nil || s.owner == (common.Address{}) {
		return nil
	}
	ba, err := s.balanceOf(ctx, a)
	if err != nil {
		s.logger.Debug("balance unavailable", "token", a.Address.Hex(), "err", err)
		return nil
	}
	bb, err := s.balanceOf(ctx, b)
	if err != nil {
		s.logger.Debug("balance unavailable", "token", b.Address.Hex(), "err", err)
		return nil
	}
	return &swap.Balances{Source: ba, Target: bb}
}

func (s *SessionService) balanceOf(ctx context.Context, a uniswapv2.Asset) (*big.Int, error) {
	if uniswapv2.IsNative(a) {
		return s.balances.NativeBalance(ctx, s.owner)
	}
	return s.balances.Balance(ctx, a, s.owner)
}
