package profile

import (
	"errors"
	"math/big"
	"time"

	nativecommon "socialfi/native/common"

	"socialfi/core/events"
	"socialfi/core/types"
)

var (
	errNilState          = errors.New("profile engine: state not configured")
	errProfileExists     = errors.New("profile engine: profile already exists")
	errProfileNotFound   = errors.New("profile engine: profile not found")
	errInvalidUsername   = errors.New("profile engine: invalid username")
	errUsernameTaken     = errors.New("profile engine: username already taken")
	errInvalidAmount     = errors.New("profile engine: amount must be positive")
	errSelfTip           = errors.New("profile engine: cannot tip self")
	errInsufficientFunds = errors.New("profile engine: insufficient funds")
)

const moduleName = "profile"

type engineState interface {
	UserProfileGet(owner [20]byte) (*UserProfile, bool, error)
	UserProfilePut(profile *UserProfile) error
	UserProfileUsernameClaim(username string, owner [20]byte) (bool, error)
	GetAccount(addr []byte) (*types.Account, error)
	PutAccount(addr []byte, account *types.Account) error
}

// Engine registers user profiles and settles direct tips between them.
type Engine struct {
	state   engineState
	emitter events.Emitter
	pauses  nativecommon.PauseView
	nowFn   func() int64
}

// NewEngine constructs a profile engine with default dependencies.
func NewEngine() *Engine {
	return &Engine{
		emitter: events.NoopEmitter{},
		nowFn: func() int64 {
			return time.Now().Unix()
		},
	}
}

// SetState configures the state backend used by the engine.
func (e *Engine) SetState(state engineState) { e.state = state }

// SetEmitter configures the event emitter used by the engine.
func (e *Engine) SetEmitter(emitter events.Emitter) {
	if emitter == nil {
		e.emitter = events.NoopEmitter{}
		return
	}
	e.emitter = emitter
}

// SetPauses wires the platform pause switches consulted before every call.
func (e *Engine) SetPauses(p nativecommon.PauseView) { e.pauses = p }

// SetNowFunc overrides the time source used for deterministic testing.
func (e *Engine) SetNowFunc(now func() int64) {
	if now == nil {
		e.nowFn = func() int64 { return time.Now().Unix() }
		return
	}
	e.nowFn = now
}

func (e *Engine) emit(evt *types.Event) {
	if e == nil || evt == nil || e.emitter == nil {
		return
	}
	e.emitter.Emit(WrapEvent(evt))
}

func ensureAccount(acc *types.Account) *types.Account {
	if acc == nil {
		return &types.Account{Balance: big.NewInt(0)}
	}
	if acc.Balance == nil {
		acc.Balance = big.NewInt(0)
	}
	return acc
}

// InitializeUser creates the profile record for an account. Usernames are
// case-sensitive and globally unique.
func (e *Engine) InitializeUser(owner [20]byte, username string) (*UserProfile, error) {
	if e == nil || e.state == nil {
		return nil, errNilState
	}
	if err := nativecommon.Guard(e.pauses, moduleName); err != nil {
		return nil, err
	}
	if !ValidUsername(username) {
		return nil, errInvalidUsername
	}
	if _, ok, err := e.state.UserProfileGet(owner); err != nil {
		return nil, err
	} else if ok {
		return nil, errProfileExists
	}
	claimed, err := e.state.UserProfileUsernameClaim(username, owner)
	if err != nil {
		return nil, err
	}
	if !claimed {
		return nil, errUsernameTaken
	}
	now := e.nowFn()
	prof := &UserProfile{
		Owner:        owner,
		Username:     username,
		ReferralCode: ReferralCodeFor(owner),
		CreatedAt:    now,
	}
	if err := e.state.UserProfilePut(prof); err != nil {
		return nil, err
	}
	e.emit(UserInitializedEvent(hexAddr(owner), username, now))
	return prof.Clone(), nil
}

// SendTip moves value from sender to recipient and bumps both tip counters.
// Both sides must hold a profile.
func (e *Engine) SendTip(sender, recipient [20]byte, amount uint64) error {
	if e == nil || e.state == nil {
		return errNilState
	}
	if err := nativecommon.Guard(e.pauses, moduleName); err != nil {
		return err
	}
	if amount == 0 {
		return errInvalidAmount
	}
	if sender == recipient {
		return errSelfTip
	}

	senderProf, ok, err := e.state.UserProfileGet(sender)
	if err != nil {
		return err
	}
	if !ok || senderProf == nil {
		return errProfileNotFound
	}
	recipientProf, ok, err := e.state.UserProfileGet(recipient)
	if err != nil {
		return err
	}
	if !ok || recipientProf == nil {
		return errProfileNotFound
	}

	sent, err := nativecommon.CheckedAdd(senderProf.TotalTipsSent, amount)
	if err != nil {
		return err
	}
	received, err := nativecommon.CheckedAdd(recipientProf.TotalTipsReceived, amount)
	if err != nil {
		return err
	}

	senderAccount, err := e.state.GetAccount(sender[:])
	if err != nil {
		return err
	}
	senderAccount = ensureAccount(senderAccount)
	value := new(big.Int).SetUint64(amount)
	if senderAccount.Balance.Cmp(value) < 0 {
		return errInsufficientFunds
	}
	recipientAccount, err := e.state.GetAccount(recipient[:])
	if err != nil {
		return err
	}
	recipientAccount = ensureAccount(recipientAccount)
	senderAccount.Balance = new(big.Int).Sub(senderAccount.Balance, value)
	recipientAccount.Balance = new(big.Int).Add(recipientAccount.Balance, value)
	if err := e.state.PutAccount(sender[:], senderAccount); err != nil {
		return err
	}
	if err := e.state.PutAccount(recipient[:], recipientAccount); err != nil {
		return err
	}

	senderProf.TotalTipsSent = sent
	recipientProf.TotalTipsReceived = received
	if err := e.state.UserProfilePut(senderProf); err != nil {
		return err
	}
	if err := e.state.UserProfilePut(recipientProf); err != nil {
		return err
	}

	e.emit(TipSentEvent(hexAddr(sender), hexAddr(recipient), amount, e.nowFn()))
	return nil
}

// Profile returns a copy of the profile record for an owner.
func (e *Engine) Profile(owner [20]byte) (*UserProfile, bool, error) {
	if e == nil || e.state == nil {
		return nil, false, errNilState
	}
	prof, ok, err := e.state.UserProfileGet(owner)
	if err != nil || !ok {
		return nil, ok, err
	}
	return prof.Clone(), true, nil
}
