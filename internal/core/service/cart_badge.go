package service

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/digitalgoods/storefront/internal/core/domain"
	"github.com/digitalgoods/storefront/internal/core/ports"
	"github.com/digitalgoods/storefront/internal/metrics"
	"github.com/digitalgoods/storefront/internal/pkg/notify"
)

// CartBadge keeps the item count shown next to the cart link. Cart-changed
// signals and session changes invalidate it; a single worker re-fetches the
// cart, so a burst of signals collapses into one request.
type CartBadge struct {
	cart    ports.CartAPI
	session ports.SessionService
	changes *notify.Topic[domain.CartChanged]
	log     zerolog.Logger

	// OnUpdate, when set before Mount, is called after every refresh.
	OnUpdate func(count int)

	count atomic.Int64

	mu         sync.Mutex
	mounted    bool
	cartSub    *notify.Subscription
	sessionSub *notify.Subscription
	cancel     context.CancelFunc
	done       chan struct{}
}

func NewCartBadge(cart ports.CartAPI, session ports.SessionService, changes *notify.Topic[domain.CartChanged], log zerolog.Logger) *CartBadge {
	return &CartBadge{
		cart:    cart,
		session: session,
		changes: changes,
		log:     log.With().Str("component", "cart_badge").Logger(),
	}
}

// Count returns the last known number of items.
func (b *CartBadge) Count() int {
	return int(b.count.Load())
}

// Mount subscribes to cart and session changes and starts the refresh worker.
// Mounting an already mounted badge is a no-op.
func (b *CartBadge) Mount(ctx context.Context) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.mounted {
		return
	}

	kick := make(chan struct{}, 1)
	invalidate := func() {
		select {
		case kick <- struct{}{}:
		default:
		}
	}

	ctx, cancel := context.WithCancel(ctx)
	b.cancel = cancel
	b.done = make(chan struct{})
	b.cartSub = b.changes.Subscribe(func(domain.CartChanged) { invalidate() })
	b.sessionSub = b.session.Subscribe(func(domain.SessionState) { invalidate() })
	b.mounted = true
	metrics.CartListeners.Set(float64(b.changes.Len()))

	go b.run(ctx, kick, b.done)
	invalidate()
}

// Unmount stops the worker and drops both subscriptions.
func (b *CartBadge) Unmount() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.mounted {
		return
	}
	b.cartSub.Unsubscribe()
	b.sessionSub.Unsubscribe()
	b.cancel()
	<-b.done
	b.mounted = false
	metrics.CartListeners.Set(float64(b.changes.Len()))
}

func (b *CartBadge) run(ctx context.Context, kick <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	// Nothing conclusive can be shown until the session is known.
	select {
	case <-ctx.Done():
		return
	case <-b.session.Ready():
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-kick:
			b.refresh(ctx)
		}
	}
}

func (b *CartBadge) refresh(ctx context.Context) {
	count := 0
	if b.session.State().HasUser() {
		cart, err := b.cart.Get(ctx)
		switch {
		case err == nil:
			count = cart.TotalItems
		case domain.IsUnauthorized(err):
		default:
			if ctx.Err() == nil {
				b.log.Warn().Err(err).Msg("cart refresh failed")
			}
			return
		}
	}

	b.count.Store(int64(count))
	if b.OnUpdate != nil {
		b.OnUpdate(count)
	}
}
